// Package capability detects, once per process, whether WebP images can
// be decoded by the current runtime.
package capability

import (
	"bytes"
	"encoding/base64"
	"sync"

	"golang.org/x/image/webp"
)

// sampleB64 is a 2x2 lossy WebP. Successful decode at height 2 signals
// support; any decode failure signals non-support.
const sampleB64 = "UklGRjoAAABXRUJQVlA4IC4AAACyAgCdASoCAAIALmk0mk0iIiIiIgBoSygABc6WWgAA/veff/0PP8bA//LwYAAA"

const supportedHeight = 2

var (
	once      sync.Once
	supported bool
)

// WebPSupported reports whether the process can decode WebP. The probe
// runs on the first call only; every later call returns the memoized
// result. Decode errors are treated as "unsupported", never propagated.
func WebPSupported() bool {
	once.Do(func() {
		supported = probe(Sample())
	})
	return supported
}

func probe(sample []byte) bool {
	cfg, err := webp.DecodeConfig(bytes.NewReader(sample))
	if err != nil {
		return false
	}
	return cfg.Height == supportedHeight
}

// Sample returns the embedded probe image bytes.
func Sample() []byte {
	b, err := base64.StdEncoding.DecodeString(sampleB64)
	if err != nil {
		// The sample is a compile-time constant; a bad decode means a
		// broken build, not a runtime condition.
		return nil
	}
	return b
}
