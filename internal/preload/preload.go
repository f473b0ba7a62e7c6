// Package preload fetches and fully decodes images off-screen, so
// callers only ever display URLs whose bytes are known good.
package preload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxBodyBytes caps how much of a response we will buffer. Thumbnails
// are small; anything past this is a misbehaving upstream.
const maxBodyBytes = 32 << 20

// Result describes one successfully preloaded image.
type Result struct {
	URL    string
	Format string // "jpeg", "png", "webp", ...
	Width  int
	Height int
	Size   int64 // encoded bytes
	Image  image.Image
}

// Preloader fetches image URLs and verifies they decode. Completed
// results are cached in-process keyed by URL, so repeat passes over an
// unchanged box skip the network entirely.
type Preloader struct {
	client *http.Client
	cache  *cache
}

// New returns a Preloader using the given HTTP client, or a default
// client with a 30s timeout when client is nil.
func New(client *http.Client) *Preloader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Preloader{
		client: client,
		cache:  newCache(),
	}
}

// Fetch downloads url and decodes it completely. It returns an error
// for any network, status or decode failure; callers treat all of them
// as "this pass produced nothing" (the previously displayed image stays).
func (p *Preloader) Fetch(ctx context.Context, url string) (*Result, error) {
	if r, ok := p.cache.get(url); ok {
		return r, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	// Header parse for format and dimensions, then a full decode:
	// a parsable header over truncated data must not count as loaded.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode header %s: %w", url, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}

	r := &Result{
		URL:    url,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   int64(len(data)),
		Image:  img,
	}
	p.cache.put(url, r)
	return r, nil
}
