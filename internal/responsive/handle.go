package responsive

import (
	"sync"

	"github.com/pedroaraujo20/thumbgo/internal/loader"
)

// RenderMode is declared explicitly by the caller rather than inferred
// from incidental attributes.
type RenderMode int

const (
	// RenderImage renders a plain image element.
	RenderImage RenderMode = iota
	// RenderBackground renders a container with a background image.
	RenderBackground
)

func (m RenderMode) String() string {
	switch m {
	case RenderBackground:
		return "background-container"
	default:
		return "plain-image"
	}
}

// Handle is the composite element handle: the engine measures through
// it, and an optional external observer is forwarded every attachment
// so both sides see the identical underlying element.
type Handle struct {
	mu       sync.Mutex
	target   Measurer
	external func(Measurer)
}

// NewHandle creates a Handle. external may be nil.
func NewHandle(external func(Measurer)) *Handle {
	return &Handle{external: external}
}

// Attach binds the underlying element. Passing nil detaches. The
// external observer, if any, is forwarded the same value.
func (h *Handle) Attach(m Measurer) {
	h.mu.Lock()
	h.target = m
	external := h.external
	h.mu.Unlock()
	if external != nil {
		external(m)
	}
}

// Box measures through the current attachment. Unattached handles
// report a zero box ("not ready").
func (h *Handle) Box() loader.Box {
	h.mu.Lock()
	target := h.target
	h.mu.Unlock()
	if target == nil {
		return loader.Box{}
	}
	return target.Box()
}
