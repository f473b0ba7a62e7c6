// Package responsive ties a measurable host element to the progressive
// loader: one resolution pass on bind, debounced passes on resize, and
// teardown that guarantees silence afterwards.
package responsive

import (
	"context"
	"sync"
	"time"

	"github.com/pedroaraujo20/thumbgo/internal/debounce"
	"github.com/pedroaraujo20/thumbgo/internal/loader"
)

// DefaultWindow is the resize quiescence window: a burst of resize
// events collapses into one pass this long after the last event.
const DefaultWindow = 200 * time.Millisecond

// Measurer exposes the current rendered box of the host element.
// A zero box means "not laid out yet" and is a valid state.
type Measurer interface {
	Box() loader.Box
}

// Notifier delivers viewport resize notifications. Subscribe returns a
// cancel function that removes the subscription.
type Notifier interface {
	Subscribe(fn func()) (cancel func())
}

// NotifierFunc adapts a plain subscribe function to Notifier.
type NotifierFunc func(fn func()) (cancel func())

func (f NotifierFunc) Subscribe(fn func()) func() { return f(fn) }

// Config assembles a Binding.
type Config struct {
	Loader   *loader.Loader
	Handle   *Handle
	Notifier Notifier // nil = no resize re-resolution
	Params   loader.Params
	Mode     RenderMode
	Window   time.Duration // 0 = DefaultWindow
}

// Binding runs resolution passes against the element attached to its
// Handle. Params.Box is ignored; the box is measured fresh each pass.
type Binding struct {
	loader *loader.Loader
	handle *Handle
	params loader.Params
	mode   RenderMode
	ctx    context.Context

	deb    *debounce.Debouncer
	cancel func()

	mu     sync.Mutex
	closed bool
}

// Bind subscribes to resize notifications and runs the initial
// resolution pass with the current measurement. The capability probe is
// awaited inside the pass itself (memoized after the first).
func Bind(ctx context.Context, cfg Config) *Binding {
	window := cfg.Window
	if window <= 0 {
		window = DefaultWindow
	}
	b := &Binding{
		loader: cfg.Loader,
		handle: cfg.Handle,
		params: cfg.Params,
		mode:   cfg.Mode,
		ctx:    ctx,
	}
	b.deb = debounce.New(window, b.pass)
	if cfg.Notifier != nil {
		b.cancel = cfg.Notifier.Subscribe(b.deb.Trigger)
	}
	b.pass()
	return b
}

// Mode reports the caller-declared rendering mode. The engine carries
// it opaquely; it never affects resolution.
func (b *Binding) Mode() RenderMode {
	return b.mode
}

// pass runs one resolution with a fresh measurement. The closed check
// covers the race between an in-flight debounce timer and Close.
func (b *Binding) pass() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	p := b.params
	p.Box = b.handle.Box()
	b.loader.Resolve(b.ctx, p)
}

// Close removes the resize subscription, cancels any pending debounced
// pass and closes the loader. No pass or commit happens afterwards.
// Idempotent.
func (b *Binding) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
	}
	b.deb.Stop()
	b.loader.Close()
}
