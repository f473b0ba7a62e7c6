// Package loader orchestrates progressive thumbnail resolution: an
// optional synchronous low-res placeholder commit followed by an
// asynchronous full-resolution preload, committed only on success.
package loader

import (
	"context"
	"sync"

	"github.com/pedroaraujo20/thumbgo/internal/capability"
	"github.com/pedroaraujo20/thumbgo/internal/preload"
	"github.com/pedroaraujo20/thumbgo/internal/sizing"
	"github.com/pedroaraujo20/thumbgo/internal/thumburl"
)

// DefaultLowResQuality is the quality used for placeholder requests
// when the caller does not override it.
const DefaultLowResQuality = 30

// Box is a measured rendered size in CSS pixels.
type Box struct {
	Width  float64
	Height float64
}

// Params carries everything one resolution pass needs. Box is measured
// fresh per pass; Width/Height, when positive, override the measurement.
type Params struct {
	Source string
	Box    Box

	Width   int
	Height  int
	Fit     string
	Gravity string
	Quality int
	Sharpen string

	Density float64 // 0 = loader default
	Step    int     // 0 = sizing.DefaultStep

	LowResWidth   int // 0 = no placeholder phase
	LowResQuality int // 0 = DefaultLowResQuality
}

// Fetcher preloads a URL off-screen and reports whether it decoded.
// *preload.Preloader satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*preload.Result, error)
}

// Sink receives each committed display URL. It is called with the
// loader's lock held and must not call back into the loader.
type Sink func(url string)

// Config assembles a Loader's collaborators.
type Config struct {
	Resolver *thumburl.Resolver
	Fetcher  Fetcher
	Sink     Sink

	// WebPSupported overrides the process-wide capability probe.
	WebPSupported func() bool
	// DefaultDensity applies when a pass does not specify one. 0 = 1.
	DefaultDensity float64
	// Logf, when set, receives verbose tracing.
	Logf func(format string, args ...any)
}

// Loader runs resolution passes for one displayed image slot. The slot
// only ever moves to a URL whose preload completed, except for the
// explicit placeholder phase on the first pass.
type Loader struct {
	resolver *thumburl.Resolver
	fetcher  Fetcher
	sink     Sink
	webp     func() bool
	density  float64
	logf     func(string, ...any)

	mu         sync.Mutex
	displayed  string
	generation uint64
	closed     bool
	inflight   sync.WaitGroup
}

// New creates a Loader. Resolver and Fetcher are required.
func New(cfg Config) *Loader {
	l := &Loader{
		resolver: cfg.Resolver,
		fetcher:  cfg.Fetcher,
		sink:     cfg.Sink,
		webp:     cfg.WebPSupported,
		density:  cfg.DefaultDensity,
		logf:     cfg.Logf,
	}
	if l.webp == nil {
		l.webp = capability.WebPSupported
	}
	if l.density <= 0 {
		l.density = 1
	}
	if l.logf == nil {
		l.logf = func(string, ...any) {}
	}
	return l
}

// Displayed returns the currently committed URL, or "" before the
// first commit.
func (l *Loader) Displayed() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.displayed
}

// Resolve runs one resolution pass. If the target size cannot be
// determined (unmeasured box and no overrides) nothing happens. The
// full-resolution preload runs in a goroutine; only the most recently
// started pass may commit its result.
func (l *Loader) Resolve(ctx context.Context, p Params) {
	density := p.Density
	if density <= 0 {
		density = l.density
	}

	w := float64(p.Width)
	if w <= 0 {
		w = p.Box.Width
	}
	h := float64(p.Height)
	if h <= 0 {
		h = p.Box.Height
	}

	targetW := sizing.Target(w, density, p.Step)
	targetH := sizing.Target(h, density, p.Step)
	if targetW == 0 || targetH == 0 {
		l.logf("skip %s: box not measurable", p.Source)
		return
	}

	webp := l.webp()
	full := l.resolver.Resolve(p.Source, thumburl.Options{
		Fit:     p.Fit,
		Gravity: p.Gravity,
		Width:   targetW,
		Height:  targetH,
		Quality: p.Quality,
		Sharpen: p.Sharpen,
		WebP:    webp,
	})

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.generation++
	gen := l.generation
	first := l.displayed == ""
	l.mu.Unlock()

	// Placeholder phase: first pass only, committed synchronously so
	// something renders immediately. Height is left unbounded; the
	// placeholder's job is to occupy the slot, not to match exactly.
	if first && p.LowResWidth > 0 {
		lowQ := p.LowResQuality
		if lowQ <= 0 {
			lowQ = DefaultLowResQuality
		}
		low := l.resolver.Resolve(p.Source, thumburl.Options{
			Fit:     p.Fit,
			Gravity: p.Gravity,
			Width:   p.LowResWidth,
			Quality: lowQ,
			Sharpen: p.Sharpen,
			WebP:    webp,
		})
		l.commit(gen, low)
	}

	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		res, err := l.fetcher.Fetch(ctx, full)
		if err != nil {
			// Best-effort: the previously displayed URL stays.
			l.logf("preload failed for %s: %v", full, err)
			return
		}
		l.logf("preloaded %s (%s %dx%d)", full, res.Format, res.Width, res.Height)
		l.commit(gen, full)
	}()
}

// commit publishes url as the displayed URL unless the loader closed or
// a newer pass started since gen.
func (l *Loader) commit(gen uint64, url string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.generation {
		return
	}
	l.displayed = url
	if l.sink != nil {
		l.sink(url)
	}
}

// Wait blocks until all in-flight preloads settle. Mainly for callers
// that want a synchronous pass (CLI, tests).
func (l *Loader) Wait() {
	l.inflight.Wait()
}

// Close prevents any further commit and waits out in-flight preloads.
// After Close returns, the sink will not be called again. Idempotent.
func (l *Loader) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.inflight.Wait()
}
