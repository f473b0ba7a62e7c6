package responsive

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pedroaraujo20/thumbgo/internal/loader"
	"github.com/pedroaraujo20/thumbgo/internal/preload"
	"github.com/pedroaraujo20/thumbgo/internal/thumburl"
)

const testSrc = "https://ik.imagekit.io/avantstay/photos/a.jpg"

type fetchFunc func(ctx context.Context, url string) (*preload.Result, error)

func (f fetchFunc) Fetch(ctx context.Context, url string) (*preload.Result, error) {
	return f(ctx, url)
}

// boxStub is a fake host element with an adjustable rendered box.
type boxStub struct {
	mu  sync.Mutex
	box loader.Box
}

func (s *boxStub) Box() loader.Box {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.box
}

func (s *boxStub) resize(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.box = loader.Box{Width: w, Height: h}
}

// fakeNotifier lets tests fire resize events by hand.
type fakeNotifier struct {
	mu        sync.Mutex
	fn        func()
	cancelled bool
}

func (n *fakeNotifier) Subscribe(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fn = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.fn = nil
		n.cancelled = true
	}
}

func (n *fakeNotifier) fire() {
	n.mu.Lock()
	fn := n.fn
	n.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type commitLog struct {
	mu   sync.Mutex
	urls []string
}

func (c *commitLog) sink(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls = append(c.urls, url)
}

func (c *commitLog) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.urls...)
}

func newTestBinding(t *testing.T, stub *boxStub, notifier Notifier, passes *atomic.Int32, log *commitLog) *Binding {
	t.Helper()
	l := loader.New(loader.Config{
		Resolver: thumburl.New(),
		Fetcher: fetchFunc(func(ctx context.Context, url string) (*preload.Result, error) {
			if passes != nil {
				passes.Add(1)
			}
			return &preload.Result{URL: url, Format: "jpeg"}, nil
		}),
		Sink:          log.sink,
		WebPSupported: func() bool { return true },
	})
	return Bind(context.Background(), Config{
		Loader:   l,
		Handle:   newAttachedHandle(stub),
		Notifier: notifier,
		Params:   loader.Params{Source: testSrc},
		Window:   20 * time.Millisecond,
	})
}

func newAttachedHandle(m Measurer) *Handle {
	h := NewHandle(nil)
	h.Attach(m)
	return h
}

func TestBind_InitialPassUsesCurrentBox(t *testing.T) {
	stub := &boxStub{}
	stub.resize(400, 300)
	log := &commitLog{}

	b := Bind(context.Background(), Config{
		Loader: loader.New(loader.Config{
			Resolver: thumburl.New(),
			Fetcher: fetchFunc(func(ctx context.Context, url string) (*preload.Result, error) {
				return &preload.Result{URL: url}, nil
			}),
			Sink:          log.sink,
			WebPSupported: func() bool { return true },
		}),
		Handle: newAttachedHandle(stub),
		Params: loader.Params{Source: testSrc},
	})
	defer b.Close()

	waitFor(t, func() bool { return len(log.all()) == 1 })
	if got := log.all()[0]; !strings.Contains(got, "width=400") {
		t.Errorf("initial pass URL = %q, want measured width", got)
	}
}

func TestBind_ResizeBurstCollapsesToOnePass(t *testing.T) {
	stub := &boxStub{}
	stub.resize(400, 300)
	notifier := &fakeNotifier{}
	var passes atomic.Int32
	log := &commitLog{}

	b := newTestBinding(t, stub, notifier, &passes, log)
	defer b.Close()

	waitFor(t, func() bool { return passes.Load() == 1 }) // initial pass

	for i := 0; i < 5; i++ {
		notifier.fire()
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	if got := passes.Load(); got != 2 {
		t.Errorf("passes = %d, want 2 (initial + one debounced)", got)
	}
}

func TestBind_ResizeRemeasuresFresh(t *testing.T) {
	stub := &boxStub{}
	stub.resize(400, 300)
	notifier := &fakeNotifier{}
	log := &commitLog{}

	b := newTestBinding(t, stub, notifier, nil, log)
	defer b.Close()

	waitFor(t, func() bool { return len(log.all()) == 1 })

	stub.resize(700, 500)
	notifier.fire()
	waitFor(t, func() bool { return len(log.all()) == 2 })

	if got := log.all()[1]; !strings.Contains(got, "width=700") {
		t.Errorf("resize pass URL = %q, want re-measured width", got)
	}
}

func TestClose_RemovesSubscriptionAndSilences(t *testing.T) {
	stub := &boxStub{}
	stub.resize(400, 300)
	notifier := &fakeNotifier{}
	var passes atomic.Int32
	log := &commitLog{}

	b := newTestBinding(t, stub, notifier, &passes, log)
	waitFor(t, func() bool { return passes.Load() == 1 })

	notifier.fire() // pending in the debounce window
	b.Close()

	time.Sleep(80 * time.Millisecond)
	if got := passes.Load(); got != 1 {
		t.Errorf("passes after close = %d, want 1", got)
	}
	notifier.mu.Lock()
	cancelled := notifier.cancelled
	notifier.mu.Unlock()
	if !cancelled {
		t.Error("subscription not cancelled on close")
	}

	b.Close() // idempotent
}

func TestHandle_ForwardsToExternalObserver(t *testing.T) {
	var forwarded Measurer
	h := NewHandle(func(m Measurer) { forwarded = m })

	stub := &boxStub{}
	stub.resize(123, 45)
	h.Attach(stub)

	if forwarded != Measurer(stub) {
		t.Fatal("external observer did not receive the same element")
	}
	if got := h.Box(); got.Width != 123 || got.Height != 45 {
		t.Errorf("Box() = %+v", got)
	}
}

func TestHandle_UnattachedIsNotReady(t *testing.T) {
	h := NewHandle(nil)
	if got := h.Box(); got.Width != 0 || got.Height != 0 {
		t.Errorf("unattached Box() = %+v, want zero", got)
	}
}

func TestRenderMode_Strings(t *testing.T) {
	if RenderImage.String() != "plain-image" {
		t.Errorf("RenderImage = %q", RenderImage.String())
	}
	if RenderBackground.String() != "background-container" {
		t.Errorf("RenderBackground = %q", RenderBackground.String())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
