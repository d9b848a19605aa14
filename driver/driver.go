// Package driver implements the page.Page surface on top of go-rod.
// All actionability waiting, retries and the DevTools transport are
// rod's; this package maps the surface contract (option bags, timeout
// semantics, events, rendezvous waits) onto rod calls.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/tabctl/page"
	"github.com/hazyhaar/tabctl/trace"
)

// DefaultTimeout bounds actions and queries unless overridden.
const DefaultTimeout = 30 * time.Second

// Config configures a Driver.
type Config struct {
	// Browser is the rod browser owning Page. Needed for popups and
	// download control; optional otherwise.
	Browser *rod.Browser

	// Page is the rod page to drive. Required.
	Page *rod.Page

	// PageID correlates trace entries; defaults to the target ID.
	PageID string

	// DownloadDir, when set, routes downloads into that directory and
	// enables Download.Path.
	DownloadDir string

	// Recorder receives operation trace entries. Optional.
	Recorder trace.Recorder

	Logger *slog.Logger
}

// Driver is a page.Page backed by one rod page. Treat a Driver as
// owned by a single logical caller; event handlers run on the event
// pump goroutine.
type Driver struct {
	brw    *rod.Browser
	rod    *rod.Page
	pageID string
	log    *slog.Logger
	rec    trace.Recorder
	events *page.Emitter

	mu                sync.Mutex
	closed            bool
	opener            page.Page
	defaultTimeout    time.Duration
	defaultNavTimeout time.Duration // 0 falls back to defaultTimeout
	viewport          page.ViewportSize
	extraHeaders      map[string]string
	emulatedMedia     string
	emulatedScheme    string
	exposed           map[string]bool
	workers           []page.Worker

	// Network bookkeeping for Request/Response collaborators.
	reqMu      sync.Mutex
	requests   map[proto.NetworkRequestID]*request
	webSockets map[proto.NetworkRequestID]*webSocket

	// Route table; guarded by routeMu. Hijacking starts lazily on the
	// first Route call.
	routeMu    sync.Mutex
	routes     []*routeEntry
	hijacker   *rod.HijackRouter
	hijackOnce sync.Once
	hijackErr  error

	// Download bookkeeping keyed by GUID.
	dlMu        sync.Mutex
	downloads   map[string]*download
	downloadDir string

	chooserOnce sync.Once

	pumpCtx    context.Context
	pumpCancel context.CancelFunc
}

// New wraps a rod page in a Driver and starts its event pump.
func New(cfg Config) (*Driver, error) {
	if cfg.Page == nil {
		return nil, fmt.Errorf("driver: nil rod page")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	pageID := cfg.PageID
	if pageID == "" {
		pageID = string(cfg.Page.TargetID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Driver{
		brw:            cfg.Browser,
		rod:            cfg.Page,
		pageID:         pageID,
		log:            cfg.Logger,
		rec:            cfg.Recorder,
		events:         page.NewEmitter(),
		defaultTimeout: DefaultTimeout,
		requests:       make(map[proto.NetworkRequestID]*request),
		downloads:      make(map[string]*download),
		downloadDir:    cfg.DownloadDir,
		pumpCtx:        ctx,
		pumpCancel:     cancel,
	}

	if d.downloadDir != "" {
		if err := d.enableDownloads(); err != nil {
			d.log.Warn("driver: download control unavailable", "error", err)
		}
	}

	// Worker targets only surface when auto-attach is on; best effort.
	err := proto.TargetSetAutoAttach{
		AutoAttach:             true,
		WaitForDebuggerOnStart: false,
		Flatten:                true,
	}.Call(d.rod)
	if err != nil {
		d.log.Debug("driver: worker auto-attach unavailable", "error", err)
	}

	go d.pumpEvents()
	d.watchPopups()
	return d, nil
}

// Rod exposes the underlying rod page for callers that need to step
// outside the surface. Prefer the Page methods.
func (d *Driver) Rod() *rod.Page { return d.rod }

var _ page.Page = (*Driver)(nil)

// ---- Lifecycle ----

// Close closes the tab. Closing twice is a no-op.
func (d *Driver) Close(ctx context.Context, opts ...*page.CloseOptions) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	o := first(opts)
	start := time.Now()
	var err error
	if o != nil && o.RunBeforeUnload != nil && *o.RunBeforeUnload {
		// Let beforeunload handlers run; the page may survive via a
		// dialog, so do not tear down the pump on error.
		err = proto.PageClose{}.Call(d.rod.Context(ctx))
	} else {
		err = d.rod.Context(ctx).Close()
	}
	d.record("close", "", start, err)

	d.pumpCancel()
	d.events.Emit(page.EventClose, page.Page(d))
	if err != nil {
		return fmt.Errorf("driver: close: %w", err)
	}
	return nil
}

// IsClosed reports whether Close was called or the target died.
func (d *Driver) IsClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Opener returns the page that opened this one as a popup, or nil.
func (d *Driver) Opener() page.Page {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opener
}

func (d *Driver) setOpener(p page.Page) {
	d.mu.Lock()
	d.opener = p
	d.mu.Unlock()
}

// BringToFront activates the tab.
func (d *Driver) BringToFront(ctx context.Context) error {
	start := time.Now()
	_, err := d.rod.Context(ctx).Activate()
	d.record("bringToFront", "", start, err)
	if err != nil {
		return fmt.Errorf("driver: bring to front: %w", err)
	}
	return nil
}

// Pause blocks until the tab closes or ctx is done. It resumes with nil
// on close and with the ctx error on cancellation.
func (d *Driver) Pause(ctx context.Context) error {
	if d.IsClosed() {
		return nil
	}
	closed := make(chan struct{})
	handler := func(interface{}) { close(closed) }
	d.events.On(page.EventClose, handler, handler)
	defer d.events.Off(page.EventClose, handler)

	select {
	case <-closed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ---- Defaults ----

// SetDefaultTimeout changes the bound applied to timeout-bounded
// operations when their option bag leaves Timeout unset. 0 disables.
func (d *Driver) SetDefaultTimeout(timeout time.Duration) {
	d.mu.Lock()
	d.defaultTimeout = timeout
	d.mu.Unlock()
}

// SetDefaultNavigationTimeout is SetDefaultTimeout for navigation
// operations only; it wins over the general default.
func (d *Driver) SetDefaultNavigationTimeout(timeout time.Duration) {
	d.mu.Lock()
	d.defaultNavTimeout = timeout
	d.mu.Unlock()
}

// effectiveTimeout resolves an option-bag timeout pointer: nil means
// the page default, 0 means unbounded.
func (d *Driver) effectiveTimeout(opt *time.Duration, nav bool) time.Duration {
	if opt != nil {
		return *opt
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if nav && d.defaultNavTimeout > 0 {
		return d.defaultNavTimeout
	}
	return d.defaultTimeout
}

// opCtx derives the context for one operation. The returned cancel
// must always be called.
func (d *Driver) opCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// wrapTimeout converts a deadline expiry caused by the operation bound
// into *page.TimeoutError; caller cancellation passes through.
func (d *Driver) wrapTimeout(err error, opCtx, callerCtx context.Context, op string, timeout time.Duration) error {
	if err == nil {
		return nil
	}
	if callerCtx.Err() != nil {
		return callerCtx.Err()
	}
	if opCtx.Err() == context.DeadlineExceeded {
		return &page.TimeoutError{Op: op, Timeout: timeout}
	}
	return err
}

func (d *Driver) record(op, target string, start time.Time, err error) {
	trace.Record(d.rec, d.log, d.pageID, op, target, start, err)
}

// first returns the first option bag or nil; omitting the bag from a
// variadic call is identical to a zero-valued bag, so callers guard
// field reads with nil checks either way.
func first[T any](opts []*T) *T {
	if len(opts) == 0 || opts[0] == nil {
		return nil
	}
	return opts[0]
}
