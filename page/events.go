package page

import (
	"context"
	"reflect"
	"sync"
	"time"
)

// Event kinds dispatched by a Page.
const (
	EventClose            = "close"
	EventConsole          = "console"
	EventCrash            = "crash"
	EventDialog           = "dialog"
	EventDOMContentLoaded = "domcontentloaded"
	EventDownload         = "download"
	EventFileChooser      = "filechooser"
	EventFrameAttached    = "frameattached"
	EventFrameDetached    = "framedetached"
	EventFrameNavigated   = "framenavigated"
	EventLoad             = "load"
	EventPageError        = "pageerror"
	EventPopup            = "popup"
	EventRequest          = "request"
	EventRequestFailed    = "requestfailed"
	EventRequestFinished  = "requestfinished"
	EventResponse         = "response"
	EventWebSocket        = "websocket"
	EventWorker           = "worker"
)

type listener struct {
	id uintptr
	fn func(interface{})
}

type waiter struct {
	pred func(interface{}) bool
	ch   chan interface{}
}

// Emitter is a multicast event dispatcher keyed by event kind. Handlers
// for one kind are notified in registration order (FIFO); there is no
// ordering guarantee across kinds. Removal is by handler identity.
//
// Emitter also backs the WaitForX rendezvous: a waiter armed via Wait
// receives the first event of its kind that satisfies its predicate.
//
// The zero value is not usable; call NewEmitter.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]listener
	waiters   map[string][]*waiter
}

// NewEmitter creates an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{
		listeners: make(map[string][]listener),
		waiters:   make(map[string][]*waiter),
	}
}

// On registers handler for kind. The handler argument is only used for
// identity (so Off can find it); fn is the adapter actually invoked.
// Two closures created from the same function literal share an
// identity, matching the remove-by-reference contract closely enough
// for practical use.
func (e *Emitter) On(kind string, handler interface{}, fn func(interface{})) {
	id := reflect.ValueOf(handler).Pointer()
	e.mu.Lock()
	e.listeners[kind] = append(e.listeners[kind], listener{id: id, fn: fn})
	e.mu.Unlock()
}

// Off removes the first registration of handler for kind. Removing a
// handler that was never added is a no-op.
func (e *Emitter) Off(kind string, handler interface{}) {
	id := reflect.ValueOf(handler).Pointer()
	e.mu.Lock()
	defer e.mu.Unlock()
	ls := e.listeners[kind]
	for i, l := range ls {
		if l.id == id {
			e.listeners[kind] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Emit delivers v to every handler registered for kind, in order, then
// to every armed waiter whose predicate accepts v. Handlers run on the
// calling goroutine.
func (e *Emitter) Emit(kind string, v interface{}) {
	e.mu.Lock()
	ls := make([]listener, len(e.listeners[kind]))
	copy(ls, e.listeners[kind])

	var matched []*waiter
	remaining := e.waiters[kind][:0]
	for _, w := range e.waiters[kind] {
		if w.pred == nil || w.pred(v) {
			matched = append(matched, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	e.waiters[kind] = remaining
	e.mu.Unlock()

	for _, l := range ls {
		l.fn(v)
	}
	for _, w := range matched {
		w.ch <- v // buffered, never blocks
	}
}

// ListenerCount returns the number of handlers registered for kind.
func (e *Emitter) ListenerCount(kind string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[kind])
}

// Wait arms a waiter for kind, invokes callback on the calling
// goroutine, then blocks until a matching event arrives, the timeout
// elapses (*TimeoutError), or ctx is done. The waiter is armed before
// callback runs so events fired synchronously by the callback are not
// missed. A timeout of 0 disables the bound.
func (e *Emitter) Wait(ctx context.Context, kind, op string, pred func(interface{}) bool, timeout time.Duration, callback func() error) (interface{}, error) {
	w := &waiter{pred: pred, ch: make(chan interface{}, 1)}
	e.mu.Lock()
	e.waiters[kind] = append(e.waiters[kind], w)
	e.mu.Unlock()

	if callback != nil {
		if err := callback(); err != nil {
			e.removeWaiter(kind, w)
			return nil, err
		}
	}

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case v := <-w.ch:
		return v, nil
	case <-timeoutCh:
		e.removeWaiter(kind, w)
		return nil, &TimeoutError{Op: op, Timeout: timeout}
	case <-ctx.Done():
		e.removeWaiter(kind, w)
		return nil, ctx.Err()
	}
}

func (e *Emitter) removeWaiter(kind string, target *waiter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ws := e.waiters[kind]
	for i, w := range ws {
		if w == target {
			e.waiters[kind] = append(ws[:i:i], ws[i+1:]...)
			return
		}
	}
}
