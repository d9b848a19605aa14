package page

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitterFIFOWithinKind(t *testing.T) {
	e := NewEmitter()
	var order []int

	h1 := func(v interface{}) { order = append(order, 1) }
	h2 := func(v interface{}) { order = append(order, 2) }
	h3 := func(v interface{}) { order = append(order, 3) }
	e.On(EventConsole, h1, h1)
	e.On(EventConsole, h2, h2)
	e.On(EventConsole, h3, h3)

	e.Emit(EventConsole, "msg")

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("delivery order = %v, want [1 2 3]", order)
	}
}

func TestEmitterOffRemovesByIdentity(t *testing.T) {
	e := NewEmitter()
	var aCalls, bCalls int

	a := func(v interface{}) { aCalls++ }
	b := func(v interface{}) { bCalls++ }
	e.On(EventLoad, a, a)
	e.On(EventLoad, b, b)

	e.Off(EventLoad, a)
	e.Emit(EventLoad, nil)

	if aCalls != 0 {
		t.Errorf("removed handler was called %d times", aCalls)
	}
	if bCalls != 1 {
		t.Errorf("remaining handler called %d times, want 1", bCalls)
	}
	if n := e.ListenerCount(EventLoad); n != 1 {
		t.Errorf("listener count = %d, want 1", n)
	}
}

func TestEmitterOffUnknownHandlerIsNoop(t *testing.T) {
	e := NewEmitter()
	h := func(v interface{}) {}
	e.Off(EventClose, h) // never added
	if n := e.ListenerCount(EventClose); n != 0 {
		t.Errorf("listener count = %d", n)
	}
}

func TestWaitReceivesEventFiredByCallback(t *testing.T) {
	e := NewEmitter()

	v, err := e.Wait(context.Background(), EventResponse, "waitForResponse", nil, time.Second, func() error {
		// The waiter must already be armed when the callback runs.
		e.Emit(EventResponse, "resp-1")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if v != "resp-1" {
		t.Fatalf("got %v", v)
	}
}

func TestWaitPredicateFirstMatchWins(t *testing.T) {
	e := NewEmitter()

	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(10 * time.Millisecond)
		e.Emit(EventRequest, "skip")
		e.Emit(EventRequest, "match-1")
		e.Emit(EventRequest, "match-2")
	}()

	pred := func(v interface{}) bool { return v != "skip" }
	v, err := e.Wait(context.Background(), EventRequest, "waitForRequest", pred, time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v != "match-1" {
		t.Fatalf("got %v, want match-1", v)
	}
	<-done
}

func TestWaitTimeout(t *testing.T) {
	e := NewEmitter()

	_, err := e.Wait(context.Background(), EventDownload, "waitForDownload", nil, 20*time.Millisecond, nil)
	if !IsTimeout(err) {
		t.Fatalf("err = %v, want *TimeoutError", err)
	}
	var te *TimeoutError
	if !errors.As(err, &te) || te.Op != "waitForDownload" {
		t.Fatalf("timeout error op = %v", err)
	}
}

func TestWaitCallbackErrorUnwindsWaiter(t *testing.T) {
	e := NewEmitter()
	boom := errors.New("boom")

	_, err := e.Wait(context.Background(), EventPopup, "waitForPopup", nil, time.Second, func() error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	e.mu.Lock()
	n := len(e.waiters[EventPopup])
	e.mu.Unlock()
	if n != 0 {
		t.Fatalf("waiter leaked: %d armed", n)
	}
}

func TestWaitContextCancel(t *testing.T) {
	e := NewEmitter()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := e.Wait(ctx, EventWorker, "waitForWorker", nil, 0, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
