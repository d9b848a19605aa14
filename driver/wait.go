package driver

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/tabctl/page"
)

// WaitForClose runs callback and blocks until this page closes.
func (d *Driver) WaitForClose(ctx context.Context, callback func() error, opts ...*page.WaitForCloseOptions) (page.Page, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	v, err := d.events.Wait(ctx, page.EventClose, "waitForClose", nil, d.effectiveTimeout(timeoutOpt, false), callback)
	if err != nil {
		return nil, err
	}
	return v.(page.Page), nil
}

// WaitForConsoleMessage runs callback and blocks until a console
// message, optionally filtered by the option predicate, arrives.
func (d *Driver) WaitForConsoleMessage(ctx context.Context, callback func() error, opts ...*page.WaitForConsoleMessageOptions) (page.ConsoleMessage, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	var pred func(interface{}) bool
	if o != nil {
		timeoutOpt = o.Timeout
		if o.Predicate != nil {
			p := o.Predicate
			pred = func(v interface{}) bool { return p(v.(page.ConsoleMessage)) }
		}
	}
	v, err := d.events.Wait(ctx, page.EventConsole, "waitForConsoleMessage", pred, d.effectiveTimeout(timeoutOpt, false), callback)
	if err != nil {
		return nil, err
	}
	return v.(page.ConsoleMessage), nil
}

// WaitForDownload runs callback and blocks until a download starts.
func (d *Driver) WaitForDownload(ctx context.Context, callback func() error, opts ...*page.WaitForDownloadOptions) (page.Download, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	var pred func(interface{}) bool
	if o != nil {
		timeoutOpt = o.Timeout
		if o.Predicate != nil {
			p := o.Predicate
			pred = func(v interface{}) bool { return p(v.(page.Download)) }
		}
	}
	v, err := d.events.Wait(ctx, page.EventDownload, "waitForDownload", pred, d.effectiveTimeout(timeoutOpt, false), callback)
	if err != nil {
		return nil, err
	}
	return v.(page.Download), nil
}

// WaitForFileChooser runs callback and blocks until the page opens a
// file chooser. Chooser interception is enabled as a side effect.
func (d *Driver) WaitForFileChooser(ctx context.Context, callback func() error, opts ...*page.WaitForFileChooserOptions) (page.FileChooser, error) {
	d.enableFileChooserInterception()
	o := first(opts)
	var timeoutOpt *time.Duration
	var pred func(interface{}) bool
	if o != nil {
		timeoutOpt = o.Timeout
		if o.Predicate != nil {
			p := o.Predicate
			pred = func(v interface{}) bool { return p(v.(page.FileChooser)) }
		}
	}
	v, err := d.events.Wait(ctx, page.EventFileChooser, "waitForFileChooser", pred, d.effectiveTimeout(timeoutOpt, false), callback)
	if err != nil {
		return nil, err
	}
	return v.(page.FileChooser), nil
}

// WaitForPopup runs callback and blocks until this page opens a popup.
func (d *Driver) WaitForPopup(ctx context.Context, callback func() error, opts ...*page.WaitForPopupOptions) (page.Page, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	var pred func(interface{}) bool
	if o != nil {
		timeoutOpt = o.Timeout
		if o.Predicate != nil {
			p := o.Predicate
			pred = func(v interface{}) bool { return p(v.(page.Page)) }
		}
	}
	v, err := d.events.Wait(ctx, page.EventPopup, "waitForPopup", pred, d.effectiveTimeout(timeoutOpt, false), callback)
	if err != nil {
		return nil, err
	}
	return v.(page.Page), nil
}

// WaitForRequest runs callback and blocks until a request whose URL
// matches urlOrPredicate is issued.
func (d *Driver) WaitForRequest(ctx context.Context, urlOrPredicate interface{}, callback func() error, opts ...*page.WaitForRequestOptions) (page.Request, error) {
	pred, err := requestPredicate(urlOrPredicate)
	if err != nil {
		return nil, err
	}
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	v, err := d.events.Wait(ctx, page.EventRequest, "waitForRequest", pred, d.effectiveTimeout(timeoutOpt, false), callback)
	if err != nil {
		return nil, err
	}
	return v.(page.Request), nil
}

// WaitForResponse runs callback and blocks until a response whose URL
// matches urlOrPredicate arrives.
func (d *Driver) WaitForResponse(ctx context.Context, urlOrPredicate interface{}, callback func() error, opts ...*page.WaitForResponseOptions) (page.Response, error) {
	pred, err := responsePredicate(urlOrPredicate)
	if err != nil {
		return nil, err
	}
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	v, err := d.events.Wait(ctx, page.EventResponse, "waitForResponse", pred, d.effectiveTimeout(timeoutOpt, false), callback)
	if err != nil {
		return nil, err
	}
	return v.(page.Response), nil
}

// requestPredicate accepts the same URL forms as Route, plus a typed
// func(Request) bool.
func requestPredicate(urlOrPredicate interface{}) (func(interface{}) bool, error) {
	if p, ok := urlOrPredicate.(func(page.Request) bool); ok {
		return func(v interface{}) bool { return p(v.(page.Request)) }, nil
	}
	match, err := page.NewURLMatcher(urlOrPredicate)
	if err != nil {
		return nil, err
	}
	return func(v interface{}) bool { return match(v.(page.Request).URL()) }, nil
}

func responsePredicate(urlOrPredicate interface{}) (func(interface{}) bool, error) {
	if p, ok := urlOrPredicate.(func(page.Response) bool); ok {
		return func(v interface{}) bool { return p(v.(page.Response)) }, nil
	}
	match, err := page.NewURLMatcher(urlOrPredicate)
	if err != nil {
		return nil, err
	}
	return func(v interface{}) bool { return match(v.(page.Response).URL()) }, nil
}

// WaitForFunction polls expression in the page until it returns a
// truthy value and hands back a handle to that value.
func (d *Driver) WaitForFunction(ctx context.Context, expression string, arg interface{}, opts ...*page.WaitForFunctionOptions) (page.JSHandle, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	poll := 16 * time.Millisecond // one frame at 60Hz
	if o != nil {
		timeoutOpt = o.Timeout
		if o.PollingInterval != nil {
			poll = *o.PollingInterval
		}
	}
	timeout := d.effectiveTimeout(timeoutOpt, false)
	opCtx, cancel := d.opCtx(ctx, timeout)
	defer cancel()
	p := d.rod.Context(opCtx)

	start := time.Now()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		res, err := p.Evaluate(rod.Eval(expression, evalArgs(arg)...).ByObject())
		if err == nil && remoteTruthy(res) {
			d.record("waitForFunction", "", start, nil)
			return &jsHandle{d: d, obj: res}, nil
		}
		select {
		case <-ticker.C:
		case <-opCtx.Done():
			err := d.wrapTimeout(opCtx.Err(), opCtx, ctx, "waitForFunction", timeout)
			d.record("waitForFunction", "", start, err)
			return nil, err
		}
	}
}

// remoteTruthy applies JavaScript truthiness to a remote object
// without another round-trip. Objects are always truthy.
func remoteTruthy(obj *proto.RuntimeRemoteObject) bool {
	if obj == nil {
		return false
	}
	if obj.ObjectID != "" {
		return true
	}
	if obj.Type == proto.RuntimeRemoteObjectTypeUndefined {
		return false
	}
	switch v := obj.Value.Val().(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
