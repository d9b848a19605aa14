package driver

import (
	"fmt"
	"reflect"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/tabctl/page"
)

// routeEntry is one registered interception rule.
type routeEntry struct {
	pattern   interface{}
	match     page.URLMatcher
	handler   page.RouteHandler
	handlerID uintptr
}

// Route registers handler for requests whose URL matches url. The most
// recently registered matching route wins. The first registration
// switches the page to hijacked networking, which disables the browser
// HTTP cache.
func (d *Driver) Route(url interface{}, handler page.RouteHandler) error {
	if handler == nil {
		return fmt.Errorf("driver: route: nil handler")
	}
	match, err := page.NewURLMatcher(url)
	if err != nil {
		return err
	}
	if err := d.ensureHijacking(); err != nil {
		return err
	}
	d.routeMu.Lock()
	d.routes = append(d.routes, &routeEntry{
		pattern:   url,
		match:     match,
		handler:   handler,
		handlerID: handlerID(handler),
	})
	d.routeMu.Unlock()
	return nil
}

func handlerID(h page.RouteHandler) uintptr {
	return reflect.ValueOf(h).Pointer()
}

// Unroute removes routes registered for url. With handlers given, only
// entries whose handler matches one of them by identity are removed;
// otherwise every route for url goes.
func (d *Driver) Unroute(url interface{}, handlers ...page.RouteHandler) error {
	ids := make(map[uintptr]bool, len(handlers))
	for _, h := range handlers {
		if h != nil {
			ids[handlerID(h)] = true
		}
	}
	d.routeMu.Lock()
	defer d.routeMu.Unlock()
	kept := d.routes[:0]
	for _, r := range d.routes {
		samePattern := patternEqual(r.pattern, url)
		if samePattern && (len(ids) == 0 || ids[r.handlerID]) {
			continue
		}
		kept = append(kept, r)
	}
	d.routes = kept
	return nil
}

// patternEqual compares route registration keys. Function patterns
// compare by identity; everything else by interface equality, which
// covers strings and regexp pointers.
func patternEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() == reflect.Func || bv.Kind() == reflect.Func {
		return av.Kind() == bv.Kind() && av.Pointer() == bv.Pointer()
	}
	return a == b
}

// ensureHijacking starts the rod hijack router once. Every request
// goes through it; unmatched requests continue against the origin.
func (d *Driver) ensureHijacking() error {
	d.hijackOnce.Do(func() {
		router := d.rod.HijackRequests()
		err := router.Add("*", "", func(h *rod.Hijack) {
			d.dispatchRoute(h)
		})
		if err != nil {
			d.hijackErr = fmt.Errorf("driver: start interception: %w", err)
			return
		}
		go router.Run()
		d.routeMu.Lock()
		d.hijacker = router
		d.routeMu.Unlock()
	})
	return d.hijackErr
}

// dispatchRoute finds the winning route for a hijacked request and
// runs its handler. No match, or a handler that resolves nothing,
// falls through to the network.
func (d *Driver) dispatchRoute(h *rod.Hijack) {
	url := h.Request.URL().String()

	d.routeMu.Lock()
	var entry *routeEntry
	for i := len(d.routes) - 1; i >= 0; i-- {
		if d.routes[i].match(url) {
			entry = d.routes[i]
			break
		}
	}
	d.routeMu.Unlock()

	rt := &route{d: d, h: h}
	if entry == nil {
		rt.passthrough()
		return
	}
	entry.handler(rt)
	if !rt.resolved {
		rt.passthrough()
	}
}

// route adapts one hijacked request to the surface Route interface.
type route struct {
	d        *Driver
	h        *rod.Hijack
	resolved bool
}

func (r *route) Request() page.Request {
	return &hijackedRequest{h: r.h}
}

func (r *route) passthrough() {
	r.resolved = true
	r.h.ContinueRequest(&proto.FetchContinueRequest{})
}

// Continue sends the request to the network, optionally rewritten.
func (r *route) Continue(opts ...*page.ContinueOptions) error {
	if r.resolved {
		return fmt.Errorf("driver: route already resolved")
	}
	r.resolved = true
	o := first(opts)
	cont := &proto.FetchContinueRequest{}
	if o != nil {
		if o.URL != nil {
			cont.URL = *o.URL
		}
		if o.Method != nil {
			cont.Method = *o.Method
		}
		if o.PostData != nil {
			cont.PostData = o.PostData
		}
		for k, v := range o.Headers {
			cont.Headers = append(cont.Headers, &proto.FetchHeaderEntry{Name: k, Value: v})
		}
	}
	r.h.ContinueRequest(cont)
	return nil
}

// Fulfill answers the request with a synthetic response.
func (r *route) Fulfill(opts ...*page.FulfillOptions) error {
	if r.resolved {
		return fmt.Errorf("driver: route already resolved")
	}
	r.resolved = true
	o := first(opts)
	res := r.h.Response
	status := 200
	if o != nil {
		if o.Status != nil {
			status = *o.Status
		}
		for k, v := range o.Headers {
			res.SetHeader(k, v)
		}
		if o.ContentType != nil {
			res.SetHeader("Content-Type", *o.ContentType)
		}
		res.Payload().Body = o.Body
	}
	res.Payload().ResponseCode = status
	return nil
}

// Abort fails the request. The optional errorCode names a network
// error reason, "failed" by default.
func (r *route) Abort(errorCode ...string) error {
	if r.resolved {
		return fmt.Errorf("driver: route already resolved")
	}
	r.resolved = true
	reason := proto.NetworkErrorReasonFailed
	if len(errorCode) > 0 {
		reason = abortReason(errorCode[0])
	}
	r.h.Response.Fail(reason)
	return nil
}

func abortReason(code string) proto.NetworkErrorReason {
	switch code {
	case "aborted":
		return proto.NetworkErrorReasonAborted
	case "accessdenied":
		return proto.NetworkErrorReasonAccessDenied
	case "addressunreachable":
		return proto.NetworkErrorReasonAddressUnreachable
	case "blockedbyclient":
		return proto.NetworkErrorReasonBlockedByClient
	case "blockedbyresponse":
		return proto.NetworkErrorReasonBlockedByResponse
	case "connectionaborted":
		return proto.NetworkErrorReasonConnectionAborted
	case "connectionclosed":
		return proto.NetworkErrorReasonConnectionClosed
	case "connectionfailed":
		return proto.NetworkErrorReasonConnectionFailed
	case "connectionrefused":
		return proto.NetworkErrorReasonConnectionRefused
	case "connectionreset":
		return proto.NetworkErrorReasonConnectionReset
	case "internetdisconnected":
		return proto.NetworkErrorReasonInternetDisconnected
	case "namenotresolved":
		return proto.NetworkErrorReasonNameNotResolved
	case "timedout":
		return proto.NetworkErrorReasonTimedOut
	default:
		return proto.NetworkErrorReasonFailed
	}
}

// hijackedRequest is the read-only request view handed to route
// handlers.
type hijackedRequest struct {
	h *rod.Hijack
}

func (r *hijackedRequest) URL() string { return r.h.Request.URL().String() }

func (r *hijackedRequest) Method() string { return r.h.Request.Method() }

func (r *hijackedRequest) ResourceType() string {
	return string(r.h.Request.Type())
}

func (r *hijackedRequest) Headers() map[string]string {
	out := map[string]string{}
	for k, vs := range r.h.Request.Headers() {
		out[k] = vs.Str()
	}
	return out
}

func (r *hijackedRequest) PostData() string { return r.h.Request.Body() }

func (r *hijackedRequest) IsNavigationRequest() bool {
	return r.h.Request.Type() == proto.NetworkResourceTypeDocument
}

func (r *hijackedRequest) Failure() string { return "" }

func (r *hijackedRequest) Response() page.Response { return nil }

func (r *hijackedRequest) Frame() page.Frame { return nil }
