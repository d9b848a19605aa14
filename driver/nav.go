package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/tabctl/page"
)

// networkQuietWindow is how long the network must stay silent before
// the networkidle milestone fires.
const networkQuietWindow = 500 * time.Millisecond

// Navigate loads url and waits for the wait-until milestone. The
// returned Response is nil for same-document navigations.
func (d *Driver) Navigate(ctx context.Context, url string, opts ...*page.NavigateOptions) (page.Response, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	waitUntil := page.WaitUntilLoad
	var referer string
	if o != nil {
		timeoutOpt = o.Timeout
		if o.WaitUntil != nil {
			waitUntil = *o.WaitUntil
		}
		if o.Referer != nil {
			referer = *o.Referer
		}
	}
	timeout := d.effectiveTimeout(timeoutOpt, true)
	opCtx, cancel := d.opCtx(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := d.navigate(opCtx, url, referer, waitUntil)
	err = d.wrapTimeout(err, opCtx, ctx, "navigate", timeout)
	d.record("navigate", url, start, err)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (d *Driver) navigate(ctx context.Context, url, referer string, waitUntil page.WaitUntilState) (page.Response, error) {
	p := d.rod.Context(ctx)

	// Arm the milestone waiter before triggering the navigation so a
	// fast load is not missed.
	settle := d.waitUntilFunc(p, waitUntil)

	res, err := proto.PageNavigate{URL: url, Referrer: referer}.Call(p)
	if err != nil {
		return nil, fmt.Errorf("driver: navigate %s: %w", url, err)
	}
	if res.ErrorText != "" {
		return nil, fmt.Errorf("driver: navigate %s: %s", url, res.ErrorText)
	}

	if err := settle(); err != nil {
		return nil, err
	}

	// Same-document navigations carry no loader and no network
	// round-trip.
	if res.LoaderID == "" {
		return nil, nil
	}
	return d.responseForLoader(res.LoaderID), nil
}

// waitUntilFunc arms the load-progress waiter for the given milestone
// and returns the function that blocks until it fires.
func (d *Driver) waitUntilFunc(p *rod.Page, waitUntil page.WaitUntilState) func() error {
	switch waitUntil {
	case page.WaitUntilDOMContentLoaded:
		w := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
		return func() error { w(); return p.GetContext().Err() }
	case page.WaitUntilNetworkIdle:
		w := p.WaitRequestIdle(networkQuietWindow, nil, nil, nil)
		return func() error { w(); return p.GetContext().Err() }
	default: // load
		w := p.WaitNavigation(proto.PageLifecycleEventNameLoad)
		return func() error { w(); return p.GetContext().Err() }
	}
}

// responseForLoader finds the navigation response among tracked
// requests, by loader ID.
func (d *Driver) responseForLoader(loader proto.NetworkLoaderID) page.Response {
	d.reqMu.Lock()
	defer d.reqMu.Unlock()
	for _, r := range d.requests {
		if r.loaderID == loader && r.resp != nil {
			return r.resp
		}
	}
	return nil
}

// Reload reloads the page.
func (d *Driver) Reload(ctx context.Context, opts ...*page.ReloadOptions) (page.Response, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	waitUntil := page.WaitUntilLoad
	if o != nil {
		timeoutOpt = o.Timeout
		if o.WaitUntil != nil {
			waitUntil = *o.WaitUntil
		}
	}
	return d.reNavigate(ctx, "reload", timeoutOpt, waitUntil, func(p *rod.Page) error {
		return proto.PageReload{}.Call(p)
	})
}

// GoBack navigates to the previous history entry. Returns nil, nil
// when there is none.
func (d *Driver) GoBack(ctx context.Context, opts ...*page.GoBackOptions) (page.Response, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	waitUntil := page.WaitUntilLoad
	if o != nil {
		timeoutOpt = o.Timeout
		if o.WaitUntil != nil {
			waitUntil = *o.WaitUntil
		}
	}
	return d.historyStep(ctx, "goBack", -1, timeoutOpt, waitUntil)
}

// GoForward navigates to the next history entry. Returns nil, nil when
// there is none.
func (d *Driver) GoForward(ctx context.Context, opts ...*page.GoForwardOptions) (page.Response, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	waitUntil := page.WaitUntilLoad
	if o != nil {
		timeoutOpt = o.Timeout
		if o.WaitUntil != nil {
			waitUntil = *o.WaitUntil
		}
	}
	return d.historyStep(ctx, "goForward", 1, timeoutOpt, waitUntil)
}

func (d *Driver) historyStep(ctx context.Context, op string, delta int, timeoutOpt *time.Duration, waitUntil page.WaitUntilState) (page.Response, error) {
	timeout := d.effectiveTimeout(timeoutOpt, true)
	opCtx, cancel := d.opCtx(ctx, timeout)
	defer cancel()
	p := d.rod.Context(opCtx)

	start := time.Now()
	hist, err := proto.PageGetNavigationHistory{}.Call(p)
	if err != nil {
		d.record(op, "", start, err)
		return nil, fmt.Errorf("driver: %s: %w", op, err)
	}
	idx := hist.CurrentIndex + delta
	if idx < 0 || idx >= len(hist.Entries) {
		d.record(op, "", start, nil)
		return nil, nil
	}
	entry := hist.Entries[idx]

	settle := d.waitUntilFunc(p, waitUntil)
	if err := (proto.PageNavigateToHistoryEntry{EntryID: entry.ID}).Call(p); err != nil {
		d.record(op, entry.URL, start, err)
		return nil, fmt.Errorf("driver: %s: %w", op, err)
	}
	err = settle()
	err = d.wrapTimeout(err, opCtx, ctx, op, timeout)
	d.record(op, entry.URL, start, err)
	if err != nil {
		return nil, err
	}
	return d.responseForURL(entry.URL), nil
}

func (d *Driver) reNavigate(ctx context.Context, op string, timeoutOpt *time.Duration, waitUntil page.WaitUntilState, trigger func(p *rod.Page) error) (page.Response, error) {
	timeout := d.effectiveTimeout(timeoutOpt, true)
	opCtx, cancel := d.opCtx(ctx, timeout)
	defer cancel()
	p := d.rod.Context(opCtx)

	start := time.Now()
	settle := d.waitUntilFunc(p, waitUntil)
	err := trigger(p)
	if err == nil {
		err = settle()
	}
	err = d.wrapTimeout(err, opCtx, ctx, op, timeout)
	d.record(op, d.URL(), start, err)
	if err != nil {
		return nil, fmt.Errorf("driver: %s: %w", op, err)
	}
	return d.responseForURL(d.URL()), nil
}

// responseForURL returns the newest tracked response for url, or nil.
func (d *Driver) responseForURL(url string) page.Response {
	d.reqMu.Lock()
	defer d.reqMu.Unlock()
	var best *response
	for _, r := range d.requests {
		if r.url == url && r.resp != nil {
			if best == nil || r.resp.receivedAt.After(best.receivedAt) {
				best = r.resp
			}
		}
	}
	if best == nil {
		return nil
	}
	return best
}

// WaitForLoadState blocks until the page reaches state; immediate when
// already reached.
func (d *Driver) WaitForLoadState(ctx context.Context, state page.LoadState, opts ...*page.WaitForLoadStateOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	timeout := d.effectiveTimeout(timeoutOpt, true)
	opCtx, cancel := d.opCtx(ctx, timeout)
	defer cancel()
	p := d.rod.Context(opCtx)

	start := time.Now()
	var err error
	switch state {
	case page.LoadStateDOMContentLoaded:
		err = p.Wait(rod.Eval(`() => document.readyState !== "loading"`))
	case page.LoadStateNetworkIdle:
		p.WaitRequestIdle(networkQuietWindow, nil, nil, nil)()
		err = opCtx.Err()
	default:
		err = p.WaitLoad()
	}
	err = d.wrapTimeout(err, opCtx, ctx, "waitForLoadState", timeout)
	d.record("waitForLoadState", string(state), start, err)
	return err
}

// WaitForNavigation runs callback and blocks until the navigation it
// triggers reaches the wait-until milestone.
func (d *Driver) WaitForNavigation(ctx context.Context, callback func() error, opts ...*page.WaitForNavigationOptions) (page.Response, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	waitUntil := page.WaitUntilLoad
	var urlPattern interface{}
	if o != nil {
		timeoutOpt = o.Timeout
		if o.WaitUntil != nil {
			waitUntil = *o.WaitUntil
		}
		urlPattern = o.URL
	}
	match, err := page.NewURLMatcher(urlPattern)
	if err != nil {
		return nil, err
	}

	timeout := d.effectiveTimeout(timeoutOpt, true)
	opCtx, cancel := d.opCtx(ctx, timeout)
	defer cancel()
	p := d.rod.Context(opCtx)

	start := time.Now()
	settle := d.waitUntilFunc(p, waitUntil)

	if callback != nil {
		if err := callback(); err != nil {
			d.record("waitForNavigation", "", start, err)
			return nil, err
		}
	}

	err = settle()
	err = d.wrapTimeout(err, opCtx, ctx, "waitForNavigation", timeout)
	d.record("waitForNavigation", d.URL(), start, err)
	if err != nil {
		return nil, err
	}
	if u := d.URL(); !match(u) {
		// Destination mismatch counts as a failed wait.
		return nil, fmt.Errorf("driver: waitForNavigation: landed on %s", u)
	}
	return d.responseForURL(d.URL()), nil
}

// SetContent replaces the document with html.
func (d *Driver) SetContent(ctx context.Context, html string, opts ...*page.SetContentOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	timeout := d.effectiveTimeout(timeoutOpt, true)
	opCtx, cancel := d.opCtx(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := d.rod.Context(opCtx).SetDocumentContent(html)
	err = d.wrapTimeout(err, opCtx, ctx, "setContent", timeout)
	d.record("setContent", "", start, err)
	if err != nil {
		return fmt.Errorf("driver: set content: %w", err)
	}
	return nil
}

// Content returns the full serialized HTML of the page.
func (d *Driver) Content(ctx context.Context) (string, error) {
	start := time.Now()
	html, err := d.rod.Context(ctx).HTML()
	d.record("content", "", start, err)
	if err != nil {
		return "", fmt.Errorf("driver: content: %w", err)
	}
	return html, nil
}

// Title returns the document title.
func (d *Driver) Title(ctx context.Context) (string, error) {
	res, err := d.rod.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return "", fmt.Errorf("driver: title: %w", err)
	}
	return res.Value.Str(), nil
}

// URL returns the page's current URL without a round-trip when rod has
// it cached, falling back to target info.
func (d *Driver) URL() string {
	info, err := d.rod.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

