package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/tabctl/page"
)

// QuerySelector returns a handle to the first element matching
// selector, or nil when none matches.
func (d *Driver) QuerySelector(ctx context.Context, selector string) (page.ElementHandle, error) {
	p := d.rod.Context(ctx)
	has, el, err := p.Has(selector)
	if err != nil {
		return nil, fmt.Errorf("driver: querySelector %q: %w", selector, err)
	}
	if !has {
		return nil, nil
	}
	return &elementHandle{d: d, el: el}, nil
}

// QuerySelectorAll returns handles to every element matching selector,
// in document order. The slice is empty when nothing matches.
func (d *Driver) QuerySelectorAll(ctx context.Context, selector string) ([]page.ElementHandle, error) {
	els, err := d.rod.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("driver: querySelectorAll %q: %w", selector, err)
	}
	out := make([]page.ElementHandle, 0, len(els))
	for _, el := range els {
		out = append(out, &elementHandle{d: d, el: el})
	}
	return out, nil
}

// stringQuery runs fn against the first element matching selector,
// waiting for it to appear within the operation timeout.
func (d *Driver) stringQuery(ctx context.Context, op, selector string, timeoutOpt *time.Duration, fn func(el *rod.Element) (string, error)) (string, error) {
	env := d.beginAction(ctx, op, selector, timeoutOpt)
	var out string
	err := env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		out, err = fn(el)
		if err != nil {
			return fmt.Errorf("driver: %s %q: %w", op, selector, err)
		}
		return nil
	}())
	if err != nil {
		return "", err
	}
	return out, nil
}

// InnerHTML returns the element's innerHTML.
func (d *Driver) InnerHTML(ctx context.Context, selector string, opts ...*page.InnerHTMLOptions) (string, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	return d.stringQuery(ctx, "innerHTML", selector, timeoutOpt, func(el *rod.Element) (string, error) {
		return el.HTML()
	})
}

// InnerText returns the element's rendered text.
func (d *Driver) InnerText(ctx context.Context, selector string, opts ...*page.InnerTextOptions) (string, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	return d.stringQuery(ctx, "innerText", selector, timeoutOpt, func(el *rod.Element) (string, error) {
		res, err := el.Eval(`() => this.innerText`)
		if err != nil {
			return "", err
		}
		return res.Value.Str(), nil
	})
}

// TextContent returns the element's textContent, which includes hidden
// text.
func (d *Driver) TextContent(ctx context.Context, selector string, opts ...*page.TextContentOptions) (string, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	return d.stringQuery(ctx, "textContent", selector, timeoutOpt, func(el *rod.Element) (string, error) {
		res, err := el.Eval(`() => this.textContent`)
		if err != nil {
			return "", err
		}
		return res.Value.Str(), nil
	})
}

// GetAttribute returns the element's attribute value, empty when the
// attribute is absent.
func (d *Driver) GetAttribute(ctx context.Context, selector, name string, opts ...*page.GetAttributeOptions) (string, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	env := d.beginAction(ctx, "getAttribute", selector+"@"+name, timeoutOpt)
	var val string
	err := env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		attr, err := el.Attribute(name)
		if err != nil {
			return fmt.Errorf("driver: getAttribute %q: %w", selector, err)
		}
		if attr != nil {
			val = *attr
		}
		return nil
	}())
	if err != nil {
		return "", err
	}
	return val, nil
}

// stateCheck evaluates predicate against the element. A missing
// element is a negative answer, never an error.
func (d *Driver) stateCheck(ctx context.Context, op, selector string, timeoutOpt *time.Duration, predicate string) (bool, error) {
	timeout := d.effectiveTimeout(timeoutOpt, false)
	opCtx, cancel := d.opCtx(ctx, timeout)
	defer cancel()
	p := d.rod.Context(opCtx)

	start := time.Now()
	has, el, err := p.Has(selector)
	if err == nil && !has {
		d.record(op, selector, start, nil)
		return false, nil
	}
	if err != nil {
		err = d.wrapTimeout(err, opCtx, ctx, op, timeout)
		d.record(op, selector, start, err)
		return false, err
	}
	res, err := el.Eval(predicate)
	err = d.wrapTimeout(err, opCtx, ctx, op, timeout)
	d.record(op, selector, start, err)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

// IsChecked reports whether a checkbox or radio input is checked.
func (d *Driver) IsChecked(ctx context.Context, selector string, opts ...*page.IsCheckedOptions) (bool, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	return d.stateCheck(ctx, "isChecked", selector, timeoutOpt, `() => !!this.checked`)
}

// IsDisabled reports whether the element is disabled.
func (d *Driver) IsDisabled(ctx context.Context, selector string, opts ...*page.IsDisabledOptions) (bool, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	return d.stateCheck(ctx, "isDisabled", selector, timeoutOpt,
		`() => this.disabled === true || this.closest("fieldset[disabled]") !== null`)
}

// IsEnabled reports whether the element is enabled.
func (d *Driver) IsEnabled(ctx context.Context, selector string, opts ...*page.IsEnabledOptions) (bool, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	disabled, err := d.stateCheck(ctx, "isEnabled", selector, timeoutOpt,
		`() => this.disabled === true || this.closest("fieldset[disabled]") !== null`)
	if err != nil {
		return false, err
	}
	return !disabled, nil
}

// IsEditable reports whether the element accepts text input.
func (d *Driver) IsEditable(ctx context.Context, selector string, opts ...*page.IsEditableOptions) (bool, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	return d.stateCheck(ctx, "isEditable", selector, timeoutOpt,
		`() => !this.disabled && !this.readOnly && (this.isContentEditable ||
			["INPUT", "TEXTAREA", "SELECT"].includes(this.tagName))`)
}

// IsHidden reports whether the element is hidden or absent.
func (d *Driver) IsHidden(ctx context.Context, selector string, opts ...*page.IsHiddenOptions) (bool, error) {
	visible, err := d.IsVisible(ctx, selector, visibleOptsFromHidden(opts)...)
	if err != nil {
		return false, err
	}
	return !visible, nil
}

func visibleOptsFromHidden(opts []*page.IsHiddenOptions) []*page.IsVisibleOptions {
	o := first(opts)
	if o == nil || o.Timeout == nil {
		return nil
	}
	return []*page.IsVisibleOptions{{Timeout: o.Timeout}}
}

// IsVisible reports whether the element is attached and has a visible
// box. A missing element is hidden, not an error.
func (d *Driver) IsVisible(ctx context.Context, selector string, opts ...*page.IsVisibleOptions) (bool, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	timeout := d.effectiveTimeout(timeoutOpt, false)
	opCtx, cancel := d.opCtx(ctx, timeout)
	defer cancel()
	p := d.rod.Context(opCtx)

	start := time.Now()
	has, el, err := p.Has(selector)
	if err == nil && !has {
		d.record("isVisible", selector, start, nil)
		return false, nil
	}
	if err != nil {
		err = d.wrapTimeout(err, opCtx, ctx, "isVisible", timeout)
		d.record("isVisible", selector, start, err)
		return false, err
	}
	visible, err := el.Visible()
	err = d.wrapTimeout(err, opCtx, ctx, "isVisible", timeout)
	d.record("isVisible", selector, start, err)
	if err != nil {
		return false, err
	}
	return visible, nil
}

// elementHandle adapts a rod element to the surface handle interface.
type elementHandle struct {
	d  *Driver
	el *rod.Element
}

func (h *elementHandle) JSONValue(ctx context.Context) (interface{}, error) {
	res, err := h.el.Context(ctx).Eval(`() => this`)
	if err != nil {
		return nil, fmt.Errorf("driver: handle json: %w", err)
	}
	return res.Value.Val(), nil
}

func (h *elementHandle) Evaluate(ctx context.Context, expression string, arg interface{}) (interface{}, error) {
	res, err := h.el.Context(ctx).Eval(expression, evalArgs(arg)...)
	if err != nil {
		return nil, fmt.Errorf("driver: handle evaluate: %w", err)
	}
	return res.Value.Val(), nil
}

func (h *elementHandle) AsElement() page.ElementHandle { return h }

func (h *elementHandle) Dispose() error {
	err := proto.RuntimeReleaseObject{ObjectID: h.el.Object.ObjectID}.Call(h.el.Page())
	if err != nil {
		return fmt.Errorf("driver: dispose handle: %w", err)
	}
	return nil
}

func (h *elementHandle) String() string {
	return h.el.Object.Description
}

func (h *elementHandle) TextContent(ctx context.Context) (string, error) {
	res, err := h.el.Context(ctx).Eval(`() => this.textContent`)
	if err != nil {
		return "", fmt.Errorf("driver: handle textContent: %w", err)
	}
	return res.Value.Str(), nil
}

func (h *elementHandle) InnerText(ctx context.Context) (string, error) {
	res, err := h.el.Context(ctx).Eval(`() => this.innerText`)
	if err != nil {
		return "", fmt.Errorf("driver: handle innerText: %w", err)
	}
	return res.Value.Str(), nil
}

func (h *elementHandle) InnerHTML(ctx context.Context) (string, error) {
	html, err := h.el.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("driver: handle innerHTML: %w", err)
	}
	return html, nil
}

func (h *elementHandle) GetAttribute(ctx context.Context, name string) (string, error) {
	attr, err := h.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", fmt.Errorf("driver: handle attribute: %w", err)
	}
	if attr == nil {
		return "", nil
	}
	return *attr, nil
}

func (h *elementHandle) IsVisible(ctx context.Context) (bool, error) {
	visible, err := h.el.Context(ctx).Visible()
	if err != nil {
		return false, fmt.Errorf("driver: handle visible: %w", err)
	}
	return visible, nil
}

func (h *elementHandle) Click(ctx context.Context, opts ...*page.ClickOptions) error {
	o := first(opts)
	count := 1
	var button *page.MouseButton
	if o != nil {
		button = o.Button
		if o.ClickCount != nil {
			count = *o.ClickCount
		}
	}
	if err := h.el.Context(ctx).Click(mouseButton(button), count); err != nil {
		return fmt.Errorf("driver: handle click: %w", err)
	}
	return nil
}

func (h *elementHandle) Fill(ctx context.Context, value string, opts ...*page.FillOptions) error {
	el := h.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("driver: handle fill: %w", err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("driver: handle fill: %w", err)
	}
	return nil
}

func (h *elementHandle) Hover(ctx context.Context, opts ...*page.HoverOptions) error {
	if err := h.el.Context(ctx).Hover(); err != nil {
		return fmt.Errorf("driver: handle hover: %w", err)
	}
	return nil
}

func (h *elementHandle) Focus(ctx context.Context) error {
	if err := h.el.Context(ctx).Focus(); err != nil {
		return fmt.Errorf("driver: handle focus: %w", err)
	}
	return nil
}

func (h *elementHandle) ScrollIntoViewIfNeeded(ctx context.Context) error {
	if err := h.el.Context(ctx).ScrollIntoView(); err != nil {
		return fmt.Errorf("driver: handle scroll: %w", err)
	}
	return nil
}

func (h *elementHandle) QuerySelector(ctx context.Context, selector string) (page.ElementHandle, error) {
	has, el, err := h.el.Context(ctx).Has(selector)
	if err != nil {
		return nil, fmt.Errorf("driver: handle querySelector %q: %w", selector, err)
	}
	if !has {
		return nil, nil
	}
	return &elementHandle{d: h.d, el: el}, nil
}

func (h *elementHandle) QuerySelectorAll(ctx context.Context, selector string) ([]page.ElementHandle, error) {
	els, err := h.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("driver: handle querySelectorAll %q: %w", selector, err)
	}
	out := make([]page.ElementHandle, 0, len(els))
	for _, el := range els {
		out = append(out, &elementHandle{d: h.d, el: el})
	}
	return out, nil
}

// jsHandle wraps a non-element remote object.
type jsHandle struct {
	d   *Driver
	obj *proto.RuntimeRemoteObject
}

func (h *jsHandle) JSONValue(ctx context.Context) (interface{}, error) {
	if h.obj.ObjectID == "" {
		return h.obj.Value.Val(), nil
	}
	res, err := h.d.rod.Context(ctx).Evaluate(rod.Eval(`x => x`, h.obj))
	if err != nil {
		return nil, fmt.Errorf("driver: handle json: %w", err)
	}
	return res.Value.Val(), nil
}

func (h *jsHandle) Evaluate(ctx context.Context, expression string, arg interface{}) (interface{}, error) {
	all := append([]interface{}{h.obj}, evalArgs(arg)...)
	res, err := h.d.rod.Context(ctx).Eval(expression, all...)
	if err != nil {
		return nil, fmt.Errorf("driver: handle evaluate: %w", err)
	}
	return res.Value.Val(), nil
}

func (h *jsHandle) AsElement() page.ElementHandle {
	if h.obj.Subtype != proto.RuntimeRemoteObjectSubtypeNode {
		return nil
	}
	el, err := h.d.rod.ElementFromObject(h.obj)
	if err != nil {
		return nil
	}
	return &elementHandle{d: h.d, el: el}
}

func (h *jsHandle) Dispose() error {
	if h.obj.ObjectID == "" {
		return nil
	}
	err := proto.RuntimeReleaseObject{ObjectID: h.obj.ObjectID}.Call(h.d.rod)
	if err != nil {
		return fmt.Errorf("driver: dispose handle: %w", err)
	}
	return nil
}

func (h *jsHandle) String() string {
	if h.obj.Description != "" {
		return h.obj.Description
	}
	return h.obj.Value.String()
}
