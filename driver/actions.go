package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/tabctl/page"
)

// elementFor resolves selector to a single element inside opCtx. The
// first match wins when several elements satisfy the selector.
func (d *Driver) elementFor(ctx context.Context, selector string) (*rod.Element, error) {
	el, err := d.rod.Context(ctx).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("driver: resolve %q: %w", selector, err)
	}
	return el, nil
}

// actionEnv bundles the per-operation context plumbing shared by every
// element action.
type actionEnv struct {
	d       *Driver
	op      string
	target  string
	timeout time.Duration
	opCtx   context.Context
	caller  context.Context
	cancel  context.CancelFunc
	start   time.Time
}

func (d *Driver) beginAction(ctx context.Context, op, target string, timeoutOpt *time.Duration) *actionEnv {
	timeout := d.effectiveTimeout(timeoutOpt, false)
	opCtx, cancel := d.opCtx(ctx, timeout)
	return &actionEnv{
		d:       d,
		op:      op,
		target:  target,
		timeout: timeout,
		opCtx:   opCtx,
		caller:  ctx,
		cancel:  cancel,
		start:   time.Now(),
	}
}

// finish wraps, records and returns the operation result.
func (e *actionEnv) finish(err error) error {
	e.cancel()
	err = e.d.wrapTimeout(err, e.opCtx, e.caller, e.op, e.timeout)
	e.d.record(e.op, e.target, e.start, err)
	return err
}

// mouseButton maps the surface enum onto the protocol constant,
// defaulting to the left button.
func mouseButton(b *page.MouseButton) proto.InputMouseButton {
	if b == nil {
		return proto.InputMouseButtonLeft
	}
	switch *b {
	case page.MouseButtonRight:
		return proto.InputMouseButtonRight
	case page.MouseButtonMiddle:
		return proto.InputMouseButtonMiddle
	default:
		return proto.InputMouseButtonLeft
	}
}

// Click clicks the first element matching selector.
func (d *Driver) Click(ctx context.Context, selector string, opts ...*page.ClickOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	var button *page.MouseButton
	count := 1
	if o != nil {
		timeoutOpt = o.Timeout
		button = o.Button
		if o.ClickCount != nil {
			count = *o.ClickCount
		}
	}
	env := d.beginAction(ctx, "click", selector, timeoutOpt)
	return env.finish(d.clickElement(env.opCtx, selector, o, mouseButton(button), count))
}

func (d *Driver) clickElement(ctx context.Context, selector string, o *page.ClickOptions, button proto.InputMouseButton, count int) error {
	el, err := d.elementFor(ctx, selector)
	if err != nil {
		return err
	}
	if o == nil || o.Force == nil || !*o.Force {
		if err := el.WaitVisible(); err != nil {
			return fmt.Errorf("driver: click %q: %w", selector, err)
		}
	}
	if o != nil && o.Position != nil {
		if err := el.ScrollIntoView(); err != nil {
			return fmt.Errorf("driver: click %q: %w", selector, err)
		}
		box, err := el.Shape()
		if err != nil {
			return fmt.Errorf("driver: click %q: %w", selector, err)
		}
		quad := box.Box()
		pt := proto.Point{X: quad.X + o.Position.X, Y: quad.Y + o.Position.Y}
		m := d.rod.Context(ctx).Mouse
		if err := m.MoveTo(pt); err != nil {
			return fmt.Errorf("driver: click %q: %w", selector, err)
		}
		return m.Click(button, count)
	}
	if err := el.Click(button, count); err != nil {
		return fmt.Errorf("driver: click %q: %w", selector, err)
	}
	return nil
}

// DblClick double-clicks the first element matching selector.
func (d *Driver) DblClick(ctx context.Context, selector string, opts ...*page.DblClickOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	var button *page.MouseButton
	if o != nil {
		timeoutOpt = o.Timeout
		button = o.Button
	}
	env := d.beginAction(ctx, "dblclick", selector, timeoutOpt)
	return env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		return el.Click(mouseButton(button), 2)
	}())
}

// setChecked drives checkboxes and radios into the wanted state,
// no-op when already there.
func (d *Driver) setChecked(ctx context.Context, op, selector string, want bool, timeoutOpt *time.Duration) error {
	env := d.beginAction(ctx, op, selector, timeoutOpt)
	return env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		res, err := el.Eval(`() => !!this.checked`)
		if err != nil {
			return fmt.Errorf("driver: %s %q: %w", op, selector, err)
		}
		if res.Value.Bool() == want {
			return nil
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("driver: %s %q: %w", op, selector, err)
		}
		return nil
	}())
}

// Check checks a checkbox or radio input.
func (d *Driver) Check(ctx context.Context, selector string, opts ...*page.CheckOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	return d.setChecked(ctx, "check", selector, true, timeoutOpt)
}

// Uncheck unchecks a checkbox input.
func (d *Driver) Uncheck(ctx context.Context, selector string, opts ...*page.UncheckOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	return d.setChecked(ctx, "uncheck", selector, false, timeoutOpt)
}

// Fill clears the element's value and types text into it.
func (d *Driver) Fill(ctx context.Context, selector, value string, opts ...*page.FillOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	env := d.beginAction(ctx, "fill", selector, timeoutOpt)
	return env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		if err := el.SelectAllText(); err != nil {
			return fmt.Errorf("driver: fill %q: %w", selector, err)
		}
		if err := el.Input(value); err != nil {
			return fmt.Errorf("driver: fill %q: %w", selector, err)
		}
		return nil
	}())
}

// Hover moves the pointer over the first element matching selector.
func (d *Driver) Hover(ctx context.Context, selector string, opts ...*page.HoverOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	env := d.beginAction(ctx, "hover", selector, timeoutOpt)
	return env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		return el.Hover()
	}())
}

// Tap touch-taps the first element matching selector.
func (d *Driver) Tap(ctx context.Context, selector string, opts ...*page.TapOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	env := d.beginAction(ctx, "tap", selector, timeoutOpt)
	return env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		return el.Tap()
	}())
}

// Press focuses the element and presses a single key or chord, e.g.
// "Enter" or "Control+a".
func (d *Driver) Press(ctx context.Context, selector, key string, opts ...*page.PressOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	env := d.beginAction(ctx, "press", selector+" "+key, timeoutOpt)
	return env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		if err := el.Focus(); err != nil {
			return fmt.Errorf("driver: press %q: %w", selector, err)
		}
		return d.pressChord(env.opCtx, key)
	}())
}

// pressChord holds every modifier in the chord while pressing the
// final key.
func (d *Driver) pressChord(ctx context.Context, chord string) error {
	keys, err := parseChord(chord)
	if err != nil {
		return err
	}
	kb := d.rod.Context(ctx).Keyboard
	for _, k := range keys[:len(keys)-1] {
		if err := kb.Press(k); err != nil {
			return fmt.Errorf("driver: press chord %q: %w", chord, err)
		}
	}
	last := keys[len(keys)-1]
	if err := kb.Type(last); err != nil {
		return fmt.Errorf("driver: press chord %q: %w", chord, err)
	}
	for i := len(keys) - 2; i >= 0; i-- {
		if err := kb.Release(keys[i]); err != nil {
			return fmt.Errorf("driver: press chord %q: %w", chord, err)
		}
	}
	return nil
}

// Type types text into the element key by key.
func (d *Driver) Type(ctx context.Context, selector, text string, opts ...*page.TypeOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	var delay time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
		if o.Delay != nil {
			delay = *o.Delay
		}
	}
	env := d.beginAction(ctx, "type", selector, timeoutOpt)
	return env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		if err := el.Focus(); err != nil {
			return fmt.Errorf("driver: type %q: %w", selector, err)
		}
		kb := d.rod.Context(env.opCtx).Keyboard
		for _, r := range text {
			if err := kb.Type(input.Key(r)); err != nil {
				return fmt.Errorf("driver: type %q: %w", selector, err)
			}
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-env.opCtx.Done():
					return env.opCtx.Err()
				}
			}
		}
		return nil
	}())
}

// Focus focuses the first element matching selector.
func (d *Driver) Focus(ctx context.Context, selector string, opts ...*page.FocusOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	env := d.beginAction(ctx, "focus", selector, timeoutOpt)
	return env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		return el.Focus()
	}())
}

// DispatchEvent synthesizes a DOM event of the given type on the
// element, with an optional init object.
func (d *Driver) DispatchEvent(ctx context.Context, selector, typ string, eventInit interface{}, opts ...*page.DispatchEventOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	env := d.beginAction(ctx, "dispatchEvent", selector+" "+typ, timeoutOpt)
	return env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		_, err = el.Eval(`(type, init) => {
			const cls = ({
				mouse: MouseEvent, keyboard: KeyboardEvent, touch: TouchEvent,
				pointer: PointerEvent, focus: FocusEvent, drag: DragEvent,
			})[({
				click: "mouse", dblclick: "mouse", mousedown: "mouse", mouseup: "mouse",
				mouseover: "mouse", mouseout: "mouse", mousemove: "mouse",
				keydown: "keyboard", keyup: "keyboard", keypress: "keyboard",
				touchstart: "touch", touchend: "touch", touchmove: "touch",
				pointerdown: "pointer", pointerup: "pointer", pointermove: "pointer",
				focus: "focus", blur: "focus",
				dragstart: "drag", dragend: "drag", drop: "drag",
			})[type]] || Event;
			this.dispatchEvent(new cls(type, Object.assign({bubbles: true, cancelable: true, composed: true}, init)));
		}`, typ, eventInit)
		if err != nil {
			return fmt.Errorf("driver: dispatchEvent %q: %w", selector, err)
		}
		return nil
	}())
}

// SelectOption selects the matching options of a <select> element and
// returns the values actually selected. A nil values slice deselects
// everything.
func (d *Driver) SelectOption(ctx context.Context, selector string, values []string, opts ...*page.SelectOptionOptions) ([]string, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	env := d.beginAction(ctx, "selectOption", selector, timeoutOpt)
	var selected []string
	err := env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		res, err := el.Eval(`(values) => {
			const want = new Set(values || []);
			const picked = [];
			for (const opt of this.options) {
				opt.selected = want.has(opt.value) || want.has(opt.label);
				if (opt.selected) picked.push(opt.value);
			}
			this.dispatchEvent(new Event("input", {bubbles: true}));
			this.dispatchEvent(new Event("change", {bubbles: true}));
			return picked;
		}`, values)
		if err != nil {
			return fmt.Errorf("driver: selectOption %q: %w", selector, err)
		}
		selected = make([]string, 0, len(res.Value.Arr()))
		for _, v := range res.Value.Arr() {
			selected = append(selected, v.Str())
		}
		return nil
	}())
	if err != nil {
		return nil, err
	}
	return selected, nil
}

// SetInputFiles sets the payload of a file input. Payloads are staged
// in a temporary directory so the browser process can read them.
func (d *Driver) SetInputFiles(ctx context.Context, selector string, files []page.FilePayload, opts ...*page.SetInputFilesOptions) error {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	env := d.beginAction(ctx, "setInputFiles", selector, timeoutOpt)
	return env.finish(func() error {
		el, err := d.elementFor(env.opCtx, selector)
		if err != nil {
			return err
		}
		paths, cleanup, err := stagePayloads(files)
		if err != nil {
			return fmt.Errorf("driver: setInputFiles %q: %w", selector, err)
		}
		defer cleanup()
		if err := el.SetFiles(paths); err != nil {
			return fmt.Errorf("driver: setInputFiles %q: %w", selector, err)
		}
		return nil
	}())
}

// stagePayloads writes in-memory payloads to disk and returns their
// paths plus a cleanup function.
func stagePayloads(files []page.FilePayload) ([]string, func(), error) {
	dir, err := os.MkdirTemp("", "tabctl-upload-*")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(dir, filepath.Base(f.Name))
		if err := os.WriteFile(p, f.Buffer, 0o600); err != nil {
			cleanup()
			return nil, nil, err
		}
		paths = append(paths, p)
	}
	return paths, cleanup, nil
}

// parseChord splits "Control+Shift+a" into protocol keys, modifiers
// first.
func parseChord(chord string) ([]input.Key, error) {
	parts := splitChord(chord)
	keys := make([]input.Key, 0, len(parts))
	for _, part := range parts {
		k, err := lookupKey(part)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("driver: empty key chord")
	}
	return keys, nil
}

func splitChord(chord string) []string {
	var parts []string
	cur := ""
	for _, r := range chord {
		if r == '+' && cur != "" {
			parts = append(parts, cur)
			cur = ""
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		parts = append(parts, cur)
	}
	return parts
}

// lookupKey maps a key name onto the protocol key, accepting both the
// named form ("Enter") and single characters.
func lookupKey(name string) (input.Key, error) {
	switch name {
	case "Enter":
		return input.Enter, nil
	case "Tab":
		return input.Tab, nil
	case "Backspace":
		return input.Backspace, nil
	case "Delete":
		return input.Delete, nil
	case "Escape":
		return input.Escape, nil
	case "ArrowUp":
		return input.ArrowUp, nil
	case "ArrowDown":
		return input.ArrowDown, nil
	case "ArrowLeft":
		return input.ArrowLeft, nil
	case "ArrowRight":
		return input.ArrowRight, nil
	case "Home":
		return input.Home, nil
	case "End":
		return input.End, nil
	case "PageUp":
		return input.PageUp, nil
	case "PageDown":
		return input.PageDown, nil
	case "Shift":
		return input.ShiftLeft, nil
	case "Control":
		return input.ControlLeft, nil
	case "Alt":
		return input.AltLeft, nil
	case "Meta":
		return input.MetaLeft, nil
	case " ", "Space":
		return input.Key(' '), nil
	}
	runes := []rune(name)
	if len(runes) == 1 {
		return input.Key(runes[0]), nil
	}
	return 0, fmt.Errorf("driver: unknown key %q", name)
}
