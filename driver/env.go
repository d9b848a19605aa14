package driver

import (
	"context"
	"fmt"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/hazyhaar/tabctl/page"
)

// AddInitScript registers script to run in every new document before
// the page's own scripts.
func (d *Driver) AddInitScript(ctx context.Context, script string) error {
	_, err := proto.PageAddScriptToEvaluateOnNewDocument{Source: script}.Call(d.rod.Context(ctx))
	if err != nil {
		return fmt.Errorf("driver: add init script: %w", err)
	}
	return nil
}

// AddScriptTag injects a <script> into the document and waits for it
// to load.
func (d *Driver) AddScriptTag(ctx context.Context, opts ...*page.AddScriptTagOptions) (page.ElementHandle, error) {
	o := first(opts)
	if o == nil {
		return nil, fmt.Errorf("driver: add script tag: no source given")
	}
	content, url, err := tagSource(o.URL, o.Path, o.Content)
	if err != nil {
		return nil, fmt.Errorf("driver: add script tag: %w", err)
	}
	typ := ""
	if o.Type != nil {
		typ = *o.Type
	}
	obj, err := d.rod.Context(ctx).Evaluate(rod.Eval(`(url, content, type) => {
		return new Promise((resolve, reject) => {
			const el = document.createElement("script");
			if (type) el.type = type;
			if (url) {
				el.src = url;
				el.onload = () => resolve(el);
				el.onerror = () => reject(new Error("failed to load " + url));
				document.head.appendChild(el);
				return;
			}
			el.textContent = content;
			document.head.appendChild(el);
			resolve(el);
		});
	}`, url, content, typ).ByPromise().ByObject())
	if err != nil {
		return nil, fmt.Errorf("driver: add script tag: %w", err)
	}
	el, err := d.rod.ElementFromObject(obj)
	if err != nil {
		return nil, fmt.Errorf("driver: add script tag: %w", err)
	}
	return &elementHandle{d: d, el: el}, nil
}

// AddStyleTag injects a <style> or stylesheet <link> into the
// document and waits for it to apply.
func (d *Driver) AddStyleTag(ctx context.Context, opts ...*page.AddStyleTagOptions) (page.ElementHandle, error) {
	o := first(opts)
	if o == nil {
		return nil, fmt.Errorf("driver: add style tag: no source given")
	}
	content, url, err := tagSource(o.URL, o.Path, o.Content)
	if err != nil {
		return nil, fmt.Errorf("driver: add style tag: %w", err)
	}
	obj, err := d.rod.Context(ctx).Evaluate(rod.Eval(`(url, content) => {
		return new Promise((resolve, reject) => {
			if (url) {
				const el = document.createElement("link");
				el.rel = "stylesheet";
				el.href = url;
				el.onload = () => resolve(el);
				el.onerror = () => reject(new Error("failed to load " + url));
				document.head.appendChild(el);
				return;
			}
			const el = document.createElement("style");
			el.textContent = content;
			document.head.appendChild(el);
			resolve(el);
		});
	}`, url, content).ByPromise().ByObject())
	if err != nil {
		return nil, fmt.Errorf("driver: add style tag: %w", err)
	}
	el, err := d.rod.ElementFromObject(obj)
	if err != nil {
		return nil, fmt.Errorf("driver: add style tag: %w", err)
	}
	return &elementHandle{d: d, el: el}, nil
}

// tagSource resolves the URL/Path/Content alternatives of a tag
// option bag.
func tagSource(url, path, content *string) (contentOut, urlOut string, err error) {
	switch {
	case url != nil:
		return "", *url, nil
	case path != nil:
		data, err := os.ReadFile(*path)
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	case content != nil:
		return *content, "", nil
	default:
		return "", "", fmt.Errorf("one of URL, Path or Content required")
	}
}

// EmulateMedia overrides the CSS media type and the emulated
// prefers-color-scheme. Nil fields leave the current emulation
// untouched; an empty value resets that axis.
func (d *Driver) EmulateMedia(ctx context.Context, opts ...*page.EmulateMediaOptions) error {
	o := first(opts)
	d.mu.Lock()
	if o != nil {
		if o.Media != nil {
			d.emulatedMedia = string(*o.Media)
		}
		if o.ColorScheme != nil {
			d.emulatedScheme = string(*o.ColorScheme)
		}
	}
	media, scheme := d.emulatedMedia, d.emulatedScheme
	d.mu.Unlock()

	req := proto.EmulationSetEmulatedMedia{Media: media}
	if scheme != "" {
		req.Features = []*proto.EmulationMediaFeature{
			{Name: "prefers-color-scheme", Value: scheme},
		}
	}
	if err := req.Call(d.rod.Context(ctx)); err != nil {
		return fmt.Errorf("driver: emulate media: %w", err)
	}
	return nil
}

// ExposeBinding installs fn as window[name] in the current and every
// future document. The Handle option is not supported by this driver.
func (d *Driver) ExposeBinding(name string, fn page.BindingCallback, opts ...*page.ExposeBindingOptions) error {
	o := first(opts)
	if o != nil && o.Handle != nil && *o.Handle {
		return fmt.Errorf("driver: exposeBinding %q: handle mode: %w", name, page.ErrUnsupported)
	}
	return d.expose(name, func(args []interface{}) (interface{}, error) {
		return fn(page.BindingSource{Page: d, Frame: d.MainFrame()}, args...)
	})
}

// ExposeFunction installs fn as window[name]; calls resolve with its
// return value.
func (d *Driver) ExposeFunction(name string, fn page.FunctionCallback) error {
	return d.expose(name, func(args []interface{}) (interface{}, error) {
		return fn(args...)
	})
}

func (d *Driver) expose(name string, fn func(args []interface{}) (interface{}, error)) error {
	d.mu.Lock()
	if d.exposed == nil {
		d.exposed = map[string]bool{}
	}
	if d.exposed[name] {
		d.mu.Unlock()
		return fmt.Errorf("driver: expose %q: already registered", name)
	}
	d.exposed[name] = true
	d.mu.Unlock()

	// Rod delivers a single JSON argument, so the visible function
	// packs its variadic arguments into an array.
	raw := "__tabctl_" + name
	_, err := d.rod.Expose(raw, func(g gson.JSON) (interface{}, error) {
		var args []interface{}
		for _, a := range g.Arr() {
			args = append(args, a.Val())
		}
		return fn(args)
	})
	if err != nil {
		return fmt.Errorf("driver: expose %q: %w", name, err)
	}
	wrapper := fmt.Sprintf(`window[%q] = (...args) => window[%q](args);`, name, raw)
	if _, err := d.rod.Eval(fmt.Sprintf(`() => { %s }`, wrapper)); err != nil {
		return fmt.Errorf("driver: expose %q: %w", name, err)
	}
	if _, err := (proto.PageAddScriptToEvaluateOnNewDocument{Source: wrapper}).Call(d.rod); err != nil {
		return fmt.Errorf("driver: expose %q: %w", name, err)
	}
	return nil
}

// SetViewportSize overrides the viewport dimensions in CSS pixels.
func (d *Driver) SetViewportSize(ctx context.Context, width, height int) error {
	err := d.rod.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("driver: set viewport: %w", err)
	}
	d.mu.Lock()
	d.viewport = page.ViewportSize{Width: width, Height: height}
	d.mu.Unlock()
	return nil
}

// ViewportSize returns the last viewport set through this driver.
func (d *Driver) ViewportSize() page.ViewportSize {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewport
}

// SetExtraHTTPHeaders adds headers to every request the page makes.
// Later calls replace the whole set.
func (d *Driver) SetExtraHTTPHeaders(ctx context.Context, headers map[string]string) error {
	h := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		h[k] = gson.New(v)
	}
	if err := (proto.NetworkSetExtraHTTPHeaders{Headers: h}).Call(d.rod.Context(ctx)); err != nil {
		return fmt.Errorf("driver: set extra headers: %w", err)
	}
	d.mu.Lock()
	d.extraHeaders = headers
	d.mu.Unlock()
	return nil
}
