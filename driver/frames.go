package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/tabctl/page"
)

// frame is a lightweight view over one frame in the page's tree.
// Frame handles are snapshots; re-query after navigation.
type frame struct {
	d    *Driver
	id   string
	name string
	url  string
}

func (f *frame) Name() string { return f.name }

func (f *frame) URL() string { return f.url }

func (f *frame) Page() page.Page { return f.d }

func (f *frame) ParentFrame() page.Frame {
	tree, err := proto.PageGetFrameTree{}.Call(f.d.rod)
	if err != nil {
		return nil
	}
	parent := findParent(tree.FrameTree, f.id)
	if parent == nil {
		return nil
	}
	return f.d.frameFromProto(parent.Frame)
}

func (f *frame) ChildFrames() []page.Frame {
	tree, err := proto.PageGetFrameTree{}.Call(f.d.rod)
	if err != nil {
		return nil
	}
	node := findNode(tree.FrameTree, f.id)
	if node == nil {
		return nil
	}
	out := make([]page.Frame, 0, len(node.ChildFrames))
	for _, child := range node.ChildFrames {
		out = append(out, f.d.frameFromProto(child.Frame))
	}
	return out
}

func (f *frame) IsDetached() bool {
	tree, err := proto.PageGetFrameTree{}.Call(f.d.rod)
	if err != nil {
		return true
	}
	return findNode(tree.FrameTree, f.id) == nil
}

func findNode(node *proto.PageFrameTree, id string) *proto.PageFrameTree {
	if node == nil {
		return nil
	}
	if string(node.Frame.ID) == id {
		return node
	}
	for _, child := range node.ChildFrames {
		if found := findNode(child, id); found != nil {
			return found
		}
	}
	return nil
}

func findParent(node *proto.PageFrameTree, id string) *proto.PageFrameTree {
	if node == nil {
		return nil
	}
	for _, child := range node.ChildFrames {
		if string(child.Frame.ID) == id {
			return node
		}
		if found := findParent(child, id); found != nil {
			return found
		}
	}
	return nil
}

func (d *Driver) frameFromProto(f *proto.PageFrame) *frame {
	return &frame{d: d, id: string(f.ID), name: f.Name, url: f.URL}
}

// frameByID resolves a frame ID against the current tree, falling
// back to a bare handle when the tree is unavailable.
func (d *Driver) frameByID(id string) page.Frame {
	tree, err := proto.PageGetFrameTree{}.Call(d.rod)
	if err == nil {
		if node := findNode(tree.FrameTree, id); node != nil {
			return d.frameFromProto(node.Frame)
		}
	}
	return &frame{d: d, id: id}
}

// MainFrame returns the root frame of the page.
func (d *Driver) MainFrame() page.Frame {
	tree, err := proto.PageGetFrameTree{}.Call(d.rod)
	if err != nil {
		return &frame{d: d}
	}
	return d.frameFromProto(tree.FrameTree.Frame)
}

// Frames returns every frame currently attached, main frame first.
func (d *Driver) Frames() []page.Frame {
	tree, err := proto.PageGetFrameTree{}.Call(d.rod)
	if err != nil {
		return nil
	}
	var out []page.Frame
	var walk func(node *proto.PageFrameTree)
	walk = func(node *proto.PageFrameTree) {
		out = append(out, d.frameFromProto(node.Frame))
		for _, child := range node.ChildFrames {
			walk(child)
		}
	}
	walk(tree.FrameTree)
	return out
}

// Frame returns the frame with the given name attribute, or nil.
func (d *Driver) Frame(name string) page.Frame {
	for _, f := range d.Frames() {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// FrameByURL returns the first frame whose URL matches, or nil.
func (d *Driver) FrameByURL(url interface{}) page.Frame {
	match, err := page.NewURLMatcher(url)
	if err != nil {
		return nil
	}
	for _, f := range d.Frames() {
		if match(f.URL()) {
			return f
		}
	}
	return nil
}

// ---- Workers ----

type worker struct {
	url string
}

func (w *worker) URL() string { return w.url }

// Workers lists the dedicated workers spawned by the page.
func (d *Driver) Workers() []page.Worker {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]page.Worker, len(d.workers))
	copy(out, d.workers)
	return out
}

func (d *Driver) onTargetAttached(e *proto.TargetAttachedToTarget) {
	if e.TargetInfo.Type != "worker" && e.TargetInfo.Type != "service_worker" {
		return
	}
	w := &worker{url: e.TargetInfo.URL}
	d.mu.Lock()
	d.workers = append(d.workers, w)
	d.mu.Unlock()
	d.events.Emit(page.EventWorker, page.Worker(w))
}

// ---- Popups ----

// watchPopups subscribes to browser target creation and wraps targets
// opened by this page as popup drivers.
func (d *Driver) watchPopups() {
	if d.brw == nil {
		return
	}
	ourID := d.rod.TargetID
	go d.brw.Context(d.pumpCtx).EachEvent(func(e *proto.TargetTargetCreated) {
		if e.TargetInfo.OpenerID != ourID || e.TargetInfo.Type != "page" {
			return
		}
		rodPage, err := d.brw.PageFromTarget(e.TargetInfo.TargetID)
		if err != nil {
			d.log.Warn("driver: attach popup", "error", err)
			return
		}
		popup, err := New(Config{
			Browser:     d.brw,
			Page:        rodPage,
			DownloadDir: d.downloadDir,
			Recorder:    d.rec,
			Logger:      d.log,
		})
		if err != nil {
			d.log.Warn("driver: wrap popup", "error", err)
			return
		}
		popup.setOpener(d)
		d.events.Emit(page.EventPopup, page.Page(popup))
	})()
}

// ---- Input devices ----

type keyboard struct {
	d *Driver
}

func (k *keyboard) Down(ctx context.Context, key string) error {
	kk, err := lookupKey(key)
	if err != nil {
		return err
	}
	if err := k.d.rod.Context(ctx).Keyboard.Press(kk); err != nil {
		return fmt.Errorf("driver: key down %q: %w", key, err)
	}
	return nil
}

func (k *keyboard) Up(ctx context.Context, key string) error {
	kk, err := lookupKey(key)
	if err != nil {
		return err
	}
	if err := k.d.rod.Context(ctx).Keyboard.Release(kk); err != nil {
		return fmt.Errorf("driver: key up %q: %w", key, err)
	}
	return nil
}

func (k *keyboard) Press(ctx context.Context, key string, opts ...*page.KeyboardPressOptions) error {
	o := first(opts)
	if err := k.d.pressChord(ctx, key); err != nil {
		return err
	}
	if o != nil && o.Delay != nil {
		select {
		case <-time.After(*o.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (k *keyboard) Type(ctx context.Context, text string, opts ...*page.KeyboardTypeOptions) error {
	o := first(opts)
	var delay time.Duration
	if o != nil && o.Delay != nil {
		delay = *o.Delay
	}
	kb := k.d.rod.Context(ctx).Keyboard
	for _, r := range text {
		if err := kb.Type(input.Key(r)); err != nil {
			return fmt.Errorf("driver: keyboard type: %w", err)
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

func (k *keyboard) InsertText(ctx context.Context, text string) error {
	err := proto.InputInsertText{Text: text}.Call(k.d.rod.Context(ctx))
	if err != nil {
		return fmt.Errorf("driver: insert text: %w", err)
	}
	return nil
}

type mouse struct {
	d *Driver
}

func (m *mouse) Move(ctx context.Context, x, y float64, opts ...*page.MouseMoveOptions) error {
	if err := m.d.rod.Context(ctx).Mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
		return fmt.Errorf("driver: mouse move: %w", err)
	}
	return nil
}

func (m *mouse) Down(ctx context.Context, opts ...*page.MouseDownOptions) error {
	o := first(opts)
	var button *page.MouseButton
	count := 1
	if o != nil {
		button = o.Button
		if o.ClickCount != nil {
			count = *o.ClickCount
		}
	}
	if err := m.d.rod.Context(ctx).Mouse.Down(mouseButton(button), count); err != nil {
		return fmt.Errorf("driver: mouse down: %w", err)
	}
	return nil
}

func (m *mouse) Up(ctx context.Context, opts ...*page.MouseUpOptions) error {
	o := first(opts)
	var button *page.MouseButton
	count := 1
	if o != nil {
		button = o.Button
		if o.ClickCount != nil {
			count = *o.ClickCount
		}
	}
	if err := m.d.rod.Context(ctx).Mouse.Up(mouseButton(button), count); err != nil {
		return fmt.Errorf("driver: mouse up: %w", err)
	}
	return nil
}

func (m *mouse) Click(ctx context.Context, x, y float64, opts ...*page.MouseClickOptions) error {
	o := first(opts)
	var button *page.MouseButton
	if o != nil {
		button = o.Button
	}
	rm := m.d.rod.Context(ctx).Mouse
	if err := rm.MoveTo(proto.Point{X: x, Y: y}); err != nil {
		return fmt.Errorf("driver: mouse click: %w", err)
	}
	if err := rm.Click(mouseButton(button), 1); err != nil {
		return fmt.Errorf("driver: mouse click: %w", err)
	}
	return nil
}

func (m *mouse) DblClick(ctx context.Context, x, y float64, opts ...*page.MouseDblClickOptions) error {
	o := first(opts)
	var button *page.MouseButton
	if o != nil {
		button = o.Button
	}
	rm := m.d.rod.Context(ctx).Mouse
	if err := rm.MoveTo(proto.Point{X: x, Y: y}); err != nil {
		return fmt.Errorf("driver: mouse dblclick: %w", err)
	}
	if err := rm.Click(mouseButton(button), 2); err != nil {
		return fmt.Errorf("driver: mouse dblclick: %w", err)
	}
	return nil
}

type touchscreen struct {
	d *Driver
}

func (t *touchscreen) Tap(ctx context.Context, x, y float64) error {
	p := t.d.rod.Context(ctx)
	pts := []*proto.InputTouchPoint{{X: x, Y: y}}
	down := proto.InputDispatchTouchEvent{Type: proto.InputDispatchTouchEventTypeTouchStart, TouchPoints: pts}
	if err := down.Call(p); err != nil {
		return fmt.Errorf("driver: tap: %w", err)
	}
	up := proto.InputDispatchTouchEvent{Type: proto.InputDispatchTouchEventTypeTouchEnd, TouchPoints: []*proto.InputTouchPoint{}}
	if err := up.Call(p); err != nil {
		return fmt.Errorf("driver: tap: %w", err)
	}
	return nil
}

type accessibility struct {
	d *Driver
}

// Snapshot returns the full accessibility tree as generic JSON.
func (a *accessibility) Snapshot(ctx context.Context) (interface{}, error) {
	res, err := proto.AccessibilityGetFullAXTree{}.Call(a.d.rod.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("driver: accessibility snapshot: %w", err)
	}
	nodes := make([]interface{}, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		node := map[string]interface{}{
			"id":      string(n.NodeID),
			"ignored": n.Ignored,
		}
		if n.Role != nil {
			node["role"] = n.Role.Value.Val()
		}
		if n.Name != nil {
			node["name"] = n.Name.Value.Val()
		}
		if n.Value != nil {
			node["value"] = n.Value.Value.Val()
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (d *Driver) Keyboard() page.Keyboard { return &keyboard{d: d} }

func (d *Driver) Mouse() page.Mouse { return &mouse{d: d} }

func (d *Driver) Touchscreen() page.Touchscreen { return &touchscreen{d: d} }

func (d *Driver) Accessibility() page.Accessibility { return &accessibility{d: d} }

// Video always returns nil; this driver does not record.
func (d *Driver) Video() page.Video { return nil }
