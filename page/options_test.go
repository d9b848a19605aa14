package page

import (
	"testing"
	"time"
)

func TestClickOptionsWithersReturnReceiver(t *testing.T) {
	o := &ClickOptions{}
	got := o.WithButton(MouseButtonRight).
		WithClickCount(2).
		WithDelay(10 * time.Millisecond).
		WithForce(true).
		WithModifiers(ModifierShift, ModifierAlt).
		WithNoWaitAfter(true).
		WithPosition(3, 4).
		WithTimeout(time.Second)
	if got != o {
		t.Fatal("wither returned a different bag instance")
	}
	if *o.Button != MouseButtonRight {
		t.Errorf("button = %q", *o.Button)
	}
	if *o.ClickCount != 2 {
		t.Errorf("clickCount = %d", *o.ClickCount)
	}
	if *o.Delay != 10*time.Millisecond {
		t.Errorf("delay = %s", *o.Delay)
	}
	if !*o.Force || !*o.NoWaitAfter {
		t.Error("force/noWaitAfter not set")
	}
	if len(o.Modifiers) != 2 {
		t.Errorf("modifiers = %v", o.Modifiers)
	}
	if o.Position.X != 3 || o.Position.Y != 4 {
		t.Errorf("position = %+v", o.Position)
	}
	if *o.Timeout != time.Second {
		t.Errorf("timeout = %s", *o.Timeout)
	}
}

func TestWitherSetsExactlyOneField(t *testing.T) {
	o := &NavigateOptions{}
	o.WithWaitUntil(WaitUntilNetworkIdle)
	if o.Timeout != nil || o.Referer != nil {
		t.Error("unrelated fields were set")
	}
	if *o.WaitUntil != WaitUntilNetworkIdle {
		t.Errorf("waitUntil = %q", *o.WaitUntil)
	}

	// Idempotent single-field mutation.
	o.WithWaitUntil(WaitUntilNetworkIdle)
	if *o.WaitUntil != WaitUntilNetworkIdle {
		t.Errorf("waitUntil after repeat = %q", *o.WaitUntil)
	}
}

func TestTimeoutZeroIsDistinctFromUnset(t *testing.T) {
	o := &FillOptions{}
	if o.Timeout != nil {
		t.Fatal("zero bag must leave timeout unset")
	}
	o.WithTimeout(0)
	if o.Timeout == nil || *o.Timeout != 0 {
		t.Fatal("explicit 0 timeout must be recorded, it means no timeout")
	}
}

func TestScreenshotOptionsClip(t *testing.T) {
	o := (&ScreenshotOptions{}).WithClip(1, 2, 30, 40)
	want := Clip{X: 1, Y: 2, Width: 30, Height: 40}
	if *o.Clip != want {
		t.Errorf("clip = %+v, want %+v", *o.Clip, want)
	}
}

func TestPdfOptionsChain(t *testing.T) {
	o := (&PdfOptions{}).
		WithFormat("A4").
		WithLandscape(true).
		WithMargin(Margin{Top: "1cm"}).
		WithPageRanges("1-3")
	if *o.Format != "A4" || !*o.Landscape {
		t.Error("format/landscape not set")
	}
	if o.Margin.Top != "1cm" {
		t.Errorf("margin top = %q", o.Margin.Top)
	}
	if *o.PageRanges != "1-3" {
		t.Errorf("pageRanges = %q", *o.PageRanges)
	}
	if o.Scale != nil || o.Path != nil {
		t.Error("unrelated fields were set")
	}
}
