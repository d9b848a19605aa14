package driver

import (
	"context"
	"errors"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/hazyhaar/tabctl/page"
)

func TestEffectiveTimeout(t *testing.T) {
	d := &Driver{defaultTimeout: DefaultTimeout}

	if got := d.effectiveTimeout(nil, false); got != DefaultTimeout {
		t.Fatalf("nil option = %v, want default %v", got, DefaultTimeout)
	}

	zero := time.Duration(0)
	if got := d.effectiveTimeout(&zero, false); got != 0 {
		t.Fatalf("explicit zero = %v, want 0 (unbounded)", got)
	}

	custom := 5 * time.Second
	if got := d.effectiveTimeout(&custom, false); got != custom {
		t.Fatalf("explicit = %v, want %v", got, custom)
	}

	d.SetDefaultNavigationTimeout(time.Minute)
	if got := d.effectiveTimeout(nil, true); got != time.Minute {
		t.Fatalf("nav default = %v, want 1m", got)
	}
	if got := d.effectiveTimeout(nil, false); got != DefaultTimeout {
		t.Fatalf("non-nav must ignore nav default, got %v", got)
	}

	d.SetDefaultTimeout(2 * time.Second)
	d.SetDefaultNavigationTimeout(0)
	if got := d.effectiveTimeout(nil, true); got != 2*time.Second {
		t.Fatalf("nav falls back to general default, got %v", got)
	}
}

func TestWrapTimeout(t *testing.T) {
	d := &Driver{}

	if err := d.wrapTimeout(nil, context.Background(), context.Background(), "op", time.Second); err != nil {
		t.Fatalf("nil error passed through as %v", err)
	}

	// Operation bound expired: surfaced as *page.TimeoutError.
	opCtx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-opCtx.Done()
	err := d.wrapTimeout(opCtx.Err(), opCtx, context.Background(), "click", 30*time.Millisecond)
	var te *page.TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("deadline expiry = %v, want TimeoutError", err)
	}
	if te.Op != "click" || te.Timeout != 30*time.Millisecond {
		t.Fatalf("TimeoutError = %+v", te)
	}

	// Caller cancellation wins over the bound.
	caller, cancelCaller := context.WithCancel(context.Background())
	cancelCaller()
	opCtx2, cancel2 := context.WithTimeout(caller, time.Hour)
	defer cancel2()
	err = d.wrapTimeout(errors.New("anything"), opCtx2, caller, "click", time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("caller cancel = %v, want context.Canceled", err)
	}

	// Unrelated failure passes through untouched.
	sentinel := errors.New("boom")
	if err := d.wrapTimeout(sentinel, context.Background(), context.Background(), "op", time.Second); err != sentinel {
		t.Fatalf("unrelated error = %v, want sentinel", err)
	}
}

func TestFirstOption(t *testing.T) {
	if got := first[page.ClickOptions](nil); got != nil {
		t.Fatalf("empty opts = %v, want nil", got)
	}
	o := (&page.ClickOptions{}).WithClickCount(2)
	if got := first([]*page.ClickOptions{o}); got != o {
		t.Fatalf("first = %v, want the given bag", got)
	}
	if got := first([]*page.ClickOptions{nil}); got != nil {
		t.Fatalf("explicit nil bag = %v, want nil", got)
	}
}

func TestUnrouteRemovesByPatternAndHandler(t *testing.T) {
	d := &Driver{}
	a := func(page.Route) {}
	b := func(page.Route) {}

	add := func(pattern interface{}, h page.RouteHandler) {
		match, err := page.NewURLMatcher(pattern)
		if err != nil {
			t.Fatalf("matcher: %v", err)
		}
		d.routes = append(d.routes, &routeEntry{
			pattern:   pattern,
			match:     match,
			handler:   h,
			handlerID: handlerID(h),
		})
	}
	add("https://x.test/a", a)
	add("https://x.test/a", b)
	add("https://x.test/b", a)

	// Handler-scoped removal leaves the other handler in place.
	if err := d.Unroute("https://x.test/a", page.RouteHandler(a)); err != nil {
		t.Fatalf("unroute: %v", err)
	}
	if len(d.routes) != 2 {
		t.Fatalf("routes after scoped unroute = %d, want 2", len(d.routes))
	}

	// Pattern-wide removal drops all remaining entries for the URL.
	if err := d.Unroute("https://x.test/a"); err != nil {
		t.Fatalf("unroute: %v", err)
	}
	if len(d.routes) != 1 || d.routes[0].pattern != "https://x.test/b" {
		t.Fatalf("routes after full unroute = %+v", d.routes)
	}
}

func TestPatternEqual(t *testing.T) {
	re := regexp.MustCompile(`a+`)
	fn := func(string) bool { return true }

	cases := []struct {
		name string
		a, b interface{}
		want bool
	}{
		{"same string", "x", "x", true},
		{"different string", "x", "y", false},
		{"same regexp pointer", re, re, true},
		{"different regexp pointers", re, regexp.MustCompile(`a+`), false},
		{"same func", fn, fn, true},
		{"func vs string", fn, "x", false},
		{"both nil", nil, nil, true},
		{"nil vs string", nil, "x", false},
	}
	for _, tc := range cases {
		if got := patternEqual(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: patternEqual = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParseChord(t *testing.T) {
	keys, err := parseChord("Control+Shift+a")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("len = %d, want 3", len(keys))
	}

	if _, err := parseChord("Enter"); err != nil {
		t.Fatalf("single named key: %v", err)
	}
	if _, err := parseChord("z"); err != nil {
		t.Fatalf("single character: %v", err)
	}
	if _, err := parseChord(""); err == nil {
		t.Fatal("empty chord must fail")
	}
	if _, err := parseChord("Bogus+a"); err == nil {
		t.Fatal("unknown key must fail")
	}
}

func TestCSSSizeInches(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1in", 1},
		{"2.54cm", 1},
		{"25.4mm", 1},
		{"96px", 1},
		{"96", 1},
	}
	for _, tc := range cases {
		got, err := cssSizeInches(tc.in)
		if err != nil {
			t.Errorf("%s: %v", tc.in, err)
			continue
		}
		if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := cssSizeInches("abc"); err == nil {
		t.Fatal("garbage size must fail")
	}
}

func TestStagePayloads(t *testing.T) {
	paths, cleanup, err := stagePayloads([]page.FilePayload{
		{Name: "a.txt", MimeType: "text/plain", Buffer: []byte("hello")},
		{Name: "nested/b.bin", Buffer: []byte{1, 2, 3}},
	})
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	t.Cleanup(cleanup)

	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	data, err := os.ReadFile(paths[0])
	if err != nil || string(data) != "hello" {
		t.Fatalf("payload content = %q, %v", data, err)
	}

	cleanup()
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Fatalf("cleanup left %s behind", paths[0])
	}
}
