package content

import (
	"strings"
	"testing"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head><title>Release Notes</title></head>
<body>
  <nav class="nav">Home | About</nav>
  <div class="cookie-banner">We use cookies</div>
  <main>
    <h1>Version 2.0</h1>
    <p>Faster rendering and a <a href="/docs">new docs site</a>.</p>
    <div style="display:none">tracking pixel text</div>
    <script>console.log("noise")</script>
  </main>
  <footer>Copyright</footer>
</body>
</html>`

func TestConvertExtractsContent(t *testing.T) {
	c := NewConverter()
	res, err := c.Convert([]byte(sampleHTML), Options{SourceURL: "https://example.test"})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if res.Title != "Release Notes" {
		t.Errorf("title = %q", res.Title)
	}
	if !strings.Contains(res.Text, "Version 2.0") {
		t.Errorf("text misses heading: %q", res.Text)
	}
	for _, noise := range []string{"We use cookies", "Home | About", "Copyright", "tracking pixel", "console.log"} {
		if strings.Contains(res.Text, noise) {
			t.Errorf("text kept boilerplate %q", noise)
		}
	}
	if strings.Contains(res.HTML, "<script") {
		t.Error("sanitized HTML kept a script tag")
	}
	if !strings.Contains(res.Markdown, "Version 2.0") {
		t.Errorf("markdown misses heading: %q", res.Markdown)
	}
	if res.Hash == "" || len(res.Hash) != 64 {
		t.Errorf("hash = %q, want sha256 hex", res.Hash)
	}
}

func TestConvertHashStable(t *testing.T) {
	c := NewConverter()
	a, err := c.Convert([]byte(sampleHTML), Options{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	b, err := c.Convert([]byte(sampleHTML), Options{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if a.Hash != b.Hash {
		t.Fatalf("hash unstable: %q vs %q", a.Hash, b.Hash)
	}
}

func TestConvertKeepBoilerplate(t *testing.T) {
	c := NewConverter()
	res, err := c.Convert([]byte(sampleHTML), Options{KeepBoilerplate: true})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(res.Text, "We use cookies") {
		t.Errorf("KeepBoilerplate dropped banner text: %q", res.Text)
	}
}

func TestConvertRejectsShortText(t *testing.T) {
	c := NewConverter()
	_, err := c.Convert([]byte("<html><body><p>hi</p></body></html>"), Options{MinTextLen: 100})
	if err == nil {
		t.Fatal("short document must be rejected")
	}
}

func TestConvertBadHTMLStillParses(t *testing.T) {
	// The HTML5 parser never fails on malformed input; it repairs.
	c := NewConverter()
	res, err := c.Convert([]byte("<p>unclosed <b>tags"), Options{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(res.Text, "unclosed") {
		t.Errorf("text = %q", res.Text)
	}
}

func TestInspectPDFRejectsGarbage(t *testing.T) {
	if _, err := InspectPDF([]byte("not a pdf")); err == nil {
		t.Fatal("garbage bytes must not validate")
	}
}
