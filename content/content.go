// Package content turns captured page HTML into clean text and
// markdown.
//
// The pipeline: raw HTML → parse → prune boilerplate and hidden nodes
// → sanitize → extract text / convert to markdown.
package content

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Result is the output of a conversion.
type Result struct {
	Text     string // clean extracted text
	Markdown string // markdown rendition of the cleaned HTML
	HTML     string // sanitized HTML
	Title    string // page title if found
	Hash     string // SHA-256 of extracted text
}

// Options controls conversion behaviour.
type Options struct {
	// SourceURL resolves relative links during markdown conversion.
	SourceURL string
	// KeepBoilerplate keeps nav/footer/aside content instead of
	// pruning it.
	KeepBoilerplate bool
	// MinTextLen rejects documents whose extracted text is shorter
	// (default: 1).
	MinTextLen int
}

func (o *Options) defaults() {
	if o.MinTextLen <= 0 {
		o.MinTextLen = 1
	}
}

// Converter converts page HTML. It is safe for concurrent use.
type Converter struct {
	policy *bluemonday.Policy
	md     *converter.Converter
}

// NewConverter builds a Converter with the UGC sanitation policy and
// a commonmark+tables markdown pipeline.
func NewConverter() *Converter {
	return &Converter{
		policy: bluemonday.UGCPolicy(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert runs the pipeline on raw HTML.
func (c *Converter) Convert(rawHTML []byte, opts Options) (*Result, error) {
	opts.defaults()

	doc, err := html.Parse(bytes.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("content: parse HTML: %w", err)
	}

	title := findTitle(doc)
	if !opts.KeepBoilerplate {
		pruneBoilerplate(doc)
	}

	text := collectText(doc)
	if len(text) < opts.MinTextLen {
		return nil, fmt.Errorf("content: extracted text below %d chars", opts.MinTextLen)
	}

	clean := c.policy.Sanitize(renderNode(doc))
	markdown := c.markdown(clean, opts.SourceURL, text)

	return &Result{
		Text:     text,
		Markdown: markdown,
		HTML:     clean,
		Title:    title,
		Hash:     hashText(text),
	}, nil
}

// markdown converts sanitized HTML, falling back to plain text when
// conversion fails or produces nothing.
func (c *Converter) markdown(cleanHTML, sourceURL, fallback string) string {
	var convOpts []converter.ConvertOptionFunc
	if sourceURL != "" {
		convOpts = append(convOpts, converter.WithDomain(sourceURL))
	}
	result, err := c.md.ConvertString(cleanHTML, convOpts...)
	if err != nil || strings.TrimSpace(result) == "" {
		return fallback
	}
	return strings.TrimSpace(result)
}

// findTitle extracts the page <title> text.
func findTitle(doc *html.Node) string {
	var title string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			if n.FirstChild != nil {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)
	return title
}

// pruneBoilerplate removes nav/footer/hidden subtrees in place.
func pruneBoilerplate(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if isBoilerplate(c) || hasHiddenStyle(c) {
			n.RemoveChild(c)
			continue
		}
		pruneBoilerplate(c)
	}
}

// collectText extracts all visible text from a node subtree.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return sb.String()
}

// isBoilerplate checks if a node is likely boilerplate (nav, footer,
// cookie banners and similar chrome).
func isBoilerplate(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Nav, atom.Footer, atom.Aside:
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == "class" || attr.Key == "id" {
			lower := strings.ToLower(attr.Val)
			for _, pattern := range boilerplatePatterns {
				if strings.Contains(lower, pattern) {
					return true
				}
			}
		}
		if attr.Key == "role" {
			switch attr.Val {
			case "navigation", "banner", "contentinfo", "complementary":
				return true
			}
		}
	}
	return false
}

var boilerplatePatterns = []string{
	"sidebar", "footer", "nav", "menu", "breadcrumb",
	"cookie", "banner", "advert", "social", "share", "comment",
	"related", "widget", "popup", "modal",
}

var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
	regexp.MustCompile(`(?i)font-size\s*:\s*0[^1-9]`),
	regexp.MustCompile(`(?i)opacity\s*:\s*0[^.]`),
}

func hasHiddenStyle(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "style" {
			for _, pat := range hiddenStylePatterns {
				if pat.MatchString(a.Val) {
					return true
				}
			}
		}
	}
	return false
}

// hashText returns the SHA-256 hex digest of text.
func hashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", h)
}

// renderNode serialises an HTML node subtree back to a string.
func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	html.Render(&buf, n)
	return buf.String()
}
