package page

import (
	"regexp"
	"strings"
	"testing"
)

func TestURLMatcherExactString(t *testing.T) {
	m, err := NewURLMatcher("https://example.com/a")
	if err != nil {
		t.Fatal(err)
	}
	if !m("https://example.com/a") {
		t.Error("exact URL did not match")
	}
	if m("https://example.com/a?x=1") {
		t.Error("string match must be exact, not prefix")
	}
}

func TestURLMatcherRegexp(t *testing.T) {
	m, err := NewURLMatcher(regexp.MustCompile(`\.png$`))
	if err != nil {
		t.Fatal(err)
	}
	if !m("https://example.com/logo.png") {
		t.Error("regexp did not match")
	}
	if m("https://example.com/logo.svg") {
		t.Error("regexp matched wrong URL")
	}
}

func TestURLMatcherPredicate(t *testing.T) {
	m, err := NewURLMatcher(func(u string) bool { return strings.Contains(u, "/api/") })
	if err != nil {
		t.Fatal(err)
	}
	if !m("https://example.com/api/v1") {
		t.Error("predicate did not match")
	}
}

func TestURLMatcherNilMatchesAll(t *testing.T) {
	m, err := NewURLMatcher(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !m("anything") {
		t.Error("nil pattern must match everything")
	}
}

func TestURLMatcherRejectsUnknownType(t *testing.T) {
	if _, err := NewURLMatcher(42); err == nil {
		t.Fatal("expected error for unsupported pattern type")
	}
}
