package page

import (
	"fmt"
	"regexp"
)

// URLMatcher decides whether a URL matches a user-supplied pattern.
type URLMatcher func(url string) bool

// NewURLMatcher builds a matcher from an exact string, a
// *regexp.Regexp, or a predicate func(string) bool. A nil pattern
// matches everything.
func NewURLMatcher(pattern interface{}) (URLMatcher, error) {
	switch p := pattern.(type) {
	case nil:
		return func(string) bool { return true }, nil
	case string:
		return func(u string) bool { return u == p }, nil
	case *regexp.Regexp:
		return p.MatchString, nil
	case func(string) bool:
		return p, nil
	case URLMatcher:
		return p, nil
	default:
		return nil, fmt.Errorf("page: unsupported URL pattern type %T", pattern)
	}
}
