package model

import "strings"

// URLSet is an insertion-ordered set of absolute article URLs.
// Adding a URL that is already present is a no-op, so retries that
// revisit the same page can never reorder or inflate the set.
//
// The zero value is ready to use.
type URLSet struct {
	order []string
	seen  map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{
		order: make([]string, 0),
		seen:  make(map[string]struct{}),
	}
}

// Add inserts url and reports whether the set grew.
// Empty strings are ignored.
func (s *URLSet) Add(url string) bool {
	if url == "" {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

// Contains reports whether url is in the set.
func (s *URLSet) Contains(url string) bool {
	_, ok := s.seen[url]
	return ok
}

// Len returns the number of URLs in the set.
func (s *URLSet) Len() int {
	return len(s.order)
}

// URLs returns the URLs in first-discovery order.
// The returned slice is a copy and may be modified by the caller.
func (s *URLSet) URLs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// NormalizeURL converts a link target into the absolute form stored in a URLSet.
//
// Site-relative targets (starting with "/") get origin prepended; every other
// value, including already absolute URLs, passes through unchanged apart from
// surrounding whitespace. Protocol-relative targets ("//host/path") are not
// site-relative and are left alone.
func NormalizeURL(origin, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return strings.TrimRight(origin, "/") + href
	}
	return href
}
