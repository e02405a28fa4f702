package utils

import (
	"net/url"
	"strings"
	"sync"
)

// LinkSet tracks listing links already visited during a run.
// Links that differ only by fragment, host case or a trailing slash count as one.
type LinkSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewLinkSet() *LinkSet {
	return &LinkSet{seen: make(map[string]struct{})}
}

// Add records link and reports whether it was new.
func (s *LinkSet) Add(link string) bool {
	key := linkKey(link)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Len returns the number of distinct links recorded.
func (s *LinkSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func linkKey(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.ToLower(u.Host)
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}
	return u.String()
}
