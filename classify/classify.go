// Package classify derives boolean listing attributes from free text by
// keyword matching.
package classify

import "strings"

// Default phrase lists. Sites override them in the site configuration.
var (
	DefaultAccessibilityPhrases = []string{
		"wheelchair accessible",
		"ada compliant",
		"handicap accessible",
		"accessible unit",
		"accessibility features",
	}

	DefaultSubsidizedPhrases = []string{
		"section 8",
		"section 8 accepted",
		"section 8 welcome",
		"housing choice voucher",
		"hcv welcome",
	}
)

// Classifier reports whether a text mentions any of an ordered list of phrases.
// Matching is case-insensitive substring search.
type Classifier struct {
	phrases []string
}

// New creates a Classifier for the given phrases. Blank phrases are dropped
// since they would match every text.
func New(phrases []string) *Classifier {
	c := &Classifier{phrases: make([]string, 0, len(phrases))}
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		c.phrases = append(c.phrases, p)
	}
	return c
}

// Classify returns true iff the lower-cased text contains at least one phrase.
func (c *Classifier) Classify(text string) bool {
	if text == "" {
		return false
	}
	text = strings.ToLower(text)
	for _, p := range c.phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Phrases returns a copy of the normalized phrase list.
func (c *Classifier) Phrases() []string {
	out := make([]string, len(c.phrases))
	copy(out, c.phrases)
	return out
}
