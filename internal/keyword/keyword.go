// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keyword tokenizes free text into stop-word-filtered keyword sets
// and scores textual similarity over them. Every higher stage (facts,
// journeys, audit, rebuild) derives its keywords here.
package keyword

import (
	"regexp"
	"sort"
	"strings"
)

// stopwords lists common English function words plus domain filler that
// carries no signal in a code-adjacent knowledge base. Tokens on this list
// never become keywords.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a an the is are was were be been being have has had do does did
		will would could should may might must shall can need
		to of in for on with at by from as into through during before
		after above below between under again further then once
		here there when where why how all each every both few more most
		other some such no nor not only own same so than too very just
		and but if or because until while this that these those
		it its they them their what which who whom you your
		use using used file code wip tried still todo current state date`) {
		stopwords[w] = struct{}{}
	}
}

// wordRe matches bare alphanumeric tokens for similarity comparison.
var wordRe = regexp.MustCompile(`[a-zA-Z0-9]+`)

// identRe matches identifier-shaped tokens: alphabetic start, then letters,
// digits, hyphens, or underscores. Used where hyphenated terms like
// "tried-failed" or snake_case names should survive as single keywords.
var identRe = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9_-]{2,}\b`)

// Set is an unordered keyword set.
type Set map[string]struct{}

// NewSet builds a Set from the given keywords, lowercasing each.
func NewSet(keywords ...string) Set {
	s := make(Set, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

// Add inserts a keyword into the set.
func (s Set) Add(k string) {
	s[k] = struct{}{}
}

// Has reports whether k is in the set.
func (s Set) Has(k string) bool {
	_, ok := s[k]
	return ok
}

// Overlap returns the size of the intersection with other.
func (s Set) Overlap(other Set) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for k := range small {
		if large.Has(k) {
			n++
		}
	}
	return n
}

// Sorted returns the set's keywords in lexical order. A limit of zero means
// unlimited.
func (s Set) Sorted(limit int) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Extract tokenizes text into a lowercase keyword set: alphanumeric runs of
// length three or more, minus stop words. The same text always yields the
// same set.
func Extract(text string) Set {
	set := Set{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) < 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		set.Add(w)
	}
	return set
}

// Identifiers tokenizes text into an ordered, de-duplicated keyword list
// keeping hyphens and underscores inside tokens. A limit of zero means
// unlimited.
func Identifiers(text string, limit int) []string {
	seen := Set{}
	var out []string
	for _, w := range identRe.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopwords[w]; stop {
			continue
		}
		if seen.Has(w) {
			continue
		}
		seen.Add(w)
		out = append(out, w)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
