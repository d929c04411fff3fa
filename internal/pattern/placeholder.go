// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"regexp"
	"strings"
)

// Journey entry templates ship with literal placeholder lines. The
// extractor has no placeholder awareness, so index writers filter them
// here before persisting anything.
var placeholderTexts = map[string]struct{}{
	"[Pattern that worked]":         {},
	"[What didn't work] - [reason]": {},
	"[Unexpected issue discovered]": {},
	"[Practice to follow]":          {},
}

// placeholderKeywords are the template's sample context tokens.
var placeholderKeywords = map[string]struct{}{
	"keyword1": {},
	"keyword2": {},
	"keyword3": {},
}

// bracketRe strips bracket characters left over from template keywords.
var bracketRe = regexp.MustCompile(`[\[\](){}]`)

// IsPlaceholderText reports whether text is literal template boilerplate.
func IsPlaceholderText(text string) bool {
	_, ok := placeholderTexts[text]
	return ok
}

// IsPlaceholderContext reports whether a split context list is exactly the
// template's sample keyword list.
func IsPlaceholderContext(keywords []string) bool {
	if len(keywords) != 2 && len(keywords) != 3 {
		return false
	}
	for i, k := range keywords {
		if k != "keyword"+string(rune('1'+i)) {
			return false
		}
	}
	return true
}

// IsPlaceholderKeyword reports whether a single keyword is a template
// sample token.
func IsPlaceholderKeyword(k string) bool {
	_, ok := placeholderKeywords[strings.ToLower(k)]
	return ok
}

// CleanKeyword lowercases a harvested keyword and removes bracket
// characters. Returns the empty string for tokens too short to keep.
func CleanKeyword(k string) string {
	k = strings.ToLower(strings.TrimSpace(bracketRe.ReplaceAllString(k, "")))
	if len(k) < 2 {
		return ""
	}
	return k
}
