package resolver

import (
	"regexp"
	"strings"
)

var (
	disallowedRe = regexp.MustCompile(`[^A-Z0-9 @]`)
	spacesRe     = regexp.MustCompile(`\s+`)
)

// Normalize maps merchant tokens and rule patterns into a common comparable
// form: upper-cased, restricted to A-Z 0-9 space and @, with whitespace runs
// collapsed and ends trimmed. It is pure and idempotent.
//
// The rule cache applies Normalize to patterns at load time and the resolver
// applies it to merchant tokens at match time; the two sides must go through
// this same function or substring matches silently fail.
func Normalize(s string) string {
	s = strings.ToUpper(s)
	s = disallowedRe.ReplaceAllString(s, "")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
