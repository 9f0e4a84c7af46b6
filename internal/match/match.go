// Package match evaluates URL strings against wildcard patterns.
// It is pure: no state, no I/O, total over all inputs.
package match

import (
	"regexp"
	"strings"
)

// Matches reports whether url satisfies pattern.
//
// Pattern grammar: `*` means zero or more characters; everything else
// is literal. The pattern is anchored at both ends, so a bare
// "example.com" matches only that exact string while "*example.com*"
// matches it anywhere. Comparison is case-insensitive using simple
// Unicode folding; no locale-dependent casing rules apply.
//
// An empty or whitespace-only pattern never matches. A pattern the
// regexp engine refuses to compile degrades to a literal
// case-insensitive comparison; Matches never panics.
func Matches(pattern, url string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}

	re, err := regexp.Compile(toRegexp(pattern))
	if err != nil {
		return strings.EqualFold(pattern, url)
	}
	return re.MatchString(url)
}

// toRegexp translates the wildcard grammar into an anchored,
// case-insensitive regular expression. Literal segments are quoted so
// regex metacharacters in patterns stay literal.
func toRegexp(pattern string) string {
	segments := strings.Split(pattern, "*")
	for i, s := range segments {
		segments[i] = regexp.QuoteMeta(s)
	}
	return "(?i)^" + strings.Join(segments, ".*") + "$"
}
