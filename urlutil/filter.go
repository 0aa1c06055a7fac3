// Package urlutil holds the string-level URL predicates shared by the
// discovery and reporting filters.
package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

// ContainsAny reports whether rawURL contains any of the given substrings.
// Empty substrings are ignored so a stray comma in an allowlist cannot
// suppress every result.
func ContainsAny(rawURL string, substrings []string) bool {
	for _, sub := range substrings {
		if sub == "" {
			continue
		}
		if strings.Contains(rawURL, sub) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether rawURL matches any of the compiled patterns.
func MatchesAny(rawURL string, patterns []*regexp.Regexp) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(rawURL) {
			return true
		}
	}
	return false
}

// IsHTTPScheme returns true if the URL has an http or https scheme.
// Returns false for empty strings, non-HTTP schemes, or unparseable URLs.
func IsHTTPScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}
