package urlutil

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsAny(t *testing.T) {
	tests := []struct {
		name       string
		rawURL     string
		substrings []string
		expected   bool
	}{
		{"exact host match", "https://example.com/missing", []string{"example.com/missing"}, true},
		{"second entry matches", "https://docs.rs/crate", []string{"github.com", "docs.rs"}, true},
		{"no match", "https://example.com/page", []string{"other.com"}, false},
		{"nil list", "https://example.com", nil, false},
		{"empty entry ignored", "https://example.com", []string{""}, false},
		{"case sensitive", "https://EXAMPLE.com", []string{"example.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsAny(tt.rawURL, tt.substrings))
		})
	}
}

func TestMatchesAny(t *testing.T) {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`localhost`),
		regexp.MustCompile(`^https://internal\.`),
	}

	tests := []struct {
		name     string
		rawURL   string
		expected bool
	}{
		{"first pattern", "http://localhost:8080/api", true},
		{"anchored pattern", "https://internal.corp/wiki", true},
		{"anchored pattern not at start", "https://example.com/?u=https://internal.corp", false},
		{"no pattern", "https://example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesAny(tt.rawURL, patterns))
		})
	}

	assert.False(t, MatchesAny("https://example.com", nil), "no patterns never match")
}

func TestIsHTTPScheme(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "https scheme", input: "https://example.com", expected: true},
		{name: "http scheme", input: "http://example.com", expected: true},
		{name: "uppercase scheme", input: "HTTPS://example.com", expected: true},
		{name: "mailto scheme", input: "mailto:user@example.com", expected: false},
		{name: "tel scheme", input: "tel:+1234567890", expected: false},
		{name: "javascript scheme", input: "javascript:void(0)", expected: false},
		{name: "ftp scheme", input: "ftp://files.example.com", expected: false},
		{name: "empty string", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsHTTPScheme(tt.input))
		})
	}
}
