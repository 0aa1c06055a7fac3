package result

import (
	"errors"
	"slices"
	"testing"
)

func TestNewURLLocation(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		line    int
		file    string
		want    URLLocation
		wantErr error
	}{
		{name: "valid", url: "https://example.com", line: 3, file: "README.md",
			want: URLLocation{URL: "https://example.com", Line: 3, FileName: "README.md"}},
		{name: "trims whitespace", url: "  https://example.com\t", line: 1, file: " docs/a.md ",
			want: URLLocation{URL: "https://example.com", Line: 1, FileName: "docs/a.md"}},
		{name: "empty url", url: "   ", line: 1, file: "a.md", wantErr: ErrMissingURL},
		{name: "zero line", url: "https://example.com", line: 0, file: "a.md", wantErr: ErrInvalidLine},
		{name: "empty file", url: "https://example.com", line: 1, file: "", wantErr: ErrMissingFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewURLLocation(tt.url, tt.line, tt.file)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewURLLocation() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewURLLocation() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NewURLLocation() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidationResult_Predicates(t *testing.T) {
	loc := URLLocation{URL: "https://example.com", Line: 2, FileName: "a.md"}

	ok := NewStatusResult(loc, 200)
	if !ok.IsOK() || ok.IsNotOK() || !ok.HasStatus() || ok.Category != "" {
		t.Errorf("200 result predicates wrong: %+v", ok)
	}

	redirect := NewStatusResult(loc, 301)
	if redirect.IsOK() {
		t.Error("only 200 is OK")
	}
	if redirect.Category != Category3xx {
		t.Errorf("Category = %q, want %q", redirect.Category, Category3xx)
	}

	timedOut := ValidationResult{URL: loc.URL, Description: TimeoutDescription}
	if !timedOut.IsTimeout() || timedOut.HasStatus() {
		t.Error("timeout result should have no status and report IsTimeout")
	}

	withStatus := ValidationResult{URL: loc.URL, StatusCode: 504, Description: TimeoutDescription}
	if withStatus.IsTimeout() {
		t.Error("a received status is never a timeout")
	}
}

func TestNewFailureResult(t *testing.T) {
	loc := URLLocation{URL: "https://example.com", Line: 9, FileName: "b.md"}
	res := NewFailureResult(loc, &RedirectLimitError{Max: 10})

	if res.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", res.StatusCode)
	}
	if res.Description != "stopped after 10 redirects" {
		t.Errorf("Description = %q", res.Description)
	}
	if res.Category != CategoryRedirectLimit {
		t.Errorf("Category = %q, want %q", res.Category, CategoryRedirectLimit)
	}
	if res.Line != 9 || res.FileName != "b.md" {
		t.Errorf("provenance not copied: %+v", res)
	}
}

func TestValidationResult_EqualIgnoresProvenance(t *testing.T) {
	a := ValidationResult{URL: "https://x", StatusCode: 404, Line: 1, FileName: "a.md"}
	b := ValidationResult{URL: "https://x", StatusCode: 404, Line: 7, FileName: "b.md"}
	c := ValidationResult{URL: "https://x", StatusCode: 500}

	if !a.Equal(b) {
		t.Error("results differing only in provenance should be equal")
	}
	if a.Equal(c) {
		t.Error("results with different status should differ")
	}
}

func TestValidationResult_String(t *testing.T) {
	withStatus := ValidationResult{URL: "https://x/a", StatusCode: 404, FileName: "a.md", Line: 3}
	if got, want := withStatus.String(), "404 - https://x/a - a.md - L3"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	withoutStatus := ValidationResult{URL: "https://x/b", Description: "operation timed out", FileName: "b.md", Line: 1}
	if got, want := withoutStatus.String(), "https://x/b - operation timed out - b.md - L1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSortResults_Stable(t *testing.T) {
	results := []ValidationResult{
		{URL: "https://c"},
		{URL: "https://a", Line: 1},
		{URL: "https://b"},
		{URL: "https://a", Line: 2},
	}

	SortResults(results)

	got := urls(results)
	if !slices.Equal(got, []string{"https://a", "https://a", "https://b", "https://c"}) {
		t.Errorf("unexpected order: %v", got)
	}
	if results[0].Line != 1 || results[1].Line != 2 {
		t.Error("equal URLs should keep their input order")
	}
}

func TestCompareLocations(t *testing.T) {
	a := URLLocation{URL: "https://a"}
	b := URLLocation{URL: "https://b"}
	if CompareLocations(a, b) >= 0 || CompareLocations(b, a) <= 0 || CompareLocations(a, a) != 0 {
		t.Error("CompareLocations should order by URL")
	}
}
