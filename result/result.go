// Package result defines the data exchanged between discovery, validation and
// reporting: where a URL was found, what happened when it was checked, and the
// aggregate report produced for a run.
package result

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// StatusOK is the only status code treated as a passing check.
const StatusOK = 200

var (
	// ErrMissingURL is returned when a location is built with an empty URL.
	ErrMissingURL = errors.New("URL is required and cannot be empty")
	// ErrMissingFileName is returned when a location is built with an empty file name.
	ErrMissingFileName = errors.New("file name is required and cannot be empty")
	// ErrInvalidLine is returned when a location is built with line 0.
	ErrInvalidLine = errors.New("line number must be greater than 0")
)

// URLLocation is a single occurrence of a URL in a source file.
// Identity is the URL string; Line and FileName are provenance only.
type URLLocation struct {
	URL      string `json:"url"`
	Line     int    `json:"line"`
	FileName string `json:"file_name"`
}

// NewURLLocation validates and trims its inputs.
func NewURLLocation(rawURL string, line int, fileName string) (URLLocation, error) {
	rawURL = strings.TrimSpace(rawURL)
	fileName = strings.TrimSpace(fileName)

	if rawURL == "" {
		return URLLocation{}, ErrMissingURL
	}
	if line <= 0 {
		return URLLocation{}, fmt.Errorf("%w: got %d", ErrInvalidLine, line)
	}
	if fileName == "" {
		return URLLocation{}, ErrMissingFileName
	}

	return URLLocation{URL: rawURL, Line: line, FileName: fileName}, nil
}

// CompareLocations orders locations lexicographically by URL.
func CompareLocations(a, b URLLocation) int {
	return strings.Compare(a.URL, b.URL)
}

// ValidationResult is the outcome of checking one URL.
type ValidationResult struct {
	URL         string        `json:"url"`
	Line        int           `json:"line"`
	FileName    string        `json:"file_name"`
	StatusCode  int           `json:"status_code,omitempty"` // 0 when no response was received
	Description string        `json:"description,omitempty"` // transport failure or annotation
	Category    ErrorCategory `json:"error_type,omitempty"`
}

// NewStatusResult records a received HTTP response for loc.
func NewStatusResult(loc URLLocation, statusCode int) ValidationResult {
	return ValidationResult{
		URL:        loc.URL,
		Line:       loc.Line,
		FileName:   loc.FileName,
		StatusCode: statusCode,
		Category:   CategorizeStatus(statusCode),
	}
}

// NewFailureResult records a check for loc that produced no HTTP response.
func NewFailureResult(loc URLLocation, err error) ValidationResult {
	return ValidationResult{
		URL:         loc.URL,
		Line:        loc.Line,
		FileName:    loc.FileName,
		Description: Describe(err),
		Category:    ClassifyError(err, 0),
	}
}

// HasStatus reports whether an HTTP response was received.
func (r ValidationResult) HasStatus() bool {
	return r.StatusCode > 0
}

// IsOK reports whether the URL answered exactly 200.
func (r ValidationResult) IsOK() bool {
	return r.StatusCode == StatusOK
}

// IsNotOK is the complement of IsOK.
func (r ValidationResult) IsNotOK() bool {
	return !r.IsOK()
}

// IsTimeout reports whether the check ended in a timeout.
func (r ValidationResult) IsTimeout() bool {
	return !r.HasStatus() && r.Description == TimeoutDescription
}

// Equal compares URL, status code and description; provenance is ignored.
func (r ValidationResult) Equal(other ValidationResult) bool {
	return r.URL == other.URL &&
		r.StatusCode == other.StatusCode &&
		r.Description == other.Description
}

// String renders the result in the "status - url - file - Lline" shape.
func (r ValidationResult) String() string {
	if r.HasStatus() {
		return fmt.Sprintf("%d - %s - %s - L%d", r.StatusCode, r.URL, r.FileName, r.Line)
	}
	return fmt.Sprintf("%s - %s - %s - L%d", r.URL, r.Description, r.FileName, r.Line)
}

// CompareResults orders results lexicographically by URL.
func CompareResults(a, b ValidationResult) int {
	return cmp.Compare(a.URL, b.URL)
}

// SortResults sorts results by URL in place. Validation completes in no
// particular order, so callers that need reproducible output must sort.
func SortResults(results []ValidationResult) {
	slices.SortStableFunc(results, CompareResults)
}

// Stats contains aggregate counts for a run.
type Stats struct {
	FilesScanned int           // Number of files handed to discovery
	Discovered   int           // URL occurrences left after exclude patterns
	Unique       int           // Distinct URLs after deduplication
	Skipped      int           // URLs dropped by the robots.txt gate
	Validated    int           // Results produced by validation
	IssueCount   int           // Results left after the result filter
	Duration     time.Duration // Wall-clock time of the run
}

// Report is the complete output of a run.
type Report struct {
	Results []ValidationResult // Every validation outcome, sorted by URL
	Issues  []ValidationResult // Results that survived the result filter, sorted by URL
	Skipped []URLLocation      // URLs not validated because robots.txt disallows them
	Verdict Verdict
	Stats   Stats
}
