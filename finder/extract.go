package finder

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"

	"github.com/lukemcguire/linksweep/result"
)

// candidatePattern cheaply flags lines that look like they hold an http(s)
// URL. It is coarse and case-insensitive; the link recognizer decides what
// the actual tokens are.
const candidatePattern = `(?i)(http://|https://)[a-z0-9]+([-.]{1}[a-z0-9]+)*(.[a-z]{2,5})?(:[0-9]{1,5})?(/.*)?`

// anyScheme lets the recognizer accept any scheme-like prefix, so tokens
// such as ht://x are reported rather than silently skipped.
const anyScheme = `[a-zA-Z][a-zA-Z0-9+.-]*://`

// defaultURLsPerMatch is the capacity multiplier for unknown extensions.
const defaultURLsPerMatch = 2

// Line is a candidate line and its 1-indexed number.
type Line struct {
	Text   string
	Number int
}

// Extractor finds URL tokens in file content. It is built once and shared
// by every discovery goroutine; both regexps are safe for concurrent use.
type Extractor struct {
	candidate  *regexp.Regexp
	recognizer *regexp.Regexp
}

// NewExtractor compiles the candidate filter and the link recognizer.
func NewExtractor() *Extractor {
	recognizer, err := xurls.StrictMatchingScheme(anyScheme)
	if err != nil {
		// Both patterns are constants; failure here is a programming error.
		panic("finder: compile link recognizer: " + err.Error())
	}
	return &Extractor{
		candidate:  regexp.MustCompile(candidatePattern),
		recognizer: recognizer,
	}
}

// CandidateLines returns the lines of content that match the candidate
// filter, in order, with their line numbers.
func (e *Extractor) CandidateLines(content []byte) []Line {
	var lines []Line
	number := 0
	for raw := range bytes.Lines(content) {
		number++
		raw = bytes.TrimRight(raw, "\r\n")
		if !e.candidate.Match(raw) {
			continue
		}
		lines = append(lines, Line{Text: string(raw), Number: number})
	}
	return lines
}

// LinkTokens returns every link recognized in line, in order of appearance.
func (e *Extractor) LinkTokens(line string) []string {
	return e.recognizer.FindAllString(line, -1)
}

// ExtractFile reads path and returns one location per recognized link.
// Read failures are returned as *DiscoveryError.
func (e *Extractor) ExtractFile(path string) (locs []result.URLLocation, err error) {
	content, release, readErr := readContent(path)
	if readErr != nil {
		return nil, &DiscoveryError{Path: path, Err: readErr}
	}
	defer func() {
		if releaseErr := release(); releaseErr != nil && err == nil {
			err = &DiscoveryError{Path: path, Err: releaseErr}
		}
	}()

	lines := e.CandidateLines(content)
	locs = make([]result.URLLocation, 0, CapacityHint(path, len(lines)))

	for _, line := range lines {
		for _, token := range e.LinkTokens(line.Text) {
			loc, locErr := result.NewURLLocation(token, line.Number, path)
			if errors.Is(locErr, result.ErrMissingURL) {
				continue
			}
			if locErr != nil {
				return nil, &ExtractionError{Path: path, Line: line.Number, Err: locErr}
			}
			locs = append(locs, loc)
		}
	}
	return locs, nil
}

// CapacityHint estimates how many locations a file with matchedLines
// candidate lines will produce. It only sizes buffers.
func CapacityHint(path string, matchedLines int) int {
	if matchedLines <= 0 {
		return 0
	}

	multiplier := defaultURLsPerMatch
	switch strings.TrimPrefix(filepath.Ext(path), ".") {
	case "md", "markdown":
		multiplier = 2
	case "html", "htm":
		multiplier = 3
	case "txt", "rst":
		multiplier = 1
	case "json", "xml":
		multiplier = 2
	}
	return max(matchedLines*multiplier, 4)
}
