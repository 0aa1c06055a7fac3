package finder

import "fmt"

// DiscoveryError reports a path that could not be read or expanded.
// Discovery aborts on the first one.
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover URLs in %s: %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// ExtractionError reports a location the extractor built with invalid
// provenance. It indicates a bug, not bad input.
type ExtractionError struct {
	Path string
	Line int
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract URL at %s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
