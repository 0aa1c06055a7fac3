package checker

import "github.com/lukemcguire/linksweep/result"

// Event reports progress for a single checked URL.
type Event struct {
	URL         string
	StatusCode  int
	Description string
	Category    result.ErrorCategory
	Checked     int // URLs completed so far, this one included
	Total       int // URLs in the run
	NotOK       int // Completed URLs that did not answer 200
}
