package finder

import (
	"regexp"
	"slices"

	"github.com/lukemcguire/linksweep/result"
	"github.com/lukemcguire/linksweep/urlutil"
)

// Exclude drops every location whose URL matches one of patterns.
// The input slice is not modified.
func Exclude(locs []result.URLLocation, patterns []*regexp.Regexp) []result.URLLocation {
	kept := make([]result.URLLocation, 0, len(locs))
	for _, loc := range locs {
		if urlutil.MatchesAny(loc.URL, patterns) {
			continue
		}
		kept = append(kept, loc)
	}
	return kept
}

// Dedupe sorts locations by URL and keeps one per distinct URL. The sort is
// stable, so the kept location is the first one discovered.
// The input slice is not modified.
func Dedupe(locs []result.URLLocation) []result.URLLocation {
	sorted := slices.Clone(locs)
	slices.SortStableFunc(sorted, result.CompareLocations)

	return slices.CompactFunc(sorted, func(a, b result.URLLocation) bool {
		return a.URL == b.URL
	})
}
