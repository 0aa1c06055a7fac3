package result

import (
	"slices"

	"github.com/lukemcguire/linksweep/urlutil"
)

// Policy is the subset of configuration the result filter needs.
type Policy struct {
	Allowlist          []string // URL substrings that are never reported
	AllowedStatusCodes []int    // Status codes treated as acceptable
	AllowTimeout       bool     // Whether timed-out URLs pass
	FailureThreshold   *float64 // Percentage of issues tolerated; nil fails on any issue
}

// FilterIssues returns the results that should be reported as issues.
// Steps run in order: drop OK results, allowlisted URLs, allowed status
// codes, then timeouts when AllowTimeout is set.
func FilterIssues(results []ValidationResult, p Policy) []ValidationResult {
	issues := make([]ValidationResult, 0, len(results))
	for _, res := range results {
		if res.IsOK() {
			continue
		}
		if urlutil.ContainsAny(res.URL, p.Allowlist) {
			continue
		}
		if res.HasStatus() && slices.Contains(p.AllowedStatusCodes, res.StatusCode) {
			continue
		}
		if p.AllowTimeout && res.IsTimeout() {
			continue
		}
		issues = append(issues, res)
	}
	return issues
}

// Verdict is the overall pass/fail decision for a run.
type Verdict struct {
	Issues      int
	Total       int
	FailureRate float64  // issues / total * 100, 0 when total is 0
	Threshold   *float64 // nil when no threshold was configured
	Failed      bool
}

// Decide computes the verdict. With a threshold the run fails only when the
// failure rate strictly exceeds it; without one any issue fails the run.
func Decide(issues, total int, threshold *float64) Verdict {
	v := Verdict{Issues: issues, Total: total, Threshold: threshold}
	if total > 0 {
		v.FailureRate = float64(issues) / float64(total) * 100
	}

	if threshold != nil {
		v.Failed = v.FailureRate > *threshold
		return v
	}
	v.Failed = issues > 0
	return v
}

// Passed is the complement of Failed.
func (v Verdict) Passed() bool {
	return !v.Failed
}
