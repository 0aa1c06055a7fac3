package result

import (
	"fmt"
	"io"
)

// PrintReport writes issue details and a summary to w.
func PrintReport(w io.Writer, rep *Report) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	if len(rep.Issues) == 0 {
		writef("No issues found!\n")
	} else {
		writef("Issues:\n")
		for i, issue := range rep.Issues {
			writef("  URL: %s\n", issue.URL)
			if issue.HasStatus() {
				writef("  Status: %d\n", issue.StatusCode)
			} else {
				writef("  Error: %s\n", issue.Description)
			}
			writef("  Found in: %s:%d\n", issue.FileName, issue.Line)
			if i < len(rep.Issues)-1 {
				writef("\n")
			}
		}
	}

	writef("Found %d URLs (%d unique), validated %d, %d issues\n",
		rep.Stats.Discovered, rep.Stats.Unique, rep.Stats.Validated, rep.Stats.IssueCount)
	if rep.Stats.Skipped > 0 {
		writef("Skipped %d URLs disallowed by robots.txt\n", rep.Stats.Skipped)
	}
	if line := ThresholdSummary(rep.Verdict); line != "" {
		writef("%s\n", line)
	}
}

// ThresholdSummary describes how the failure rate compares to the configured
// threshold. Returns "" when no threshold is set.
func ThresholdSummary(v Verdict) string {
	if v.Threshold == nil {
		return ""
	}
	relation := "is within"
	if v.Failed {
		relation = "exceeds"
	}
	return fmt.Sprintf("Failure rate %.1f%% %s threshold %.1f%% (%d/%d URLs failed)",
		v.FailureRate, relation, *v.Threshold, v.Issues, v.Total)
}
