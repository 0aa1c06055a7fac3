package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lukemcguire/linksweep/result"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
	urlStyle         = lipgloss.NewStyle()
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// categoryOrder defines the display order for error categories (most to least actionable).
var categoryOrder = []result.ErrorCategory{
	result.Category4xx,
	result.Category5xx,
	result.CategoryTimeout,
	result.CategoryDNSFailure,
	result.CategoryConnectionRefused,
	result.CategoryTLS,
	result.CategoryRedirectLimit,
	result.Category3xx,
	result.CategoryUnexpected,
	result.CategoryUnknown,
}

// RenderSummary produces a Lip Gloss styled summary of a report.
func RenderSummary(rep *result.Report) string {
	if rep == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder

	if len(rep.Issues) == 0 {
		builder.WriteString(successStyle.Render("No issues found!"))
		builder.WriteString("\n")
	} else {
		writeIssueTables(&builder, rep.Issues)
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Found %d URLs (%d unique), validated %d, %d issues (%s)",
		rep.Stats.Discovered,
		rep.Stats.Unique,
		rep.Stats.Validated,
		rep.Stats.IssueCount,
		rep.Stats.Duration.Round(time.Millisecond),
	)))
	builder.WriteString("\n")

	if rep.Stats.Skipped > 0 {
		builder.WriteString(dimStyle.Render(fmt.Sprintf("Skipped %d URLs disallowed by robots.txt", rep.Stats.Skipped)))
		builder.WriteString("\n")
	}

	if line := result.ThresholdSummary(rep.Verdict); line != "" {
		style := successStyle
		if rep.Verdict.Failed {
			style = errorStyle
		}
		builder.WriteString(style.Render(line))
		builder.WriteString("\n")
	}

	return builder.String()
}

func writeIssueTables(builder *strings.Builder, issues []result.ValidationResult) {
	grouped := make(map[result.ErrorCategory][]result.ValidationResult)
	for _, issue := range issues {
		cat := issue.Category
		if cat == "" {
			cat = result.CategoryUnknown
		}
		grouped[cat] = append(grouped[cat], issue)
	}

	for _, cat := range categoryOrder {
		group := grouped[cat]
		if len(group) == 0 {
			continue
		}

		builder.WriteString(categoryStyle.Render(fmt.Sprintf("## %s (%d)", result.FormatCategory(cat), len(group))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(group))
		for _, issue := range group {
			status := issue.Description
			if issue.HasStatus() {
				status = strconv.Itoa(issue.StatusCode)
			}
			rows = append(rows, []string{issue.URL, status, fmt.Sprintf("%s:%d", issue.FileName, issue.Line)})
		}

		catTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("URL", "Status", "Found In").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 1 {
					return statusErrorStyle
				}
				return urlStyle
			}).
			Rows(rows...)

		builder.WriteString(catTable.Render())
		builder.WriteString("\n\n")
	}
}
