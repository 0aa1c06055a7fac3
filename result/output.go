package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Output formats understood by Write.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatMinimal = "minimal"
	FormatCSV     = "csv"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatJSON, FormatMinimal, FormatCSV}

// Write renders the report issues in the requested format.
func Write(w io.Writer, format string, rep *Report) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, rep.Issues)
	case FormatMinimal:
		return WriteMinimal(w, rep.Issues)
	case FormatCSV:
		return WriteCSV(w, rep.Issues)
	case FormatText, "":
		PrintReport(w, rep)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteJSON writes the issues as a formatted JSON array to the writer.
// Uses flat array format (not wrapped with metadata) for simpler CI integration.
func WriteJSON(w io.Writer, issues []ValidationResult) error {
	if issues == nil {
		issues = []ValidationResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(issues); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteMinimal writes one line per issue with no decoration.
func WriteMinimal(w io.Writer, issues []ValidationResult) error {
	for _, issue := range issues {
		if _, err := fmt.Fprintln(w, issue.String()); err != nil {
			return fmt.Errorf("write minimal output: %w", err)
		}
	}
	return nil
}

// WriteCSV writes the issues as CSV to the writer.
// Always includes a header row, even if there are no issues.
// Column order: url, status_code, description, error_type, file_name, line
func WriteCSV(w io.Writer, issues []ValidationResult) error {
	cw := csv.NewWriter(w)

	header := []string{"url", "status_code", "description", "error_type", "file_name", "line"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, issue := range issues {
		record := []string{
			issue.URL,
			statusCodeStr(issue.StatusCode),
			issue.Description,
			string(issue.Category),
			issue.FileName,
			strconv.Itoa(issue.Line),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record for %s: %w", issue.URL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// statusCodeStr converts an HTTP status code to a string.
// Returns empty string for 0 (no HTTP status).
func statusCodeStr(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}
