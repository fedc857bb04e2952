package report

import (
	"io"
	"time"

	"github.com/nao1215/column2pdf/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the summary of a collect, export or run invocation.
	Write(report *model.HarvestReport) (int, error)

	// WriteRuns outputs a list of stored collection runs, newest first.
	WriteRuns(runs []model.RunRecord) (int, error)
}

// Format selects a Writer implementation.
type Format int

const (
	// FormatText is the human-readable terminal format.
	FormatText Format = iota

	// FormatMarkdown is GitHub-flavored Markdown.
	FormatMarkdown

	// FormatJSON is indented JSON.
	FormatJSON
)

// NewWriter returns the writer for format. version is embedded in JSON output.
func NewWriter(output io.Writer, format Format, version string, verbose bool) Writer {
	switch format {
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	case FormatJSON:
		return NewJSONWriter(output, version, WithPrettyPrint())
	default:
		return NewSimpleWriter(output, WithVerbose(verbose))
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is used for every timestamp shown to people.
const timeLayout = "2006-01-02 15:04:05 MST"

// formatTime renders t in local time, or "-" for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

// shortID returns the first eight characters of a run ID, enough to pass
// to "history show".
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// terminationText explains a termination for people.
func terminationText(t model.Termination) string {
	switch t {
	case model.TerminationExhausted:
		return "exhausted (last page reached)"
	case model.TerminationStalled:
		return "stalled (no new links on repeated visits)"
	case model.TerminationNavigationFailed:
		return "navigation failed"
	case model.TerminationInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
