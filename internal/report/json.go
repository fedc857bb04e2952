package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/column2pdf/internal/model"
)

// JSONWriter outputs reports in JSON format for scripts.
type JSONWriter struct {
	baseWriter

	// version is the column2pdf version embedded in every document.
	version string

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		version:    version,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Summary holds the counts scripts usually check first.
type Summary struct {
	URLCount int `json:"url_count"`
	Saved    int `json:"saved"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// JSONReport wraps a harvest report with version and summary counts.
type JSONReport struct {
	Version string               `json:"version"`
	Summary Summary              `json:"summary"`
	Report  *model.HarvestReport `json:"report"`
}

// JSONRuns wraps a run listing with version information.
type JSONRuns struct {
	Version string            `json:"version"`
	Runs    []model.RunRecord `json:"runs"`
}

// Write outputs the harvest report.
func (w *JSONWriter) Write(report *model.HarvestReport) (int, error) {
	return w.writeJSON(JSONReport{
		Version: w.version,
		Summary: Summary{
			URLCount: report.URLCount(),
			Saved:    report.CountExports(model.ExportStatusSaved),
			Skipped:  report.CountExports(model.ExportStatusSkipped),
			Failed:   report.CountExports(model.ExportStatusFailed),
		},
		Report: report,
	})
}

// WriteRuns outputs the run listing.
func (w *JSONWriter) WriteRuns(runs []model.RunRecord) (int, error) {
	if runs == nil {
		runs = []model.RunRecord{}
	}
	return w.writeJSON(JSONRuns{Version: w.version, Runs: runs})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
