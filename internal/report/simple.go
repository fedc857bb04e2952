package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/column2pdf/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// Plain ASCII formatting keeps the output readable when piped to a file.
type SimpleWriter struct {
	baseWriter

	// verbose lists every collected URL and every export result.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the full URL and export listings.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the harvest summary.
func (w *SimpleWriter) Write(report *model.HarvestReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb)
	if report.Crawl != nil {
		w.writeCrawl(&sb, report)
	}
	if len(report.Exports) > 0 || report.OutputDir != "" {
		w.writeExports(&sb, report)
	}
	w.writeFooter(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report banner.
func (w *SimpleWriter) writeHeader(sb *strings.Builder) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         COLUMN2PDF REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

// writeCrawl writes the collection section.
func (w *SimpleWriter) writeCrawl(sb *strings.Builder, report *model.HarvestReport) {
	crawl := report.Crawl

	if report.RunID != "" {
		fmt.Fprintf(sb, "Run ID:         %s\n", report.RunID)
	}
	fmt.Fprintf(sb, "Start URL:      %s\n", crawl.StartURL)
	fmt.Fprintf(sb, "Termination:    %s\n", terminationText(crawl.Termination))
	fmt.Fprintf(sb, "Pages Visited:  %d\n", crawl.PagesVisited)
	fmt.Fprintf(sb, "URLs Collected: %d\n", len(crawl.URLs))
	if d := crawl.Duration(); d > 0 {
		fmt.Fprintf(sb, "Duration:       %s\n", d.Round(time.Second))
	}
	if report.URLFile != "" {
		fmt.Fprintf(sb, "URL File:       %s\n", report.URLFile)
	}
	if crawl.ErrorMessage != "" {
		fmt.Fprintf(sb, "Error:          %s\n", crawl.ErrorMessage)
	}
	sb.WriteString("\n")

	if w.verbose && len(crawl.URLs) > 0 {
		sb.WriteString("COLLECTED URLS\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		for i, u := range crawl.URLs {
			fmt.Fprintf(sb, "%5d  %s\n", i+1, u)
		}
		sb.WriteString("\n")
	}
}

// writeExports writes the export section.
func (w *SimpleWriter) writeExports(sb *strings.Builder, report *model.HarvestReport) {
	sb.WriteString("EXPORTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	if report.OutputDir != "" {
		fmt.Fprintf(sb, "Output Dir:     %s\n", report.OutputDir)
	}
	fmt.Fprintf(sb, "Saved:          %d\n", report.CountExports(model.ExportStatusSaved))
	fmt.Fprintf(sb, "Skipped:        %d\n", report.CountExports(model.ExportStatusSkipped))
	fmt.Fprintf(sb, "Failed:         %d\n", report.CountExports(model.ExportStatusFailed))
	sb.WriteString("\n")

	failed := report.FailedExports()
	if len(failed) > 0 {
		sb.WriteString("Failed articles:\n")
		for _, e := range failed {
			fmt.Fprintf(sb, "  [%s] %s\n", e.FailedStep, e.URL)
			if e.ErrorMessage != "" {
				fmt.Fprintf(sb, "      %s\n", e.ErrorMessage)
			}
		}
		sb.WriteString("\n")
	}

	if w.verbose {
		for _, e := range report.Exports {
			if e.Status != model.ExportStatusSaved {
				continue
			}
			fmt.Fprintf(sb, "  saved  %s\n", e.FilePath)
		}
		sb.WriteString("\n")
	}
}

// writeFooter writes the closing rule and generation time.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.HarvestReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Generated: %s\n", formatTime(report.GeneratedAt))
}

// WriteRuns outputs the run history as aligned columns.
func (w *SimpleWriter) WriteRuns(runs []model.RunRecord) (int, error) {
	var sb strings.Builder

	if len(runs) == 0 {
		sb.WriteString("No runs recorded.\n")
		return w.output.Write([]byte(sb.String()))
	}

	fmt.Fprintf(&sb, "%-8s  %-23s  %-17s  %5s  %5s  %s\n",
		"ID", "STARTED", "TERMINATION", "URLS", "PAGES", "START URL")
	for _, r := range runs {
		fmt.Fprintf(&sb, "%-8s  %-23s  %-17s  %5d  %5d  %s\n",
			shortID(r.ID),
			formatTime(r.StartedAt),
			r.Termination.String(),
			r.URLCount,
			r.PagesVisited,
			r.StartURL,
		)
	}

	return w.output.Write([]byte(sb.String()))
}
