package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/column2pdf/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the harvest summary.
func (w *MarkdownWriter) Write(report *model.HarvestReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("column2pdf Report")
	md.PlainText("")

	if report.Crawl != nil {
		w.writeCrawl(md, report)
	}
	if len(report.Exports) > 0 || report.OutputDir != "" {
		w.writeExports(md, report)
	}
	w.writeFooter(md, report)

	return len(md.String()), md.Build()
}

// writeCrawl writes the collection table and an alert for how it ended.
func (w *MarkdownWriter) writeCrawl(md *markdown.Markdown, report *model.HarvestReport) {
	crawl := report.Crawl

	md.H2("Collection")
	md.PlainText("")

	rows := [][]string{}
	if report.RunID != "" {
		rows = append(rows, []string{"Run ID", "`" + report.RunID + "`"})
	}
	rows = append(rows,
		[]string{"Start URL", crawl.StartURL},
		[]string{"Termination", terminationText(crawl.Termination)},
		[]string{"Pages Visited", strconv.Itoa(crawl.PagesVisited)},
		[]string{"URLs Collected", strconv.Itoa(len(crawl.URLs))},
		[]string{"Started", formatTime(crawl.StartedAt)},
		[]string{"Finished", formatTime(crawl.FinishedAt)},
	)
	if report.URLFile != "" {
		rows = append(rows, []string{"URL File", "`" + report.URLFile + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	switch crawl.Termination {
	case model.TerminationNavigationFailed:
		md.Cautionf("Could not move past page %d: %s", crawl.Cursor.Page, crawl.ErrorMessage)
	case model.TerminationInterrupted:
		md.Warningf("Interrupted after %d URL(s); the list is partial.", len(crawl.URLs))
	case model.TerminationStalled:
		md.Importantf("No new links after %d visit(s) of page %d; the listing may continue past it.",
			crawl.Cursor.Stagnant, crawl.Cursor.Page)
	case model.TerminationExhausted:
		md.Tip("Reached the last page of the listing.")
	}
	md.PlainText("")

	if len(crawl.URLs) > 0 {
		md.Details("Collected URLs", strings.Join(crawl.URLs, "\n"))
		md.PlainText("")
	}
}

// writeExports writes status counts, a pie chart and the failures.
func (w *MarkdownWriter) writeExports(md *markdown.Markdown, report *model.HarvestReport) {
	saved := report.CountExports(model.ExportStatusSaved)
	skipped := report.CountExports(model.ExportStatusSkipped)
	failed := report.CountExports(model.ExportStatusFailed)

	md.H2("Exports")
	md.PlainText("")

	if report.OutputDir != "" {
		md.PlainTextf("Output directory: `%s`", report.OutputDir)
		md.PlainText("")
	}

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"✅ Saved", strconv.Itoa(saved)},
			{"⏭️ Skipped", strconv.Itoa(skipped)},
			{"❌ Failed", strconv.Itoa(failed)},
			{"**Total**", "**" + strconv.Itoa(len(report.Exports)) + "**"},
		},
	})
	md.PlainText("")

	if len(report.Exports) > 0 {
		w.writePieChart(md, saved, skipped, failed)
	}

	failures := report.FailedExports()
	if len(failures) == 0 {
		if len(report.Exports) > 0 {
			md.Tip("Every article was exported.")
			md.PlainText("")
		}
		return
	}

	md.Warningf("%d article(s) could not be exported.", len(failures))
	md.PlainText("")

	rows := make([][]string, len(failures))
	for i, f := range failures {
		rows[i] = []string{f.URL, f.FailedStep, truncateString(f.ErrorMessage, 80)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Step", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of export outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, saved, skipped, failed int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Export Outcomes"),
		piechart.WithShowData(true),
	)

	if saved > 0 {
		chart.LabelAndIntValue("Saved", uint64(saved))
	}
	if skipped > 0 {
		chart.LabelAndIntValue("Skipped", uint64(skipped))
	}
	if failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(failed))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, report *model.HarvestReport) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated %s by column2pdf*", formatTime(report.GeneratedAt))
}

// WriteRuns outputs the run history as a table.
func (w *MarkdownWriter) WriteRuns(runs []model.RunRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Run History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			"`" + shortID(r.ID) + "`",
			formatTime(r.StartedAt),
			r.Termination.String(),
			strconv.Itoa(r.URLCount),
			strconv.Itoa(r.PagesVisited),
			r.StartURL,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "Termination", "URLs", "Pages", "Start URL"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
