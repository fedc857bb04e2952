package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/column2pdf/internal/model"
)

// Ledger remembers which URLs were exported.
// The database package's HarvestDB implements it.
type Ledger interface {
	// IsExported reports whether url was saved by an earlier export.
	IsExported(ctx context.Context, url string) (bool, error)

	// RecordExport stores the outcome of one export.
	RecordExport(ctx context.Context, result model.ExportResult) error
}

// Exporter runs the article pipeline over a list of URLs, one at a time.
// A failing article is recorded and the next one is processed.
type Exporter struct {
	pipeline     *Pipeline
	ledger       Ledger
	skipExported bool
	delay        time.Duration
	logger       *slog.Logger
	sleep        func(ctx context.Context, d time.Duration) error
	now          func() time.Time
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithLedger records every result in l.
func WithLedger(l Ledger) ExporterOption {
	return func(e *Exporter) {
		e.ledger = l
	}
}

// WithSkipExported skips URLs the ledger marks as saved.
// It has no effect without a ledger.
func WithSkipExported(skip bool) ExporterOption {
	return func(e *Exporter) {
		e.skipExported = skip
	}
}

// WithDelay sets the pause between two articles.
func WithDelay(d time.Duration) ExporterOption {
	return func(e *Exporter) {
		e.delay = d
	}
}

// WithExporterLogger sets the logger for per-article progress.
func WithExporterLogger(logger *slog.Logger) ExporterOption {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithExporterSleeper replaces the pause function. It must return
// ctx.Err() when the context ends first.
func WithExporterSleeper(sleep func(ctx context.Context, d time.Duration) error) ExporterOption {
	return func(e *Exporter) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// WithClock replaces the timestamp source of export results.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// DefaultExportDelay is the pause between two articles.
const DefaultExportDelay = time.Second

// NewExporter creates an Exporter running p for every URL.
func NewExporter(p *Pipeline, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		pipeline: p,
		delay:    DefaultExportDelay,
		sleep:    sleepContext,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Export processes urls in order and returns one result per processed URL.
//
// Single article failures never stop the loop. Only cancellation does: the
// results gathered so far are returned together with ctx.Err().
func (e *Exporter) Export(ctx context.Context, urls []string) ([]model.ExportResult, error) {
	results := make([]model.ExportResult, 0, len(urls))

	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if e.alreadyExported(ctx, url) {
			result := model.ExportResult{
				URL:       url,
				Status:    model.ExportStatusSkipped,
				Timestamp: e.now(),
			}
			results = append(results, result)
			e.logger.Info("skipping exported article", "index", i+1, "total", len(urls), "url", url)
			continue
		}

		result := e.exportOne(ctx, url)
		if ctx.Err() != nil && result.Status == model.ExportStatusFailed {
			return results, ctx.Err()
		}
		results = append(results, result)
		// A PDF written just before an interrupt must still reach the ledger.
		e.record(context.WithoutCancel(ctx), result)

		if result.Status == model.ExportStatusSaved {
			e.logger.Info("article saved",
				"index", i+1,
				"total", len(urls),
				"file", result.FilePath,
			)
		} else {
			e.logger.Warn("article export failed",
				"index", i+1,
				"total", len(urls),
				"url", url,
				"step", result.FailedStep,
				"error", result.ErrorMessage,
			)
		}

		if i < len(urls)-1 {
			if err := e.sleep(ctx, e.delay); err != nil {
				return results, err
			}
		}
	}

	return results, nil
}

// exportOne runs the pipeline for a single URL.
func (e *Exporter) exportOne(ctx context.Context, url string) model.ExportResult {
	article := &model.Article{URL: url}
	err := e.pipeline.Execute(ctx, article)

	result := model.ExportResult{
		URL:       url,
		Title:     article.Title,
		Published: article.Published,
		Timestamp: e.now(),
	}
	if err != nil {
		result.Status = model.ExportStatusFailed
		result.ErrorMessage = err.Error()
		var stepErr *StepError
		if errors.As(err, &stepErr) {
			result.FailedStep = stepErr.Step
			result.ErrorMessage = stepErr.Err.Error()
		}
		return result
	}

	result.Status = model.ExportStatusSaved
	result.FilePath = article.FilePath
	return result
}

// alreadyExported consults the ledger when skipping is enabled.
// Ledger errors are logged and treated as "not exported".
func (e *Exporter) alreadyExported(ctx context.Context, url string) bool {
	if !e.skipExported || e.ledger == nil {
		return false
	}
	done, err := e.ledger.IsExported(ctx, url)
	if err != nil {
		e.logger.Warn("failed to query export history", "url", url, "error", err)
		return false
	}
	return done
}

// record stores result in the ledger, logging failures.
func (e *Exporter) record(ctx context.Context, result model.ExportResult) {
	if e.ledger == nil {
		return
	}
	if err := e.ledger.RecordExport(ctx, result); err != nil {
		e.logger.Warn("failed to record export", "url", result.URL, "error", err)
	}
}

// sleepContext pauses for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
