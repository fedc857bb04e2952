package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/column2pdf/internal/browser"
	"github.com/nao1215/column2pdf/internal/collector"
	"github.com/nao1215/column2pdf/internal/config"
	"github.com/nao1215/column2pdf/internal/database"
	"github.com/nao1215/column2pdf/internal/log"
	"github.com/nao1215/column2pdf/internal/model"
	"github.com/nao1215/column2pdf/internal/pipeline"
	"github.com/nao1215/column2pdf/internal/report"
	"github.com/nao1215/column2pdf/internal/urllist"
)

var (
	// errNoURLs is returned when export has nothing to do.
	errNoURLs = errors.New("no URLs to export")

	// errRunNotFound is returned when --run matches no stored run.
	errRunNotFound = errors.New("run not found")

	// errArticlesFailed is returned when at least one article was not saved.
	errArticlesFailed = errors.New("some articles could not be exported")

	// errSkipNeedsHistory is returned when --skip-exported is combined with --no-db.
	errSkipNeedsHistory = errors.New("--skip-exported needs the history database (remove --no-db)")
)

// setupLogger creates the secure logger selected by the flags and installs
// it as the default.
func setupLogger(cfg *config.Config) *slog.Logger {
	logger := log.New(os.Stderr, log.Options{
		Verbose: cfg.Verbose,
		JSON:    cfg.LogJSON,
	})
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// checkExportConfig rejects export settings that cannot take effect.
func checkExportConfig(cfg *config.Config) error {
	if cfg.SkipExported && !cfg.SaveToDB {
		return errSkipNeedsHistory
	}
	return nil
}

// openHistory opens the history database, or returns nil when it is disabled.
func openHistory(cfg *config.Config, logger *slog.Logger) (*database.HarvestDB, error) {
	if !cfg.SaveToDB {
		return nil, nil
	}
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("database opened", "path", db.Path())
	return db, nil
}

// closeHistory closes db if it is open.
func closeHistory(db *database.HarvestDB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("failed to close database", "error", err)
	}
}

// launchSession starts the browser configured by cfg.
func launchSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*browser.Session, error) {
	logger.Info("starting browser", "headless", cfg.Headless)

	session, err := browser.Launch(ctx,
		browser.WithHeadless(cfg.Headless),
		browser.WithNoSandbox(cfg.NoSandbox),
		browser.WithBin(cfg.BrowserBin),
		browser.WithCookies(cfg.SiteOrigin, cfg.Cookies),
		browser.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return session, nil
}

// closeSession releases the browser.
func closeSession(session *browser.Session, logger *slog.Logger) {
	if err := session.Close(); err != nil {
		logger.Warn("failed to close browser", "error", err)
	}
}

// newCollector creates a Collector driving automation with cfg's settings.
func newCollector(automation collector.Automation, cfg *config.Config, logger *slog.Logger) *collector.Collector {
	return collector.New(automation,
		collector.WithLogger(logger),
		collector.WithOrigin(cfg.SiteOrigin),
		collector.WithPageIndicatorSelector(cfg.PageIndicatorSelector),
		collector.WithModalSelector(cfg.ModalSelector),
		collector.WithWaitTimeout(cfg.WaitTimeout),
		collector.WithSettleDelay(cfg.SettleDelay),
		collector.WithStagnation(cfg.StagnationThreshold, cfg.StagnationDelay),
		collector.WithClickRetry(cfg.ClickRetryLimit, cfg.ClickRetryDelay),
		collector.WithPostNavigationDelay(cfg.PostNavigationDelay),
	)
}

// newExporter creates an Exporter printing articles through renderer.
func newExporter(renderer pipeline.Renderer, cfg *config.Config, db *database.HarvestDB, logger *slog.Logger) *pipeline.Exporter {
	p := pipeline.NewArticlePipeline(renderer, pipeline.ArticleOptions{
		Timeout:          cfg.ExportTimeout,
		CleanupSelectors: cfg.CleanupSelectors,
		TitleSelector:    cfg.TitleSelector,
		TimeSelector:     cfg.TimeSelector,
		TimeAttribute:    cfg.TimeAttribute,
		OutputDir:        cfg.OutputDir,
	}, pipeline.WithLogger(logger))

	opts := []pipeline.ExporterOption{
		pipeline.WithDelay(cfg.ExportDelay),
		pipeline.WithExporterLogger(logger),
	}
	if db != nil {
		opts = append(opts,
			pipeline.WithLedger(db),
			pipeline.WithSkipExported(cfg.SkipExported),
		)
	}
	return pipeline.NewExporter(p, opts...)
}

// persistCrawl writes the URL file and stores the run in the history
// database at the same time. Both sinks are written even when the crawl
// was interrupted or failed, so the caller passes the crawl result as is.
// The returned run ID is empty when the database is disabled.
func persistCrawl(ctx context.Context, cfg *config.Config, db *database.HarvestDB, result *model.CrawlResult, logger *slog.Logger) (string, error) {
	// An interrupt cancels ctx; the partial list must still be saved.
	ctx = context.WithoutCancel(ctx)

	var (
		g     errgroup.Group
		runID string
	)

	g.Go(func() error {
		if err := urllist.Write(cfg.URLFile, result.URLs); err != nil {
			return fmt.Errorf("failed to write URL file: %w", err)
		}
		logger.Info("URL file written", "path", cfg.URLFile, "urls", len(result.URLs))
		return nil
	})

	if db != nil {
		g.Go(func() error {
			id, err := db.SaveRun(ctx, "", result)
			if err != nil {
				return fmt.Errorf("failed to save run: %w", err)
			}
			runID = id
			logger.Info("run saved to database", "runID", id)
			return nil
		})
	}

	err := g.Wait()
	return runID, err
}

// crawlError converts an abnormal crawl end into the command's error.
// Stalled and exhausted runs are successful.
func crawlError(result *model.CrawlResult) error {
	switch result.Termination {
	case model.TerminationNavigationFailed:
		return fmt.Errorf("collection ended early after %d URL(s): %w", len(result.URLs), result.Err)
	case model.TerminationInterrupted:
		return fmt.Errorf("collection interrupted after %d URL(s): %w", len(result.URLs), result.Err)
	default:
		return nil
	}
}

// exportError summarizes failed articles as the command's error.
func exportError(results []model.ExportResult) error {
	failed := 0
	for _, r := range results {
		if r.Status == model.ExportStatusFailed {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", errArticlesFailed, failed, len(results))
}

// reportFormat returns the writer format selected by cfg.
func reportFormat(cfg *config.Config) report.Format {
	switch {
	case cfg.JSONReport:
		return report.FormatJSON
	case cfg.MarkdownReport:
		return report.FormatMarkdown
	default:
		return report.FormatText
	}
}

// outputReport writes the summary to stdout or to cfg.ReportFile.
func outputReport(cfg *config.Config, stdout io.Writer, write func(report.Writer) error) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// The report lists every URL of a possibly members-only column.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	return write(report.NewWriter(output, reportFormat(cfg), getVersion(), cfg.Verbose))
}
