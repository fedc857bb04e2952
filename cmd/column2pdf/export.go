package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/column2pdf/internal/config"
	"github.com/nao1215/column2pdf/internal/database"
	"github.com/nao1215/column2pdf/internal/model"
	"github.com/nao1215/column2pdf/internal/pipeline"
	"github.com/nao1215/column2pdf/internal/urllist"
)

// flagRun selects a stored run as the URL source.
const flagRun = "run"

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save collected articles as PDF files",
		Long: `Export opens every URL of the URL file (or of a stored run) in a browser,
removes navigation bars, ads, comments and other clutter, and prints the page
to "<publish time>_<title>.pdf" in the output directory.

Articles are processed one at a time. A failing article is reported and the
next one is processed.

Examples:
  # Export the URLs written by collect
  column2pdf export

  # Export the URLs of a stored run (see "column2pdf history")
  column2pdf export --run 0b7e2c1a

  # Only export articles that were not saved before
  column2pdf export --skip-exported -d ~/column`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	addURLFileFlag(cmd, "File holding the URLs to export, one per line")
	cmd.Flags().StringP(flagRun, "r", "",
		"Export the URLs of a stored run instead of the URL file (ID or unique prefix)")
	addExportFlags(cmd)
	addBrowserFlags(cmd)
	addHistoryFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := checkExportConfig(cfg); err != nil {
		return err
	}

	runID, err := cmd.Flags().GetString(flagRun)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	db, err := openHistory(cfg, logger)
	if err != nil {
		return err
	}
	defer closeHistory(db, logger)

	// Read the URLs before starting a browser so a typo fails fast.
	urls, err := loadExportURLs(ctx, cfg, db, runID)
	if err != nil {
		return err
	}

	session, err := launchSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSession(session, logger)

	harvest := model.NewHarvestReport(runID)
	exportErr := exportArticles(ctx, cfg, session, db, urls, harvest, logger)

	if reportErr := writeSummary(cfg, cmd.OutOrStdout(), harvest); reportErr != nil {
		exportErr = errors.Join(exportErr, fmt.Errorf("failed to write report: %w", reportErr))
	}
	return exportErr
}

// loadExportURLs returns the URLs of the stored run runID, or of the URL
// file when runID is empty.
func loadExportURLs(ctx context.Context, cfg *config.Config, db *database.HarvestDB, runID string) ([]string, error) {
	var urls []string

	if runID != "" {
		if db == nil {
			return nil, fmt.Errorf("--%s needs the history database (remove --%s)", flagRun, flagNoDB)
		}
		run, err := db.GetRun(ctx, runID)
		if err != nil {
			return nil, err
		}
		if run == nil {
			return nil, fmt.Errorf("%w: %s", errRunNotFound, runID)
		}
		urls, err = db.GetRunURLs(ctx, run.ID)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		urls, err = urllist.Read(cfg.URLFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read URL file: %w", err)
		}
	}

	if len(urls) == 0 {
		return nil, errNoURLs
	}
	return urls, nil
}

// exportArticles prints urls to PDF and stores the results in harvest.
// Cancellation and failed articles are returned as errors after every
// result has been recorded.
func exportArticles(
	ctx context.Context,
	cfg *config.Config,
	renderer pipeline.Renderer,
	db *database.HarvestDB,
	urls []string,
	harvest *model.HarvestReport,
	logger *slog.Logger,
) error {
	exporter := newExporter(renderer, cfg, db, logger)

	logger.Info("exporting articles", "count", len(urls), "outputDir", cfg.OutputDir)
	results, err := exporter.Export(ctx, urls)

	harvest.OutputDir = cfg.OutputDir
	harvest.Exports = results

	if err != nil {
		return fmt.Errorf("export interrupted after %d article(s): %w", len(results), err)
	}
	return exportError(results)
}
