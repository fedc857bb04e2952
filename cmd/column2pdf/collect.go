package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/column2pdf/internal/collector"
	"github.com/nao1215/column2pdf/internal/config"
	"github.com/nao1215/column2pdf/internal/database"
	"github.com/nao1215/column2pdf/internal/model"
	"github.com/nao1215/column2pdf/internal/report"
)

// NewCollectCmd creates the collect command.
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect the article URLs of a column listing",
		Long: `Collect opens the column listing in a browser and walks it page by page,
clicking the next page control until it disappears.

Every article link is recorded once, in the order it was first seen. The list
is written to the URL file when the walk ends for any reason, including an
interrupt, and the run is stored in the history database.

The walk stops when:
- the next page control is missing or hidden (exhausted)
- several visits in a row find no new link (stalled)
- the next page cannot be opened after repeated attempts (navigation failed)

Examples:
  # Collect the default column
  column2pdf collect

  # Collect another column into a separate file
  column2pdf collect -u https://xueqiu.com/1234567890/column -f other.txt

  # Use a profile from .column2pdf
  column2pdf collect --site another-column

  # Watch the browser while collecting
  column2pdf collect --headful -v`,
		Args: cobra.NoArgs,
		RunE: runCollectCmd,
	}

	addCollectFlags(cmd)
	addURLFileFlag(cmd, "File receiving the collected URLs, one per line")
	addBrowserFlags(cmd)
	addHistoryFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runCollectCmd executes the collect command.
func runCollectCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	db, err := openHistory(cfg, logger)
	if err != nil {
		return err
	}
	defer closeHistory(db, logger)

	session, err := launchSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSession(session, logger)

	harvest, err := collectAndPersist(ctx, cfg, session, db, logger)
	if reportErr := writeSummary(cfg, cmd.OutOrStdout(), harvest); reportErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to write report: %w", reportErr))
	}
	return err
}

// collectAndPersist runs the collector and saves its result.
// The returned report is never nil. The error joins the crawl failure, if
// any, with persistence failures.
func collectAndPersist(
	ctx context.Context,
	cfg *config.Config,
	automation collector.Automation,
	db *database.HarvestDB,
	logger *slog.Logger,
) (*model.HarvestReport, error) {
	c := newCollector(automation, cfg, logger)
	result := c.Collect(ctx, cfg.StartURL, cfg.PaginationSelector, cfg.LinkSelector)

	runID, persistErr := persistCrawl(ctx, cfg, db, result, logger)

	harvest := model.NewHarvestReport(runID)
	harvest.Crawl = result
	harvest.URLFile = cfg.URLFile

	return harvest, errors.Join(crawlError(result), persistErr)
}

// writeSummary writes a harvest report in the format selected by cfg.
func writeSummary(cfg *config.Config, out io.Writer, harvest *model.HarvestReport) error {
	return outputReport(cfg, out, func(w report.Writer) error {
		_, err := w.Write(harvest)
		return err
	})
}
