package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/column2pdf/internal/model"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collect a column and export every article in one go",
		Long: `Run performs collect followed by export in a single browser session.

The URL file and the history database are updated before the export starts,
so an interrupted export can be resumed with:

  column2pdf export --skip-exported

If the listing walk ends early because the next page could not be opened,
the URLs gathered so far are still exported and the command exits with an
error afterwards.

Examples:
  # Collect and export the default column
  column2pdf run

  # Use a profile and a separate output directory
  column2pdf run --site another-column -d pdf/another`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	addCollectFlags(cmd)
	addURLFileFlag(cmd, "File receiving the collected URLs, one per line")
	addExportFlags(cmd)
	addBrowserFlags(cmd)
	addHistoryFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
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

	harvest, runErr := collectAndPersist(ctx, cfg, session, db, logger)

	crawl := harvest.Crawl
	switch {
	case crawl.Termination == model.TerminationInterrupted:
		logger.Info("skipping export after interrupt")
	case len(crawl.URLs) == 0:
		logger.Warn("no URLs collected, nothing to export")
	default:
		runErr = errors.Join(runErr, exportArticles(ctx, cfg, session, db, crawl.URLs, harvest, logger))
	}

	if reportErr := writeSummary(cfg, cmd.OutOrStdout(), harvest); reportErr != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to write report: %w", reportErr))
	}
	return runErr
}
