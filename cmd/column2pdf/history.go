package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/column2pdf/internal/config"
	"github.com/nao1215/column2pdf/internal/database"
	"github.com/nao1215/column2pdf/internal/model"
	"github.com/nao1215/column2pdf/internal/report"
	"github.com/nao1215/column2pdf/internal/urllist"
)

// defaultHistoryLimit is the number of runs listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// Without a subcommand it lists the most recent runs.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored collection runs and exports",
		Long: `History reads the database that collect, export and run maintain in the
XDG data directory.

Examples:
  # List the most recent runs
  column2pdf history

  # List every run as JSON
  column2pdf history list --limit 0 --json

  # Print the URLs of a run, or restore them as the URL file
  column2pdf history show 0b7e2c1a
  column2pdf history show 0b7e2c1a -f article_urls.txt

  # List articles that failed to export
  column2pdf history exports --failed`,
		Args: cobra.NoArgs,
		RunE: runHistoryListCmd,
	}
	addHistoryListFlags(cmd)

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryExportsCmd())

	return cmd
}

// addHistoryListFlags registers the flags of the run listing.
func addHistoryListFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists every run)")
	cmd.Flags().String(flagDBDir, config.XDGDataDir(),
		"Directory of the history database")
	addReportFlags(cmd)
}

// newHistoryListCmd creates "history list".
func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored collection runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}
	addHistoryListFlags(cmd)
	return cmd
}

// newHistoryShowCmd creates "history show".
func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Print the URLs of a stored run",
		Long: `Show prints the URLs of one run, one per line, in discovery order.
RUN_ID may be any unique prefix of the ID shown by "history list".`,
		Args: cobra.ExactArgs(1),
		RunE: runHistoryShowCmd,
	}
	cmd.Flags().StringP(flagURLFile, "f", "",
		"Write the URLs to this file instead of stdout")
	cmd.Flags().String(flagDBDir, config.XDGDataDir(),
		"Directory of the history database")
	return cmd
}

// newHistoryExportsCmd creates "history exports".
func newHistoryExportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "List the recorded outcome of every exported article",
		Args:  cobra.NoArgs,
		RunE:  runHistoryExportsCmd,
	}
	cmd.Flags().Bool("failed", false, "Only list failed articles")
	cmd.Flags().String(flagDBDir, config.XDGDataDir(),
		"Directory of the history database")
	addReportFlags(cmd)
	return cmd
}

// openHistoryForRead builds the config of a history command and opens
// the database it names.
func openHistoryForRead(cmd *cobra.Command) (*config.Config, *database.HarvestDB, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return nil, nil, config.ErrConflictingReportFormats
	}

	logger := setupLogger(cfg)
	db, err := openHistory(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// runHistoryListCmd lists stored runs.
func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	cfg, db, err := openHistoryForRead(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(cmdContext(cmd), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	return outputReport(cfg, cmd.OutOrStdout(), func(w report.Writer) error {
		_, err := w.WriteRuns(runs)
		return err
	})
}

// runHistoryShowCmd prints or restores the URLs of one run.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	cfg, db, err := openHistoryForRead(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmdContext(cmd)
	run, err := db.GetRun(ctx, args[0])
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("%w: %s", errRunNotFound, args[0])
	}

	urls, err := db.GetRunURLs(ctx, run.ID)
	if err != nil {
		return err
	}

	// Only an explicit -f writes a file; the configured URL file is not a default here.
	if cmd.Flags().Changed(flagURLFile) {
		if err := urllist.Write(cfg.URLFile, urls); err != nil {
			return fmt.Errorf("failed to write URL file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d URL(s) of run %s to %s\n", len(urls), run.ID, cfg.URLFile)
		return nil
	}

	return urllist.Encode(cmd.OutOrStdout(), urls)
}

// runHistoryExportsCmd lists recorded export outcomes.
func runHistoryExportsCmd(cmd *cobra.Command, _ []string) error {
	failedOnly, err := cmd.Flags().GetBool("failed")
	if err != nil {
		return err
	}

	cfg, db, err := openHistoryForRead(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	var status model.ExportStatus
	if failedOnly {
		status = model.ExportStatusFailed
	}

	exports, err := db.ListExports(cmdContext(cmd), status)
	if err != nil {
		return fmt.Errorf("failed to list exports: %w", err)
	}

	harvest := model.NewHarvestReport("")
	harvest.Exports = exports
	return writeSummary(cfg, cmd.OutOrStdout(), harvest)
}

// cmdContext returns the command context, or Background when the command
// runs outside Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
