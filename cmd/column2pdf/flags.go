package main

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/column2pdf/internal/config"
)

// Flag names shared by several commands.
const (
	flagStartURL            = "start-url"
	flagPaginationSelector  = "pagination-selector"
	flagLinkSelector        = "link-selector"
	flagOrigin              = "origin"
	flagURLFile             = "url-file"
	flagWaitTimeout         = "wait-timeout"
	flagSettleDelay         = "settle-delay"
	flagStagnationThreshold = "stagnation-threshold"
	flagStagnationDelay     = "stagnation-delay"
	flagClickRetries        = "click-retries"
	flagClickRetryDelay     = "click-retry-delay"
	flagPostNavDelay        = "post-nav-delay"
	flagOutputDir           = "output-dir"
	flagExportTimeout       = "export-timeout"
	flagExportDelay         = "export-delay"
	flagSkipExported        = "skip-exported"
	flagHeadful             = "headful"
	flagBrowserBin          = "browser-bin"
	flagNoSandbox           = "no-sandbox"
	flagNoDB                = "no-db"
	flagDBDir               = "db-dir"
	flagJSON                = "json"
	flagMarkdown            = "markdown"
	flagOutput              = "output"
)

// addCollectFlags registers the listing and pacing flags.
func addCollectFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(flagStartURL, "u", config.DefaultStartURL,
		"First page of the column listing")
	cmd.Flags().String(flagPaginationSelector, config.DefaultPaginationSelector,
		"CSS selector of the next page control")
	cmd.Flags().String(flagLinkSelector, config.DefaultLinkSelector,
		"CSS selector of the article links")
	cmd.Flags().String(flagOrigin, config.DefaultSiteOrigin,
		"Origin prepended to links that start with /")

	cmd.Flags().Duration(flagWaitTimeout, config.DefaultWaitTimeout,
		"Maximum wait for links on each listing visit")
	cmd.Flags().Duration(flagSettleDelay, config.DefaultSettleDelay,
		"Pause after the links appear, before reading them")
	cmd.Flags().Int(flagStagnationThreshold, config.DefaultStagnationThreshold,
		"Consecutive visits without a new link before giving up")
	cmd.Flags().Duration(flagStagnationDelay, config.DefaultStagnationDelay,
		"Pause before revisiting a page that yielded nothing new")
	cmd.Flags().Int(flagClickRetries, config.DefaultClickRetryLimit,
		"Attempts to open the next page before giving up")
	cmd.Flags().Duration(flagClickRetryDelay, config.DefaultClickRetryDelay,
		"Pause between failed attempts to open the next page")
	cmd.Flags().Duration(flagPostNavDelay, config.DefaultPostNavigationDelay,
		"Pause after opening the next page")
}

// addURLFileFlag registers the URL list path.
func addURLFileFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringP(flagURLFile, "f", config.DefaultURLFile, usage)
}

// addExportFlags registers the PDF export flags.
func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(flagOutputDir, "d", config.DefaultOutputDir,
		"Directory receiving the PDF files")
	cmd.Flags().Duration(flagExportTimeout, config.DefaultExportTimeout,
		"Maximum time to load one article")
	cmd.Flags().Duration(flagExportDelay, config.DefaultExportDelay,
		"Pause between two articles")
	cmd.Flags().Bool(flagSkipExported, false,
		"Skip articles that an earlier export already saved")
}

// addBrowserFlags registers the browser launch flags.
func addBrowserFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(flagHeadful, false,
		"Show the browser window (useful when adjusting selectors)")
	cmd.Flags().String(flagBrowserBin, "",
		"Chromium executable (default: find or download one)")
	cmd.Flags().Bool(flagNoSandbox, true,
		"Disable the Chromium sandbox (required in most containers)")
}

// addHistoryFlags registers the history database flags.
func addHistoryFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(flagNoDB, false,
		"Do not record runs and exports in the history database")
	cmd.Flags().String(flagDBDir, config.XDGDataDir(),
		"Directory of the history database")
}

// addReportFlags registers the summary format flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP(flagJSON, "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP(flagMarkdown, "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP(flagOutput, "o", "",
		"Write report to specified file path (creates directories if needed)")
}
