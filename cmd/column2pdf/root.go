// Package main provides the entry point for the column2pdf CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for column2pdf.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column2pdf",
		Short: "Collect the articles of a blog column and save them as PDF",
		Long: `column2pdf collects every article link of a paginated column listing
(a Xueqiu user column by default) by driving a headless Chromium, then prints
each article page to a PDF file.

The listing is rendered by JavaScript, so a real browser is required. rod
finds an installed Chromium or downloads one on first use.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .column2pdf in current or home directory)")
	cmd.PersistentFlags().StringP("site", "s", "",
		"Site profile of the configuration file to use")

	// Add subcommands
	cmd.AddCommand(NewCollectCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
