package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/column2pdf/internal/config"
)

// buildConfig creates a Config from the defaults, the configuration file and
// the command line, in increasing order of precedence.
// Only flags the user actually set override file values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.Verbose, err = getBoolFlag(cmd, "verbose")
	if err != nil {
		return nil, err
	}
	cfg.LogJSON, err = getBoolFlag(cmd, "log-json")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath, err = getStringFlag(cmd, "config")
	if err != nil {
		return nil, err
	}
	cfg.Site, err = getStringFlag(cmd, "site")
	if err != nil {
		return nil, err
	}

	if err := loadSiteConfig(cfg); err != nil {
		return nil, err
	}

	r := flagReader{cmd: cmd}
	r.str(flagStartURL, &cfg.StartURL)
	r.str(flagPaginationSelector, &cfg.PaginationSelector)
	r.str(flagLinkSelector, &cfg.LinkSelector)
	r.str(flagOrigin, &cfg.SiteOrigin)
	r.str(flagURLFile, &cfg.URLFile)
	r.duration(flagWaitTimeout, &cfg.WaitTimeout)
	r.duration(flagSettleDelay, &cfg.SettleDelay)
	r.integer(flagStagnationThreshold, &cfg.StagnationThreshold)
	r.duration(flagStagnationDelay, &cfg.StagnationDelay)
	r.integer(flagClickRetries, &cfg.ClickRetryLimit)
	r.duration(flagClickRetryDelay, &cfg.ClickRetryDelay)
	r.duration(flagPostNavDelay, &cfg.PostNavigationDelay)
	r.str(flagOutputDir, &cfg.OutputDir)
	r.duration(flagExportTimeout, &cfg.ExportTimeout)
	r.duration(flagExportDelay, &cfg.ExportDelay)
	r.boolean(flagSkipExported, &cfg.SkipExported)
	r.str(flagBrowserBin, &cfg.BrowserBin)
	r.boolean(flagNoSandbox, &cfg.NoSandbox)
	r.str(flagDBDir, &cfg.DBDir)
	r.boolean(flagJSON, &cfg.JSONReport)
	r.boolean(flagMarkdown, &cfg.MarkdownReport)
	r.str(flagOutput, &cfg.ReportFile)

	var headful, noDB bool
	r.boolean(flagHeadful, &headful)
	r.boolean(flagNoDB, &noDB)
	if r.err != nil {
		return nil, r.err
	}
	if flags.Changed(flagHeadful) {
		cfg.Headless = !headful
	}
	if flags.Changed(flagNoDB) {
		cfg.SaveToDB = !noDB
	}

	return cfg, nil
}

// loadSiteConfig reads the configuration file and applies the selected profile.
// A missing file is only an error when the user named it explicitly.
func loadSiteConfig(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.SiteConfigs = file
	case explicitConfigPath:
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	site, err := cfg.SiteConfigs.GetSiteConfig(cfg.Site)
	if err != nil {
		if errors.Is(err, config.ErrUnknownSite) {
			return fmt.Errorf("%w (defined: %v)", err, cfg.SiteConfigs.SiteNames())
		}
		return err
	}
	cfg.ApplySite(site)
	return nil
}

// flagReader copies explicitly set flags into config fields and keeps the
// first error. Flags the command does not define are never "changed".
type flagReader struct {
	cmd *cobra.Command
	err error
}

// changed reports whether name should be read.
func (r *flagReader) changed(name string) bool {
	return r.err == nil && r.cmd.Flags().Changed(name)
}

func (r *flagReader) str(name string, dst *string) {
	if r.changed(name) {
		*dst, r.err = r.cmd.Flags().GetString(name)
	}
}

func (r *flagReader) boolean(name string, dst *bool) {
	if r.changed(name) {
		*dst, r.err = r.cmd.Flags().GetBool(name)
	}
}

func (r *flagReader) integer(name string, dst *int) {
	if r.changed(name) {
		*dst, r.err = r.cmd.Flags().GetInt(name)
	}
}

func (r *flagReader) duration(name string, dst *time.Duration) {
	if r.changed(name) {
		*dst, r.err = r.cmd.Flags().GetDuration(name)
	}
}

// getBoolFlag retrieves a flag from the command or its root.
func getBoolFlag(cmd *cobra.Command, name string) (bool, error) {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false, err
		}
	}
	return v, nil
}

// getStringFlag retrieves a flag from the command or its root.
func getStringFlag(cmd *cobra.Command, name string) (string, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return "", err
		}
	}
	return v, nil
}
