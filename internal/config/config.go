package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The listing defaults target a Xueqiu user column; the timing values come
// from the pacing the site tolerates without locking the session out.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "column2pdf"

	// DefaultStartURL is the first listing page of the column to harvest.
	DefaultStartURL = "https://xueqiu.com/2201555376/column"

	// DefaultSiteOrigin is prepended to site-relative article links.
	DefaultSiteOrigin = "https://xueqiu.com"

	// DefaultPaginationSelector matches the "next page" control.
	DefaultPaginationSelector = ".pagination__next"

	// DefaultLinkSelector matches the article anchors of a listing page.
	DefaultLinkSelector = ".column__item__title > a"

	// DefaultPageIndicatorSelector matches the highlighted page number.
	DefaultPageIndicatorSelector = ".pagination a.active"

	// DefaultModalSelector matches login/notice overlays that intercept clicks.
	DefaultModalSelector = ".modals.dimmer.js-shown"

	// DefaultTitleSelector matches the article headline on an article page.
	DefaultTitleSelector = "h1.article__bd__title"

	// DefaultTimeSelector matches the publish time element on an article page.
	DefaultTimeSelector = "time[datetime]"

	// DefaultTimeAttribute is the attribute of the time element holding the
	// human readable publish time.
	DefaultTimeAttribute = "title"

	// DefaultURLFile is the newline-delimited URL list written by collect.
	DefaultURLFile = "article_urls.txt"

	// DefaultOutputDir is where export writes PDFs.
	DefaultOutputDir = "pdf"

	// DefaultWaitTimeout bounds the wait for links on each listing visit.
	DefaultWaitTimeout = 30 * time.Second

	// DefaultSettleDelay lets lazily rendered listing items finish loading.
	DefaultSettleDelay = 3 * time.Second

	// DefaultStagnationThreshold is the number of consecutive visits without
	// a new URL that stalls a run.
	DefaultStagnationThreshold = 5

	// DefaultStagnationDelay is the pause before revisiting a stagnant page.
	DefaultStagnationDelay = 5 * time.Second

	// DefaultClickRetryLimit is the number of attempts to open the next page.
	DefaultClickRetryLimit = 5

	// DefaultClickRetryDelay is the pause between failed click attempts.
	DefaultClickRetryDelay = 5 * time.Second

	// DefaultPostNavigationDelay is the pause after opening the next page.
	DefaultPostNavigationDelay = 5 * time.Second

	// DefaultExportTimeout bounds loading one article page for export.
	DefaultExportTimeout = 20 * time.Second

	// DefaultExportDelay is the pause between two article exports.
	DefaultExportDelay = 1 * time.Second
)

// DefaultCleanupSelectors lists page clutter removed before printing an article.
func DefaultCleanupSelectors() []string {
	return []string{
		".nav__placeholder",
		".nav.stickyFixed",
		".private__domain__association__ad",
		"footer",
		".article__widget",
		".article__meta",
		".article__comment",
		".user__follow__wrap",
		".modals.dimmer.js-shown",
	}
}

// Config holds all configuration options for column2pdf.
// It is populated from CLI flags and the optional YAML file, then passed
// down explicitly; nothing reads global state.
type Config struct {
	// StartURL is the first listing page to crawl.
	StartURL string

	// SiteOrigin is the scheme+host prefix used to absolutize relative links.
	SiteOrigin string

	// PaginationSelector matches the "next page" control.
	PaginationSelector string

	// LinkSelector matches the article anchors.
	LinkSelector string

	// PageIndicatorSelector matches the current page number. Only used for logs.
	PageIndicatorSelector string

	// ModalSelector matches overlays hidden before each pagination click.
	ModalSelector string

	// TitleSelector and TimeSelector locate article metadata for file names.
	TitleSelector string
	TimeSelector  string

	// TimeAttribute is read from the TimeSelector element.
	TimeAttribute string

	// CleanupSelectors are removed from article pages before printing.
	CleanupSelectors []string

	// Cookies are set in the browser before the first navigation.
	// Logged-in sessions see columns that anonymous visitors do not.
	Cookies map[string]string

	// URLFile is the newline-delimited list of collected URLs.
	URLFile string

	// OutputDir is where PDFs are written.
	OutputDir string

	// WaitTimeout bounds the wait for links on each listing visit.
	WaitTimeout time.Duration

	// SettleDelay is the pause between the wait and the harvest.
	SettleDelay time.Duration

	// StagnationThreshold is the number of stagnant visits that stalls a run.
	StagnationThreshold int

	// StagnationDelay is the pause before revisiting a stagnant page.
	StagnationDelay time.Duration

	// ClickRetryLimit is the number of attempts to open the next page.
	ClickRetryLimit int

	// ClickRetryDelay is the pause between failed click attempts.
	ClickRetryDelay time.Duration

	// PostNavigationDelay is the pause after opening the next page.
	PostNavigationDelay time.Duration

	// ExportTimeout bounds loading one article page.
	ExportTimeout time.Duration

	// ExportDelay is the pause between two article exports.
	ExportDelay time.Duration

	// SkipExported skips URLs the history database marks as already saved.
	SkipExported bool

	// Headless runs the browser without a window.
	// Disable it to watch the crawl while debugging selectors.
	Headless bool

	// BrowserBin is an explicit browser executable. Empty lets rod locate
	// or download one.
	BrowserBin string

	// NoSandbox disables the Chrome sandbox (needed in most containers).
	NoSandbox bool

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches the log output to JSON.
	LogJSON bool

	// ConfigFilePath is the path of the YAML configuration file.
	// If empty, .column2pdf is searched in the current and home directories.
	ConfigFilePath string

	// Site names the profile of the configuration file to apply.
	Site string

	// SiteConfigs holds the parsed configuration file.
	SiteConfigs *File

	// JSONReport and MarkdownReport select the summary format.
	// Mutually exclusive; neither means plain text.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile receives the summary instead of stdout when set.
	ReportFile string

	// DBDir is the directory of the history database.
	DBDir string

	// SaveToDB records runs and exports in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		StartURL:              DefaultStartURL,
		SiteOrigin:            DefaultSiteOrigin,
		PaginationSelector:    DefaultPaginationSelector,
		LinkSelector:          DefaultLinkSelector,
		PageIndicatorSelector: DefaultPageIndicatorSelector,
		ModalSelector:         DefaultModalSelector,
		TitleSelector:         DefaultTitleSelector,
		TimeSelector:          DefaultTimeSelector,
		TimeAttribute:         DefaultTimeAttribute,
		CleanupSelectors:      DefaultCleanupSelectors(),
		Cookies:               make(map[string]string),
		URLFile:               DefaultURLFile,
		OutputDir:             DefaultOutputDir,
		WaitTimeout:           DefaultWaitTimeout,
		SettleDelay:           DefaultSettleDelay,
		StagnationThreshold:   DefaultStagnationThreshold,
		StagnationDelay:       DefaultStagnationDelay,
		ClickRetryLimit:       DefaultClickRetryLimit,
		ClickRetryDelay:       DefaultClickRetryDelay,
		PostNavigationDelay:   DefaultPostNavigationDelay,
		ExportTimeout:         DefaultExportTimeout,
		ExportDelay:           DefaultExportDelay,
		Headless:              true,
		NoSandbox:             true,
		DBDir:                 XDGDataDir(),
		SaveToDB:              true,
	}
}

// XDGDataDir returns the XDG data directory for column2pdf.
// On Linux: ~/.local/share/column2pdf
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for column2pdf.
// On Linux: ~/.config/column2pdf
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplySite overlays a site profile onto the configuration.
// Only non-zero profile fields replace configured values; cookies merge by name.
func (c *Config) ApplySite(site SiteConfig) {
	if site.StartURL != "" {
		c.StartURL = site.StartURL
	}
	if site.Origin != "" {
		c.SiteOrigin = site.Origin
	}
	if site.PaginationSelector != "" {
		c.PaginationSelector = site.PaginationSelector
	}
	if site.LinkSelector != "" {
		c.LinkSelector = site.LinkSelector
	}
	if site.PageIndicatorSelector != "" {
		c.PageIndicatorSelector = site.PageIndicatorSelector
	}
	if site.ModalSelector != "" {
		c.ModalSelector = site.ModalSelector
	}
	if site.TitleSelector != "" {
		c.TitleSelector = site.TitleSelector
	}
	if site.TimeSelector != "" {
		c.TimeSelector = site.TimeSelector
	}
	if site.TimeAttribute != "" {
		c.TimeAttribute = site.TimeAttribute
	}
	if len(site.CleanupSelectors) > 0 {
		c.CleanupSelectors = site.CleanupSelectors
	}
	if len(site.Cookies) > 0 {
		if c.Cookies == nil {
			c.Cookies = make(map[string]string)
		}
		for k, v := range site.Cookies {
			c.Cookies[k] = v
		}
	}
	if site.URLFile != "" {
		c.URLFile = site.URLFile
	}
	if site.OutputDir != "" {
		c.OutputDir = site.OutputDir
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return ErrNoStartURL
	}
	if u, err := url.Parse(c.StartURL); err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidStartURL
	}
	if u, err := url.Parse(c.SiteOrigin); err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidOrigin
	}
	if c.PaginationSelector == "" || c.LinkSelector == "" {
		return ErrNoSelector
	}
	if c.StagnationThreshold <= 0 {
		return ErrInvalidStagnationThreshold
	}
	if c.ClickRetryLimit <= 0 {
		return ErrInvalidClickRetryLimit
	}
	if c.WaitTimeout <= 0 || c.ExportTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SettleDelay < 0 || c.StagnationDelay < 0 || c.ClickRetryDelay < 0 ||
		c.PostNavigationDelay < 0 || c.ExportDelay < 0 {
		return ErrInvalidDelay
	}
	if c.URLFile == "" {
		return ErrNoURLFile
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
