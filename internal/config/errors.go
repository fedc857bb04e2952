package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can match them
// with errors.Is while still printing a readable message.
var (
	// ErrNoStartURL is returned when no listing URL is configured.
	ErrNoStartURL = errors.New("no start URL specified: use --start-url or a site profile")

	// ErrInvalidStartURL is returned when the start URL is not absolute.
	ErrInvalidStartURL = errors.New("invalid start URL: must be an absolute http(s) URL")

	// ErrInvalidOrigin is returned when the site origin is not scheme://host.
	ErrInvalidOrigin = errors.New("invalid site origin: must look like https://example.com")

	// ErrNoSelector is returned when the pagination or link selector is empty.
	ErrNoSelector = errors.New("pagination and link selectors must not be empty")

	// ErrInvalidStagnationThreshold is returned when the threshold is not positive.
	ErrInvalidStagnationThreshold = errors.New("invalid stagnation threshold: must be positive")

	// ErrInvalidClickRetryLimit is returned when the retry limit is not positive.
	ErrInvalidClickRetryLimit = errors.New("invalid click retry limit: must be positive")

	// ErrInvalidTimeout is returned when a wait or export timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when a pause is negative.
	// Use 0 to disable a pause.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrNoURLFile is returned when the URL list path is empty.
	ErrNoURLFile = errors.New("no URL file specified")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownSite is returned when --site names a profile the
	// configuration file does not define.
	ErrUnknownSite = errors.New("unknown site profile")
)
