package browser

import "errors"

// Browser session errors.
var (
	// ErrNotStarted is returned by Session methods called before Launch
	// succeeded or after Close.
	ErrNotStarted = errors.New("browser session is not running")

	// ErrLaunch is wrapped around failures to start or connect to the browser.
	ErrLaunch = errors.New("failed to start browser")
)
