package collector

import "errors"

// Collection errors.
// ErrNavigationFailed is the only one that ends a run; the others are
// transient conditions reported by an Automation and retried by the loop.
var (
	// ErrNavigationFailed is wrapped into CrawlResult.Err when the next page
	// could not be reached within the click retry budget, or when the start
	// page could not be opened.
	ErrNavigationFailed = errors.New("navigation failed")

	// ErrClickIntercepted is returned by Element.Click when another element
	// (typically a modal overlay) receives the click instead.
	ErrClickIntercepted = errors.New("click intercepted by another element")

	// ErrControlVanished is returned when the next page control disappears
	// between lookup and click.
	ErrControlVanished = errors.New("pagination control vanished")

	// ErrWaitTimeout is returned by Automation.WaitFor when no element
	// matched before the timeout.
	ErrWaitTimeout = errors.New("timed out waiting for selector")
)
