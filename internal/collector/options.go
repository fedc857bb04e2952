package collector

import (
	"context"
	"log/slog"
	"time"
)

// Default collection settings.
// The delays are fixed sleeps; the listing rate-limits fast pagination, so
// nothing here adapts or backs off exponentially.
const (
	// DefaultOrigin is prepended to site-relative article links.
	DefaultOrigin = "https://xueqiu.com"

	// DefaultLinkAttribute is the attribute read from each link element.
	DefaultLinkAttribute = "href"

	// DefaultPageIndicatorSelector matches the highlighted page number.
	DefaultPageIndicatorSelector = ".pagination a.active"

	// DefaultModalSelector matches overlays that swallow clicks on the listing.
	DefaultModalSelector = ".modals.dimmer.js-shown"

	// DefaultWaitTimeout bounds the wait for the first link of a page.
	DefaultWaitTimeout = 30 * time.Second

	// DefaultSettleDelay lets asynchronously rendered items finish loading.
	DefaultSettleDelay = 3 * time.Second

	// DefaultStagnationThreshold is the number of consecutive visits without
	// a new URL after which the run is considered stalled.
	DefaultStagnationThreshold = 5

	// DefaultStagnationDelay is the pause before revisiting a stagnant page.
	DefaultStagnationDelay = 5 * time.Second

	// DefaultClickRetryLimit is the number of attempts to reach the next page.
	DefaultClickRetryLimit = 5

	// DefaultClickRetryDelay is the pause between failed click attempts.
	DefaultClickRetryDelay = 5 * time.Second

	// DefaultPostNavigationDelay is the pause after a successful page advance.
	DefaultPostNavigationDelay = 5 * time.Second
)

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger used for per-visit progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// WithOrigin sets the scheme+host prefix used to absolutize relative links.
func WithOrigin(origin string) Option {
	return func(c *Collector) {
		c.origin = origin
	}
}

// WithLinkAttribute sets the attribute holding each link's target.
func WithLinkAttribute(name string) Option {
	return func(c *Collector) {
		if name != "" {
			c.linkAttribute = name
		}
	}
}

// WithPageIndicatorSelector sets the selector of the current page number.
func WithPageIndicatorSelector(selector string) Option {
	return func(c *Collector) {
		c.indicatorSelector = selector
	}
}

// WithModalSelector sets the selector of overlays hidden before each click.
// An empty selector disables overlay dismissal.
func WithModalSelector(selector string) Option {
	return func(c *Collector) {
		c.modalSelector = selector
	}
}

// WithWaitTimeout sets how long to wait for links on each visit.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *Collector) {
		c.waitTimeout = d
	}
}

// WithSettleDelay sets the pause between the wait and the harvest.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Collector) {
		c.settleDelay = d
	}
}

// WithStagnation sets the stagnation threshold and the pause before a revisit.
// Non-positive thresholds are ignored.
func WithStagnation(threshold int, delay time.Duration) Option {
	return func(c *Collector) {
		if threshold > 0 {
			c.stagnationThreshold = threshold
		}
		c.stagnationDelay = delay
	}
}

// WithClickRetry sets the click attempt budget and the pause between attempts.
// Non-positive limits are ignored.
func WithClickRetry(limit int, delay time.Duration) Option {
	return func(c *Collector) {
		if limit > 0 {
			c.clickRetryLimit = limit
		}
		c.clickRetryDelay = delay
	}
}

// WithPostNavigationDelay sets the pause after a successful page advance.
func WithPostNavigationDelay(d time.Duration) Option {
	return func(c *Collector) {
		c.postNavigationDelay = d
	}
}

// WithSleeper replaces the function used for every fixed pause.
// It must return ctx.Err() when the context ends before the pause does.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Collector) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// sleepContext pauses for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
