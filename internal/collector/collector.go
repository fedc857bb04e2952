package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/column2pdf/internal/model"
)

// Collector gathers article links from a paginated listing.
// A Collector is not safe for concurrent use; it drives a single tab.
type Collector struct {
	// automation is the browser tab being driven.
	automation Automation

	// logger receives per-visit progress.
	logger *slog.Logger

	// origin is prepended to site-relative links.
	origin string

	// linkAttribute is read from each link element.
	linkAttribute string

	// indicatorSelector matches the current page number (observability only).
	indicatorSelector string

	// modalSelector matches overlays hidden before each click.
	modalSelector string

	waitTimeout         time.Duration
	settleDelay         time.Duration
	stagnationThreshold int
	stagnationDelay     time.Duration
	clickRetryLimit     int
	clickRetryDelay     time.Duration
	postNavigationDelay time.Duration

	// sleep performs every fixed pause.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Collector that drives automation.
func New(automation Automation, opts ...Option) *Collector {
	c := &Collector{
		automation:          automation,
		origin:              DefaultOrigin,
		linkAttribute:       DefaultLinkAttribute,
		indicatorSelector:   DefaultPageIndicatorSelector,
		modalSelector:       DefaultModalSelector,
		waitTimeout:         DefaultWaitTimeout,
		settleDelay:         DefaultSettleDelay,
		stagnationThreshold: DefaultStagnationThreshold,
		stagnationDelay:     DefaultStagnationDelay,
		clickRetryLimit:     DefaultClickRetryLimit,
		clickRetryDelay:     DefaultClickRetryDelay,
		postNavigationDelay: DefaultPostNavigationDelay,
		sleep:               sleepContext,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// run holds the mutable state of one Collect call.
type run struct {
	result *model.CrawlResult
	urls   *model.URLSet
	cursor *model.Cursor
}

// Collect walks the listing starting at startURL and returns the discovered
// article URLs in first-discovery order.
//
// paginationSelector matches the "next page" control and linkSelector matches
// the article anchors. Collect never returns an error: failures end the run
// with TerminationNavigationFailed or TerminationInterrupted and are stored in
// the result's Err field, next to every URL gathered before the failure.
func (c *Collector) Collect(ctx context.Context, startURL, paginationSelector, linkSelector string) *model.CrawlResult {
	r := &run{
		result: &model.CrawlResult{
			StartURL:  startURL,
			StartedAt: time.Now(),
		},
		urls:   model.NewURLSet(),
		cursor: model.NewCursor(),
	}

	c.logger.Info("starting collection",
		"startURL", startURL,
		"pagination", paginationSelector,
		"links", linkSelector,
	)

	if err := c.automation.Navigate(ctx, startURL); err != nil {
		if ctx.Err() != nil {
			return c.finish(r, model.TerminationInterrupted, ctx.Err())
		}
		return c.finish(r, model.TerminationNavigationFailed,
			fmt.Errorf("%w: open %s: %w", ErrNavigationFailed, startURL, err))
	}
	r.result.PagesVisited = 1

	for {
		if err := ctx.Err(); err != nil {
			return c.finish(r, model.TerminationInterrupted, err)
		}

		r.cursor.Page = c.currentPage(ctx)

		if err := c.automation.WaitFor(ctx, linkSelector, c.waitTimeout); err != nil {
			if ctx.Err() != nil {
				return c.finish(r, model.TerminationInterrupted, ctx.Err())
			}
			c.logger.Warn("links did not appear, harvesting anyway",
				"page", r.cursor.Page,
				"selector", linkSelector,
				"error", err,
			)
		}

		if err := c.sleep(ctx, c.settleDelay); err != nil {
			return c.finish(r, model.TerminationInterrupted, err)
		}

		added := c.harvest(ctx, linkSelector, r.urls)
		r.cursor.RecordVisit(added > 0)

		c.logger.Info("visited listing page",
			"page", r.cursor.Page,
			"visits", r.cursor.Visits,
			"added", added,
			"discovered", r.urls.Len(),
		)

		if added == 0 {
			c.logger.Warn("no new links on this visit",
				"page", r.cursor.Page,
				"stagnant", r.cursor.Stagnant,
				"threshold", c.stagnationThreshold,
			)
			if r.cursor.Stagnant >= c.stagnationThreshold {
				return c.finish(r, model.TerminationStalled, nil)
			}
			if err := c.sleep(ctx, c.stagnationDelay); err != nil {
				return c.finish(r, model.TerminationInterrupted, err)
			}
			continue
		}

		reached, err := c.advance(ctx, paginationSelector, r.cursor)
		if err != nil {
			if ctx.Err() != nil {
				return c.finish(r, model.TerminationInterrupted, ctx.Err())
			}
			return c.finish(r, model.TerminationNavigationFailed, err)
		}
		if !reached {
			return c.finish(r, model.TerminationExhausted, nil)
		}
		r.result.PagesVisited++

		if err := c.sleep(ctx, c.postNavigationDelay); err != nil {
			return c.finish(r, model.TerminationInterrupted, err)
		}
	}
}

// finish fills in the result and logs how the run ended.
func (c *Collector) finish(r *run, term model.Termination, err error) *model.CrawlResult {
	r.result.URLs = r.urls.URLs()
	r.result.Cursor = *r.cursor
	r.result.Termination = term
	r.result.FinishedAt = time.Now()
	if err != nil {
		r.result.Err = err
		r.result.ErrorMessage = err.Error()
	}

	attrs := []any{
		"termination", term.String(),
		"urls", len(r.result.URLs),
		"pagesVisited", r.result.PagesVisited,
		"elapsed", r.result.Duration().Round(time.Millisecond),
	}
	if err != nil {
		c.logger.Error("collection ended abnormally", append(attrs, "error", err)...)
	} else {
		c.logger.Info("collection finished", attrs...)
	}

	return r.result
}

// currentPage reads the page indicator, falling back to 1 when it is
// missing or does not hold a number.
func (c *Collector) currentPage(ctx context.Context) int {
	if c.indicatorSelector == "" {
		return 1
	}
	text, ok := c.automation.ReadText(ctx, c.indicatorSelector)
	if !ok {
		return 1
	}
	page, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// harvest adds every link currently on the page to urls and returns how
// many of them were new.
func (c *Collector) harvest(ctx context.Context, linkSelector string, urls *model.URLSet) int {
	elements, err := c.automation.FindAll(ctx, linkSelector)
	if err != nil {
		c.logger.Warn("failed to enumerate links", "selector", linkSelector, "error", err)
		return 0
	}

	added := 0
	for _, el := range elements {
		href, ok := el.Attribute(ctx, c.linkAttribute)
		if !ok {
			continue
		}
		if urls.Add(model.NormalizeURL(c.origin, href)) {
			added++
		}
	}
	return added
}

// hasNextPage reports whether a visible next page control exists.
// Lookup and inspection failures are returned as errors so that a page
// being re-rendered is not mistaken for the last one.
func (c *Collector) hasNextPage(ctx context.Context, paginationSelector string) (bool, error) {
	next, ok, err := c.automation.Find(ctx, paginationSelector)
	if err != nil {
		return false, fmt.Errorf("look up next page control: %w", err)
	}
	if !ok {
		c.logger.Info("no next page control, reached the last page")
		return false, nil
	}
	hidden, err := next.Hidden(ctx)
	if err != nil {
		return false, fmt.Errorf("inspect next page control: %w", err)
	}
	if hidden {
		c.logger.Info("next page control is hidden, reached the last page")
		return false, nil
	}
	return true, nil
}

// advance opens the next page, retrying transient failures up to the click
// retry budget. It returns false without an error when the listing has no
// next page.
//
// The last page is only recognized before the first click attempt. Once a
// click has failed, a missing control counts as one more failure because
// the page may be in the middle of re-rendering.
func (c *Collector) advance(ctx context.Context, paginationSelector string, cursor *model.Cursor) (bool, error) {
	var (
		lastErr error
		clicked bool
	)
	for attempt := 1; attempt <= c.clickRetryLimit; attempt++ {
		var err error
		if !clicked {
			var present bool
			present, err = c.hasNextPage(ctx, paginationSelector)
			if err == nil && !present {
				return false, nil
			}
		}
		if err == nil {
			clicked = true
			err = c.clickNext(ctx, paginationSelector)
		}
		if err == nil {
			cursor.RecordAdvance()
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		cursor.RecordClickFailure()
		lastErr = err
		c.logger.Warn("failed to open next page, retrying",
			"attempt", attempt,
			"limit", c.clickRetryLimit,
			"error", err,
		)

		if attempt < c.clickRetryLimit {
			if err := c.sleep(ctx, c.clickRetryDelay); err != nil {
				return false, err
			}
		}
	}
	return false, fmt.Errorf("%w: next page not reached after %d attempts: %w",
		ErrNavigationFailed, c.clickRetryLimit, lastErr)
}

// clickNext makes one attempt to click the next page control.
func (c *Collector) clickNext(ctx context.Context, paginationSelector string) error {
	c.dismissOverlays(ctx)

	next, ok, err := c.automation.Find(ctx, paginationSelector)
	if err != nil {
		return err
	}
	if !ok {
		return ErrControlVanished
	}
	if err := next.ScrollIntoView(ctx); err != nil {
		return err
	}
	return next.Click(ctx)
}

// dismissOverlays hides modal overlays that would intercept the next click.
// Failures are logged and ignored.
func (c *Collector) dismissOverlays(ctx context.Context) {
	if c.modalSelector == "" {
		return
	}
	if err := c.automation.RunScript(ctx, HideElementsScript(c.modalSelector)); err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Debug("failed to dismiss overlays", "selector", c.modalSelector, "error", err)
		}
	}
}

// HideElementsScript returns a function expression that sets display:none
// on every element matching selector.
func HideElementsScript(selector string) string {
	return fmt.Sprintf(
		`() => { document.querySelectorAll(%s).forEach(el => { el.style.display = 'none'; }); }`,
		jsString(selector),
	)
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	quoted, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(quoted)
}
