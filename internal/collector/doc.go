// Package collector walks a paginated listing in a browser and gathers
// article links.
//
// # Architecture
//
// The Collector drives one Automation (a browser tab, or a fake in tests)
// through the listing page by page:
//
//	navigate -> wait for links -> settle -> harvest -> stagnation check -> advance -> repeat
//
// Discovered links are normalized against a fixed site origin and stored in
// a model.URLSet, so revisiting a page or seeing pinned items again never
// inflates or reorders the result.
//
// # Termination
//
// Collect never returns an error. It returns a model.CrawlResult whose
// Termination tells the caller why the loop stopped:
//
//   - Exhausted: the next page control is missing or hidden
//   - Stalled: several consecutive visits found nothing new
//   - NavigationFailed: the next page control could not be clicked after
//     the retry budget, or the start page could not be opened
//   - Interrupted: the context was cancelled
//
// The URLs gathered so far are always present in the result, so callers can
// persist a partial harvest.
//
// # Usage
//
//	c := collector.New(session, collector.WithOrigin("https://xueqiu.com"))
//	result := c.Collect(ctx, startURL, ".pagination__next", ".column__item__title > a")
//	if result.Failed() {
//	    slog.Warn("collection ended early", "error", result.Err)
//	}
package collector
