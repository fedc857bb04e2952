package model

import "time"

// CrawlResult is what a collection run hands back to its caller.
// It is always populated, even when the run ended abnormally, so the caller
// can persist the URLs gathered so far.
type CrawlResult struct {
	// StartURL is the listing URL the run started from.
	StartURL string `json:"start_url"`

	// URLs holds the discovered article URLs in first-discovery order.
	URLs []string `json:"urls"`

	// Termination is the reason the run stopped.
	Termination Termination `json:"termination"`

	// PagesVisited counts successful page advances plus the start page.
	PagesVisited int `json:"pages_visited"`

	// Cursor is the final state of the crawl cursor.
	Cursor Cursor `json:"cursor"`

	// StartedAt and FinishedAt bracket the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Err is set for TerminationNavigationFailed and TerminationInterrupted.
	// It is excluded from JSON; ErrorMessage carries the text instead.
	Err error `json:"-"`

	// ErrorMessage is Err.Error(), kept for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// Failed reports whether the run ended with an escalated failure.
// Results loaded from history carry only ErrorMessage.
func (r *CrawlResult) Failed() bool {
	return r.Err != nil || r.ErrorMessage != ""
}

// Duration returns how long the run took.
func (r *CrawlResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
