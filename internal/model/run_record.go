package model

import "time"

// RunRecord is a stored collection run without its URLs.
type RunRecord struct {
	ID           string      `json:"id"`
	StartURL     string      `json:"start_url"`
	StartedAt    time.Time   `json:"started_at"`
	FinishedAt   time.Time   `json:"finished_at"`
	Termination  Termination `json:"termination"`
	URLCount     int         `json:"url_count"`
	PagesVisited int         `json:"pages_visited"`
	Error        string      `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (r RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// CrawlResult rebuilds the run's result with the given URLs.
func (r RunRecord) CrawlResult(urls []string) *CrawlResult {
	return &CrawlResult{
		StartURL:     r.StartURL,
		URLs:         urls,
		Termination:  r.Termination,
		PagesVisited: r.PagesVisited,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		ErrorMessage: r.Error,
	}
}
