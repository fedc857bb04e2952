package model

import "time"

// HarvestReport summarizes a command run for the report writers.
// Collect-only runs leave Exports empty; export-only runs leave Crawl nil.
type HarvestReport struct {
	// RunID identifies the collection run in the history database.
	RunID string `json:"run_id,omitempty"`

	// Crawl is the collection result, if a collection ran.
	Crawl *CrawlResult `json:"crawl,omitempty"`

	// URLFile is where the collected URLs were written.
	URLFile string `json:"url_file,omitempty"`

	// OutputDir is where PDFs were written.
	OutputDir string `json:"output_dir,omitempty"`

	// Exports holds one entry per exported URL, in input order.
	Exports []ExportResult `json:"exports,omitempty"`

	// GeneratedAt is when the report was created.
	GeneratedAt time.Time `json:"generated_at"`
}

// NewHarvestReport creates an empty report stamped with the current time.
func NewHarvestReport(runID string) *HarvestReport {
	return &HarvestReport{
		RunID:       runID,
		Exports:     make([]ExportResult, 0),
		GeneratedAt: time.Now(),
	}
}

// CountExports returns how many export results have the given status.
func (r *HarvestReport) CountExports(status ExportStatus) int {
	n := 0
	for _, e := range r.Exports {
		if e.Status == status {
			n++
		}
	}
	return n
}

// FailedExports returns the export results that failed.
func (r *HarvestReport) FailedExports() []ExportResult {
	failed := make([]ExportResult, 0)
	for _, e := range r.Exports {
		if e.Status == ExportStatusFailed {
			failed = append(failed, e)
		}
	}
	return failed
}

// URLCount returns the number of collected URLs, or 0 when no collection ran.
func (r *HarvestReport) URLCount() int {
	if r.Crawl == nil {
		return 0
	}
	return len(r.Crawl.URLs)
}
