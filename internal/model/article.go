package model

import "time"

// Article carries the state of one URL through the export pipeline.
// Each step reads what earlier steps filled in and adds its own part.
type Article struct {
	// URL is the article page being exported.
	URL string

	// HTML is the page source after clutter removal.
	HTML string

	// Title is the article headline.
	Title string

	// Published is the publish time exactly as the page shows it.
	// It is used verbatim in the file name.
	Published string

	// PDF holds the rendered document.
	PDF []byte

	// FilePath is where the PDF was written.
	FilePath string
}

// ExportStatus is the outcome of exporting one article.
type ExportStatus string

const (
	// ExportStatusSaved means a PDF was written.
	ExportStatusSaved ExportStatus = "saved"

	// ExportStatusSkipped means the article was exported by an earlier run.
	ExportStatusSkipped ExportStatus = "skipped"

	// ExportStatusFailed means a pipeline step failed for this article.
	ExportStatusFailed ExportStatus = "failed"
)

// ExportResult records what happened to one URL.
type ExportResult struct {
	URL          string       `json:"url"`
	Status       ExportStatus `json:"status"`
	FilePath     string       `json:"file_path,omitempty"`
	Title        string       `json:"title,omitempty"`
	Published    string       `json:"published,omitempty"`
	FailedStep   string       `json:"failed_step,omitempty"`
	ErrorMessage string       `json:"error,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
}
