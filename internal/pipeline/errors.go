package pipeline

import (
	"errors"
	"fmt"
)

// Export errors.
var (
	// ErrMissingMetadata is returned when the article page lacks a title or
	// a publish time. Both are needed to name the PDF.
	ErrMissingMetadata = errors.New("article title or publish time not found")

	// ErrEmptyPDF is returned when the browser printed zero bytes.
	ErrEmptyPDF = errors.New("rendered pdf is empty")

	// ErrNoOutputDir is returned when no output directory is configured.
	ErrNoOutputDir = errors.New("no output directory specified")
)

// StepError reports which pipeline step failed for an article.
type StepError struct {
	// Step is the name of the failing step.
	Step string

	// Err is the step's error.
	Err error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the step's error.
func (e *StepError) Unwrap() error {
	return e.Err
}
