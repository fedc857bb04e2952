package pipeline

import (
	"context"
	"time"
)

// Renderer is the browser capability the export steps use.
// The browser package provides the production implementation.
type Renderer interface {
	// Open loads url and waits until the document body exists.
	Open(ctx context.Context, url string, timeout time.Duration) error

	// RemoveElements deletes every element matching any of selectors.
	RemoveElements(ctx context.Context, selectors []string) error

	// HTML returns the serialized current document.
	HTML(ctx context.Context) (string, error)

	// PrintPDF prints the current page with background graphics.
	PrintPDF(ctx context.Context) ([]byte, error)
}
