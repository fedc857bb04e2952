package collector

import (
	"context"
	"time"
)

// Automation is the page automation capability the collector drives.
// The browser package provides the production implementation; every call
// blocks until the browser answers or the context ends.
type Automation interface {
	// Navigate loads url in the current tab.
	Navigate(ctx context.Context, url string) error

	// WaitFor blocks until at least one element matches selector or the
	// timeout elapses. A timeout is reported as an error wrapping ErrWaitTimeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// ReadText returns the text of the first element matching selector.
	// The boolean is false when no element matches.
	ReadText(ctx context.Context, selector string) (string, bool)

	// Find returns the first element matching selector without waiting.
	// The boolean is false when no element matches.
	Find(ctx context.Context, selector string) (Element, bool, error)

	// FindAll returns every element currently matching selector.
	FindAll(ctx context.Context, selector string) ([]Element, error)

	// RunScript evaluates a JavaScript function expression in the page.
	RunScript(ctx context.Context, source string) error
}

// Element is a handle to one element of the current page.
type Element interface {
	// Attribute returns the value of the named attribute.
	// The boolean is false when the attribute is absent.
	Attribute(ctx context.Context, name string) (string, bool)

	// Hidden reports whether the element is styled as not displayed.
	// An element that can no longer be inspected is reported as an error,
	// never as hidden.
	Hidden(ctx context.Context) (bool, error)

	// ScrollIntoView scrolls the page until the element is visible.
	ScrollIntoView(ctx context.Context) error

	// Click clicks the element. An element covered by another one is
	// reported as an error wrapping ErrClickIntercepted; an element that
	// left the document as ErrControlVanished.
	Click(ctx context.Context) error
}
