package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/nao1215/column2pdf/internal/collector"
)

// element adapts a rod element to collector.Element.
type element struct {
	el *rod.Element
}

// Attribute returns the named attribute.
func (e *element) Attribute(ctx context.Context, name string) (string, bool) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

// hiddenScript reports whether the element is styled as not displayed.
const hiddenScript = `() => {
	const style = getComputedStyle(this);
	return style.display === 'none' || style.visibility === 'hidden';
}`

// Hidden reports whether the element is styled as not displayed.
func (e *element) Hidden(ctx context.Context) (bool, error) {
	res, err := e.el.Context(ctx).Eval(hiddenScript)
	if err != nil {
		return false, classifyClickError(err)
	}
	return res.Value.Bool(), nil
}

// ScrollIntoView scrolls the page until the element is visible.
func (e *element) ScrollIntoView(ctx context.Context) error {
	if err := e.el.Context(ctx).ScrollIntoView(); err != nil {
		return classifyClickError(err)
	}
	return nil
}

// Click clicks the element once with the left button.
func (e *element) Click(ctx context.Context) error {
	if err := e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return classifyClickError(err)
	}
	return nil
}

// classifyClickError maps rod's interaction errors onto the collector's
// retryable conditions. Unknown errors are returned unchanged.
func classifyClickError(err error) error {
	var (
		covered        *rod.CoveredError
		notInteract    *rod.NotInteractableError
		invisible      *rod.InvisibleShapeError
		objectNotFound *rod.ObjectNotFoundError
	)
	switch {
	case errors.As(err, &covered), errors.As(err, &notInteract):
		return fmt.Errorf("%w: %w", collector.ErrClickIntercepted, err)
	case errors.As(err, &invisible), errors.As(err, &objectNotFound):
		return fmt.Errorf("%w: %w", collector.ErrControlVanished, err)
	case isDetached(err):
		return fmt.Errorf("%w: %w", collector.ErrControlVanished, err)
	default:
		return err
	}
}

// isDetached recognizes DevTools errors about nodes that left the document.
func isDetached(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "detached") ||
		strings.Contains(msg, "could not find node") ||
		strings.Contains(msg, "no node with given id")
}
