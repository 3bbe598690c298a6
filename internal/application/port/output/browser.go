package output

import (
	"context"
	"time"

	"webtest-agent/internal/domain/entity"
)

// Element is a handle to a DOM element on the current page.
type Element interface {
	Text() (string, error)
	// Attribute returns the live property value when the element has one
	// (so href resolves to an absolute URL), falling back to the markup attribute.
	Attribute(name string) (string, bool, error)
	Clear() error
	Input(text string) error
	Click() error
}

// ElementFinder is the part of the browser the element locator needs.
type ElementFinder interface {
	// WaitElement waits up to timeout for the first element matching selector.
	WaitElement(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	// WaitElementText waits up to timeout for an element matching selector
	// whose text matches the regular expression pattern.
	WaitElementText(ctx context.Context, selector, pattern string, timeout time.Duration) (Element, error)
	// Elements returns every element currently matching selector, in document order.
	Elements(ctx context.Context, selector string) ([]Element, error)
}

type BrowserPort interface {
	ElementFinder

	Navigate(ctx context.Context, url string) error
	// WaitStable blocks until the page stops changing or timeout elapses.
	WaitStable(ctx context.Context, timeout time.Duration) error
	Screenshot(ctx context.Context) (*entity.Screenshot, error)

	CurrentURL() (string, error)
	Title() (string, error)
	Close()
}
