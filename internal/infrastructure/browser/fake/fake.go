// Package fake provides a scriptable in-memory BrowserPort for tests.
package fake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"webtest-agent/internal/application/port/output"
	"webtest-agent/internal/domain/entity"
)

var (
	_ output.BrowserPort = (*Browser)(nil)
	_ output.Element     = (*Element)(nil)
)

var ErrTimeout = errors.New("fake: wait timed out")

type Element struct {
	Label    string
	TextVal  string
	Attrs    map[string]string
	TextErr  error
	AttrErr  error
	ClickErr error
	InputErr error
	// OnClick runs before ClickErr is returned.
	OnClick func()

	Inputs  []string
	Cleared int
	Clicks  int
}

func (e *Element) Text() (string, error) {
	return e.TextVal, e.TextErr
}

func (e *Element) Attribute(name string) (string, bool, error) {
	if e.AttrErr != nil {
		return "", false, e.AttrErr
	}
	v, ok := e.Attrs[name]
	return v, ok, nil
}

func (e *Element) Clear() error {
	e.Cleared++
	return nil
}

func (e *Element) Input(text string) error {
	if e.InputErr != nil {
		return e.InputErr
	}
	e.Inputs = append(e.Inputs, text)
	return nil
}

func (e *Element) Click() error {
	e.Clicks++
	if e.OnClick != nil {
		e.OnClick()
	}
	return e.ClickErr
}

// Browser answers queries from maps keyed by selector. Every call is recorded.
type Browser struct {
	// Selectors maps a CSS selector to the elements it matches.
	Selectors map[string][]*Element
	// TextMatches maps "selector|pattern" to a matching element.
	TextMatches map[string]*Element
	// ElementsFunc overrides Selectors for Elements when set.
	ElementsFunc func(selector string) ([]*Element, error)

	URL       string
	PageTitle string
	TitleErr  error

	NavigateErr   error
	ScreenshotErr error
	// PanicOnScreenshot makes Screenshot panic, as Must* browser calls do.
	PanicOnScreenshot bool

	Navigations []string
	Waits       []string
	Settles     int
	Screenshots int
	CloseCount  int
}

func New() *Browser {
	return &Browser{
		Selectors:   make(map[string][]*Element),
		TextMatches: make(map[string]*Element),
	}
}

func TextKey(selector, pattern string) string {
	return selector + "|" + pattern
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	b.Navigations = append(b.Navigations, url)
	if b.NavigateErr != nil {
		return b.NavigateErr
	}
	b.URL = url
	return nil
}

func (b *Browser) WaitStable(ctx context.Context, timeout time.Duration) error {
	b.Settles++
	return ctx.Err()
}

func (b *Browser) WaitElement(ctx context.Context, selector string, timeout time.Duration) (output.Element, error) {
	b.Waits = append(b.Waits, selector)
	if els := b.Selectors[selector]; len(els) > 0 {
		return els[0], nil
	}
	return nil, fmt.Errorf("%s: %w", selector, ErrTimeout)
}

func (b *Browser) WaitElementText(ctx context.Context, selector, pattern string, timeout time.Duration) (output.Element, error) {
	key := TextKey(selector, pattern)
	b.Waits = append(b.Waits, key)
	if el, ok := b.TextMatches[key]; ok {
		return el, nil
	}
	return nil, fmt.Errorf("%s: %w", key, ErrTimeout)
}

func (b *Browser) Elements(ctx context.Context, selector string) ([]output.Element, error) {
	els := b.Selectors[selector]
	if b.ElementsFunc != nil {
		var err error
		if els, err = b.ElementsFunc(selector); err != nil {
			return nil, err
		}
	}

	out := make([]output.Element, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out, nil
}

func (b *Browser) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	b.Screenshots++
	if b.PanicOnScreenshot {
		panic("fake: screenshot target closed")
	}
	if b.ScreenshotErr != nil {
		return nil, b.ScreenshotErr
	}
	return &entity.Screenshot{Data: []byte(fmt.Sprintf("shot-%d", b.Screenshots)), Format: "png", Width: 1, Height: 1}, nil
}

func (b *Browser) CurrentURL() (string, error) {
	return b.URL, nil
}

func (b *Browser) Title() (string, error) {
	return b.PageTitle, b.TitleErr
}

func (b *Browser) Close() {
	b.CloseCount++
}
