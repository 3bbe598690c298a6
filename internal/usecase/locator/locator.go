package locator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"webtest-agent/internal/application/port/output"
)

var ErrNotFound = errors.New("element not found")

// ErrTextCollect is returned by Collect for a chain holding a text pattern.
// Collection is one CSS query, which cannot honour text filters.
var ErrTextCollect = errors.New("text patterns are not supported when collecting")

const DefaultWait = 10 * time.Second

// Strategy is one selection rule: a CSS selector, optionally narrowed to
// elements whose text matches TextPattern, and how long to wait for it.
type Strategy struct {
	Name        string
	Selector    string
	TextPattern string
	Wait        time.Duration
}

func (s Strategy) find(ctx context.Context, finder output.ElementFinder) (output.Element, error) {
	if s.TextPattern != "" {
		return finder.WaitElementText(ctx, s.Selector, s.TextPattern, s.Wait)
	}
	return finder.WaitElement(ctx, s.Selector, s.Wait)
}

// Chain is an ordered list of strategies tried in priority order.
type Chain struct {
	Name       string
	Strategies []Strategy
}

func NewChain(name string, strategies ...Strategy) Chain {
	return Chain{Name: name, Strategies: strategies}
}

// Then returns a copy of c with more strategies appended.
func (c Chain) Then(strategies ...Strategy) Chain {
	out := make([]Strategy, 0, len(c.Strategies)+len(strategies))
	out = append(out, c.Strategies...)
	out = append(out, strategies...)
	return Chain{Name: c.Name, Strategies: out}
}

// WithWait returns a copy of c whose strategies all wait d.
func (c Chain) WithWait(d time.Duration) Chain {
	out := make([]Strategy, len(c.Strategies))
	for i, s := range c.Strategies {
		s.Wait = d
		out[i] = s
	}
	return Chain{Name: c.Name, Strategies: out}
}

// Selector joins the CSS selectors of the chain into one selector list.
// Text patterns are not part of it.
func (c Chain) Selector() string {
	parts := make([]string, 0, len(c.Strategies))
	for _, s := range c.Strategies {
		parts = append(parts, s.Selector)
	}
	return strings.Join(parts, ", ")
}

// Locate returns the element matched by the first strategy whose wait
// succeeds. Strategies after the winning one are never tried.
func Locate(ctx context.Context, finder output.ElementFinder, chain Chain, log output.LoggerPort) (output.Element, error) {
	for i, s := range chain.Strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		el, err := s.find(ctx, finder)
		if err == nil {
			if log != nil {
				log.Debug("Element located", "chain", chain.Name, "strategy", s.Name, "position", i+1)
			}
			return el, nil
		}

		if log != nil {
			log.Debug("Strategy missed", "chain", chain.Name, "strategy", s.Name, "error", err)
		}
	}

	return nil, fmt.Errorf("%w: %s (%d strategies tried)", ErrNotFound, chain.Name, len(chain.Strategies))
}

// Collect returns every element currently matching any strategy of the
// chain, in document order and without duplicates. It does not wait.
func Collect(ctx context.Context, finder output.ElementFinder, chain Chain) ([]output.Element, error) {
	if len(chain.Strategies) == 0 {
		return nil, nil
	}
	for _, s := range chain.Strategies {
		if s.TextPattern != "" {
			return nil, fmt.Errorf("collect %s: strategy %q: %w", chain.Name, s.Name, ErrTextCollect)
		}
	}

	els, err := finder.Elements(ctx, chain.Selector())
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", chain.Name, err)
	}
	return els, nil
}
