package rod

import (
	"fmt"

	"webtest-agent/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.Element = (*element)(nil)

type element struct {
	el *rod.Element
}

func (e *element) Text() (string, error) {
	return e.el.Text()
}

func (e *element) Attribute(name string) (string, bool, error) {
	prop, err := e.el.Property(name)
	if err == nil && !prop.Nil() {
		if s := prop.Str(); s != "" {
			return s, true, nil
		}
	}

	attr, err := e.el.Attribute(name)
	if err != nil {
		return "", false, fmt.Errorf("read attribute %s: %w", name, err)
	}
	if attr == nil {
		return "", false, nil
	}
	return *attr, true, nil
}

func (e *element) Clear() error {
	if err := e.el.SelectAllText(); err != nil {
		return fmt.Errorf("select text: %w", err)
	}
	if err := e.el.Input(""); err != nil {
		return fmt.Errorf("clear input: %w", err)
	}
	return nil
}

func (e *element) Input(text string) error {
	if err := e.el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (e *element) Click() error {
	if err := e.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}
