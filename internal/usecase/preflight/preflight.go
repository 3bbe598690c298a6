// Package preflight verifies that the browser and the inference server are
// reachable before a run starts.
package preflight

import (
	"context"
	"fmt"

	"webtest-agent/internal/application/port/output"
)

const (
	BrowserCheck = "browser"
	OllamaCheck  = "ollama"

	OllamaHint = "Ollama server is not running. Please start it with 'ollama serve'"
)

// Check is one dependency probe. When Hint is set it replaces the probe
// error in the report.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
	Hint  string
}

// Pinger is satisfied by inference clients that can answer a liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Browser(probe func(ctx context.Context) error) Check {
	return Check{Name: BrowserCheck, Probe: probe}
}

func Ollama(p Pinger) Check {
	return Check{Name: OllamaCheck, Probe: p.Ping, Hint: OllamaHint}
}

// Run executes every check and returns one message per missing dependency,
// in check order. An empty result means the run may start.
func Run(ctx context.Context, logger output.LoggerPort, checks ...Check) []string {
	var missing []string
	for _, c := range checks {
		err := probe(ctx, c)
		if err == nil {
			logger.Debug("Dependency available", "check", c.Name)
			continue
		}

		logger.Warn("Dependency unavailable", "check", c.Name, "error", err)
		if c.Hint != "" {
			missing = append(missing, c.Hint)
			continue
		}
		missing = append(missing, fmt.Sprintf("%s error: %v", c.Name, err))
	}
	return missing
}

func probe(ctx context.Context, c Check) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	if c.Probe == nil {
		return fmt.Errorf("no probe configured")
	}
	return c.Probe(ctx)
}
