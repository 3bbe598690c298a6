// Package console prints run progress for the person watching the terminal.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"webtest-agent/internal/application/port/output"
	"webtest-agent/internal/domain/entity"
)

var _ output.ProgressPort = (*Progress)(nil)

const maxAnalysisLen = 500

type Progress struct {
	out io.Writer

	step    *color.Color
	label   *color.Color
	dim     *color.Color
	warn    *color.Color
	success *color.Color
	failure *color.Color
	neutral *color.Color
}

// NewProgress writes to out, or to color.Output when out is nil.
func NewProgress(out io.Writer) *Progress {
	if out == nil {
		out = color.Output
	}
	return &Progress{
		out:     out,
		step:    color.New(color.FgCyan, color.Bold),
		label:   color.New(color.FgBlue),
		dim:     color.New(color.Faint),
		warn:    color.New(color.FgYellow),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		neutral: color.New(color.FgYellow, color.Bold),
	}
}

func (p *Progress) Step(format string, args ...any) {
	p.step.Fprintf(p.out, "\n%s\n", fmt.Sprintf(format, args...))
}

func (p *Progress) Analysis(label, text string) {
	p.label.Fprintf(p.out, "%s: ", label)
	p.dim.Fprintln(p.out, truncate(strings.TrimSpace(text), maxAnalysisLen))
}

func (p *Progress) Result(r entity.StepResult) {
	c := p.neutral
	mark := "?"
	switch r.Status {
	case entity.StatusSuccess:
		c, mark = p.success, "✓"
	case entity.StatusError:
		c, mark = p.failure, "✗"
	case entity.StatusWarning:
		mark = "!"
	}

	c.Fprintf(p.out, "%s %s [%s]", mark, r.Name, strings.ToUpper(r.Status.String()))
	if r.Duration != nil {
		p.dim.Fprintf(p.out, " %.2fs", r.Duration.Seconds())
	}
	fmt.Fprintln(p.out)
}

func (p *Progress) Warn(format string, args ...any) {
	p.warn.Fprintf(p.out, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// Missing prints the pre-flight failures in the order they were found.
func (p *Progress) Missing(deps []string) {
	p.failure.Fprintln(p.out, "\nError: Missing or incorrect dependencies:")
	for _, d := range deps {
		fmt.Fprintf(p.out, "- %s\n", d)
	}
	fmt.Fprintln(p.out, "\nPlease fix these issues and try again.")
}

// Summary prints the closing lines of a run.
func (p *Progress) Summary(s entity.RunSummary, reportPath string, reported bool) {
	p.step.Fprintln(p.out, "\nTest complete!")
	fmt.Fprintf(p.out, "Total: %d  Passed: %d  Failed: %d  Duration: %.2fs\n",
		s.Total, s.Passed, s.Failed, s.Duration.Seconds())
	if reported {
		p.success.Fprintf(p.out, "Test report generated: %s\n", reportPath)
		return
	}
	p.warn.Fprintln(p.out, "No report was generated")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
