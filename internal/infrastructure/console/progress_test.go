package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"webtest-agent/internal/domain/entity"
)

func newTestProgress(t *testing.T) (*Progress, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	return NewProgress(&buf), &buf
}

func TestProgress_StepAndWarn(t *testing.T) {
	p, buf := newTestProgress(t)

	p.Step("Testing navigation element %d/%d: %s", 1, 3, "Sales")
	p.Warn("Login may have failed")

	assert.Equal(t, "\nTesting navigation element 1/3: Sales\nWarning: Login may have failed\n", buf.String())
}

func TestProgress_AnalysisIsTruncated(t *testing.T) {
	p, buf := newTestProgress(t)

	p.Analysis("Report analysis", strings.Repeat("a", 600))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Report analysis: "))
	assert.True(t, strings.HasSuffix(out, "...\n"))
	assert.Len(t, out, len("Report analysis: ")+maxAnalysisLen+len("...\n"))
}

func TestProgress_Result(t *testing.T) {
	p, buf := newTestProgress(t)

	p.Result(entity.StepResult{Name: "login", Status: entity.StatusSuccess}.WithDuration(2 * time.Second))
	p.Result(entity.StepResult{Name: "report_Sales", Status: entity.StatusError})
	p.Result(entity.StepResult{Name: "report_Empty", Status: entity.StatusWarning})

	assert.Equal(t, "✓ login [SUCCESS] 2.00s\n✗ report_Sales [ERROR]\n! report_Empty [WARNING]\n", buf.String())
}

func TestProgress_Missing(t *testing.T) {
	p, buf := newTestProgress(t)

	p.Missing([]string{"browser error: not found", "Ollama server is not running"})

	out := buf.String()
	assert.Contains(t, out, "- browser error: not found\n- Ollama server is not running\n")
	assert.Contains(t, out, "Please fix these issues and try again.")
}

func TestProgress_Summary(t *testing.T) {
	p, buf := newTestProgress(t)

	p.Summary(entity.RunSummary{Total: 3, Passed: 2, Failed: 1, Duration: 1500 * time.Millisecond}, "/tmp/r.html", true)

	out := buf.String()
	assert.Contains(t, out, "Total: 3  Passed: 2  Failed: 1  Duration: 1.50s")
	assert.Contains(t, out, "Test report generated: /tmp/r.html")
}
