package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_CountsAreFoldOverStatuses(t *testing.T) {
	steps := []StepResult{
		{Name: "login", Status: StatusSuccess},
		{Name: "navigation_discovery", Status: StatusSuccess},
		{Name: "report_Sales", Status: StatusWarning},
		{Name: "report_Costs", Status: StatusError},
		{Name: "report_Users", Status: StatusUncertain},
		{Name: "test_execution", Status: StatusError},
	}

	summary := Summarize(RunMeta{TargetURL: "https://example.test"}, steps)

	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, "https://example.test", summary.TargetURL)
}

func TestSummarize_PreservesOrder(t *testing.T) {
	steps := []StepResult{
		{Name: "c", Status: StatusError},
		{Name: "a", Status: StatusSuccess},
		{Name: "b", Status: StatusWarning},
	}

	summary := Summarize(RunMeta{}, steps)

	require.Len(t, summary.Steps, 3)
	assert.Equal(t, "c", summary.Steps[0].Name)
	assert.Equal(t, "a", summary.Steps[1].Name)
	assert.Equal(t, "b", summary.Steps[2].Name)
}

func TestSummarize_DoesNotShareExtra(t *testing.T) {
	steps := []StepResult{
		{Name: "x", Status: StatusSuccess, Extra: map[string]any{"url": "a"}},
	}

	summary := Summarize(RunMeta{}, steps)
	summary.Steps[0].Extra["url"] = "changed"

	assert.Equal(t, "a", steps[0].Extra["url"])
}

func TestTotalDuration(t *testing.T) {
	steps := []StepResult{
		StepResult{Name: "a"}.WithDuration(2 * time.Second),
		{Name: "b"},
		StepResult{Name: "c"}.WithDuration(500 * time.Millisecond),
	}

	assert.Equal(t, 2500*time.Millisecond, TotalDuration(steps))
	assert.Equal(t, time.Duration(0), TotalDuration(nil))
}

func TestReportStepName(t *testing.T) {
	assert.Equal(t, "report_Monthly Sales", ReportStepName("Monthly Sales"))
}
