package recorder

import (
	"testing"
	"time"

	"webtest-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_KeepsArrivalOrder(t *testing.T) {
	rec := New()
	rec.Append(entity.StepResult{Name: "login", Status: entity.StatusSuccess})
	rec.Append(entity.StepResult{Name: "navigation_discovery", Status: entity.StatusSuccess})
	rec.Append(entity.StepResult{Name: "report_A", Status: entity.StatusError})

	results := rec.Results()
	require.Len(t, results, 3)
	assert.Equal(t, "login", results[0].Name)
	assert.Equal(t, "navigation_discovery", results[1].Name)
	assert.Equal(t, "report_A", results[2].Name)
	assert.Equal(t, 3, rec.Len())
}

func TestRecorder_RecordedStepsCannotBeMutated(t *testing.T) {
	rec := New()
	extra := map[string]any{"url": "https://example.test/a"}
	step := entity.StepResult{Name: "report_A", Status: entity.StatusSuccess, Extra: extra}.WithDuration(time.Second)
	rec.Append(step)

	extra["url"] = "mutated by caller"
	*step.Duration = time.Hour

	results := rec.Results()
	results[0].Extra["url"] = "mutated by reader"
	results[0].Status = entity.StatusError

	again := rec.Results()
	assert.Equal(t, "https://example.test/a", again[0].Extra["url"])
	assert.Equal(t, entity.StatusSuccess, again[0].Status)
	assert.Equal(t, time.Second, *again[0].Duration)
}

func TestRecorder_Count(t *testing.T) {
	rec := New()
	for _, s := range []entity.StepStatus{
		entity.StatusSuccess, entity.StatusWarning, entity.StatusError,
		entity.StatusSuccess, entity.StatusUncertain,
	} {
		rec.Append(entity.StepResult{Name: "s", Status: s})
	}

	assert.Equal(t, 2, rec.Count(entity.StatusSuccess))
	assert.Equal(t, 1, rec.Count(entity.StatusError))
	assert.Equal(t, 1, rec.Count(entity.StatusWarning))
	assert.Equal(t, 1, rec.Count(entity.StatusUncertain))
}

func TestRecorder_Empty(t *testing.T) {
	rec := New()

	assert.Empty(t, rec.Results())
	assert.Equal(t, 0, rec.Len())
}
