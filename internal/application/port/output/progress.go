package output

import "webtest-agent/internal/domain/entity"

// ProgressPort receives user-facing progress messages.
type ProgressPort interface {
	Step(format string, args ...any)
	Analysis(label, text string)
	Result(r entity.StepResult)
	Warn(format string, args ...any)
}
