package recorder

import "webtest-agent/internal/domain/entity"

// Recorder is an append-only log of step results kept in arrival order.
// Results are copied on the way in and on the way out, so a recorded step
// cannot be changed afterwards.
type Recorder struct {
	steps []entity.StepResult
}

func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Append(step entity.StepResult) {
	r.steps = append(r.steps, step.Clone())
}

func (r *Recorder) Len() int {
	return len(r.steps)
}

// Results returns a copy of the recorded steps.
func (r *Recorder) Results() []entity.StepResult {
	out := make([]entity.StepResult, len(r.steps))
	for i, s := range r.steps {
		out[i] = s.Clone()
	}
	return out
}

func (r *Recorder) Count(status entity.StepStatus) int {
	return entity.CountStatus(r.steps, status)
}
