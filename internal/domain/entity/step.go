package entity

import "time"

type StepStatus string

const (
	StatusSuccess   StepStatus = "success"
	StatusWarning   StepStatus = "warning"
	StatusUncertain StepStatus = "uncertain"
	StatusError     StepStatus = "error"
)

func (s StepStatus) String() string {
	return string(s)
}

// Step names recorded by the scenario. Report steps use ReportStepName.
const (
	StepLogin               = "login"
	StepNavigationDiscovery = "navigation_discovery"
	StepTestExecution       = "test_execution"
)

// Keys used in StepResult.Extra.
const (
	ExtraNavElements       = "nav_elements"
	ExtraURL               = "url"
	ExtraDataElementsFound = "data_elements_found"
)

// StepResult is one immutable record of a scenario step.
type StepResult struct {
	Name     string
	Status   StepStatus
	Details  string
	Duration *time.Duration
	Extra    map[string]any
}

func ReportStepName(linkText string) string {
	return "report_" + linkText
}

// WithDuration returns a copy of r carrying d.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.Duration = &d
	return r
}

// Clone copies the Extra map so the returned value shares nothing mutable with r.
func (r StepResult) Clone() StepResult {
	if r.Duration != nil {
		d := *r.Duration
		r.Duration = &d
	}
	if r.Extra != nil {
		extra := make(map[string]any, len(r.Extra))
		for k, v := range r.Extra {
			extra[k] = v
		}
		r.Extra = extra
	}
	return r
}
