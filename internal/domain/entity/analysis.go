package entity

import "fmt"

// Analysis is the outcome of one vision request: either Ok with the model's
// text, or Failed with the endpoint's status code and body.
type Analysis struct {
	text    string
	failure *AnalysisFailure
}

type AnalysisFailure struct {
	StatusCode int
	Body       string
}

func AnalysisOK(text string) Analysis {
	return Analysis{text: text}
}

func AnalysisFailed(statusCode int, body string) Analysis {
	return Analysis{failure: &AnalysisFailure{StatusCode: statusCode, Body: body}}
}

func (a Analysis) OK() bool {
	return a.failure == nil
}

// Text returns the model output and whether the request succeeded.
func (a Analysis) Text() (string, bool) {
	return a.text, a.failure == nil
}

func (a Analysis) Failure() (AnalysisFailure, bool) {
	if a.failure == nil {
		return AnalysisFailure{}, false
	}
	return *a.failure, true
}

// String renders the analysis for logs and report details.
func (a Analysis) String() string {
	if a.failure != nil {
		return fmt.Sprintf("Error: %d - %s", a.failure.StatusCode, a.failure.Body)
	}
	return a.text
}
