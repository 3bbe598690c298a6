package scenario

import (
	"strings"

	"webtest-agent/internal/domain/entity"
)

var loginSuccessMarkers = []string{"dashboard", "success"}

// ClassifyLoginText marks a login successful when the post-login analysis
// mentions either marker, in any case; anything else is uncertain.
func ClassifyLoginText(text string) entity.StepStatus {
	lower := strings.ToLower(text)
	for _, marker := range loginSuccessMarkers {
		if strings.Contains(lower, marker) {
			return entity.StatusSuccess
		}
	}
	return entity.StatusUncertain
}

// ClassifyLogin is ClassifyLoginText for a full analysis. A failed vision
// request says nothing about the page and is uncertain.
func ClassifyLogin(a entity.Analysis) entity.StepStatus {
	text, ok := a.Text()
	if !ok {
		return entity.StatusUncertain
	}
	return ClassifyLoginText(text)
}
