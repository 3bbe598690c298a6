package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"webtest-agent/internal/domain/entity"
)

func TestClassifyLoginText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want entity.StepStatus
	}{
		{"dashboard", "The user is on the Dashboard page.", entity.StatusSuccess},
		{"success", "Login was a SUCCESS", entity.StatusSuccess},
		{"invalid credentials", "Invalid credentials message shown", entity.StatusUncertain},
		{"empty", "", entity.StatusUncertain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyLoginText(tt.text))
		})
	}
}

func TestClassifyLogin_FailedAnalysisIsUncertain(t *testing.T) {
	// The error body mentions "success" but the request itself failed.
	a := entity.AnalysisFailed(502, "no success upstream")
	assert.Equal(t, entity.StatusUncertain, ClassifyLogin(a))
	assert.Equal(t, entity.StatusSuccess, ClassifyLogin(entity.AnalysisOK("dashboard")))
}
