package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_AllPromptsEmbedded(t *testing.T) {
	set := Default()

	for name, p := range map[string]string{
		"login page":   set.LoginPage,
		"login form":   set.LoginForm,
		"login result": set.LoginResult,
		"navigation":   set.Navigation,
		"report":       set.Report,
	} {
		assert.NotEmpty(t, strings.TrimSpace(p), name)
	}

	assert.Contains(t, set.LoginResult, "Dashboard")
	assert.Contains(t, set.Report, "report page")
}
