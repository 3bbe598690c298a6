package prompts

import (
	_ "embed"
)

//go:embed login_page.txt
var LoginPagePrompt string

//go:embed login_form.txt
var LoginFormPrompt string

//go:embed login_result.txt
var LoginResultPrompt string

//go:embed navigation.txt
var NavigationPrompt string

//go:embed report.txt
var ReportPrompt string

// Set groups the prompts used by one scenario run.
type Set struct {
	LoginPage   string
	LoginForm   string
	LoginResult string
	Navigation  string
	Report      string
}

func Default() Set {
	return Set{
		LoginPage:   LoginPagePrompt,
		LoginForm:   LoginFormPrompt,
		LoginResult: LoginResultPrompt,
		Navigation:  NavigationPrompt,
		Report:      ReportPrompt,
	}
}
