package input

import (
	"context"

	"webtest-agent/internal/domain/entity"
)

type ScenarioState string

const (
	StateStart          ScenarioState = "start"
	StatePageLoaded     ScenarioState = "page_loaded"
	StateLoggedIn       ScenarioState = "logged_in"
	StateLoginUncertain ScenarioState = "login_uncertain"
	StateLoginError     ScenarioState = "login_error"
	StateNavDiscovered  ScenarioState = "nav_discovered"
	StateReportsVisited ScenarioState = "reports_visited"
	StateFinished       ScenarioState = "finished"
)

type RunOutcome struct {
	Summary    entity.RunSummary
	ReportPath string
	Reported   bool
	// Reached is the last scenario state entered before cleanup; State is
	// StateFinished once cleanup has run.
	Reached ScenarioState
	State   ScenarioState
	Err     error
}

type ScenarioRunner interface {
	Run(ctx context.Context) *RunOutcome
}
