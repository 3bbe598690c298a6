package scenario

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"webtest-agent/internal/application/port/input"
	"webtest-agent/internal/application/port/output"
	"webtest-agent/internal/domain/entity"
	"webtest-agent/internal/infrastructure/prompts"
	"webtest-agent/internal/usecase/locator"
	"webtest-agent/internal/usecase/recorder"

	"github.com/google/uuid"
)

var _ input.ScenarioRunner = (*Runner)(nil)

const (
	titleUnknown = "Unknown"
	titleError   = "Error retrieving title"
)

type Config struct {
	RunID    string
	URL      string
	Username string
	Password string

	// SettleTimeout bounds each wait for the page to stop changing.
	SettleTimeout time.Duration
	// InputDelay is the pause after filling each login field.
	InputDelay time.Duration

	Prompts  prompts.Set
	Locators locator.Set
}

// Runner drives the fixed scenario: open the site, log in, discover the
// navigation, visit every report, then write the report and close the browser.
type Runner struct {
	cfg      Config
	browser  output.BrowserPort
	vision   output.VisionPort
	report   output.ReportPort
	progress output.ProgressPort
	logger   output.LoggerPort

	rec   *recorder.Recorder
	state input.ScenarioState
	now   func() time.Time
}

func New(
	cfg Config,
	browser output.BrowserPort,
	vision output.VisionPort,
	report output.ReportPort,
	progress output.ProgressPort,
	logger output.LoggerPort,
) *Runner {
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if progress == nil {
		progress = nopProgress{}
	}

	return &Runner{
		cfg:      cfg,
		browser:  browser,
		vision:   vision,
		report:   report,
		progress: progress,
		logger:   logger.WithField("run_id", cfg.RunID),
		rec:      recorder.New(),
		state:    input.StateStart,
		now:      time.Now,
	}
}

func (r *Runner) Results() []entity.StepResult {
	return r.rec.Results()
}

// Run executes every step inside one failure boundary. Whatever happens, the
// report is written once and the browser is closed once before Run returns.
func (r *Runner) Run(ctx context.Context) *input.RunOutcome {
	start := r.now()
	outcome := &input.RunOutcome{}

	defer r.finish(start, outcome)

	if err := capture(func() error { return r.runSteps(ctx) }); err != nil {
		r.logger.Error("Test execution failed", "error", err, "state", r.state)
		r.progress.Warn("Test execution failed: %v", err)
		r.rec.Append(entity.StepResult{
			Name:    entity.StepTestExecution,
			Status:  entity.StatusError,
			Details: fmt.Sprintf("Test execution failed: %v", err),
		}.WithDuration(r.now().Sub(start)))
		outcome.Err = err
	}

	return outcome
}

func (r *Runner) runSteps(ctx context.Context) error {
	if err := r.NavigateToSite(ctx); err != nil {
		return err
	}

	r.Login(ctx)

	links := r.FindNavigationElements(ctx)
	r.state = input.StateNavDiscovered

	if err := r.NavigateAndTestReports(ctx, links); err != nil {
		return err
	}
	r.state = input.StateReportsVisited
	return nil
}

func (r *Runner) finish(start time.Time, outcome *input.RunOutcome) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Cleanup panicked", "panic", p)
		}
		r.browser.Close()
		outcome.Reached = r.state
		outcome.State = input.StateFinished
	}()

	duration := r.now().Sub(start)
	summary := entity.Summarize(entity.RunMeta{
		RunID:      r.cfg.RunID,
		TargetURL:  r.cfg.URL,
		SiteTitle:  r.siteTitle(),
		Username:   r.cfg.Username,
		Model:      r.vision.Model(),
		VisionMode: r.vision.Mode(),
		Duration:   duration,
		Timestamp:  r.now(),
	}, r.rec.Results())
	outcome.Summary = summary

	r.logger.Info("Run finished",
		"total", summary.Total,
		"passed", summary.Passed,
		"failed", summary.Failed,
		"duration", duration,
	)

	outcome.ReportPath, outcome.Reported = r.report.Write(summary)
}

// NavigateToSite opens the target and asks the model to describe the login
// page. The answer is only logged.
func (r *Runner) NavigateToSite(ctx context.Context) error {
	r.progress.Step("Navigating to %s", r.cfg.URL)

	if err := r.browser.Navigate(ctx, r.cfg.URL); err != nil {
		return fmt.Errorf("open %s: %w", r.cfg.URL, err)
	}
	if err := r.settle(ctx); err != nil {
		return err
	}

	if _, err := r.look(ctx, r.cfg.Prompts.LoginPage, "Page analysis"); err != nil {
		return err
	}

	r.state = input.StatePageLoaded
	return nil
}

// Login fills and submits the login form and classifies the result from the
// model's description of the page that follows.
func (r *Runner) Login(ctx context.Context) entity.StepStatus {
	r.progress.Step("Attempting login...")
	start := r.now()

	var verification entity.Analysis
	err := capture(func() error {
		var err error
		verification, err = r.login(ctx)
		return err
	})
	duration := r.now().Sub(start)

	if err != nil {
		details := fmt.Sprintf("Login failed: %v", err)
		if errors.Is(err, locator.ErrNotFound) {
			details = fmt.Sprintf("Timeout - login elements not found: %v", err)
		}
		r.logger.Error("Login failed", "error", err, "duration", duration)
		r.record(entity.StepResult{
			Name:    entity.StepLogin,
			Status:  entity.StatusError,
			Details: details,
		}.WithDuration(duration))
		r.state = input.StateLoginError
		return entity.StatusError
	}

	status := ClassifyLogin(verification)
	r.record(entity.StepResult{
		Name:    entity.StepLogin,
		Status:  status,
		Details: verification.String(),
	}.WithDuration(duration))

	if status == entity.StatusSuccess {
		r.progress.Step("Login successful!")
		r.state = input.StateLoggedIn
	} else {
		r.progress.Warn("Login may have failed")
		r.state = input.StateLoginUncertain
	}
	return status
}

func (r *Runner) login(ctx context.Context) (entity.Analysis, error) {
	if _, err := r.look(ctx, r.cfg.Prompts.LoginForm, "Login form analysis"); err != nil {
		return entity.Analysis{}, err
	}

	username, err := locator.Locate(ctx, r.browser, r.cfg.Locators.Username, r.logger)
	if err != nil {
		return entity.Analysis{}, err
	}
	password, err := locator.Locate(ctx, r.browser, r.cfg.Locators.Password, r.logger)
	if err != nil {
		return entity.Analysis{}, err
	}

	if err := fill(username, r.cfg.Username); err != nil {
		return entity.Analysis{}, fmt.Errorf("username: %w", err)
	}
	if err := r.pause(ctx, r.cfg.InputDelay); err != nil {
		return entity.Analysis{}, err
	}
	if err := fill(password, r.cfg.Password); err != nil {
		return entity.Analysis{}, fmt.Errorf("password: %w", err)
	}
	if err := r.pause(ctx, r.cfg.InputDelay); err != nil {
		return entity.Analysis{}, err
	}

	button, err := locator.Locate(ctx, r.browser, r.cfg.Locators.LoginButton, r.logger)
	if err != nil {
		return entity.Analysis{}, err
	}
	if err := button.Click(); err != nil {
		return entity.Analysis{}, fmt.Errorf("login button: %w", err)
	}
	if err := r.settle(ctx); err != nil {
		return entity.Analysis{}, err
	}

	return r.look(ctx, r.cfg.Prompts.LoginResult, "Login verification")
}

func fill(el output.Element, text string) error {
	if err := el.Clear(); err != nil {
		return err
	}
	return el.Input(text)
}

// FindNavigationElements lists the links a user could follow to reach
// reports. Elements without text or href, or that fail to read, are skipped.
func (r *Runner) FindNavigationElements(ctx context.Context) []entity.NavLink {
	var (
		analysis entity.Analysis
		links    []entity.NavLink
	)

	err := capture(func() error {
		var err error
		if analysis, err = r.look(ctx, r.cfg.Prompts.Navigation, "Navigation analysis"); err != nil {
			return err
		}

		els, err := locator.Collect(ctx, r.browser, r.cfg.Locators.NavLinks)
		if err != nil {
			return err
		}
		links = extractLinks(els)
		return nil
	})
	if err != nil {
		r.logger.Error("Navigation discovery failed", "error", err)
		r.progress.Warn("Error finding navigation elements: %v", err)
		r.record(entity.StepResult{
			Name:    entity.StepNavigationDiscovery,
			Status:  entity.StatusError,
			Details: err.Error(),
		})
		return nil
	}

	r.progress.Step("Found %d potential navigation elements", len(links))
	r.record(entity.StepResult{
		Name:    entity.StepNavigationDiscovery,
		Status:  entity.StatusSuccess,
		Details: analysis.String(),
		Extra:   map[string]any{entity.ExtraNavElements: links},
	})
	return links
}

func extractLinks(els []output.Element) []entity.NavLink {
	links := make([]entity.NavLink, 0, len(els))
	for i, el := range els {
		if link, ok := extractLink(i, el); ok {
			links = append(links, link)
		}
	}
	return links
}

func extractLink(index int, el output.Element) (link entity.NavLink, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	text, err := el.Text()
	if err != nil {
		return entity.NavLink{}, false
	}
	href, found, err := el.Attribute("href")
	if err != nil || !found {
		return entity.NavLink{}, false
	}

	text = strings.TrimSpace(text)
	if text == "" || href == "" {
		return entity.NavLink{}, false
	}
	return entity.NavLink{Index: index, Text: text, Href: href}, true
}

// NavigateAndTestReports visits each link in discovery order. A failure on
// one report is recorded for that report only; the browser is always sent
// back to the page the link was clicked from.
func (r *Runner) NavigateAndTestReports(ctx context.Context, links []entity.NavLink) error {
	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.progress.Step("Testing navigation element %d/%d: %s", i+1, len(links), link.Text)
		start := r.now()

		home, err := r.browser.CurrentURL()
		if err == nil {
			var step entity.StepResult
			err = capture(func() error {
				var err error
				step, err = r.testReport(ctx, link, home)
				return err
			})
			if err == nil {
				r.record(step.WithDuration(r.now().Sub(start)))
			}
		}

		if err != nil {
			r.logger.Error("Report failed", "link", link.Text, "href", link.Href, "error", err)
			r.record(entity.StepResult{
				Name:    entity.ReportStepName(link.Text),
				Status:  entity.StatusError,
				Details: err.Error(),
			}.WithDuration(r.now().Sub(start)))
		}

		r.returnTo(ctx, home)
	}
	return nil
}

func (r *Runner) testReport(ctx context.Context, link entity.NavLink, home string) (entity.StepResult, error) {
	els, err := locator.Collect(ctx, r.browser, r.cfg.Locators.NavLinks)
	if err != nil {
		return entity.StepResult{}, err
	}
	target, err := r.resolveLink(els, link)
	if err != nil {
		return entity.StepResult{}, err
	}

	if err := target.Click(); err != nil {
		return entity.StepResult{}, fmt.Errorf("open %s: %w", link.Text, err)
	}
	if err := r.settle(ctx); err != nil {
		return entity.StepResult{}, err
	}

	current, err := r.browser.CurrentURL()
	if err != nil {
		return entity.StepResult{}, err
	}
	if current == home {
		r.progress.Warn("Navigation to %s didn't change URL - might be a dynamic page component", link.Text)
	}

	analysis, err := r.look(ctx, r.cfg.Prompts.Report, "Report analysis for "+link.Text)
	if err != nil {
		return entity.StepResult{}, err
	}

	regions, err := locator.Collect(ctx, r.browser, r.cfg.Locators.DataRegions)
	if err != nil {
		return entity.StepResult{}, err
	}

	status := entity.StatusSuccess
	if len(regions) == 0 {
		status = entity.StatusWarning
	}

	return entity.StepResult{
		Name:    entity.ReportStepName(link.Text),
		Status:  status,
		Details: analysis.String(),
		Extra: map[string]any{
			entity.ExtraURL:               current,
			entity.ExtraDataElementsFound: len(regions),
		},
	}, nil
}

// resolveLink finds the discovered link again in a fresh query by its href
// and text. Position is never trusted: a link that moved is still found and a
// link that is gone is an error.
func (r *Runner) resolveLink(els []output.Element, link entity.NavLink) (output.Element, error) {
	for i, el := range els {
		candidate, ok := extractLink(i, el)
		if ok && candidate.Href == link.Href && candidate.Text == link.Text {
			if i != link.Index {
				r.logger.Debug("Navigation link moved", "link", link.Text, "from", link.Index, "to", i)
			}
			return el, nil
		}
	}

	return nil, fmt.Errorf("navigation element %q (%s) is no longer on the page", link.Text, link.Href)
}

func (r *Runner) returnTo(ctx context.Context, home string) {
	if home == "" {
		return
	}
	if err := r.browser.Navigate(ctx, home); err != nil {
		r.logger.Warn("Could not return to start page", "url", home, "error", err)
		return
	}
	if err := r.settle(ctx); err != nil {
		r.logger.Debug("Settle after return interrupted", "error", err)
	}
}

// look takes a screenshot and asks the vision model about it. The answer is
// logged and shown but never used to pick selectors.
func (r *Runner) look(ctx context.Context, prompt, label string) (entity.Analysis, error) {
	shot, err := r.browser.Screenshot(ctx)
	if err != nil {
		return entity.Analysis{}, err
	}

	analysis, err := r.vision.Analyze(ctx, shot.Data, prompt)
	if err != nil {
		return entity.Analysis{}, fmt.Errorf("vision analysis: %w", err)
	}

	if f, failed := analysis.Failure(); failed {
		r.logger.Warn("Vision request failed", "label", label, "status", f.StatusCode, "body", f.Body)
	} else {
		r.logger.Info("Vision analysis", "label", label, "analysis", analysis.String())
	}
	r.progress.Analysis(label, analysis.String())
	return analysis, nil
}

func (r *Runner) settle(ctx context.Context) error {
	if err := r.browser.WaitStable(ctx, r.cfg.SettleTimeout); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		r.logger.Debug("Page did not settle", "error", err)
	}
	return nil
}

func (r *Runner) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Runner) record(step entity.StepResult) {
	r.rec.Append(step)
	r.progress.Result(step)
	r.logger.Info("Step recorded", "step", step.Name, "status", step.Status)
}

func (r *Runner) siteTitle() (title string) {
	defer func() {
		if recover() != nil {
			title = titleError
		}
	}()

	if r.browser == nil {
		return titleUnknown
	}

	title, err := r.browser.Title()
	if err != nil {
		return titleError
	}
	if title == "" || title == r.cfg.Username {
		if u, err := url.Parse(r.cfg.URL); err == nil && u.Host != "" {
			return u.Host
		}
		return r.cfg.URL
	}
	return title
}

// capture runs fn and turns a panic into an error.
func capture(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}

type nopProgress struct{}

func (nopProgress) Step(string, ...any)      {}
func (nopProgress) Analysis(string, string)  {}
func (nopProgress) Result(entity.StepResult) {}
func (nopProgress) Warn(string, ...any)      {}
