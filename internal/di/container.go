package di

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"webtest-agent/internal/application/port/input"
	"webtest-agent/internal/application/port/output"
	"webtest-agent/internal/config"
	"webtest-agent/internal/infrastructure/browser/rod"
	"webtest-agent/internal/infrastructure/console"
	"webtest-agent/internal/infrastructure/logger"
	"webtest-agent/internal/infrastructure/prompts"
	"webtest-agent/internal/infrastructure/report"
	"webtest-agent/internal/infrastructure/vision/ollama"
	"webtest-agent/internal/infrastructure/vision/openaicompat"
	"webtest-agent/internal/usecase/locator"
	"webtest-agent/internal/usecase/preflight"
	"webtest-agent/internal/usecase/scenario"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Container holds the long-lived pieces of one run. The browser is not
// started until Scenario is called, after the pre-flight checks.
type Container struct {
	RunID    string
	Config   config.Config
	Logger   *logger.LoggerAdapter
	Progress *console.Progress
	Vision   output.VisionPort
	Report   output.ReportPort
	Locators locator.Set
	Checks   []preflight.Check

	browser output.BrowserPort
}

// Options lets callers replace the pieces that touch the outside world.
type Options struct {
	// Console receives progress output and mirrored warnings. Nil means stdout/stderr.
	Console io.Writer
	// BrowserProbe replaces the real launch check.
	BrowserProbe func(ctx context.Context) error
}

func NewContainer(cfg config.Config, opts Options) (*Container, error) {
	runID := uuid.NewString()

	logCfg := logger.Config{Dir: cfg.LogDir, Name: logName(cfg.URL), Console: opts.Console}
	if logCfg.Console == nil {
		logCfg.Console = color.Error
	}
	log, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rules, err := locator.LoadRules(cfg.LocatorsPath)
	if err != nil {
		log.Close()
		return nil, err
	}

	probe := opts.BrowserProbe
	if probe == nil {
		probe = rod.Probe
	}

	pinger := ollama.NewClient(ollama.Config{BaseURL: cfg.OllamaURL, Model: cfg.Model, Timeout: cfg.VisionTimeout, Logger: log})

	c := &Container{
		RunID:    runID,
		Config:   cfg,
		Logger:   log,
		Progress: console.NewProgress(opts.Console),
		Vision:   NewVision(cfg, log),
		Report: report.NewWriter(report.Config{
			Dir:          cfg.ReportDir,
			TemplatePath: report.ResolveTemplate(cfg.TemplatePath),
		}, log),
		Locators: locator.DefaultSet(cfg.LocatorWait).Apply(rules, cfg.LocatorWait),
		Checks: []preflight.Check{
			preflight.Browser(probe),
			preflight.Ollama(pinger),
		},
	}

	log.Info("Container ready",
		"run_id", runID,
		"url", cfg.URL,
		"model", cfg.Model,
		"vision_mode", c.Vision.Mode(),
		"log_file", log.Path(),
	)
	return c, nil
}

// NewVision picks the inference client for the configured mode.
func NewVision(cfg config.Config, log output.LoggerPort) output.VisionPort {
	if cfg.VisionMode == config.VisionModeOpenAI {
		oc := openaicompat.DefaultConfig(cfg.OllamaURL, cfg.Model)
		oc.Timeout = cfg.VisionTimeout
		oc.Logger = log
		return openaicompat.NewClient(oc)
	}

	oc := ollama.DefaultConfig(cfg.Model)
	oc.BaseURL = cfg.OllamaURL
	oc.Timeout = cfg.VisionTimeout
	oc.Logger = log
	return ollama.NewClient(oc)
}

func (c *Container) Preflight(ctx context.Context) []string {
	return preflight.Run(ctx, c.Logger, c.Checks...)
}

// Scenario launches the browser and returns a runner that owns it.
func (c *Container) Scenario(ctx context.Context) (input.ScenarioRunner, error) {
	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = c.Config.Headless
	browserCfg.ScreenshotMaxWidth = c.Config.ScreenshotMaxWidth
	browserCfg.SettleQuiet = c.Config.SettleQuiet

	browser, err := rod.NewBrowserAdapter(ctx, browserCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	c.browser = browser

	return c.ScenarioWith(browser), nil
}

// ScenarioWith builds the runner around an existing browser.
func (c *Container) ScenarioWith(browser output.BrowserPort) *scenario.Runner {
	return scenario.New(scenario.Config{
		RunID:         c.RunID,
		URL:           c.Config.URL,
		Username:      c.Config.Username,
		Password:      c.Config.Password,
		SettleTimeout: c.Config.SettleTimeout,
		InputDelay:    c.Config.InputDelay,
		Prompts:       prompts.Default(),
		Locators:      c.Locators,
	}, browser, c.Vision, c.Report, c.Progress, c.Logger)
}

func (c *Container) Close() {
	if c.browser != nil {
		c.browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func logName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "webtest"
	}
	return "webtest_" + u.Host
}
