package di

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webtest-agent/internal/config"
	"webtest-agent/internal/domain/entity"
	"webtest-agent/internal/infrastructure/browser/fake"
	"webtest-agent/internal/infrastructure/report"
	"webtest-agent/internal/usecase/locator"
	"webtest-agent/internal/usecase/preflight"
)

func testConfig(t *testing.T, ollamaURL string) config.Config {
	t.Helper()
	dir := t.TempDir()

	tmpl := filepath.Join(dir, report.TemplateName)
	require.NoError(t, os.WriteFile(tmpl, []byte("<p>{{SITE_TITLE}} {{TOTAL_TESTS}}</p><table>{{TEST_RESULTS}}</table>"), 0o644))

	return config.Config{
		URL:                "https://example.test",
		Username:           "alice",
		Password:           "p@ss",
		Model:              config.DefaultModel,
		OllamaURL:          ollamaURL,
		VisionMode:         config.VisionModeOllama,
		LocatorWait:        time.Millisecond,
		SettleTimeout:      time.Millisecond,
		ReportDir:          filepath.Join(dir, "reports"),
		TemplatePath:       tmpl,
		LogDir:             filepath.Join(dir, "log"),
		ScreenshotMaxWidth: 1024,
	}
}

func TestNewVision_ByMode(t *testing.T) {
	cfg := config.Config{Model: "llava:latest", OllamaURL: "http://localhost:11434", VisionMode: config.VisionModeOllama}
	assert.Equal(t, "ollama", NewVision(cfg, nil).Mode())

	cfg.VisionMode = config.VisionModeOpenAI
	v := NewVision(cfg, nil)
	assert.Equal(t, "openai", v.Mode())
	assert.Equal(t, "llava:latest", v.Model())
}

func TestContainer_PreflightReportsMissingDependencies(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	var out bytes.Buffer

	c, err := NewContainer(cfg, Options{
		Console:      &out,
		BrowserProbe: func(context.Context) error { return errors.New("no chrome") },
	})
	require.NoError(t, err)
	defer c.Close()

	missing := c.Preflight(context.Background())
	assert.Equal(t, []string{"browser error: no chrome", preflight.OllamaHint}, missing)
}

func TestContainer_RunWithFakeBrowser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/generate":
			_, _ = w.Write([]byte(`{"response":"Welcome to the dashboard"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	var out bytes.Buffer
	c, err := NewContainer(cfg, Options{
		Console:      &out,
		BrowserProbe: func(context.Context) error { return nil },
	})
	require.NoError(t, err)
	defer c.Close()

	require.Empty(t, c.Preflight(context.Background()))

	browser := fake.New()
	browser.PageTitle = "Example"
	browser.Selectors[locator.UsernameField().Strategies[0].Selector] = []*fake.Element{{}}
	browser.Selectors[locator.PasswordField().Strategies[0].Selector] = []*fake.Element{{}}
	browser.Selectors[locator.LoginButton().Strategies[0].Selector] = []*fake.Element{{}}

	outcome := c.ScenarioWith(browser).Run(context.Background())

	require.NoError(t, outcome.Err)
	require.True(t, outcome.Reported)
	assert.Equal(t, 1, browser.CloseCount)
	assert.Equal(t, c.RunID, outcome.Summary.RunID)
	assert.Equal(t, entity.StatusSuccess, outcome.Summary.Steps[0].Status)

	data, err := os.ReadFile(outcome.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<p>Example 2</p>")
}

func TestContainer_BadLocatorRules(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.LocatorsPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewContainer(cfg, Options{Console: &bytes.Buffer{}})
	assert.ErrorContains(t, err, "read locator rules")
}
