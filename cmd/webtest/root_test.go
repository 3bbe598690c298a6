package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webtest-agent/internal/di"
	"webtest-agent/internal/usecase/preflight"
)

func execute(t *testing.T, opts rootOptions, args ...string) (string, error) {
	t.Helper()
	t.Setenv("WEBTEST_LOG_DIR", t.TempDir())
	t.Setenv("WEBTEST_REPORT_DIR", t.TempDir())

	cmd := newRootCmd(opts)
	cmd.SetArgs(args)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRoot_InvalidConfiguration(t *testing.T) {
	_, err := execute(t, rootOptions{}, "--username", "alice")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "url is required")
	assert.Contains(t, err.Error(), "password is required")
}

func TestRoot_MissingDependencies(t *testing.T) {
	t.Setenv("WEBTEST_OLLAMA_URL", "http://127.0.0.1:1")
	opts := rootOptions{container: di.Options{
		BrowserProbe: func(context.Context) error { return errors.New("chrome not found") },
	}}

	out, err := execute(t, opts,
		"--url", "https://example.test",
		"--username", "alice",
		"--password", "p@ss",
		"--headless",
	)

	require.ErrorIs(t, err, errMissingDependencies)
	assert.Contains(t, out, "Verifying dependencies...")
	assert.Contains(t, out, "- browser error: chrome not found")
	assert.Contains(t, out, "- "+preflight.OllamaHint)
	assert.NotContains(t, out, "Starting test for URL")
}

func TestServe_RejectsArgs(t *testing.T) {
	_, err := execute(t, rootOptions{}, "serve", "extra")
	assert.Error(t, err)
}
