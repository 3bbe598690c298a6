package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_NoFiles(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoad_AppEnvOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("APP_ENV", "ci")
	t.Setenv("WEBTEST_ENV_PROBE", "")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WEBTEST_ENV_PROBE=base\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.ci"), []byte("WEBTEST_ENV_PROBE=ci\n"), 0644))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{".env", ".env.ci"}, loaded)
	assert.Equal(t, "ci", os.Getenv("WEBTEST_ENV_PROBE"))
}
