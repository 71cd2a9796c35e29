package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.momai.app", cfg.API.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.API.Timeout())
	assert.Equal(t, "sqlite", cfg.Cache.Store)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  baseUrl: https://staging.momai.app
  timeoutSeconds: 10
cache:
  store: badger
  path: /tmp/momai-cache
logging:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.momai.app", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout())
	assert.Equal(t, "badger", cfg.Cache.Store)
	assert.Equal(t, "/tmp/momai-cache", cfg.Cache.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched fields keep defaults.
	assert.Equal(t, "pretty", cfg.Logging.Style)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  baseUrl: https://file.momai.app\n"), 0o600))
	t.Setenv("MOMAI_API_BASE_URL", "https://env.momai.app")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.momai.app", cfg.API.BaseURL)
}

func TestLoad_ExpandsTokenReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  token: ${MOMAI_TEST_SECRET}\n"), 0o600))
	t.Setenv("MOMAI_TEST_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.API.Token)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolvePaths_HomeOverride(t *testing.T) {
	t.Setenv("MOMAI_HOME", "/tmp/momai-test")

	paths, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/momai-test", paths.Dir)
	assert.Equal(t, "/tmp/momai-test/config.yaml", paths.Config)
	assert.Equal(t, "/tmp/momai-test/cache.db", paths.CacheDB)
}
