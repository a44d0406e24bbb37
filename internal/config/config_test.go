package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATASET_PATH", "UPSTREAM_URL", "UPSTREAM_TIMEOUT_SEC", "UPSTREAM_MAX_RETRY_SEC"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultUpstreamTimeout, cfg.UpstreamTimeout)
	assert.Equal(t, DefaultUpstreamMaxRetry, cfg.UpstreamMaxRetry)
	assert.Empty(t, cfg.DatasetPath)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("UPSTREAM_URL", "http://backend:8000")
	t.Setenv("UPSTREAM_TIMEOUT_SEC", "5")
	t.Setenv("UPSTREAM_MAX_RETRY_SEC", "nope")

	cfg := FromEnv()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://backend:8000", cfg.UpstreamURL)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, DefaultUpstreamMaxRetry, cfg.UpstreamMaxRetry)
}

func TestDotEnvFile(t *testing.T) {
	t.Setenv("DATASET_PATH", "")
	os.Unsetenv("DATASET_PATH")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATASET_PATH=history.xlsx\n"), 0o644))

	require.NoError(t, godotenv.Load(path))
	assert.Equal(t, "history.xlsx", FromEnv().DatasetPath)
}
