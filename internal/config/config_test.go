package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BILLABLE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Empty(t, cfg.Source.APIKey)

	f := cfg.NoiseFilter()
	assert.Equal(t, 25, f.MinTaskLength)
	assert.Contains(t, f.AllowedApps, "microsoft word")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
db_path: /tmp/custom.db
refresh_interval: 30m
source:
  api_key: secret
sink:
  base_url: https://pm.example.com
  token: tok
filter:
  min_task_length: 10
  allowed_apps: ["textedit"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("BILLABLE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "secret", cfg.Source.APIKey)
	assert.Equal(t, "https://pm.example.com", cfg.Sink.BaseURL)

	f := cfg.NoiseFilter()
	assert.Equal(t, 10, f.MinTaskLength)
	assert.Equal(t, []string{"textedit"}, f.AllowedApps)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("BILLABLE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("BILLABLE_DB_PATH", "/tmp/env.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
}
