package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		path := writeConfig(t, `
allowOverriding: false
failOnProblems: false
profiles: [dev, local]
cacheTTL: 30s
output: json
log:
  timestamps: false
`)

		cfg, err := NewLoader().Load(path)

		require.NoError(t, err)
		require.NotNil(t, cfg.AllowOverriding)
		assert.False(t, *cfg.AllowOverriding)
		require.NotNil(t, cfg.FailOnProblems)
		assert.False(t, *cfg.FailOnProblems)
		assert.Equal(t, []string{"dev", "local"}, cfg.Profiles)
		assert.Equal(t, 30*time.Second, cfg.CacheTTL)
		assert.Equal(t, "json", cfg.Output)
		require.NotNil(t, cfg.Log.Timestamps)
		assert.False(t, *cfg.Log.Timestamps)
	})

	t.Run("returns empty config for missing file", func(t *testing.T) {
		cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))

		require.NoError(t, err)
		assert.Nil(t, cfg.AllowOverriding)
		assert.Empty(t, cfg.Output)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "output: json\nprofiles: [dev]\n")
		t.Setenv("CONFGRAPH_OUTPUT", "yaml")
		t.Setenv("CONFGRAPH_PROFILES", "prod, eu")

		cfg, err := NewLoader().Load(path)

		require.NoError(t, err)
		assert.Equal(t, "yaml", cfg.Output)
		assert.Equal(t, []string{"prod", "eu"}, cfg.Profiles)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "output: [json\n")

		_, err := NewLoader().Load(path)
		assert.Error(t, err)
	})
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeConfig(t, "output: table\n")

	cfg, err := NewLoader().LoadWithDefaults(path)

	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output)
	assert.True(t, *cfg.AllowOverriding)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
}

func TestConfigFileExists(t *testing.T) {
	path := writeConfig(t, "output: tree\n")

	ok, err := ConfigFileExists(path)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ConfigFileExists(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, ok)
}
