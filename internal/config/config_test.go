package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("CINETRACK_TMDB_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for explicit missing config file, got cfg %+v", cfg)
	}

	cfg, err = Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, DefaultTMDBBaseURL, cfg.TMDB.BaseURL)
	assert.Equal(t, DefaultTrailerBaseURL, cfg.TMDB.TrailerBaseURL)
	assert.Equal(t, 15, cfg.TMDB.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TrendingTTL)
	assert.Equal(t, "0 * * * *", cfg.Scheduler.TrendingRefresh)
}

func TestLoad_LegacyAPIKeyEnv(t *testing.T) {
	t.Setenv("CINETRACK_TMDB_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.TMDB.APIKey)
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	t.Setenv("CINETRACK_TMDB_API_KEY", "prefixed-key")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("CINETRACK_SERVER_PORT", "8181")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", cfg.TMDB.APIKey)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("CINETRACK_TMDB_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 4000
tmdb:
  api_key: file-key
  timeout: 0
cache:
  trending_ttl: 2m
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "file-key", cfg.TMDB.APIKey)
	assert.Equal(t, 0, cfg.TMDB.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TrendingTTL)
	assert.Equal(t, DefaultImageBaseURL, cfg.TMDB.ImageBaseURL)
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 3000}
	assert.Equal(t, "127.0.0.1:3000", cfg.Address())
}
