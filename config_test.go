package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv keeps the caller's shell from leaking into LoadConfig.
func clearEnv(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FPL_URL", "")
}

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, FPL_BOOTSTRAP_URL, cfg.FPL.URL)
	assert.Equal(t, time.Hour, cfg.FPL.CacheTTL.Duration)
	assert.Equal(t, float64(300), cfg.Table.MinMinutes)
	assert.Equal(t, "Now cost", cfg.Plot.X)
	assert.Equal(t, "Total points", cfg.Plot.Y)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[server]
addr = "127.0.0.1:9000"

[fpl]
url = "http://localhost:1234/bootstrap"
cache_ttl = "10m"
timeout = "5s"

[table]
min_minutes = 90

[plot]
width = 800
height = 600
x = "Minutes"

[log]
level = "DEBUG"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:1234/bootstrap", cfg.FPL.URL)
	assert.Equal(t, 10*time.Minute, cfg.FPL.CacheTTL.Duration)
	assert.Equal(t, 5*time.Second, cfg.FPL.Timeout.Duration)
	assert.Equal(t, float64(90), cfg.Table.MinMinutes)
	assert.Equal(t, 800, cfg.Plot.Width)
	assert.Equal(t, "Minutes", cfg.Plot.X)
	assert.Equal(t, "Total points", cfg.Plot.Y, "unset keys keep their default")
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("FPL_URL", "http://example.test/api")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "http://example.test/api", cfg.FPL.URL)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		doc  string
	}{
		{name: "bad duration", doc: "[fpl]\ncache_ttl = \"soon\""},
		{name: "negative ttl", doc: "[fpl]\ncache_ttl = \"-1m\""},
		{name: "zero width", doc: "[plot]\nwidth = 0"},
		{name: "negative minutes", doc: "[table]\nmin_minutes = -1"},
		{name: "not toml", doc: "server = ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
