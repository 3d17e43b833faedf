package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "/data")
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = "/data"
	assert.Equal(t, &want, cfg)
}

func TestLoad_ParsesFile(t *testing.T) {
	path := writeConfig(t, `
catalog:
  dir: /tables
  locale: de
remote:
  timeout: 5s
search:
  threshold: 0.5
list:
  batch_size: 20
  scroll_threshold: 5
export:
  dir: /out
  concurrency: 8
tui:
  theme: gruvbox
server:
  addr: 127.0.0.1:9000
`)

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, "/tables", cfg.Catalog.Dir)
	assert.Equal(t, "de", cfg.Catalog.Locale)
	assert.Equal(t, "**/*.json{,.gz,.xz}", cfg.Catalog.Pattern)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	assert.InDelta(t, 0.5, cfg.Search.Threshold, 1e-9)
	assert.Equal(t, 20, cfg.List.BatchSize)
	assert.Equal(t, 5, cfg.List.ScrollThreshold)
	assert.Equal(t, "/out", cfg.Export.Dir)
	assert.Equal(t, 8, cfg.Export.Concurrency)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "/data", cfg.DataDir)
	assert.False(t, cfg.UsesRemote())
}

func TestLoad_RemoteTimeoutDefaultsToNone(t *testing.T) {
	path := writeConfig(t, "remote:\n  url: http://tables.local\n")

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.True(t, cfg.UsesRemote())
	assert.Zero(t, cfg.Remote.Timeout)
	assert.Zero(t, DefaultConfig().Remote.Timeout)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "bad yaml", body: "catalog: [", wantErr: "parse config file"},
		{name: "threshold range", body: "search:\n  threshold: 1.5", wantErr: "search.threshold"},
		{name: "negative batch", body: "list:\n  batch_size: -1", wantErr: "list.batch_size"},
		{name: "negative scroll", body: "list:\n  scroll_threshold: -2", wantErr: "list.scroll_threshold"},
		{name: "negative concurrency", body: "export:\n  concurrency: -3", wantErr: "export.concurrency"},
		{name: "unknown theme", body: "tui:\n  theme: neon", wantErr: "tui.theme"},
		{name: "dir and remote", body: "catalog:\n  dir: /a\nremote:\n  url: http://x", wantErr: "cannot both be set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), "/data")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_EmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory")
}

func TestWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Catalog.Locale = "!!"
	cfg.Export.Concurrency = 32

	warnings := cfg.Warnings()
	require.Len(t, warnings, 3)
	assert.Equal(t, "Catalog", warnings[0].Category)
	assert.Equal(t, "locale", warnings[1].Item)
	assert.Equal(t, "concurrency", warnings[2].Item)

	cfg.Catalog.Dir = "/tables"
	cfg.Catalog.Locale = "en-US"
	cfg.Export.Concurrency = 4
	assert.Empty(t, cfg.Warnings())
}
