package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Catalog.Dir = t.TempDir()
	cfg.Export.Dir = t.TempDir()
	return &cfg
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)
	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
}

func TestValidateDeep_MissingCatalogDir(t *testing.T) {
	cfg := validConfig(t)
	cfg.Catalog.Dir = filepath.Join(t.TempDir(), "missing")

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "catalog.dir", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "cannot access")
}

func TestValidateDeep_ExportDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.Export.Dir = file

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "export.dir", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "not a directory")
}

func TestValidateDeep_ExportDirNotYetCreated(t *testing.T) {
	cfg := validConfig(t)
	cfg.Export.Dir = filepath.Join(t.TempDir(), "later")
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_BadPattern(t *testing.T) {
	cfg := validConfig(t)
	cfg.Catalog.Pattern = "**/[a-"

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "catalog.pattern", fieldErrs[0].Field)
}

func TestValidateDeep_RemoteURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{name: "https", url: "https://tables.example.com/catalog"},
		{name: "bad scheme", url: "ftp://tables.example.com", wantErr: "scheme"},
		{name: "no host", url: "http://", wantErr: "missing host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.Catalog.Dir = ""
			cfg.Remote.URL = tt.url

			err := cfg.ValidateDeep("")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, "remote.url", fieldErrs[0].Field)
			assert.Contains(t, fieldErrs[0].Err.Error(), tt.wantErr)
		})
	}
}
