package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mort/internal/core/config"
	"github.com/colonyops/mort/internal/core/provider"
)

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name       string
		flags      Flags
		wantDir    string
		wantRemote string
	}{
		{name: "no flags keeps config", flags: Flags{}, wantDir: "/tables"},
		{name: "catalog flag", flags: Flags{Catalog: "/other"}, wantDir: "/other"},
		{name: "remote flag clears dir", flags: Flags{Remote: "http://x/"}, wantRemote: "http://x/"},
		{name: "remote wins over catalog", flags: Flags{Catalog: "/other", Remote: "http://x/"}, wantRemote: "http://x/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Catalog.Dir = "/tables"

			tt.flags.ApplyOverrides(&cfg)

			assert.Equal(t, tt.wantDir, cfg.Catalog.Dir)
			assert.Equal(t, tt.wantRemote, cfg.Remote.URL)
		})
	}
}

func TestApplyOverrides_CatalogClearsConfiguredRemote(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Remote.URL = "http://x/"

	(&Flags{Catalog: "/tables"}).ApplyOverrides(&cfg)

	assert.Equal(t, "/tables", cfg.Catalog.Dir)
	assert.Empty(t, cfg.Remote.URL)
}

func TestNewProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Nil(t, NewProvider(&cfg))

	cfg.Catalog.Dir = t.TempDir()
	assert.IsType(t, &provider.Dir{}, NewProvider(&cfg))

	cfg.Catalog.Dir = ""
	cfg.Remote.URL = "http://127.0.0.1:1/"
	assert.IsType(t, &provider.HTTP{}, NewProvider(&cfg))
}

func TestRequireProvider(t *testing.T) {
	_, err := (&Flags{}).RequireProvider()
	require.ErrorIs(t, err, ErrNoCatalog)

	cfg := config.DefaultConfig()
	cfg.Catalog.Dir = t.TempDir()
	f := &Flags{Provider: NewProvider(&cfg)}
	p, err := f.RequireProvider()
	require.NoError(t, err)
	assert.NotNil(t, p)
}
