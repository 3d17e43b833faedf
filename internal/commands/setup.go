package commands

import (
	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/config"
	"github.com/colonyops/mort/internal/core/provider"
)

// ApplyOverrides copies the catalog source flags onto cfg. A flag replaces
// the other source from the config file so the two never conflict.
func (f *Flags) ApplyOverrides(cfg *config.Config) {
	switch {
	case f.Remote != "":
		cfg.Remote.URL = f.Remote
		cfg.Catalog.Dir = ""
	case f.Catalog != "":
		cfg.Catalog.Dir = f.Catalog
		cfg.Remote.URL = ""
	}
}

// NewProvider builds the catalog provider cfg describes, or nil when it
// names none.
func NewProvider(cfg *config.Config) provider.Provider {
	switch {
	case cfg.UsesRemote():
		return provider.NewHTTP(cfg.Remote.URL, cfg.Remote.Timeout)
	case cfg.Catalog.Dir != "":
		return provider.NewDir(cfg.Catalog.Dir, cfg.Catalog.Pattern, catalog.NewComparator(cfg.Catalog.Locale))
	default:
		return nil
	}
}
