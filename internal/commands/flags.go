package commands

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/colonyops/mort/internal/core/config"
	"github.com/colonyops/mort/internal/core/provider"
)

// ErrNoCatalog is returned by commands that need a catalog when neither a
// directory nor a remote is configured.
var ErrNoCatalog = errors.New("no catalog configured: pass --catalog or --remote, or set catalog.dir in the config")

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Catalog    string
	Remote     string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Provider is built from Config in the Before hook. It is nil when no
	// catalog is configured.
	Provider provider.Provider
}

// RequireProvider returns the configured provider or ErrNoCatalog.
func (f *Flags) RequireProvider() (provider.Provider, error) {
	if f.Provider == nil {
		return nil, ErrNoCatalog
	}
	return f.Provider, nil
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mort", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "mort")
}
