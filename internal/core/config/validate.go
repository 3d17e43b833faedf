package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"golang.org/x/text/language"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility, glob syntax, and the remote URL. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateCatalog(),
		criterio.Run("remote.url", c.Remote.URL, parseRemoteURL),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Catalog.Dir == "" && c.Remote.URL == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Catalog",
			Message:  "neither catalog.dir nor remote.url is set; pass --catalog or --remote",
		})
	}

	if c.Catalog.Locale != "" {
		if _, err := language.Parse(c.Catalog.Locale); err != nil {
			warnings = append(warnings, ValidationWarning{
				Category: "Catalog",
				Item:     "locale",
				Message:  fmt.Sprintf("unrecognized locale %q, falling back to the root collation", c.Catalog.Locale),
			})
		}
	}

	if c.Export.Concurrency > 16 {
		warnings = append(warnings, ValidationWarning{
			Category: "Export",
			Item:     "concurrency",
			Message:  "more than 16 concurrent fetches rarely helps",
		})
	}

	return warnings
}

// validateFileAccess checks config file, data directory, and export directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("export.dir", c.Export.Dir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// validateCatalog checks that the catalog directory exists and the pattern parses.
func (c *Config) validateCatalog() error {
	var errs criterio.FieldErrorsBuilder

	if c.Catalog.Dir != "" {
		if err := isExistingDirectory(c.Catalog.Dir); err != nil {
			errs = errs.Append("catalog.dir", err)
		}
	}

	if !doublestar.ValidatePattern(filepath.ToSlash(c.Catalog.Pattern)) {
		errs = errs.Append("catalog.pattern", fmt.Errorf("invalid glob %q", c.Catalog.Pattern))
	}

	return errs.ToError()
}

func isExistingDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
