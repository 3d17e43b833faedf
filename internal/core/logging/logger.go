// Package logging carries per-job and per-request identifiers through
// contexts and onto zerolog events.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentKey is the field that names the subsystem of a log line.
const ComponentKey = "cmp"

// Component returns the global logger tagged with a subsystem name.
func Component(name string) zerolog.Logger {
	return log.With().Str(ComponentKey, name).Logger()
}
