package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies job_id and request_id from the event context onto log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if jobID := GetJobID(ctx); jobID != "" {
		e.Str("job_id", jobID)
	}

	if requestID := GetRequestID(ctx); requestID != "" {
		e.Str("request_id", requestID)
	}
}
