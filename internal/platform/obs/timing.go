package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type ctxKey string

// RequestIDKey carries the per-request ID assigned by the HTTP middleware.
const RequestIDKey ctxKey = "req_id"

// RequestID returns the request ID from ctx, or "" when absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of an operation when the returned func runs.
// Usage: defer obs.Time(ctx, "store.Lookup")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Error().
				Str("req_id", reqID).
				Str("op", name).
				Dur("dur", dur).
				Err(*errp).
				Msg("operation failed")
			return
		}

		log.Debug().
			Str("req_id", reqID).
			Str("op", name).
			Dur("dur", dur).
			Msg("operation done")
	}
}
