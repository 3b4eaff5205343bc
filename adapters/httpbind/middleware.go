package httpbind

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/wappdev/wapp/core/schema"
)

// recoverer converts handler panics into logged 500 responses so one
// misbehaving endpoint cannot take down the server.
func recoverer(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Interface("panic", rec).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("handler panic")
					writeJSON(w, http.StatusInternalServerError, schema.ErrorPayload("internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
