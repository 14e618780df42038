package middleware

import (
	"net/http"

	"github.com/mediconnect/admin/internal/logging"
)

// Recover turns a panic into a 500 without leaking its details.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logging.From(r.Context()).
						WithField("path", r.URL.Path).
						WithField("panic", rec).
						Error("Recovered from panic")
					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
