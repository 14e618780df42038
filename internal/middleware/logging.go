package middleware

import (
	"net/http"
	"time"

	"github.com/mediconnect/admin/internal/logging"
	"github.com/sirupsen/logrus"
)

// Logging stores a request-scoped entry in the context and writes one access
// line per request.
func Logging(logger *logrus.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry := logrus.NewEntry(logger)
			if rid := r.Header.Get(RequestIDHeader); rid != "" {
				entry = entry.WithField("request_id", rid)
			}
			r = r.WithContext(logging.Into(r.Context(), entry))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			entry.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   sw.code(),
				"duration": time.Since(start).String(),
				"bytes":    sw.count,
			}).Info("HTTP request")
		})
	}
}
