package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mediconnect/admin/internal/metrics"
)

// Metrics records one observation per request, labelled with the route
// template that router would pick, or "unmatched".
func Metrics(m *metrics.HTTPMetrics, router *mux.Router) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := "unmatched"
			var match mux.RouteMatch
			if router.Match(r, &match) && match.Route != nil {
				if tpl, err := match.Route.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)
			m.Observe(route, r.Method, sw.code(), time.Since(start))
		})
	}
}
