package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/mediconnect/admin/internal/logging"
)

const readinessTimeout = 3 * time.Second

// ReadinessCheck is one dependency probed by /ready.
type ReadinessCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// ready answers 503 when any dependency fails its ping.
func ready(checks []ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := ReadinessResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		for _, c := range checks {
			if err := c.Ping(ctx); err != nil {
				logging.From(r.Context()).WithError(err).WithField("check", c.Name).Warn("Readiness check failed")
				resp.Checks[c.Name] = "unavailable"
				resp.Status = "unavailable"
				continue
			}
			resp.Checks[c.Name] = "ok"
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		respondWithJSON(w, status, resp)
	}
}
