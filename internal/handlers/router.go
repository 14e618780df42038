package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/mediconnect/admin/internal/metrics"
	"github.com/mediconnect/admin/internal/middleware"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	BasePath       string
	AllowedOrigins []string

	Tokens        *TokenHandlers
	Dashboard     *DashboardHandlers
	Directory     *DirectoryHandlers
	Verifications *VerificationHandlers

	// Auth gates every data route. Nil leaves them open.
	Auth    *middleware.AuthMiddleware
	Metrics *metrics.HTTPMetrics
	Logger  *logrus.Logger

	// Readiness lists the dependencies pinged by /ready.
	Readiness []ReadinessCheck
}

// NewRouter builds the API router wrapped in the request middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	router.HandleFunc("/health", health).Methods(http.MethodGet)
	router.HandleFunc("/ready", ready(cfg.Readiness)).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := router
	if cfg.BasePath != "" {
		api = router.PathPrefix(cfg.BasePath).Subrouter()
	}

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/generate-token", cfg.Tokens.GenerateToken).Methods(http.MethodPost)
	auth.HandleFunc("/verify-token", cfg.Tokens.VerifyToken).Methods(http.MethodPost)

	protect := func(h http.HandlerFunc) http.Handler {
		if cfg.Auth == nil {
			return h
		}
		return cfg.Auth.RequireAdmin(h)
	}

	api.Handle("/dashboard/stats", protect(cfg.Dashboard.Stats)).Methods(http.MethodGet)
	api.Handle("/dashboard/recent-users", protect(cfg.Dashboard.RecentUsers)).Methods(http.MethodGet)
	api.Handle("/dashboard/recent-verifications", protect(cfg.Dashboard.RecentVerifications)).Methods(http.MethodGet)

	api.Handle("/patients", protect(cfg.Directory.ListPatients)).Methods(http.MethodGet)
	api.Handle("/patients", protect(cfg.Directory.DeletePatient)).Methods(http.MethodDelete)
	api.Handle("/doctors", protect(cfg.Directory.ListDoctors)).Methods(http.MethodGet)
	api.Handle("/doctors", protect(cfg.Directory.DeleteDoctor)).Methods(http.MethodDelete)
	api.Handle("/users", protect(cfg.Directory.ListUsers)).Methods(http.MethodGet)
	api.Handle("/users", protect(cfg.Directory.UpdateRole)).Methods(http.MethodPatch)

	api.Handle("/verifications", protect(cfg.Verifications.List)).Methods(http.MethodGet)
	api.Handle("/verifications", protect(cfg.Verifications.Update)).Methods(http.MethodPatch)
	api.Handle("/verifications/{id}/images", protect(cfg.Verifications.Images)).Methods(http.MethodGet)

	chain := []middleware.Middleware{
		middleware.RequestID(),
		middleware.Logging(cfg.Logger),
	}
	if cfg.Metrics != nil {
		chain = append(chain, middleware.Metrics(cfg.Metrics, router))
	}
	chain = append(chain, middleware.Recover(), middleware.CORS(cfg.AllowedOrigins))

	return middleware.Chain(router, chain...)
}

// methodNotAllowed answers in the error shape of the endpoint that was hit.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.URL.Path, "/auth/") {
		respondWithTokenError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
