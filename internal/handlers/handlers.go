package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mediconnect/admin/internal/logging"
	"github.com/mediconnect/admin/internal/middleware"
	"github.com/mediconnect/admin/internal/models"
	"github.com/mediconnect/admin/internal/service"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// TokenErrorResponse is the error shape of the /auth token endpoints.
type TokenErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, ErrorResponse{Error: message})
}

func respondWithTokenError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, TokenErrorResponse{Success: false, Error: message})
}

// respondWithServiceError maps service sentinels to 4xx responses. Anything
// else is logged and answered with a generic 500 carrying internal.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, resource, internal string) {
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		respondWithError(w, http.StatusBadRequest, "Invalid status. Must be pending, verified, or rejected")
	case errors.Is(err, service.ErrInvalidRole):
		respondWithError(w, http.StatusBadRequest, "Invalid role. Must be patient, doctor, or admin")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, "Invalid "+resource+" ID format")
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, service.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Forbidden")
	default:
		logging.From(r.Context()).WithError(err).Error(internal)
		respondWithError(w, http.StatusInternalServerError, internal)
	}
}

func pageRequest(r *http.Request) models.PageRequest {
	q := r.URL.Query()
	return models.ParsePageRequest(q.Get("page"), q.Get("limit"))
}

// pageBody renders a page under the collection key the dashboard expects.
func pageBody[T any](key string, p *models.Page[T]) map[string]interface{} {
	return map[string]interface{}{
		key:           p.Items,
		"totalCount":  p.TotalCount,
		"currentPage": p.CurrentPage,
		"totalPages":  p.TotalPages,
	}
}

// audit records a completed admin mutation against the calling admin, when
// the gate is enabled.
func audit(r *http.Request, action, targetID string) {
	entry := logging.From(r.Context()).WithFields(logrus.Fields{
		"action":    action,
		"target_id": targetID,
	})
	if id, ok := middleware.AdminID(r.Context()); ok {
		entry = entry.WithField("admin_id", id.String())
	}
	entry.Info("Admin action")
}
