package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mediconnect/admin/internal/models"
	"github.com/mediconnect/admin/internal/service"
)

type VerificationHandlers struct {
	verifications *service.VerificationService
	documents     *service.DocumentService
}

func NewVerificationHandlers(verifications *service.VerificationService, documents *service.DocumentService) *VerificationHandlers {
	return &VerificationHandlers{
		verifications: verifications,
		documents:     documents,
	}
}

// UpdateVerificationRequest keeps reviewer_notes tri-state: absent, null or a string.
type UpdateVerificationRequest struct {
	ID            string                `json:"id"`
	Status        string                `json:"status"`
	ReviewerNotes models.OptionalString `json:"reviewer_notes"`
}

type UpdateVerificationResponse struct {
	Success      bool                 `json:"success"`
	Verification *models.Verification `json:"verification"`
}

type ImagesResponse struct {
	Images []models.DocumentImage `json:"images"`
}

func (h *VerificationHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.verifications.List(r.Context(), pageRequest(r), q.Get("status"), q.Get("search"))
	if err != nil {
		respondWithServiceError(w, r, err, "Verification", "Failed to fetch verifications")
		return
	}
	respondWithJSON(w, http.StatusOK, pageBody("verifications", page))
}

func (h *VerificationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" || req.Status == "" {
		respondWithError(w, http.StatusBadRequest, "Verification ID and status are required")
		return
	}

	v, err := h.verifications.SetStatus(r.Context(), req.ID, req.Status, req.ReviewerNotes)
	if err != nil {
		respondWithServiceError(w, r, err, "Verification", "Failed to update verification")
		return
	}
	audit(r, "set_status:"+string(v.Status), req.ID)
	respondWithJSON(w, http.StatusOK, UpdateVerificationResponse{Success: true, Verification: v})
}

func (h *VerificationHandlers) Images(w http.ResponseWriter, r *http.Request) {
	images, err := h.documents.Images(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, r, err, "Verification", "Failed to fetch images")
		return
	}
	respondWithJSON(w, http.StatusOK, ImagesResponse{Images: images})
}
