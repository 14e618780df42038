package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mediconnect/admin/internal/service"
)

type DirectoryHandlers struct {
	directory *service.DirectoryService
}

func NewDirectoryHandlers(directory *service.DirectoryService) *DirectoryHandlers {
	return &DirectoryHandlers{directory: directory}
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (h *DirectoryHandlers) ListPatients(w http.ResponseWriter, r *http.Request) {
	page, err := h.directory.ListPatients(r.Context(), pageRequest(r), r.URL.Query().Get("search"))
	if err != nil {
		respondWithServiceError(w, r, err, "Patient", "Failed to fetch patients")
		return
	}
	respondWithJSON(w, http.StatusOK, pageBody("patients", page))
}

func (h *DirectoryHandlers) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Patient ID is required")
		return
	}
	if err := h.directory.DeletePatient(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err, "Patient", "Failed to delete patient")
		return
	}
	audit(r, "delete_patient", id)
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *DirectoryHandlers) ListDoctors(w http.ResponseWriter, r *http.Request) {
	page, err := h.directory.ListDoctors(r.Context(), pageRequest(r), r.URL.Query().Get("search"))
	if err != nil {
		respondWithServiceError(w, r, err, "Doctor", "Failed to fetch doctors")
		return
	}
	respondWithJSON(w, http.StatusOK, pageBody("doctors", page))
}

func (h *DirectoryHandlers) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Doctor ID is required")
		return
	}
	if err := h.directory.DeleteDoctor(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err, "Doctor", "Failed to delete doctor")
		return
	}
	audit(r, "delete_doctor", id)
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *DirectoryHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.directory.ListUsers(r.Context(), pageRequest(r), q.Get("search"), q.Get("role"))
	if err != nil {
		respondWithServiceError(w, r, err, "User", "Failed to fetch users")
		return
	}
	respondWithJSON(w, http.StatusOK, pageBody("users", page))
}

func (h *DirectoryHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Role == "" {
		respondWithError(w, http.StatusBadRequest, "Role is required")
		return
	}

	user, err := h.directory.UpdateRole(r.Context(), id, req.Role)
	if err != nil {
		respondWithServiceError(w, r, err, "User", "Failed to update user role")
		return
	}
	audit(r, "update_role:"+string(user.Role), id)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
