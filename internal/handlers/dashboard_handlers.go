package handlers

import (
	"net/http"

	"github.com/mediconnect/admin/internal/service"
)

type DashboardHandlers struct {
	dashboard *service.DashboardService
	directory *service.DirectoryService
}

func NewDashboardHandlers(dashboard *service.DashboardService, directory *service.DirectoryService) *DashboardHandlers {
	return &DashboardHandlers{
		dashboard: dashboard,
		directory: directory,
	}
}

func (h *DashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Statistics", "Failed to fetch dashboard statistics")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandlers) RecentUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.RecentUsers(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "User", "Failed to fetch recent users")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (h *DashboardHandlers) RecentVerifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.dashboard.RecentVerifications(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Verification", "Failed to fetch recent verifications")
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}
