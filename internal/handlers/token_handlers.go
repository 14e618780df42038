package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/mediconnect/admin/internal/logging"
	"github.com/mediconnect/admin/internal/service"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

var userIDPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

type TokenHandlers struct {
	tokens *service.StreamTokenService
}

func NewTokenHandlers(tokens *service.StreamTokenService) *TokenHandlers {
	return &TokenHandlers{tokens: tokens}
}

type GenerateTokenRequest struct {
	UserID string `json:"userId"`
}

type GenerateTokenResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type TokenPayload struct {
	UserID    string `json:"userId"`
	IssuedAt  string `json:"issuedAt"`
	ExpiresAt string `json:"expiresAt"`
}

type VerifyTokenResponse struct {
	Success bool         `json:"success"`
	Valid   bool         `json:"valid"`
	Payload TokenPayload `json:"payload"`
}

func isoTime(t time.Time) string { return t.UTC().Format(isoMillis) }

func (h *TokenHandlers) GenerateToken(w http.ResponseWriter, r *http.Request) {
	var req GenerateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithTokenError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := req.UserID
	if userID == "" {
		respondWithTokenError(w, http.StatusBadRequest, "User ID is required")
		return
	}
	if !userIDPattern.MatchString(userID) {
		respondWithTokenError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	tok, err := h.tokens.Issue(userID)
	if err != nil {
		logging.From(r.Context()).WithError(err).Error("Failed to generate token")
		respondWithTokenError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondWithJSON(w, http.StatusOK, GenerateTokenResponse{
		Success:   true,
		Token:     tok.Token,
		ExpiresAt: isoTime(tok.ExpiresAt),
	})
}

func (h *TokenHandlers) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req VerifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithTokenError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Token == "" {
		respondWithTokenError(w, http.StatusBadRequest, "Token is required")
		return
	}

	claims := h.tokens.Verify(req.Token)
	if claims == nil {
		respondWithTokenError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	respondWithJSON(w, http.StatusOK, VerifyTokenResponse{
		Success: true,
		Valid:   true,
		Payload: TokenPayload{
			UserID:    claims.UserID,
			IssuedAt:  isoTime(claims.IssuedAt.Time),
			ExpiresAt: isoTime(claims.ExpiresAt.Time),
		},
	})
}
