package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kafala/backend/internal/repository"
	"github.com/kafala/backend/pkg/auth"
)

// MeHandler returns the current authenticated admin.
type MeHandler struct {
	userRepo repository.UserRepository
}

// NewMeHandler creates a MeHandler.
func NewMeHandler(userRepo repository.UserRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo}
}

type meResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Me handles GET /api/me (auth required).
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		slog.Error("me lookup failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "lookup_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(meResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IsAdmin:   auth.IsAdminFromContext(r.Context()),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}
