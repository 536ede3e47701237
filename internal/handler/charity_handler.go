package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
	"github.com/kafala/backend/internal/service"
)

// CharityHandler handles partner charity organizations (admin only).
type CharityHandler struct {
	svc service.CharityService
}

// NewCharityHandler creates a CharityHandler.
func NewCharityHandler(svc service.CharityService) *CharityHandler {
	return &CharityHandler{svc: svc}
}

// List handles GET /api/admin/charities.
func (h *CharityHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	charities, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("charity list failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if charities == nil {
		charities = []*model.Charity{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"charities": charities})
}

// Create handles POST /api/admin/charities.
func (h *CharityHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var ch model.Charity
	if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	if err := h.svc.Create(r.Context(), &ch); err != nil {
		if errors.Is(err, service.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		slog.Error("charity create failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "create_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(ch)
}

// Update handles PUT /api/admin/charities/{id}.
func (h *CharityHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var ch model.Charity
	if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	ch.ID = r.PathValue("id")

	if err := h.svc.Update(r.Context(), &ch); err != nil {
		if errors.Is(err, service.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		slog.Error("charity update failed", "error", err, "charity_id", ch.ID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(ch)
}

// Delete handles DELETE /api/admin/charities/{id}.
func (h *CharityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		slog.Error("charity delete failed", "error", err, "charity_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "delete_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Attach handles POST /api/admin/cases/{id}/charities/{charityID}.
func (h *CharityHandler) Attach(w http.ResponseWriter, r *http.Request) {
	h.link(w, r, h.svc.Attach)
}

// Detach handles DELETE /api/admin/cases/{id}/charities/{charityID}.
func (h *CharityHandler) Detach(w http.ResponseWriter, r *http.Request) {
	h.link(w, r, h.svc.Detach)
}

func (h *CharityHandler) link(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, caseID, charityID string) error) {
	w.Header().Set("Content-Type", "application/json")

	caseID := r.PathValue("id")
	charityID := r.PathValue("charityID")
	if err := apply(r.Context(), caseID, charityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		if errors.Is(err, repository.ErrDuplicate) {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "already_linked"})
			return
		}
		slog.Error("charity link change failed", "error", err, "case_id", caseID, "charity_id", charityID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "link_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
