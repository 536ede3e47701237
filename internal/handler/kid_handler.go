package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
	"github.com/kafala/backend/internal/service"
)

// KidHandler handles kid profiles under a case (admin only).
type KidHandler struct {
	svc service.KidService
}

// NewKidHandler creates a KidHandler.
func NewKidHandler(svc service.KidService) *KidHandler {
	return &KidHandler{svc: svc}
}

// ListByCase handles GET /api/admin/cases/{id}/kids.
func (h *KidHandler) ListByCase(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caseID := r.PathValue("id")
	kids, err := h.svc.ListByCase(r.Context(), caseID)
	if err != nil {
		slog.Error("kid list failed", "error", err, "case_id", caseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if kids == nil {
		kids = []*model.CaseKid{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"kids": kids})
}

// Create handles POST /api/admin/cases/{id}/kids.
func (h *KidHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var kid model.CaseKid
	if err := json.NewDecoder(r.Body).Decode(&kid); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	kid.CaseID = r.PathValue("id")

	if err := h.svc.Create(r.Context(), &kid); err != nil {
		if errors.Is(err, service.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "case_not_found"})
			return
		}
		slog.Error("kid create failed", "error", err, "case_id", kid.CaseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "create_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(kid)
}

// Update handles PUT /api/admin/kids/{id}.
func (h *KidHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var kid model.CaseKid
	if err := json.NewDecoder(r.Body).Decode(&kid); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	kid.ID = r.PathValue("id")

	if err := h.svc.Update(r.Context(), &kid); err != nil {
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
		slog.Error("kid update failed", "error", err, "kid_id", kid.ID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(kid)
}

// Delete handles DELETE /api/admin/kids/{id}.
func (h *KidHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		slog.Error("kid delete failed", "error", err, "kid_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "delete_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
