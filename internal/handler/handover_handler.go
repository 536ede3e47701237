package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
	"github.com/kafala/backend/internal/service"
	"github.com/kafala/backend/pkg/auth"
)

// HandoverHandler handles the disbursement ledger (admin only).
type HandoverHandler struct {
	svc service.HandoverService
}

// NewHandoverHandler creates a HandoverHandler.
func NewHandoverHandler(svc service.HandoverService) *HandoverHandler {
	return &HandoverHandler{svc: svc}
}

// Record handles POST /api/admin/handovers.
func (h *HandoverHandler) Record(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	adminID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	var req service.HandoverInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	handover, err := h.svc.Record(r.Context(), adminID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		case errors.Is(err, repository.ErrNotConfirmed):
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "donation_not_confirmed"})
		case errors.Is(err, repository.ErrExceedsRemaining):
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "exceeds_remaining"})
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		default:
			slog.Error("handover record failed", "error", err, "donation_id", req.DonationID)
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "record_failed"})
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(handover)
}

// ListByDonation handles GET /api/admin/donations/{id}/handovers.
func (h *HandoverHandler) ListByDonation(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	donationID := r.PathValue("id")
	handovers, err := h.svc.ListByDonation(r.Context(), donationID)
	if err != nil {
		slog.Error("handover list failed", "error", err, "donation_id", donationID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if handovers == nil {
		handovers = []*model.Handover{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"handovers": handovers})
}

// ListByCase handles GET /api/admin/cases/{id}/handovers.
func (h *HandoverHandler) ListByCase(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caseID := r.PathValue("id")
	limit, offset := parsePagination(r, 50)
	handovers, err := h.svc.ListByCase(r.Context(), caseID, limit, offset)
	if err != nil {
		slog.Error("handover list failed", "error", err, "case_id", caseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if handovers == nil {
		handovers = []*model.Handover{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"handovers": handovers})
}
