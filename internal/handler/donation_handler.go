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

// DonationHandler handles the public pledge endpoint and the admin
// verification workflow.
type DonationHandler struct {
	svc service.DonationService
}

// NewDonationHandler creates a DonationHandler.
func NewDonationHandler(svc service.DonationService) *DonationHandler {
	return &DonationHandler{svc: svc}
}

// Create handles POST /api/donations (public, no auth).
func (h *DonationHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req service.DonationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	d, err := h.svc.Create(r.Context(), req)
	if err != nil {
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
		slog.Error("donation create failed", "error", err, "case_id", req.CaseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "create_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(d)
}

// Lookup handles GET /api/donations/lookup?code= (public). Donors check
// their pledge status by payment code.
func (h *DonationHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	code := r.URL.Query().Get("code")
	if code == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "code_required"})
		return
	}

	d, err := h.svc.GetByPaymentCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		slog.Error("donation lookup failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "lookup_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(d)
}

// List handles GET /api/admin/donations (admin audit view).
// Optional query filters: status, case_id.
func (h *DonationHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, offset := parsePagination(r, 50)
	status := r.URL.Query().Get("status")
	caseID := r.URL.Query().Get("case_id")

	donations, err := h.svc.List(r.Context(), status, caseID, limit, offset)
	if err != nil {
		slog.Error("donation list failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if donations == nil {
		donations = []*model.Donation{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"donations": donations})
}

type donationActionRequest struct {
	PaymentReference string `json:"payment_reference"`
	Notes            string `json:"notes"`
}

// Confirm handles POST /api/admin/donations/{id}/confirm.
func (h *DonationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "confirm", func(id, adminID string, req donationActionRequest) error {
		return h.svc.Confirm(r.Context(), id, adminID, req.PaymentReference, req.Notes)
	})
}

// Cancel handles POST /api/admin/donations/{id}/cancel.
func (h *DonationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancel", func(id, adminID string, req donationActionRequest) error {
		return h.svc.Cancel(r.Context(), id, adminID, req.Notes)
	})
}

// Redeem handles POST /api/admin/donations/{id}/redeem.
func (h *DonationHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "redeem", func(id, adminID string, req donationActionRequest) error {
		return h.svc.Redeem(r.Context(), id, adminID, req.Notes)
	})
}

func (h *DonationHandler) transition(w http.ResponseWriter, r *http.Request, op string, apply func(id, adminID string, req donationActionRequest) error) {
	w.Header().Set("Content-Type", "application/json")

	adminID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	id := r.PathValue("id")

	var req donationActionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
			return
		}
	}

	if err := apply(id, adminID, req); err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		slog.Error("donation transition failed", "error", err, "op", op, "donation_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": op + "_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
