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

// NeedHandler handles the itemized monthly needs of a case. The public list
// backs the case detail page's cost breakdown; the admin replace endpoint
// swaps the whole list and recomputes the case's monthly cost.
type NeedHandler struct {
	svc service.NeedService
}

// NewNeedHandler creates a NeedHandler.
func NewNeedHandler(svc service.NeedService) *NeedHandler {
	return &NeedHandler{svc: svc}
}

// ListByCase handles GET /api/cases/{id}/needs.
func (h *NeedHandler) ListByCase(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caseID := r.PathValue("id")
	needs, err := h.svc.ListByCase(r.Context(), caseID)
	if err != nil {
		slog.Error("need list failed", "error", err, "case_id", caseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if needs == nil {
		needs = []*model.MonthlyNeed{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"needs": needs,
		"total": model.TotalMonthlyAmount(needs),
	})
}

type replaceNeedsRequest struct {
	Needs []*model.MonthlyNeed `json:"needs"`
}

// Replace handles PUT /api/admin/cases/{id}/needs.
func (h *NeedHandler) Replace(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caseID := r.PathValue("id")

	var req replaceNeedsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	if err := h.svc.ReplaceAll(r.Context(), caseID, req.Needs); err != nil {
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
		slog.Error("need replace failed", "error", err, "case_id", caseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "replace_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":    true,
		"total": model.TotalMonthlyAmount(req.Needs),
	})
}
