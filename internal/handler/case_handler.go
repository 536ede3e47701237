package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
	"github.com/kafala/backend/internal/service"
	"github.com/kafala/backend/pkg/auth"
)

// parsePagination reads limit/offset query parameters with defaults.
func parsePagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// CaseHandler handles case endpoints: the public catalog and the admin CRUD.
type CaseHandler struct {
	svc service.CaseService
}

// NewCaseHandler creates a CaseHandler.
func NewCaseHandler(svc service.CaseService) *CaseHandler {
	return &CaseHandler{svc: svc}
}

// List handles GET /api/cases (public, published only).
func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// AdminList handles GET /api/admin/cases (admin, includes unpublished).
func (h *CaseHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *CaseHandler) list(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	w.Header().Set("Content-Type", "application/json")

	limit, offset := parsePagination(r, 50)
	cases, err := h.svc.List(r.Context(), publishedOnly, limit, offset)
	if err != nil {
		slog.Error("case list failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if cases == nil {
		cases = []*model.Case{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"cases": cases})
}

// Get handles GET /api/cases/{id}.
func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	c, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		slog.Error("case get failed", "error", err, "case_id", r.PathValue("id"))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "get_failed"})
		return
	}

	// Unpublished cases are only visible to admins.
	if !c.Published && !auth.IsAdminFromContext(r.Context()) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}

	_ = json.NewEncoder(w).Encode(c)
}

type caseRequest struct {
	TitleAr         string `json:"title_ar"`
	TitleEn         string `json:"title_en"`
	DescriptionAr   string `json:"description_ar"`
	DescriptionEn   string `json:"description_en"`
	CareType        string `json:"care_type"`
	MonthlyCost     int    `json:"monthly_cost"`
	MonthsNeeded    int    `json:"months_needed"`
	MonthsCovered   int    `json:"months_covered"`
	TargetAmount    int    `json:"target_amount"`
	ZakatEligible   bool   `json:"zakat_eligible"`
	Published       bool   `json:"published"`
	MinCustomAmount int    `json:"min_custom_amount"`
	AllowMonthly    bool   `json:"allow_monthly"`
	AllowCustom     bool   `json:"allow_custom"`
	ContactPhone    string `json:"contact_phone"`
}

func (req *caseRequest) toModel() *model.Case {
	return &model.Case{
		TitleAr:         req.TitleAr,
		TitleEn:         req.TitleEn,
		DescriptionAr:   req.DescriptionAr,
		DescriptionEn:   req.DescriptionEn,
		CareType:        req.CareType,
		MonthlyCost:     req.MonthlyCost,
		MonthsNeeded:    req.MonthsNeeded,
		MonthsCovered:   req.MonthsCovered,
		TargetAmount:    req.TargetAmount,
		ZakatEligible:   req.ZakatEligible,
		Published:       req.Published,
		MinCustomAmount: req.MinCustomAmount,
		AllowMonthly:    req.AllowMonthly,
		AllowCustom:     req.AllowCustom,
		ContactPhone:    req.ContactPhone,
	}
}

// Create handles POST /api/admin/cases.
func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, _ := auth.UserIDFromContext(r.Context())

	var req caseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	c := req.toModel()
	c.CreatedBy = userID
	if err := h.svc.Create(r.Context(), c); err != nil {
		if errors.Is(err, service.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		slog.Error("case create failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "create_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

// Update handles PUT /api/admin/cases/{id}.
func (h *CaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")

	var req caseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	c := req.toModel()
	c.ID = id
	if err := h.svc.Update(r.Context(), c); err != nil {
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
		slog.Error("case update failed", "error", err, "case_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(c)
}

type casePatchRequest struct {
	Published     *bool   `json:"published"`
	CareType      *string `json:"care_type"`
	MonthsCovered *int    `json:"months_covered"`
}

// Patch handles PATCH /api/admin/cases/{id}.
func (h *CaseHandler) Patch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")

	var req casePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	patch := model.CasePatch{
		Published:     req.Published,
		CareType:      req.CareType,
		MonthsCovered: req.MonthsCovered,
	}
	if err := h.svc.Patch(r.Context(), id, patch); err != nil {
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
		slog.Error("case patch failed", "error", err, "case_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "patch_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Delete handles DELETE /api/admin/cases/{id}.
func (h *CaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		slog.Error("case delete failed", "error", err, "case_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "delete_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
