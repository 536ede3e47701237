package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/service"
)

// CalendarHandler serves the admin disbursement calendar.
type CalendarHandler struct {
	svc service.HandoverService
}

// NewCalendarHandler creates a CalendarHandler.
func NewCalendarHandler(svc service.HandoverService) *CalendarHandler {
	return &CalendarHandler{svc: svc}
}

// Month handles GET /api/admin/calendar?year=2026&month=8. Defaults to the
// current month when the parameters are absent.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
		year = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil {
		month = v
	}

	handovers, err := h.svc.ListByMonth(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		slog.Error("calendar month failed", "error", err, "year", year, "month", month)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if handovers == nil {
		handovers = []*model.Handover{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"year":      year,
		"month":     month,
		"handovers": handovers,
	})
}

// Sums handles GET /api/admin/calendar/sums, the per-month totals for the
// trailing twelve months.
func (h *CalendarHandler) Sums(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	sums, err := h.svc.MonthlySums(r.Context())
	if err != nil {
		slog.Error("calendar sums failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "sums_failed"})
		return
	}
	if sums == nil {
		sums = []*model.HandoverMonthSum{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"months": sums})
}
