package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
	"github.com/kafala/backend/internal/service"
	"github.com/kafala/backend/pkg/auth"
	"github.com/kafala/backend/pkg/token"
)

// caseTokenTTL is how long a beneficiary capability token stays valid
// after a successful phone lookup.
const caseTokenTTL = 24 * time.Hour

// FollowupHandler handles the admin side of followup tasks and the
// token-gated beneficiary answer flow.
type FollowupHandler struct {
	svc         service.FollowupService
	caseSvc     service.CaseService
	kidSvc      service.KidService
	tokenSecret []byte
}

// NewFollowupHandler creates a FollowupHandler.
func NewFollowupHandler(svc service.FollowupService, caseSvc service.CaseService, kidSvc service.KidService, tokenSecret []byte) *FollowupHandler {
	return &FollowupHandler{svc: svc, caseSvc: caseSvc, kidSvc: kidSvc, tokenSecret: tokenSecret}
}

// Create handles POST /api/admin/followups.
func (h *FollowupHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	adminID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	var req service.FollowupInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	actions, err := h.svc.Create(r.Context(), adminID, req)
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
		slog.Error("followup create failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "create_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"created": len(actions),
		"actions": actions,
	})
}

// ListByCase handles GET /api/admin/cases/{id}/followups.
func (h *FollowupHandler) ListByCase(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caseID := r.PathValue("id")
	pendingOnly := r.URL.Query().Get("pending") == "true"
	actions, err := h.svc.ListByCase(r.Context(), caseID, pendingOnly)
	if err != nil {
		slog.Error("followup list failed", "error", err, "case_id", caseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if actions == nil {
		actions = []*model.FollowupAction{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"actions": actions})
}

// ListKidAnswers handles GET /api/admin/followups/{id}/answers.
func (h *FollowupHandler) ListKidAnswers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	actionID := r.PathValue("id")
	answers, err := h.svc.ListKidAnswers(r.Context(), actionID)
	if err != nil {
		slog.Error("kid answers list failed", "error", err, "action_id", actionID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if answers == nil {
		answers = []*model.KidAnswer{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"answers": answers})
}

// Complete handles POST /api/admin/followups/{id}/complete.
func (h *FollowupHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.svc.Complete)
}

// Cancel handles POST /api/admin/followups/{id}/cancel.
func (h *FollowupHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.svc.CancelAction)
}

func (h *FollowupHandler) setStatus(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id, adminID string) error) {
	w.Header().Set("Content-Type", "application/json")

	adminID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	id := r.PathValue("id")
	if err := apply(r.Context(), id, adminID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		slog.Error("followup status change failed", "error", err, "action_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// ---------------------------------------------------------------------------
// Beneficiary flow (phone lookup + capability token)
// ---------------------------------------------------------------------------

type phoneLookupRequest struct {
	Phone string `json:"phone"`
}

// Lookup handles POST /api/followups/lookup (public, strictly rate
// limited). On an exact phone match it issues a case-scoped capability
// token and returns the pending actions with the case's kids.
func (h *FollowupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req phoneLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "phone_required"})
		return
	}

	c, err := h.caseSvc.FindByPhone(r.Context(), phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		slog.Error("phone lookup failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "lookup_failed"})
		return
	}

	tok, err := token.GenerateCaseToken(h.tokenSecret, c.ID, caseTokenTTL)
	if err != nil {
		slog.Error("case token generation failed", "error", err, "case_id", c.ID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "token_failed"})
		return
	}

	actions, err := h.svc.ListByCase(r.Context(), c.ID, true)
	if err != nil {
		slog.Error("pending actions fetch failed", "error", err, "case_id", c.ID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if actions == nil {
		actions = []*model.FollowupAction{}
	}

	kids, err := h.kidSvc.ListByCase(r.Context(), c.ID)
	if err != nil {
		slog.Error("kids fetch failed", "error", err, "case_id", c.ID)
		kids = nil
	}
	if kids == nil {
		kids = []*model.CaseKid{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"token":      tok,
		"case_id":    c.ID,
		"case_title": c.TitleAr,
		"actions":    actions,
		"kids":       kids,
	})
}

// caseIDFromToken extracts and validates the capability token from the
// Authorization header.
func (h *FollowupHandler) caseIDFromToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return "", token.ErrInvalidToken
	}
	claims, err := token.ParseCaseToken(h.tokenSecret, raw)
	if err != nil {
		return "", err
	}
	return claims.CaseID, nil
}

// Pending handles GET /api/followups/pending (capability token required).
func (h *FollowupHandler) Pending(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caseID, err := h.caseIDFromToken(r)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": tokenErrorReason(err)})
		return
	}

	actions, err := h.svc.ListByCase(r.Context(), caseID, true)
	if err != nil {
		slog.Error("pending actions fetch failed", "error", err, "case_id", caseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if actions == nil {
		actions = []*model.FollowupAction{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"actions": actions})
}

// Answer handles POST /api/followups/{id}/answer (capability token
// required). The action must belong to the token's case.
func (h *FollowupHandler) Answer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caseID, err := h.caseIDFromToken(r)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": tokenErrorReason(err)})
		return
	}

	var req service.AnswerInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	actionID := r.PathValue("id")
	if err := h.svc.Answer(r.Context(), actionID, caseID, req); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
		case errors.Is(err, service.ErrValidation):
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidTransition):
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		default:
			slog.Error("followup answer failed", "error", err, "action_id", actionID)
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "answer_failed"})
		}
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func tokenErrorReason(err error) string {
	if errors.Is(err, token.ErrExpiredToken) {
		return "token_expired"
	}
	return "invalid_token"
}
