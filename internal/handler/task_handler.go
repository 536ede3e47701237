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
	"github.com/kafala/backend/pkg/auth"
)

// TaskHandler handles internal admin to-dos attached to cases.
type TaskHandler struct {
	svc service.TaskService
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// ListByCase handles GET /api/admin/cases/{id}/tasks.
func (h *TaskHandler) ListByCase(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caseID := r.PathValue("id")
	tasks, err := h.svc.ListByCase(r.Context(), caseID)
	if err != nil {
		slog.Error("task list failed", "error", err, "case_id", caseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if tasks == nil {
		tasks = []*model.CaseTask{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"tasks": tasks})
}

// ListPending handles GET /api/admin/tasks, the cross-case pending queue
// ordered by priority.
func (h *TaskHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, offset := parsePagination(r, 50)
	tasks, err := h.svc.ListPending(r.Context(), limit, offset)
	if err != nil {
		slog.Error("pending task list failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if tasks == nil {
		tasks = []*model.CaseTask{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"tasks": tasks})
}

// Create handles POST /api/admin/cases/{id}/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	adminID, _ := auth.UserIDFromContext(r.Context())

	var task model.CaseTask
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	task.CaseID = r.PathValue("id")
	task.CreatedBy = adminID

	if err := h.svc.Create(r.Context(), &task); err != nil {
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
		slog.Error("task create failed", "error", err, "case_id", task.CaseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "create_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(task)
}

// Complete handles POST /api/admin/tasks/{id}/complete.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.svc.Complete)
}

// Cancel handles POST /api/admin/tasks/{id}/cancel.
func (h *TaskHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.svc.Cancel)
}

func (h *TaskHandler) setStatus(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id, adminID string) error) {
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
		slog.Error("task status change failed", "error", err, "task_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Delete handles DELETE /api/admin/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		slog.Error("task delete failed", "error", err, "task_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "delete_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
