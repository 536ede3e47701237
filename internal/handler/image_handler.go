package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/kafala/backend/internal/service"
	"github.com/kafala/backend/internal/storage"
)

const maxImageSize = 2 << 20 // 2 MB

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageUpdateRepo updates a case's cover image URL.
type ImageUpdateRepo interface {
	UpdateImageURL(ctx context.Context, caseID, imageURL string) error
}

// ImageHandler handles case image upload and removal (admin only).
type ImageHandler struct {
	storage   storage.Storage
	caseSvc   service.CaseService
	imageRepo ImageUpdateRepo
}

// NewImageHandler creates an ImageHandler.
func NewImageHandler(store storage.Storage, caseSvc service.CaseService, repo ImageUpdateRepo) *ImageHandler {
	return &ImageHandler{storage: store, caseSvc: caseSvc, imageRepo: repo}
}

// Upload handles POST /api/admin/cases/{id}/image.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caseID := r.PathValue("id")
	if caseID == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "id_required"})
		return
	}

	c, err := h.caseSvc.GetByID(r.Context(), caseID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "file_too_large"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "image_required"})
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "file_too_large"})
		return
	}

	ct := header.Header.Get("Content-Type")
	ext, ok := allowedContentTypes[ct]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_content_type"})
		return
	}

	// Drop the previous image before storing the replacement.
	if c.ImageURL != "" {
		oldKey := strings.TrimPrefix(c.ImageURL, "/uploads/")
		_ = h.storage.Delete(r.Context(), oldKey)
	}

	key := storage.ObjectKey(path.Join("cases", caseID), ext)
	imageURL, err := h.storage.Save(r.Context(), key, file, ct)
	if err != nil {
		slog.Error("image upload failed", "error", err, "case_id", caseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "upload_failed"})
		return
	}

	if err := h.imageRepo.UpdateImageURL(r.Context(), caseID, imageURL); err != nil {
		slog.Error("image url update failed", "error", err, "case_id", caseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]string{"image_url": imageURL})
}

// Delete handles DELETE /api/admin/cases/{id}/image.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caseID := r.PathValue("id")
	c, err := h.caseSvc.GetByID(r.Context(), caseID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}

	if c.ImageURL != "" {
		oldKey := strings.TrimPrefix(c.ImageURL, "/uploads/")
		_ = h.storage.Delete(r.Context(), oldKey)
	}

	if err := h.imageRepo.UpdateImageURL(r.Context(), caseID, ""); err != nil {
		slog.Error("image url clear failed", "error", err, "case_id", caseID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
