// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/contentdesk/internal/handler/api"
	"github.com/olegiv/contentdesk/internal/storage"
	"github.com/olegiv/contentdesk/internal/uikit"
)

// UploadHandler serves the JSON upload endpoint used by the form widgets.
type UploadHandler struct {
	uploader *storage.Uploader
	logger   *slog.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploader *storage.Uploader, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, logger: logger}
}

// Upload handles POST /admin/uploads. The multipart body carries "kind",
// "category" and "file". The stored object stays pending until a record
// referencing its URL is saved.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// multipart framing overhead on top of the largest file
	r.Body = http.MaxBytesReader(w, r.Body, storage.KindDocument.Limit()+1<<20)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.WriteError(w, http.StatusRequestEntityTooLarge, "too_large",
				"File is larger than "+uikit.FormatBytes(tooLarge.Limit), nil)
			return
		}
		api.WriteBadRequest(w, "Expected a multipart form", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	kind, err := storage.ParseKind(r.FormValue("kind"))
	if err != nil {
		api.WriteBadRequest(w, "Invalid upload kind", map[string]string{"kind": err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.WriteBadRequest(w, "No file provided", map[string]string{"file": "required"})
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.uploader.Upload(r.Context(), storage.Upload{
		Kind:     kind,
		Category: r.FormValue("category"),
		Filename: header.Filename,
		Body:     file,
	})
	if err != nil {
		h.writeUploadError(w, r, kind, err)
		return
	}

	h.logger.InfoContext(r.Context(), "file uploaded",
		"kind", kind, "key", result.Key, "size", result.Size, "content_type", result.ContentType)
	api.WriteCreated(w, result)
}

func (h *UploadHandler) writeUploadError(w http.ResponseWriter, r *http.Request, kind storage.Kind, err error) {
	msg := uploadMessage(kind, err)
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		api.WriteError(w, http.StatusRequestEntityTooLarge, "too_large", msg, nil)
	case errors.Is(err, storage.ErrUnsupportedType):
		api.WriteError(w, http.StatusUnsupportedMediaType, "unsupported_type", msg, nil)
	case errors.Is(err, storage.ErrEmpty):
		api.WriteBadRequest(w, msg, map[string]string{"file": "empty"})
	default:
		h.logger.ErrorContext(r.Context(), "upload failed", "kind", kind, "error", err)
		api.WriteInternalError(w, "Upload failed")
	}
}
