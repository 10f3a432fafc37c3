// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/contentdesk/internal/maintenance"
	"github.com/olegiv/contentdesk/internal/resource"
	"github.com/olegiv/contentdesk/internal/uikit"
)

// Handler serves public reads of the content entities.
type Handler struct {
	registry    *resource.Registry
	maintenance *maintenance.Service
	logger      *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(registry *resource.Registry, mnt *maintenance.Service, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, maintenance: mnt, logger: logger}
}

// Routes returns the /api/v1 routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/maintenance", h.Maintenance)
	r.Get("/{entity}", h.List)
	r.Get("/{entity}/{id}", h.Get)
	return r
}

// resource resolves the {entity} URL parameter, writing 404 when unknown.
func (h *Handler) resource(w http.ResponseWriter, r *http.Request) (resource.Resource, bool) {
	segment := chi.URLParam(r, "entity")
	res, ok := h.registry.Get(segment)
	if !ok {
		WriteNotFound(w, "Unknown entity "+segment)
		return nil, false
	}
	return res, true
}

// List handles GET /api/v1/{entity}?page=&size=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}

	index, size := resource.Normalize(
		uikit.ParseIntParam(r, "page", 0),
		uikit.ParseIntParam(r, "size", resource.DefaultPageSize),
	)

	rows, meta, err := res.PublicList(r.Context(), index, size)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list "+res.Entity(), "error", err)
		WriteInternalError(w, "Failed to list "+res.Label())
		return
	}

	WriteSuccess(w, rows, &Meta{
		Total:   meta.Total,
		Page:    meta.Index,
		PerPage: meta.Size,
		Pages:   meta.Pages,
	})
}

// Get handles GET /api/v1/{entity}/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}

	rec, err := res.PublicGet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			WriteNotFound(w, res.Singular()+" not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to get "+res.Entity(), "error", err)
		WriteInternalError(w, "Failed to retrieve "+res.Singular())
		return
	}

	WriteSuccess(w, rec, nil)
}

// maintenanceStatus is the public view of the flag.
type maintenanceStatus struct {
	IsActive bool   `json:"is_active"`
	Message  string `json:"message,omitempty"`
}

// Maintenance handles GET /api/v1/maintenance.
func (h *Handler) Maintenance(w http.ResponseWriter, r *http.Request) {
	st, err := h.maintenance.GetStatus(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read maintenance mode", "error", err)
		WriteInternalError(w, "Failed to read maintenance mode")
		return
	}
	WriteSuccess(w, maintenanceStatus{IsActive: st.IsActive, Message: st.Message}, nil)
}
