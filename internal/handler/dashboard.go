// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/contentdesk/internal/render"
	"github.com/olegiv/contentdesk/internal/resource"
	"github.com/olegiv/contentdesk/internal/storage"
	"github.com/olegiv/contentdesk/internal/uikit"
)

// DashboardHandler serves the entity tabs, detail pages, forms and deletes
// of every registered resource.
type DashboardHandler struct {
	registry *resource.Registry
	renderer *render.Renderer
	uploader *storage.Uploader
	logger   *slog.Logger
}

// NewDashboardHandler creates a dashboard handler. uploader may be nil, in
// which case file inputs are ignored.
func NewDashboardHandler(registry *resource.Registry, renderer *render.Renderer, uploader *storage.Uploader, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		registry: registry,
		renderer: renderer,
		uploader: uploader,
		logger:   logger,
	}
}

// Tab is one entity tab of the dashboard.
type Tab struct {
	Segment string
	Label   string
	URL     string
	Active  bool
}

// DashboardData holds data for the dashboard list.
type DashboardData struct {
	Tabs       []Tab
	Segment    string
	Label      string
	Singular   string
	CreateURL  string
	Listing    resource.Listing
	Pagination uikit.AdminPagination
	Error      string
}

// DetailData holds data for the detail page and its empty state.
type DetailData struct {
	Tabs      []Tab
	Segment   string
	Singular  string
	Found     bool
	Record    resource.Detail
	ListURL   string
	EditURL   string
	DeleteURL string
}

// DeleteData holds data for the delete confirmation page.
type DeleteData struct {
	Tabs      []Tab
	Segment   string
	Singular  string
	Record    resource.Detail
	ListURL   string
	DetailURL string
	DeleteURL string
	Error     string
}

func (h *DashboardHandler) tabs(active string) []Tab {
	all := h.registry.All()
	tabs := make([]Tab, 0, len(all))
	for _, res := range all {
		tabs = append(tabs, Tab{
			Segment: res.Segment(),
			Label:   res.Label(),
			URL:     listURL(res.Segment()),
			Active:  res.Segment() == active,
		})
	}
	return tabs
}

// resource resolves the {entity} URL parameter.
func (h *DashboardHandler) resource(r *http.Request) (resource.Resource, bool) {
	return h.registry.Get(chi.URLParam(r, "entity"))
}

// Index handles GET /admin - the list of the selected tab.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	res, ok := h.registry.Get(r.URL.Query().Get("tab"))
	if !ok {
		res = h.registry.Default()
	}
	if res == nil {
		http.NotFound(w, r)
		return
	}

	index, size := resource.Normalize(
		uikit.ParseIntParam(r, "page", 0),
		uikit.ParseIntParam(r, "size", resource.DefaultPageSize),
	)

	data := DashboardData{
		Tabs:      h.tabs(res.Segment()),
		Segment:   res.Segment(),
		Label:     res.Label(),
		Singular:  res.Singular(),
		CreateURL: createURL(res.Segment()),
	}

	status := http.StatusOK
	listing, err := res.List(r.Context(), index, size)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list records", "entity", res.Entity(), "error", err)
		data.Error = "Failed to load " + res.Label() + "."
		status = http.StatusInternalServerError
		listing = resource.Listing{Index: index, Size: size}
	}
	data.Listing = listing

	q := r.URL.Query()
	q.Set("tab", res.Segment())
	if size != resource.DefaultPageSize {
		q.Set("size", strconv.Itoa(size))
	} else {
		q.Del("size")
	}
	data.Pagination = uikit.BuildAdminPagination(index, listing.Total, size, RouteAdmin, q)

	renderPage(w, r, h.renderer, status, tmplDashboard, render.TemplateData{
		Title: res.Label(),
		Data:  data,
	})
}

// Detail handles GET /admin/{entity}/{id}.
func (h *DashboardHandler) Detail(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")

	data := DetailData{
		Tabs:     h.tabs(res.Segment()),
		Segment:  res.Segment(),
		Singular: res.Singular(),
		ListURL:  listURL(res.Segment()),
	}

	rec, err := res.Find(r.Context(), id)
	switch {
	case errors.Is(err, resource.ErrNotFound):
		h.renderNotFound(w, r, res)
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "failed to load record", "entity", res.Entity(), "id", id, "error", err)
		flashError(w, r, h.renderer, listURL(res.Segment()), "Failed to load "+res.Singular()+".")
		return
	}

	data.Found = true
	data.Record = rec
	data.EditURL = editURL(res.Segment(), rec.ID)
	data.DeleteURL = deleteURL(res.Segment(), rec.ID)

	renderPage(w, r, h.renderer, http.StatusOK, tmplDetail, render.TemplateData{
		Title: rec.Title,
		Data:  data,
	})
}

// ConfirmDelete handles GET /admin/{entity}/{id}/delete - the confirmation
// page used when the modal is unavailable.
func (h *DashboardHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")

	rec, err := res.Find(r.Context(), id)
	switch {
	case errors.Is(err, resource.ErrNotFound):
		flashError(w, r, h.renderer, listURL(res.Segment()), res.Singular()+" not found.")
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "failed to load record", "entity", res.Entity(), "id", id, "error", err)
		flashError(w, r, h.renderer, listURL(res.Segment()), "Failed to load "+res.Singular()+".")
		return
	}

	h.renderDelete(w, r, res, rec, http.StatusOK, "")
}

// Delete handles POST /admin/{entity}/{id}/delete.
func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")

	err := res.Delete(r.Context(), id)
	switch {
	case err == nil:
		h.logger.InfoContext(r.Context(), "record deleted", "entity", res.Entity(), "id", id)
		flashSuccess(w, r, h.renderer, listURL(res.Segment()), res.Singular()+" deleted successfully.")
	case errors.Is(err, resource.ErrNotFound):
		flashError(w, r, h.renderer, listURL(res.Segment()), res.Singular()+" not found.")
	default:
		h.logger.ErrorContext(r.Context(), "failed to delete record", "entity", res.Entity(), "id", id, "error", err)
		rec, findErr := res.Find(r.Context(), id)
		if findErr != nil {
			rec = resource.Detail{ID: id, Title: res.Singular() + " " + id}
		}
		h.renderDelete(w, r, res, rec, http.StatusInternalServerError, "Failed to delete "+res.Singular()+": "+err.Error())
	}
}

func (h *DashboardHandler) renderDelete(w http.ResponseWriter, r *http.Request, res resource.Resource, rec resource.Detail, status int, msg string) {
	renderPage(w, r, h.renderer, status, tmplDelete, render.TemplateData{
		Title: "Delete " + res.Singular(),
		Data: DeleteData{
			Tabs:      h.tabs(res.Segment()),
			Segment:   res.Segment(),
			Singular:  res.Singular(),
			Record:    rec,
			ListURL:   listURL(res.Segment()),
			DetailURL: detailURL(res.Segment(), rec.ID),
			DeleteURL: deleteURL(res.Segment(), rec.ID),
			Error:     msg,
		},
	})
}
