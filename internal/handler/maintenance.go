// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/contentdesk/internal/handler/api"
	"github.com/olegiv/contentdesk/internal/maintenance"
	"github.com/olegiv/contentdesk/internal/middleware"
	"github.com/olegiv/contentdesk/internal/render"
)

// maxMessageLength bounds the maintenance banner text.
const maxMessageLength = 500

// MaintenanceHandler handles the dashboard maintenance widget.
type MaintenanceHandler struct {
	service  *maintenance.Service
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewMaintenanceHandler creates a new maintenance handler.
func NewMaintenanceHandler(service *maintenance.Service, renderer *render.Renderer, logger *slog.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{service: service, renderer: renderer, logger: logger}
}

// Status handles GET /admin/maintenance/status.
func (h *MaintenanceHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.GetStatus(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read maintenance status", "error", err)
		api.WriteInternalError(w, "Failed to read maintenance status")
		return
	}
	api.WriteJSON(w, http.StatusOK, status)
}

// Toggle handles POST /admin/maintenance/toggle.
func (h *MaintenanceHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	result := h.service.Toggle(r.Context())

	status := http.StatusOK
	switch {
	case result.Success:
		h.logger.InfoContext(r.Context(), "maintenance mode toggled",
			"is_active", result.IsActive, "user_id", middleware.GetUserID(r))
	case result.Error == maintenance.ErrConflict.Error():
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}
	api.WriteJSON(w, status, result)
}

// Message handles POST /admin/maintenance/message. Answers JSON to fetch
// callers and redirects back to the dashboard otherwise.
func (h *MaintenanceHandler) Message(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		api.WriteBadRequest(w, "Invalid form data", nil)
		return
	}
	message := r.FormValue("message")
	if len([]rune(message)) > maxMessageLength {
		h.messageFailed(w, r, http.StatusUnprocessableEntity, "Message is too long.")
		return
	}

	err := h.service.SetMessage(r.Context(), message)
	switch {
	case errors.Is(err, maintenance.ErrConflict):
		h.messageFailed(w, r, http.StatusConflict, "Maintenance mode was changed by someone else. Reload and try again.")
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "failed to update maintenance message", "error", err)
		h.messageFailed(w, r, http.StatusInternalServerError, "Failed to update maintenance message.")
		return
	}

	if middleware.WantsJSON(r) {
		status, err := h.service.GetStatus(r.Context())
		if err != nil {
			h.logger.ErrorContext(r.Context(), "failed to read maintenance status", "error", err)
			api.WriteInternalError(w, "Failed to read maintenance status")
			return
		}
		api.WriteJSON(w, http.StatusOK, status)
		return
	}
	flashSuccess(w, r, h.renderer, RouteAdmin, "Maintenance message updated.")
}

func (h *MaintenanceHandler) messageFailed(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if middleware.WantsJSON(r) {
		code := "internal_error"
		switch status {
		case http.StatusConflict:
			code = "conflict"
		case http.StatusUnprocessableEntity:
			code = "validation_error"
		}
		api.WriteError(w, status, code, msg, nil)
		return
	}
	flashError(w, r, h.renderer, RouteAdmin, msg)
}
