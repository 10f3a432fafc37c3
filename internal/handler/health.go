// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/contentdesk/internal/handler/api"
	"github.com/olegiv/contentdesk/internal/middleware"
	"github.com/olegiv/contentdesk/internal/store"
	"github.com/olegiv/contentdesk/internal/uikit"
	"github.com/olegiv/contentdesk/internal/version"
)

// checkTimeout bounds each dependency probe.
const checkTimeout = 3 * time.Second

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	storage   Pinger
	sm        *scs.SessionManager
	startTime time.Time
}

// NewHealthHandler creates a new health handler. objects is the upload
// backend; nil skips the storage check.
func NewHealthHandler(db *sql.DB, objects Pinger, sm *scs.SessionManager) *HealthHandler {
	return &HealthHandler{
		db:        db,
		storage:   objects,
		sm:        sm,
		startTime: time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus represents the overall health status (signed-in callers only).
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   version.Info     `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Counts    *Counts          `json:"counts,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Counts reports table sizes worth watching. PendingUploads grows when
// uploads are never saved or the reaper stops running.
type Counts struct {
	Users          int64 `json:"users"`
	PendingUploads int64 `json:"pending_uploads"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health requests.
// Returns minimal status for unauthenticated callers, full details for signed-in ones.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.probe(r.Context(), h.db.PingContext),
	}
	if h.storage != nil {
		checks["storage"] = h.probe(r.Context(), h.storage.Ping)
	}

	overallStatus := "healthy"
	for _, c := range checks {
		if c.Status != "healthy" {
			overallStatus = "degraded"
		}
	}

	code := http.StatusOK
	if overallStatus != "healthy" {
		code = http.StatusServiceUnavailable
	}

	if !h.isAuthenticated(r) {
		api.WriteJSON(w, code, HealthStatusPublic{Status: overallStatus})
		return
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Get(),
		Checks:    checks,
	}
	if overallStatus == "healthy" {
		status.Counts = h.counts(r.Context())
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = systemInfo()
	}
	api.WriteJSON(w, code, status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - checks if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.probe(r.Context(), h.db.PingContext)
	if dbCheck.Status == "healthy" {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	resp := map[string]string{"status": "not_ready"}
	// Only include error details for signed-in callers
	if h.isAuthenticated(r) {
		resp["message"] = dbCheck.Message
	}
	api.WriteJSON(w, http.StatusServiceUnavailable, resp)
}

func (h *HealthHandler) probe(ctx context.Context, ping func(context.Context) error) Check {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	latency := time.Since(start)
	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: "healthy", Message: "Connected", Latency: latency.String()}
}

// counts returns nil when a count query fails.
func (h *HealthHandler) counts(ctx context.Context) *Counts {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	q := store.New(h.db)
	users, err := q.CountUsers(ctx)
	if err != nil {
		return nil
	}
	pending, err := q.CountPendingUploads(ctx)
	if err != nil {
		return nil
	}
	return &Counts{Users: users, PendingUploads: pending}
}

// isAuthenticated reports whether the request carries a signed-in session.
// SCS panics if session data is not loaded into context, so recover gracefully.
func (h *HealthHandler) isAuthenticated(r *http.Request) (authenticated bool) {
	if h.sm == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			authenticated = false
		}
	}()
	return h.sm.GetInt64(r.Context(), middleware.SessionKeyUserID) > 0
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     uikit.FormatBytes(int64(m.Alloc)),
		MemSys:       uikit.FormatBytes(int64(m.Sys)),
	}
}
