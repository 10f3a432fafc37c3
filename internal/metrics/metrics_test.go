// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/olegiv/contentdesk/internal/resource"
	"github.com/olegiv/contentdesk/internal/storage"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/admin/{entity}/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/admin/articles/1", "/admin/events/2", "/health"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.RequestCount.WithLabelValues("GET", "/admin/{entity}/{id}", "404")); got != 2 {
		t.Errorf("detail requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestCount.WithLabelValues("GET", "/health", "200")); got != 1 {
		t.Errorf("health requests = %v, want 1", got)
	}
}

func TestObserveMutation(t *testing.T) {
	m := New()

	m.ObserveMutation("article", "create", nil)
	m.ObserveMutation("article", "create", &resource.ValidationError{Fields: map[string]string{"title": "Title is required"}})
	m.ObserveMutation("article", "delete", fmt.Errorf("wrapped: %w", resource.ErrNotFound))
	m.ObserveMutation("event", "update", errors.New("disk full"))

	tests := []struct {
		entity, op, result string
	}{
		{"article", "create", "ok"},
		{"article", "create", "invalid"},
		{"article", "delete", "not_found"},
		{"event", "update", "error"},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.Mutations.WithLabelValues(tt.entity, tt.op, tt.result)); got != 1 {
			t.Errorf("mutations{%s,%s,%s} = %v, want 1", tt.entity, tt.op, tt.result, got)
		}
	}
}

func TestObserveUploadToggleReaped(t *testing.T) {
	m := New()

	m.ObserveUpload(storage.KindPhoto, 1024)
	m.ObserveUpload(storage.KindPhoto, 1024)
	m.ObserveToggle("conflict")
	m.ObserveReaped(3)

	if got := testutil.ToFloat64(m.UploadBytes.WithLabelValues("photo")); got != 2048 {
		t.Errorf("upload bytes = %v, want 2048", got)
	}
	if got := testutil.ToFloat64(m.Toggles.WithLabelValues("conflict")); got != 1 {
		t.Errorf("toggles = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Reaped); got != 3 {
		t.Errorf("reaped = %v, want 3", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveToggle("success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"contentdesk_maintenance_toggles_total", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
