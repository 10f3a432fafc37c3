// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes Prometheus collectors for the dashboard.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/contentdesk/internal/resource"
	"github.com/olegiv/contentdesk/internal/storage"
)

const namespace = "contentdesk"

// Metrics holds the collectors, registered on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	RequestCount    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Mutations       *prometheus.CounterVec
	UploadBytes     *prometheus.CounterVec
	Toggles         *prometheus.CounterVec
	Reaped          prometheus.Counter
	LogRecords      *prometheus.CounterVec
}

// New creates and registers every collector, plus the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repository_mutations_total",
			Help:      "Repository writes by entity, operation and result.",
		}, []string{"entity", "op", "result"}),
		UploadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Bytes stored in object storage by upload kind.",
		}, []string{"kind"}),
		Toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_toggles_total",
			Help:      "Maintenance toggle attempts by outcome.",
		}, []string{"outcome"}),
		Reaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaper_deleted_objects_total",
			Help:      "Orphaned uploads removed by the reaper.",
		}),
		LogRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_records_total",
			Help:      "Log records at WARN level and above.",
		}, []string{"level"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCount,
		m.RequestDuration,
		m.Mutations,
		m.UploadBytes,
		m.Toggles,
		m.Reaped,
		m.LogRecords,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Middleware records request counts and latency by chi route pattern, so
// /admin/articles/1 and /admin/articles/2 share a series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestCount.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveMutation implements resource.Observer.
func (m *Metrics) ObserveMutation(entity, op string, err error) {
	m.Mutations.WithLabelValues(entity, op, mutationResult(err)).Inc()
}

func mutationResult(err error) string {
	var verr *resource.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, resource.ErrNotFound):
		return "not_found"
	case errors.As(err, &verr):
		return "invalid"
	default:
		return "error"
	}
}

// ObserveUpload counts bytes written for an upload kind.
func (m *Metrics) ObserveUpload(kind storage.Kind, size int64) {
	m.UploadBytes.WithLabelValues(string(kind)).Add(float64(size))
}

// ObserveToggle counts a maintenance toggle outcome.
func (m *Metrics) ObserveToggle(outcome string) {
	m.Toggles.WithLabelValues(outcome).Inc()
}

// ObserveReaped counts orphaned uploads removed.
func (m *Metrics) ObserveReaped(n int) {
	m.Reaped.Add(float64(n))
}
