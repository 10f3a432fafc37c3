// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides the slog setup for contentdesk: a handler that
// stamps request context onto every record and counts warnings and errors.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type ctxKey int

const (
	pathKey ctxKey = iota
	userIDKey
)

// WithPath returns ctx carrying the request path for log records.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey, path)
}

// WithUserID returns ctx carrying the signed-in user for log records.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// ContextHandler is a slog.Handler that wraps another handler, adding
// request_id, path and user_id from the context and counting records at
// WARN level and above.
type ContextHandler struct {
	inner   slog.Handler
	records *prometheus.CounterVec
	level   slog.Level // minimum level counted
}

// NewContextHandler wraps inner. records may be nil; when set it must have a
// single "level" label.
func NewContextHandler(inner slog.Handler, records *prometheus.CounterVec) *ContextHandler {
	return &ContextHandler{
		inner:   inner,
		records: records,
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := chimw.GetReqID(ctx); id != "" {
			r.AddAttrs(slog.String("request_id", id))
		}
		if p, ok := ctx.Value(pathKey).(string); ok {
			r.AddAttrs(slog.String("path", p))
		}
		if uid, ok := ctx.Value(userIDKey).(int64); ok {
			r.AddAttrs(slog.Int64("user_id", uid))
		}
	}

	if h.records != nil && r.Level >= h.level {
		h.records.WithLabelValues(strings.ToLower(r.Level.String())).Inc()
	}

	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), records: h.records, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name), records: h.records, level: h.level}
}

// New builds the application logger writing text or JSON to w.
func New(w io.Writer, format string, level slog.Level, records *prometheus.CounterVec) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if strings.EqualFold(format, "json") {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}
	return slog.New(NewContextHandler(inner, records))
}
