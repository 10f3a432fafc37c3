// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"mime"
	"net/http"
	"sync"
	"time"
)

const (
	// RequestTimeout bounds every request.
	RequestTimeout = 30 * time.Second
	// UploadTimeout bounds requests carrying files, body transfer included.
	UploadTimeout = 5 * time.Minute
)

// Timeout cancels the request context after timeout. If the handler has not
// written anything by then, the client gets 503. Requests matched by any skip
// func pass through untouched.
func Timeout(timeout time.Duration, skip ...func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, fn := range skip {
				if fn(r) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			tw := &timeoutWriter{ResponseWriter: w}

			go func() {
				defer close(done)
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				if !tw.wroteHeader {
					tw.wroteHeader = true
					tw.timedOut = true
					if WantsJSON(r) {
						WriteJSONError(w, http.StatusServiceUnavailable, "timeout", "Request timed out")
						return
					}
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte("Request timeout"))
				}
			}
		})
	}
}

// IsMultipartPost reports whether r is a POST with a multipart body.
func IsMultipartPost(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// UploadDeadline moves the connection read and write deadlines, which the
// server sets from its own timeouts, to d from now for requests matched by
// match, and bounds their context by d. It must run before any middleware
// that wraps the ResponseWriter.
func UploadDeadline(d time.Duration, match func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !match(r) {
				next.ServeHTTP(w, r)
				return
			}

			deadline := time.Now().Add(d)
			rc := http.NewResponseController(w)
			// not supported by every writer, e.g. test recorders
			_ = rc.SetReadDeadline(deadline)
			_ = rc.SetWriteDeadline(deadline)

			ctx, cancel := context.WithDeadline(r.Context(), deadline)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// timeoutWriter serializes writes and drops the handler's output once the
// timeout response has been sent.
type timeoutWriter struct {
	http.ResponseWriter
	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if !tw.wroteHeader {
		tw.wroteHeader = true
		tw.ResponseWriter.WriteHeader(code)
	}
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.wroteHeader = true
		tw.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}
