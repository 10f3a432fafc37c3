// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the content entities managed by the dashboard and
// the writable input shapes accepted for each of them.
//
// Optional columns are pointers: nil is written as SQL NULL.
package model

import (
	"strings"
	"time"
)

// DateLayout is the storage and form format of published dates.
const DateLayout = time.DateOnly

// Str returns a pointer to s. Handy for optional fields in tests and seeds.
func Str(s string) *string {
	return &s
}

// Deref returns the pointed-to value or the zero value for nil.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// trimOptional trims *s and maps blank strings to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// trimLines trims every line and drops blank ones. An empty result is nil.
func trimLines(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
