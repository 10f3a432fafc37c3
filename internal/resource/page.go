// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import "math"

// Page size bounds for list queries.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPageIndex keeps Index*Size within int for every valid size.
	MaxPageIndex = math.MaxInt / MaxPageSize
)

// Page is one offset window of a collection ordered by id descending.
// Index is 0-based and covers rows [Index*Size, Index*Size+Size-1].
type Page[R any] struct {
	Rows  []R   `json:"rows"`
	Total int64 `json:"total"`
	Index int   `json:"index"`
	Size  int   `json:"size"`
}

// Pages returns the number of pages needed for Total rows.
func (p Page[R]) Pages() int {
	if p.Size <= 0 || p.Total <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

// Normalize clamps a requested page index and size to valid values.
// Non-positive sizes fall back to DefaultPageSize and indexes are capped at
// MaxPageIndex.
func Normalize(index, size int) (int, int) {
	switch {
	case index < 0:
		index = 0
	case index > MaxPageIndex:
		index = MaxPageIndex
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return index, size
}
