// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package resource is the generic CRUD layer shared by every content entity.
// An entity is declared once as a Schema (how it maps onto its table) and a
// View (how it is listed, shown and edited); Repository and Bind do the rest.
package resource

import (
	"strconv"

	"github.com/google/uuid"
)

// IDKind selects how primary keys are assigned and parsed.
type IDKind int

const (
	// IntID keys are assigned by SQLite AUTOINCREMENT.
	IntID IDKind = iota
	// UUIDv7ID keys are generated on insert and sort by creation time.
	UUIDv7ID
)

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Input is implemented by entity input structs.
type Input[I any] interface {
	Trimmed() I
}

// Schema maps an entity onto its table.
type Schema[R any, I any] struct {
	Entity string // singular name used in logs, errors and metrics
	Table  string
	IDKind IDKind

	// Columns lists the writable columns in the order Values returns them.
	Columns []string
	Values  func(in I) ([]any, error)

	// Scan reads one row selected as id, Columns..., created_at, updated_at.
	Scan func(row Scanner) (R, error)

	// ID returns the primary key of a record in its URL form.
	ID func(rec R) string
}

// parseID converts an URL id into a query argument. Malformed ids report
// ErrNotFound since no row could ever match them.
func (s *Schema[R, I]) parseID(id string) (any, error) {
	switch s.IDKind {
	case UUIDv7ID:
		u, err := uuid.Parse(id)
		if err != nil {
			return nil, ErrNotFound
		}
		return u.String(), nil
	default:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil || n <= 0 {
			return nil, ErrNotFound
		}
		return n, nil
	}
}
