// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrNotFound is returned when no row matches an id, including ids that
// cannot be parsed for the entity's key type.
var ErrNotFound = errors.New("record not found")

// StoreError tags a failed store call with the operation and entity.
type StoreError struct {
	Op     string // create, update, delete, get, list
	Entity string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ValidationError maps form field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(slices.Sorted(maps.Keys(e.Fields)), ", ")
}

// FieldErrors returns the field map of a *ValidationError, or nil.
func FieldErrors(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
