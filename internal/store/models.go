// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// User is an administrator allowed to sign in to the dashboard.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// MaintenanceMode is the single row of the maintenance_mode table.
type MaintenanceMode struct {
	ID        int64
	IsActive  bool
	Message   sql.NullString
	Version   int64
	UpdatedAt time.Time
}

// PendingUpload is an outbox entry for an uploaded object not yet referenced
// by any saved record.
type PendingUpload struct {
	ID          int64
	Bucket      string
	ObjectKey   string
	Url         string
	Kind        string
	Size        int64
	ContentType string
	CreatedAt   time.Time
}
