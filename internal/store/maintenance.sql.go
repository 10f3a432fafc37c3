// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const getMaintenanceMode = `SELECT id, is_active, message, version, updated_at
FROM maintenance_mode WHERE id = 1`

func (q *Queries) GetMaintenanceMode(ctx context.Context) (MaintenanceMode, error) {
	var m MaintenanceMode
	err := q.db.QueryRowContext(ctx, getMaintenanceMode).Scan(
		&m.ID, &m.IsActive, &m.Message, &m.Version, &m.UpdatedAt)
	return m, err
}

const updateMaintenanceModeIfVersion = `UPDATE maintenance_mode
SET is_active = ?, message = ?, version = version + 1, updated_at = ?
WHERE id = 1 AND version = ?`

// UpdateMaintenanceModeParams describes a conditional write of the flag row.
type UpdateMaintenanceModeParams struct {
	IsActive        bool
	Message         sql.NullString
	UpdatedAt       time.Time
	ExpectedVersion int64
}

// UpdateMaintenanceModeIfVersion writes the flag only when the stored version
// still equals ExpectedVersion. It returns the number of rows changed (0 or 1).
func (q *Queries) UpdateMaintenanceModeIfVersion(ctx context.Context, arg UpdateMaintenanceModeParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateMaintenanceModeIfVersion,
		arg.IsActive, arg.Message, arg.UpdatedAt, arg.ExpectedVersion)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
