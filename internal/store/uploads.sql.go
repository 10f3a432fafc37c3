// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createPendingUpload = `INSERT INTO pending_uploads (bucket, object_key, url, kind, size, content_type, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// CreatePendingUploadParams holds the columns for CreatePendingUpload.
type CreatePendingUploadParams struct {
	Bucket      string
	ObjectKey   string
	Url         string
	Kind        string
	Size        int64
	ContentType string
	CreatedAt   time.Time
}

func (q *Queries) CreatePendingUpload(ctx context.Context, arg CreatePendingUploadParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createPendingUpload,
		arg.Bucket, arg.ObjectKey, arg.Url, arg.Kind, arg.Size, arg.ContentType, arg.CreatedAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const deletePendingUploadByURL = `DELETE FROM pending_uploads WHERE url = ?`

// DeletePendingUploadByURL removes the outbox entry for url, marking the
// object as referenced. It returns the number of rows removed.
func (q *Queries) DeletePendingUploadByURL(ctx context.Context, url string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deletePendingUploadByURL, url)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deletePendingUpload = `DELETE FROM pending_uploads WHERE id = ?`

func (q *Queries) DeletePendingUpload(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePendingUpload, id)
	return err
}

const listPendingUploadsBefore = `SELECT id, bucket, object_key, url, kind, size, content_type, created_at
FROM pending_uploads
WHERE created_at < ?
ORDER BY created_at ASC, id ASC
LIMIT ?`

// ListPendingUploadsBefore returns outbox entries created before cutoff, oldest first.
func (q *Queries) ListPendingUploadsBefore(ctx context.Context, cutoff time.Time, limit int64) ([]PendingUpload, error) {
	rows, err := q.db.QueryContext(ctx, listPendingUploadsBefore, cutoff.Unix(), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []PendingUpload
	for rows.Next() {
		var (
			p       PendingUpload
			created int64
		)
		if err := rows.Scan(&p.ID, &p.Bucket, &p.ObjectKey, &p.Url, &p.Kind, &p.Size, &p.ContentType, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(created, 0).UTC()
		items = append(items, p)
	}
	return items, rows.Err()
}

const countPendingUploads = `SELECT COUNT(*) FROM pending_uploads`

func (q *Queries) CountPendingUploads(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPendingUploads).Scan(&count)
	return count, err
}
