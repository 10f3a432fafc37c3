// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage uploads files to object storage and tracks them in the
// pending_uploads outbox until a saved record references them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/contentdesk/internal/util"
)

// Upload failures the HTTP layer maps to status codes.
var (
	ErrTooLarge        = errors.New("file exceeds the size limit")
	ErrUnsupportedType = errors.New("file type is not allowed")
	ErrEmpty           = errors.New("file is empty")
)

// Object is one blob written to an ObjectStore.
type Object struct {
	Bucket      string
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectStore is an S3-like blob store.
type ObjectStore interface {
	// Put stores obj and returns its public URL.
	Put(ctx context.Context, obj Object) (string, error)
	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, bucket, key string) error
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// NewKey returns "<category>/<unix-millis>-<8 hex>.<ext>". The category is
// slugified per path segment.
func NewKey(category, ext string, now time.Time) string {
	var segs []string
	for _, s := range strings.Split(category, "/") {
		if s = util.Slugify(s); s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		segs = []string{"misc"}
	}

	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	key := fmt.Sprintf("%s/%d-%s", strings.Join(segs, "/"), now.UnixMilli(), random)
	if ext = strings.TrimPrefix(strings.ToLower(ext), "."); ext != "" {
		key += "." + ext
	}
	return key
}
