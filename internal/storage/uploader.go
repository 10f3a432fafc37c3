// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/contentdesk/internal/imaging"
	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/store"
	"github.com/olegiv/contentdesk/internal/util"
)

// Upload is a file to store.
type Upload struct {
	Kind     Kind
	Category string // key prefix, usually the entity segment
	Filename string // original client file name
	Body     io.Reader
}

// Result describes a stored upload.
type Result struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Uploader writes files to an ObjectStore and records each one in the
// pending_uploads outbox until Link is called with its URL.
type Uploader struct {
	objects ObjectStore
	queries *store.Queries
	bucket  string
	images  *imaging.Processor
	logger  *slog.Logger
	observe func(kind Kind, size int64)
	now     func() time.Time
}

// NewUploader creates an uploader writing into bucket.
func NewUploader(objects ObjectStore, db store.DBTX, bucket string, logger *slog.Logger) *Uploader {
	return &Uploader{
		objects: objects,
		queries: store.New(db),
		bucket:  bucket,
		images:  imaging.NewProcessor(imaging.Options{MaxWidth: 4096, MaxHeight: 4096, Quality: 88}),
		logger:  logger,
		now:     time.Now,
	}
}

// OnUpload registers fn to be called with the stored size of every upload.
func (u *Uploader) OnUpload(fn func(kind Kind, size int64)) {
	u.observe = fn
}

// Bucket returns the bucket uploads are written to.
func (u *Uploader) Bucket() string {
	return u.bucket
}

// Objects returns the underlying object store.
func (u *Uploader) Objects() ObjectStore {
	return u.objects
}

// Upload validates, normalizes and stores a file. Size limits apply to the
// bytes received, before any image processing.
func (u *Uploader) Upload(ctx context.Context, up Upload) (*Result, error) {
	limit := up.Kind.Limit()
	data, err := io.ReadAll(io.LimitReader(up.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	switch {
	case len(data) == 0:
		return nil, ErrEmpty
	case int64(len(data)) > limit:
		return nil, fmt.Errorf("%w: %d MB for %s uploads", ErrTooLarge, limit/mb, up.Kind)
	}

	sniffed := imaging.DetectMimeType(data)
	var (
		contentType, ext string
		width, height    int
	)
	if up.Kind.IsImage() {
		if !model.IsImageMimeType(sniffed) {
			return nil, ErrUnsupportedType
		}
		img, err := u.images.Normalize(data)
		if err != nil {
			if errors.Is(err, imaging.ErrUnsupportedFormat) {
				return nil, ErrUnsupportedType
			}
			return nil, err
		}
		data, contentType, width, height = img.Data, img.MimeType, img.Width, img.Height
		ext = model.MimeTypeExtension(contentType)
	} else {
		contentType, ext, err = documentType(sniffed, up.Filename)
		if err != nil {
			return nil, err
		}
	}

	category := up.Category
	if category == "" {
		category = string(up.Kind)
	}
	key := NewKey(category, ext, u.now())
	name := util.SafeFilename(up.Filename, "upload")
	size := int64(len(data))

	url, err := u.objects.Put(ctx, Object{
		Bucket:      u.bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-name": name, "kind": string(up.Kind)},
	})
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	if _, err := u.queries.CreatePendingUpload(ctx, store.CreatePendingUploadParams{
		Bucket:      u.bucket,
		ObjectKey:   key,
		Url:         url,
		Kind:        string(up.Kind),
		Size:        size,
		ContentType: contentType,
		CreatedAt:   u.now(),
	}); err != nil {
		// an object without an outbox row would never be reaped
		if delErr := u.objects.Delete(ctx, u.bucket, key); delErr != nil {
			u.logger.Error("failed to remove untracked upload", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("recording upload: %w", err)
	}

	if u.observe != nil {
		u.observe(up.Kind, size)
	}
	u.logger.Info("file uploaded", "key", key, "kind", up.Kind, "size", size, "content_type", contentType)

	return &Result{
		URL:         url,
		Key:         key,
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Width:       width,
		Height:      height,
	}, nil
}

// Link marks uploads as referenced by a saved record, removing them from
// the outbox. URLs that were never uploaded here are ignored.
func (u *Uploader) Link(ctx context.Context, urls ...string) error {
	var errs []error
	for _, url := range urls {
		if url = strings.TrimSpace(url); url == "" {
			continue
		}
		n, err := u.queries.DeletePendingUploadByURL(ctx, url)
		if err != nil {
			errs = append(errs, fmt.Errorf("linking %s: %w", url, err))
			continue
		}
		if n > 0 {
			u.logger.Debug("upload linked", "url", url)
		}
	}
	return errors.Join(errs...)
}

// Reap deletes objects that are still pending after grace, oldest first, at
// most limit per call. Rows whose object could not be removed stay in the
// outbox for the next run.
func (u *Uploader) Reap(ctx context.Context, grace time.Duration, limit int64) (int, error) {
	pending, err := u.queries.ListPendingUploadsBefore(ctx, u.now().Add(-grace), limit)
	if err != nil {
		return 0, fmt.Errorf("listing pending uploads: %w", err)
	}

	removed := 0
	for _, p := range pending {
		if err := u.objects.Delete(ctx, p.Bucket, p.ObjectKey); err != nil {
			u.logger.Warn("failed to remove orphaned upload", "key", p.ObjectKey, "error", err)
			continue
		}
		if err := u.queries.DeletePendingUpload(ctx, p.ID); err != nil {
			return removed, fmt.Errorf("deleting outbox row %d: %w", p.ID, err)
		}
		removed++
		u.logger.Info("orphaned upload removed", "key", p.ObjectKey, "age", u.now().Sub(p.CreatedAt).Round(time.Second))
	}
	return removed, nil
}
