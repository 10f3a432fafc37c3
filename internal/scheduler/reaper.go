// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// reapBatch caps the objects removed per run.
const reapBatch = 500

// Outbox removes uploads nothing references after a grace period.
type Outbox interface {
	Reap(ctx context.Context, grace time.Duration, limit int64) (int, error)
}

// Reaper deletes orphaned uploads from object storage.
type Reaper struct {
	outbox   Outbox
	grace    time.Duration
	logger   *slog.Logger
	onReaped func(n int)
}

// NewReaper creates a reaper for uploads pending longer than grace.
func NewReaper(outbox Outbox, grace time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{outbox: outbox, grace: grace, logger: logger}
}

// OnReaped registers fn to receive the number of objects removed per run.
func (r *Reaper) OnReaped(fn func(n int)) {
	r.onReaped = fn
}

func (r *Reaper) Name() string { return "upload-reaper" }

// Run removes orphaned uploads in batches until a batch comes back short.
func (r *Reaper) Run(ctx context.Context) error {
	_, err := r.RunOnce(ctx)
	return err
}

// RunOnce performs one full reaping pass and returns the number of objects
// removed.
func (r *Reaper) RunOnce(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := r.outbox.Reap(ctx, r.grace, reapBatch)
		total += n
		if err != nil {
			r.report(total)
			return total, err
		}
		if n < reapBatch || ctx.Err() != nil {
			break
		}
	}

	r.report(total)
	if total > 0 {
		r.logger.Info("orphaned uploads reaped", "count", total, "grace", r.grace)
	}
	return total, nil
}

func (r *Reaper) report(n int) {
	if r.onReaped != nil && n > 0 {
		r.onReaped(n)
	}
}
