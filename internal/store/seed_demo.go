// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SeedDemo fills empty content tables with sample records so a fresh
// development install has something to page through. Tables that already
// hold rows are left alone.
func SeedDemo(ctx context.Context, db *sql.DB) error {
	slog.Info("seeding demo content")
	now := time.Now().UTC()

	steps := []struct {
		table string
		seed  func(context.Context, *sql.DB, time.Time) error
	}{
		{"article", seedDemoArticles},
		{"events", seedDemoEvents},
		{"ir_materials", seedDemoIRMaterials},
		{"press_media", seedDemoPressMedia},
	}

	for _, step := range steps {
		empty, err := tableEmpty(ctx, db, step.table)
		if err != nil {
			return err
		}
		if !empty {
			continue
		}
		if err := step.seed(ctx, db, now); err != nil {
			return fmt.Errorf("seeding %s: %w", step.table, err)
		}
	}

	return nil
}

func tableEmpty(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int64
	// table names come from the fixed list above
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return false, fmt.Errorf("counting %s: %w", table, err)
	}
	return n == 0, nil
}

func seedDemoArticles(ctx context.Context, db *sql.DB, now time.Time) error {
	for i := 1; i <= 12; i++ {
		var pdf sql.NullString
		if i%3 == 0 {
			pdf = sql.NullString{String: fmt.Sprintf("https://example.com/reports/q%d.pdf", i%4+1), Valid: true}
		}
		_, err := db.ExecContext(ctx,
			`INSERT INTO article (title, description, pdf_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			fmt.Sprintf("Quarterly update %d", i),
			"Highlights of the quarter, **key figures** and outlook.",
			pdf, now, now)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedDemoEvents(ctx context.Context, db *sql.DB, now time.Time) error {
	people := `[{"name":"Jane Doe","title":"CEO","subtitle":"Opening keynote","speaker":"keynote","description":["Twenty years in the industry."]}]`
	_, err := db.ExecContext(ctx,
		`INSERT INTO events (title, description, banner_description, people, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"Investor Day", "Annual meeting with investors and analysts.",
		`["Strategy review","Q&A session"]`, people, now, now)
	return err
}

func seedDemoIRMaterials(ctx context.Context, db *sql.DB, now time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO ir_materials (title, description, category, published_date, is_published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"Annual Report", "Audited financial statements.", "reports", now.Format("2006-01-02"), true, now, now)
	return err
}

func seedDemoPressMedia(ctx context.Context, db *sql.DB, now time.Time) error {
	for i := 1; i <= 3; i++ {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO press_media (id, title, content, published_date, is_featured, display_order, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id.String(), fmt.Sprintf("Press release %d", i), "Company announces results.",
			now.Format("2006-01-02"), i == 1, i, now, now)
		if err != nil {
			return err
		}
	}
	return nil
}
