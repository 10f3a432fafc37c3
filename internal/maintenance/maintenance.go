// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package maintenance manages the site-wide maintenance flag stored in the
// single maintenance_mode row. Every write is a compare-and-set on the row
// version, so concurrent operators never silently overwrite each other.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/contentdesk/internal/store"
	"github.com/olegiv/contentdesk/internal/util"
)

// ErrConflict is returned when the flag changed between read and write.
var ErrConflict = errors.New("maintenance flag was changed concurrently")

// Toggle outcomes reported to the observer.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Status is the current state of the flag.
type Status struct {
	IsActive  bool      `json:"is_active"`
	Message   string    `json:"message"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToggleResult is the outcome of Toggle as shown to the dashboard.
type ToggleResult struct {
	Success  bool   `json:"success"`
	IsActive bool   `json:"is_active"`
	Error    string `json:"error,omitempty"`
}

// Service reads and writes the maintenance flag.
type Service struct {
	queries  *store.Queries
	logger   *slog.Logger
	onToggle func(outcome string)
	now      func() time.Time

	// afterRead runs between the read and the conditional write.
	afterRead func()
}

// NewService creates a maintenance service.
func NewService(db store.DBTX, logger *slog.Logger) *Service {
	return &Service{
		queries: store.New(db),
		logger:  logger,
		now:     time.Now,
	}
}

// OnToggle registers fn to receive the outcome of every Toggle call.
func (s *Service) OnToggle(fn func(outcome string)) {
	s.onToggle = fn
}

// GetStatus returns the current flag.
func (s *Service) GetStatus(ctx context.Context) (Status, error) {
	m, err := s.queries.GetMaintenanceMode(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("reading maintenance mode: %w", err)
	}
	return Status{
		IsActive:  m.IsActive,
		Message:   m.Message.String,
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// Toggle flips the flag. A concurrent change makes it fail without writing.
func (s *Service) Toggle(ctx context.Context) ToggleResult {
	cur, err := s.GetStatus(ctx)
	if err != nil {
		s.logger.Error("failed to read maintenance mode", "error", err)
		s.observe(OutcomeError)
		return ToggleResult{Error: "failed to read maintenance mode"}
	}

	next := !cur.IsActive
	if err := s.write(ctx, cur, next, messagePtr(cur.Message)); err != nil {
		if errors.Is(err, ErrConflict) {
			s.logger.Warn("maintenance toggle conflict", "version", cur.Version)
			s.observe(OutcomeConflict)
			return ToggleResult{IsActive: cur.IsActive, Error: ErrConflict.Error()}
		}
		s.logger.Error("failed to toggle maintenance mode", "error", err)
		s.observe(OutcomeError)
		return ToggleResult{IsActive: cur.IsActive, Error: "failed to toggle maintenance mode"}
	}

	s.logger.Info("maintenance mode toggled", "is_active", next, "version", cur.Version+1)
	s.observe(OutcomeSuccess)
	return ToggleResult{Success: true, IsActive: next}
}

// SetMessage replaces the message shown while maintenance is active. A
// blank message is stored as NULL.
func (s *Service) SetMessage(ctx context.Context, message string) error {
	cur, err := s.GetStatus(ctx)
	if err != nil {
		return err
	}
	if err := s.write(ctx, cur, cur.IsActive, messagePtr(message)); err != nil {
		return err
	}
	s.logger.Info("maintenance message updated", "version", cur.Version+1)
	return nil
}

func (s *Service) write(ctx context.Context, cur Status, active bool, message *string) error {
	if s.afterRead != nil {
		s.afterRead()
	}
	n, err := s.queries.UpdateMaintenanceModeIfVersion(ctx, store.UpdateMaintenanceModeParams{
		IsActive:        active,
		Message:         util.NullString(message),
		UpdatedAt:       s.now().UTC(),
		ExpectedVersion: cur.Version,
	})
	if err != nil {
		return fmt.Errorf("updating maintenance mode: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func (s *Service) observe(outcome string) {
	if s.onToggle != nil {
		s.onToggle(outcome)
	}
}

func messagePtr(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
