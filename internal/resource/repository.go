// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/contentdesk/internal/store"
)

// Observer receives the outcome of every mutation.
type Observer interface {
	ObserveMutation(entity, op string, err error)
}

// ChangeFunc is called after a mutation has been committed.
type ChangeFunc func(ctx context.Context, entity string)

// Repository performs create, update, delete, get and list for one entity.
// Every mutation is a single statement with no retries; failures surface as
// *StoreError, ErrNotFound or *ValidationError.
type Repository[R any, I Input[I]] struct {
	db        store.DBTX
	schema    Schema[R, I]
	validator *Validator
	observer  Observer
	onChange  []ChangeFunc
	now       func() time.Time

	selectCols string
}

// NewRepository creates a repository for schema.
func NewRepository[R any, I Input[I]](db store.DBTX, schema Schema[R, I], v *Validator) *Repository[R, I] {
	if v == nil {
		v = NewValidator()
	}
	cols := append([]string{"id"}, schema.Columns...)
	cols = append(cols, "created_at", "updated_at")

	return &Repository[R, I]{
		db:         db,
		schema:     schema,
		validator:  v,
		now:        time.Now,
		selectCols: strings.Join(cols, ", "),
	}
}

// Entity returns the entity name.
func (r *Repository[R, I]) Entity() string {
	return r.schema.Entity
}

// Schema returns the schema the repository was built from.
func (r *Repository[R, I]) Schema() Schema[R, I] {
	return r.schema
}

// SetObserver registers the mutation observer.
func (r *Repository[R, I]) SetObserver(o Observer) {
	r.observer = o
}

// OnChange registers fn to run after each successful mutation.
func (r *Repository[R, I]) OnChange(fn ChangeFunc) {
	r.onChange = append(r.onChange, fn)
}

// Validate trims in and checks required fields. It returns the trimmed input.
func (r *Repository[R, I]) Validate(in I) (I, error) {
	in = in.Trimmed()
	if err := r.validator.Struct(in); err != nil {
		return in, err
	}
	return in, nil
}

// Create inserts a new row and returns it as stored.
func (r *Repository[R, I]) Create(ctx context.Context, in I) (R, error) {
	var zero R

	in, err := r.Validate(in)
	if err != nil {
		return zero, err
	}

	values, err := r.schema.Values(in)
	if err != nil {
		return zero, r.fail("create", err)
	}

	now := r.now().UTC()
	cols := append(append([]string{}, r.schema.Columns...), "created_at", "updated_at")
	args := append(values, now, now)

	var id string
	if r.schema.IDKind == UUIDv7ID {
		u, err := uuid.NewV7()
		if err != nil {
			return zero, r.fail("create", fmt.Errorf("generating id: %w", err))
		}
		id = u.String()
		cols = append([]string{"id"}, cols...)
		args = append([]any{id}, args...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.schema.Table, strings.Join(cols, ", "), placeholders(len(cols)))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return zero, r.fail("create", err)
	}

	if r.schema.IDKind == IntID {
		n, err := res.LastInsertId()
		if err != nil {
			return zero, r.fail("create", err)
		}
		id = strconv.FormatInt(n, 10)
	}

	r.changed(ctx, "create")

	rec, err := r.Get(ctx, id)
	if err != nil {
		return zero, r.tag("create", err)
	}
	return rec, nil
}

// Update replaces every writable column of row id. Absent optional fields
// become NULL.
func (r *Repository[R, I]) Update(ctx context.Context, id string, in I) (R, error) {
	var zero R

	key, err := r.schema.parseID(id)
	if err != nil {
		return zero, err
	}

	in, err = r.Validate(in)
	if err != nil {
		return zero, err
	}

	values, err := r.schema.Values(in)
	if err != nil {
		return zero, r.fail("update", err)
	}

	sets := make([]string, 0, len(r.schema.Columns)+1)
	for _, c := range r.schema.Columns {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = ?")
	args := append(values, r.now().UTC(), key)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", r.schema.Table, strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return zero, r.fail("update", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return zero, r.fail("update", err)
	} else if n == 0 {
		r.observe("update", ErrNotFound)
		return zero, ErrNotFound
	}

	r.changed(ctx, "update")

	rec, err := r.Get(ctx, id)
	if err != nil {
		return zero, r.tag("update", err)
	}
	return rec, nil
}

// Delete removes row id. Deleting a missing row reports ErrNotFound.
func (r *Repository[R, I]) Delete(ctx context.Context, id string) error {
	key, err := r.schema.parseID(id)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, "DELETE FROM "+r.schema.Table+" WHERE id = ?", key)
	if err != nil {
		return r.fail("delete", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return r.fail("delete", err)
	} else if n == 0 {
		r.observe("delete", ErrNotFound)
		return ErrNotFound
	}

	r.changed(ctx, "delete")
	return nil
}

// Get fetches one row by id.
func (r *Repository[R, I]) Get(ctx context.Context, id string) (R, error) {
	var zero R

	key, err := r.schema.parseID(id)
	if err != nil {
		return zero, err
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT "+r.selectCols+" FROM "+r.schema.Table+" WHERE id = ?", key)
	rec, err := r.schema.Scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, &StoreError{Op: "get", Entity: r.schema.Entity, Err: err}
	}
	return rec, nil
}

// List returns page index of size rows ordered by id descending, together
// with the current total row count.
func (r *Repository[R, I]) List(ctx context.Context, index, size int) (Page[R], error) {
	index, size = Normalize(index, size)
	page := Page[R]{Index: index, Size: size, Rows: []R{}}

	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+r.schema.Table).Scan(&page.Total); err != nil {
		return page, &StoreError{Op: "list", Entity: r.schema.Entity, Err: err}
	}
	if int64(index)*int64(size) >= page.Total {
		return page, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+r.selectCols+" FROM "+r.schema.Table+" ORDER BY id DESC LIMIT ? OFFSET ?",
		size, index*size)
	if err != nil {
		return page, &StoreError{Op: "list", Entity: r.schema.Entity, Err: err}
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		rec, err := r.schema.Scan(rows)
		if err != nil {
			return page, &StoreError{Op: "list", Entity: r.schema.Entity, Err: err}
		}
		page.Rows = append(page.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return page, &StoreError{Op: "list", Entity: r.schema.Entity, Err: err}
	}
	return page, nil
}

func (r *Repository[R, I]) fail(op string, err error) error {
	serr := &StoreError{Op: op, Entity: r.schema.Entity, Err: err}
	r.observe(op, serr)
	return serr
}

// tag wraps a follow-up read failure of a committed mutation.
func (r *Repository[R, I]) tag(op string, err error) error {
	return &StoreError{Op: op, Entity: r.schema.Entity, Err: fmt.Errorf("reading back: %w", err)}
}

func (r *Repository[R, I]) changed(ctx context.Context, op string) {
	r.observe(op, nil)
	for _, fn := range r.onChange {
		fn(ctx, r.schema.Entity)
	}
}

func (r *Repository[R, I]) observe(op string, err error) {
	if r.observer != nil {
		r.observer.ObserveMutation(r.schema.Entity, op, err)
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
