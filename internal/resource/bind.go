// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"context"
	"net/url"
	"time"
)

// Form field types understood by the admin form template.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldDate     = "date"
	FieldNumber   = "number"
	FieldCheckbox = "checkbox"
	FieldURL      = "url"   // URL with optional upload
	FieldLines    = "lines" // one value per textarea line
	FieldPeople   = "people"
)

// Detail field kinds understood by the detail template.
const (
	ShowText     = "text"
	ShowMarkdown = "markdown"
	ShowLink     = "link"
	ShowLines    = "lines"
	ShowBool     = "bool"
	ShowPeople   = "people"
	ShowTime     = "time"
)

// FormField describes one input of the create/edit form.
type FormField struct {
	Name     string
	Label    string
	Type     string
	Required bool
	Upload   string // upload kind for FieldURL inputs, empty if none
	Help     string
}

// Field is one labelled value on the detail page.
type Field struct {
	Label string
	Kind  string
	Value any
}

// Column is one column of the list table.
type Column[R any] struct {
	Header string
	Value  func(rec R) string
}

// View declares how an entity is listed, shown and edited.
type View[R any, I any] struct {
	Segment  string // URL path segment, e.g. "press-media"
	Label    string // plural, e.g. "Press media"
	Singular string

	Columns []Column[R]
	Title   func(rec R) string
	Detail  func(rec R) []Field

	Form   []FormField
	Decode func(form url.Values) I
	Encode func(in I) url.Values
	Input  func(rec R) I

	// Uploaded returns the object URLs referenced by in.
	Uploaded func(in I) []string

	// FieldKey maps a validation key of the decoded input back to the form
	// field that was submitted. Nil keeps keys unchanged.
	FieldKey func(form url.Values, key string) string
}

// Row is one line of a rendered list.
type Row struct {
	ID    string
	Cells []string
}

// Meta describes the window a page was cut from.
type Meta struct {
	Total int64
	Index int
	Size  int
	Pages int
}

// Listing is an entity-agnostic page of rows.
type Listing struct {
	Headers []string
	Rows    []Row
	Total   int64
	Index   int
	Size    int
	Pages   int
}

// Detail is an entity-agnostic single record.
type Detail struct {
	ID        string
	Title     string
	Fields    []Field
	Values    url.Values
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resource is the untyped face of one entity, used by HTTP handlers that
// serve every entity through the same routes.
type Resource interface {
	Segment() string
	Entity() string
	Label() string
	Singular() string
	FormFields() []FormField

	List(ctx context.Context, index, size int) (Listing, error)
	Find(ctx context.Context, id string) (Detail, error)

	// Check decodes and validates form without touching the store.
	Check(form url.Values) error
	Create(ctx context.Context, form url.Values) (string, error)
	Update(ctx context.Context, id string, form url.Values) (string, error)
	Delete(ctx context.Context, id string) error

	// Uploaded returns the object URLs that form refers to.
	Uploaded(form url.Values) []string

	// PublicList and PublicGet return JSON-ready records from the read cache.
	PublicList(ctx context.Context, index, size int) (any, Meta, error)
	PublicGet(ctx context.Context, id string) (any, error)
}

// Timestamps is implemented by records that expose their store timestamps.
type Timestamps interface {
	Created() time.Time
	Updated() time.Time
}

type bound[R any, I Input[I]] struct {
	repo   *Repository[R, I]
	view   View[R, I]
	reader Reader[R]
}

// Bind joins a repository, its view declaration and a reader for public
// reads into a Resource. A nil reader reads straight from repo.
func Bind[R any, I Input[I]](repo *Repository[R, I], view View[R, I], reader Reader[R]) Resource {
	if reader == nil {
		reader = repo
	}
	return &bound[R, I]{repo: repo, view: view, reader: reader}
}

func (b *bound[R, I]) Segment() string         { return b.view.Segment }
func (b *bound[R, I]) Entity() string          { return b.repo.Entity() }
func (b *bound[R, I]) Label() string           { return b.view.Label }
func (b *bound[R, I]) Singular() string        { return b.view.Singular }
func (b *bound[R, I]) FormFields() []FormField { return b.view.Form }

func (b *bound[R, I]) List(ctx context.Context, index, size int) (Listing, error) {
	page, err := b.repo.List(ctx, index, size)
	if err != nil {
		return Listing{}, err
	}

	l := Listing{
		Headers: make([]string, len(b.view.Columns)),
		Rows:    make([]Row, 0, len(page.Rows)),
		Total:   page.Total,
		Index:   page.Index,
		Size:    page.Size,
		Pages:   page.Pages(),
	}
	for i, c := range b.view.Columns {
		l.Headers[i] = c.Header
	}
	for _, rec := range page.Rows {
		cells := make([]string, len(b.view.Columns))
		for i, c := range b.view.Columns {
			cells[i] = c.Value(rec)
		}
		l.Rows = append(l.Rows, Row{ID: b.repo.schema.ID(rec), Cells: cells})
	}
	return l, nil
}

func (b *bound[R, I]) Find(ctx context.Context, id string) (Detail, error) {
	rec, err := b.repo.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	d := Detail{
		ID:     b.repo.schema.ID(rec),
		Title:  b.view.Title(rec),
		Fields: b.view.Detail(rec),
		Values: b.view.Encode(b.view.Input(rec)),
	}
	if ts, ok := any(rec).(Timestamps); ok {
		d.CreatedAt, d.UpdatedAt = ts.Created(), ts.Updated()
	}
	return d, nil
}

func (b *bound[R, I]) Check(form url.Values) error {
	_, err := b.repo.Validate(b.view.Decode(form))
	return b.formError(form, err)
}

func (b *bound[R, I]) Create(ctx context.Context, form url.Values) (string, error) {
	rec, err := b.repo.Create(ctx, b.view.Decode(form))
	if err != nil {
		return "", b.formError(form, err)
	}
	return b.repo.schema.ID(rec), nil
}

func (b *bound[R, I]) Update(ctx context.Context, id string, form url.Values) (string, error) {
	rec, err := b.repo.Update(ctx, id, b.view.Decode(form))
	if err != nil {
		return "", b.formError(form, err)
	}
	return b.repo.schema.ID(rec), nil
}

// formError rewrites validation keys to the submitted form fields.
func (b *bound[R, I]) formError(form url.Values, err error) error {
	fields := FieldErrors(err)
	if fields == nil || b.view.FieldKey == nil {
		return err
	}
	mapped := make(map[string]string, len(fields))
	for key, msg := range fields {
		mapped[b.view.FieldKey(form, key)] = msg
	}
	return &ValidationError{Fields: mapped}
}

func (b *bound[R, I]) Delete(ctx context.Context, id string) error {
	return b.repo.Delete(ctx, id)
}

func (b *bound[R, I]) Uploaded(form url.Values) []string {
	if b.view.Uploaded == nil {
		return nil
	}
	return b.view.Uploaded(b.view.Decode(form).Trimmed())
}

func (b *bound[R, I]) PublicList(ctx context.Context, index, size int) (any, Meta, error) {
	page, err := b.reader.List(ctx, index, size)
	if err != nil {
		return nil, Meta{}, err
	}
	return page.Rows, Meta{Total: page.Total, Index: page.Index, Size: page.Size, Pages: page.Pages()}, nil
}

func (b *bound[R, I]) PublicGet(ctx context.Context, id string) (any, error) {
	return b.reader.Get(ctx, id)
}
