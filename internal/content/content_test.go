// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/contentdesk/internal/cache"
	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/resource"
	"github.com/olegiv/contentdesk/internal/testutil"
)

func newRegistry(t *testing.T) (*resource.Registry, *sql.DB) {
	t.Helper()
	db := testutil.TestDB(t)
	return New(Options{DB: db}), db
}

func mustGet(t *testing.T, reg *resource.Registry, segment string) resource.Resource {
	t.Helper()
	r, ok := reg.Get(segment)
	require.True(t, ok, "resource %s not registered", segment)
	return r
}

func TestNew_TabOrder(t *testing.T) {
	reg, _ := newRegistry(t)

	var segments []string
	for _, r := range reg.All() {
		segments = append(segments, r.Segment())
	}
	assert.Equal(t, []string{SegmentArticles, SegmentEvents, SegmentIRMaterials, SegmentPressMedia}, segments)
	assert.Equal(t, SegmentArticles, reg.Default().Segment())
}

func TestArticle_CreateWithoutPDF(t *testing.T) {
	reg, db := newRegistry(t)
	articles := mustGet(t, reg, SegmentArticles)
	ctx := context.Background()

	id, err := articles.Create(ctx, url.Values{"title": {"Q1 Report"}, "description": {"Summary text"}})
	require.NoError(t, err)

	var pdf sql.NullString
	var created, updated time.Time
	require.NoError(t, db.QueryRow("SELECT pdf_url, created_at, updated_at FROM article WHERE id = ?", id).
		Scan(&pdf, &created, &updated))
	assert.False(t, pdf.Valid, "pdf_url should be NULL")
	assert.False(t, created.IsZero())
	assert.False(t, updated.IsZero())

	d, err := articles.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Q1 Report", d.Title)
	assert.Equal(t, "Summary text", d.Values.Get("description"))

	require.NoError(t, articles.Delete(ctx, id))
	_, err = articles.Find(ctx, id)
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestArticle_UploadOverridesManualURL(t *testing.T) {
	reg, _ := newRegistry(t)
	articles := mustGet(t, reg, SegmentArticles)

	form := url.Values{
		"title":                  {"Annual report"},
		"description":            {"Full year"},
		"pdf_url":                {"https://example.com/manual.pdf"},
		"pdf_url" + UploadSuffix: {"https://cdn.test/content/articles/1-deadbeef.pdf"},
	}
	id, err := articles.Create(context.Background(), form)
	require.NoError(t, err)

	d, err := articles.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/content/articles/1-deadbeef.pdf", d.Values.Get("pdf_url"))
	assert.Equal(t, []string{"https://cdn.test/content/articles/1-deadbeef.pdf"}, articles.Uploaded(form))
}

func TestArticle_ValidationReportsOnlyBlankField(t *testing.T) {
	reg, db := newRegistry(t)
	articles := mustGet(t, reg, SegmentArticles)

	_, err := articles.Create(context.Background(), url.Values{"title": {"   "}, "description": {"ok"}})
	var verr *resource.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"title"}, keys(verr.Fields))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM article").Scan(&count))
	assert.Zero(t, count)
}

func TestEvent_PeopleAndBanner(t *testing.T) {
	reg, db := newRegistry(t)
	events := mustGet(t, reg, SegmentEvents)
	ctx := context.Background()

	form := url.Values{
		"title":                  {"Investor day"},
		"description":            {"Agenda"},
		"banner_description":     {"Line one\r\n\r\n  Line two  \r\n"},
		"people.3.name":          {"Second"},
		"people.1.name":          {" First "},
		"people.1.title":         {"CEO"},
		"people.1.description":   {"Founded the company\n\nLeads strategy"},
		"people.2.name":          {""},
		"people.2.title":         {""},
		"people.notanindex.name": {"ignored"},
	}
	id, err := events.Create(ctx, form)
	require.NoError(t, err)

	d, err := events.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", d.Values.Get("banner_description"))
	assert.Equal(t, "First", d.Values.Get("people.0.name"))
	assert.Equal(t, "CEO", d.Values.Get("people.0.title"))
	assert.Equal(t, "Founded the company\nLeads strategy", d.Values.Get("people.0.description"))
	assert.Equal(t, "Second", d.Values.Get("people.1.name"))
	assert.Empty(t, d.Values.Get("people.2.name"))

	// clearing every list stores NULL
	_, err = events.Update(ctx, id, url.Values{"title": {"Investor day"}, "description": {"Agenda"}})
	require.NoError(t, err)
	var banner, people sql.NullString
	require.NoError(t, db.QueryRow("SELECT banner_description, people FROM events WHERE id = ?", id).Scan(&banner, &people))
	assert.False(t, banner.Valid)
	assert.False(t, people.Valid)
}

func TestEvent_PersonNameRequired(t *testing.T) {
	reg, _ := newRegistry(t)
	events := mustGet(t, reg, SegmentEvents)

	err := events.Check(url.Values{
		"title":          {"Investor day"},
		"description":    {"Agenda"},
		"people.0.title": {"CFO"},
	})
	fields := resource.FieldErrors(err)
	assert.Contains(t, fields, "people.0.name")
	assert.Len(t, fields, 1)
}

func TestEvent_PersonErrorKeepsSubmittedRow(t *testing.T) {
	reg, _ := newRegistry(t)
	events := mustGet(t, reg, SegmentEvents)

	form := url.Values{
		"title":          {"Investor day"},
		"description":    {"Agenda"},
		"people.0.name":  {"Alice"},
		"people.1.name":  {"  "},
		"people.2.title": {"CFO"},
		"people.3.name":  {""},
	}

	fields := resource.FieldErrors(events.Check(form))
	assert.Equal(t, map[string]string{"people.2.name": "Name is required"}, fields)

	_, err := events.Create(context.Background(), form)
	assert.Equal(t, map[string]string{"people.2.name": "Name is required"}, resource.FieldErrors(err))
}

func TestIRMaterial_UploadMetadataFill(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		wantName *string
		wantSize *int64
	}{
		{
			name: "blank fields take upload metadata",
			form: url.Values{
				"file_url_upload":      {"https://cdn.test/content/ir/1-aa.pdf"},
				"file_url_upload_name": {"report.pdf"},
				"file_url_upload_type": {"application/pdf"},
				"file_url_upload_size": {"2048"},
			},
			wantName: ptr("report.pdf"),
			wantSize: ptr(int64(2048)),
		},
		{
			name: "operator values win",
			form: url.Values{
				"file_name":            {"Annual report.pdf"},
				"file_size":            {"10"},
				"file_url_upload":      {"https://cdn.test/content/ir/1-aa.pdf"},
				"file_url_upload_name": {"report.pdf"},
				"file_url_upload_size": {"2048"},
			},
			wantName: ptr("Annual report.pdf"),
			wantSize: ptr(int64(10)),
		},
		{
			name: "metadata ignored without upload",
			form: url.Values{
				"file_url":             {"https://example.com/big.zip"},
				"file_url_upload_name": {"stale.pdf"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := decodeIRMaterial(tt.form)
			assert.Equal(t, tt.wantName, in.FileName)
			assert.Equal(t, tt.wantSize, in.FileSize)
		})
	}
}

func TestIRMaterial_RoundTrip(t *testing.T) {
	reg, _ := newRegistry(t)
	ir := mustGet(t, reg, SegmentIRMaterials)
	ctx := context.Background()

	id, err := ir.Create(ctx, url.Values{
		"title":          {"Q3 results"},
		"file_url":       {"https://example.com/q3.pdf"},
		"file_size":      {"1024"},
		"published_date": {"2025-10-30"},
		"is_published":   {"on"},
	})
	require.NoError(t, err)

	d, err := ir.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "1024", d.Values.Get("file_size"))
	assert.Equal(t, "1", d.Values.Get("is_published"))
	assert.Empty(t, d.Values.Get("category"))

	fields := resource.FieldErrors(ir.Check(url.Values{"title": {"x"}, "published_date": {"30/10/2025"}}))
	assert.Contains(t, fields, "published_date")
}

func TestPressMedia_UUIDAndDate(t *testing.T) {
	reg, _ := newRegistry(t)
	press := mustGet(t, reg, SegmentPressMedia)
	ctx := context.Background()

	form := url.Values{
		"title":                    {"Launch"},
		"content":                  {"We launched"},
		"published_date":           {"2025-01-15"},
		"display_order":            {"3"},
		"is_featured":              {"1"},
		"image_url" + UploadSuffix: {"https://cdn.test/content/press-media/1-aa.jpg"},
		"file_url":                 {"https://example.com/kit.zip"},
	}
	id, err := press.Create(ctx, form)
	require.NoError(t, err)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	d, err := press.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "3", d.Values.Get("display_order"))
	assert.Equal(t, "1", d.Values.Get("is_featured"))
	assert.Equal(t, []string{
		"https://cdn.test/content/press-media/1-aa.jpg",
		"https://example.com/kit.zip",
	}, press.Uploaded(form))

	_, err = press.Find(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, resource.ErrNotFound)

	fields := resource.FieldErrors(press.Check(url.Values{"title": {"t"}, "content": {"c"}}))
	assert.Equal(t, []string{"published_date"}, keys(fields))
}

func TestPublicReadsUseCache(t *testing.T) {
	db := testutil.TestDB(t)
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })
	reg := New(Options{DB: db, Cache: mem, TTL: 30 * time.Second})
	articles := mustGet(t, reg, SegmentArticles)
	ctx := context.Background()

	id, err := articles.Create(ctx, url.Values{"title": {"Cached"}, "description": {"v1"}})
	require.NoError(t, err)

	got, err := articles.PublicGet(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.(model.Article).Description)

	// a write behind the repository's back is not seen within the window
	_, err = db.Exec("UPDATE article SET description = 'sneaky' WHERE id = ?", id)
	require.NoError(t, err)
	got, err = articles.PublicGet(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.(model.Article).Description)

	// a write through the repository invalidates
	_, err = articles.Update(ctx, id, url.Values{"title": {"Cached"}, "description": {"v2"}})
	require.NoError(t, err)
	got, err = articles.PublicGet(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.(model.Article).Description)

	rows, meta, err := articles.PublicList(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(1), meta.Total)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
