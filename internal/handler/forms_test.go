// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/contentdesk/internal/content"
	"github.com/olegiv/contentdesk/internal/storage"
)

func TestNewForm(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/admin/articles/create")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `action="/admin/articles/create"`)
	assert.Contains(t, body, `name="title"`)
	assert.Contains(t, body, `name="pdf_url_file"`)
	assert.Contains(t, body, `name="pdf_url_upload"`)
	assert.Contains(t, body, "Max 50.0 MB")
	assert.Contains(t, body, `data-limit="52428800"`)
}

func TestFormData_LimitBytes(t *testing.T) {
	var d FormData
	assert.EqualValues(t, 5<<20, d.LimitBytes("image"))
	assert.EqualValues(t, 10<<20, d.LimitBytes("photo"))
	assert.EqualValues(t, 50<<20, d.LimitBytes("document"))
	assert.Zero(t, d.LimitBytes("video"))
}

func TestNewForm_EventPeopleRow(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/admin/events/create")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="people.0.name"`)
}

func TestCreate_Success(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/admin/articles/create", url.Values{
		"title":       {"Q1 Report"},
		"description": {"Summary text"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/admin/articles/"), loc)

	rec, err := env.resource(t, content.SegmentArticles).Find(context.Background(), strings.TrimPrefix(loc, "/admin/articles/"))
	require.NoError(t, err)
	assert.Equal(t, "Q1 Report", rec.Title)
	assert.Empty(t, rec.Values.Get("pdf_url"))
}

func TestCreate_ValidationKeepsValues(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/admin/articles/create", url.Values{
		"title":       {"   "},
		"description": {"Kept description"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Please correct the errors below.")
	assert.Contains(t, body, "Kept description")
	assert.Equal(t, 1, strings.Count(body, "data-field-error"), "only the blank field is reported")
	assert.Contains(t, body, `class="field has-error" data-field="title"`)

	listing, err := env.resource(t, content.SegmentArticles).List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Zero(t, listing.Total)
}

func TestCreate_ValidationSkipsUpload(t *testing.T) {
	env := newTestEnv(t)

	w := env.postMultipart(t, "/admin/articles/create",
		url.Values{"title": {""}, "description": {"x"}},
		map[string][2]string{"pdf_url_file": {"report.pdf", pdfBody}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Zero(t, env.pendingUploads(t))
}

func TestCreate_UploadOverridesManualURL(t *testing.T) {
	env := newTestEnv(t)

	w := env.postMultipart(t, "/admin/articles/create",
		url.Values{
			"title":       {"With PDF"},
			"description": {"Has a file"},
			"pdf_url":     {"https://example.com/manual.pdf"},
		},
		map[string][2]string{"pdf_url_file": {"report.pdf", pdfBody}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	id := strings.TrimPrefix(w.Header().Get("Location"), "/admin/articles/")
	rec, err := env.resource(t, content.SegmentArticles).Find(context.Background(), id)
	require.NoError(t, err)

	pdf := rec.Values.Get("pdf_url")
	assert.True(t, strings.HasPrefix(pdf, "http://cdn.test/uploads/content/articles/"), pdf)
	assert.True(t, strings.HasSuffix(pdf, ".pdf"), pdf)

	// saving linked the upload, so the reaper leaves it alone
	assert.Zero(t, env.pendingUploads(t))
}

func TestCreate_PreUploadedURLIsLinked(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.uploader.Upload(context.Background(), storage.Upload{
		Kind:     storage.KindDocument,
		Category: content.SegmentArticles,
		Filename: "deck.pdf",
		Body:     strings.NewReader(pdfBody),
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, env.pendingUploads(t))

	w := env.postForm("/admin/articles/create", url.Values{
		"title":          {"Linked"},
		"description":    {"d"},
		"pdf_url_upload": {res.URL},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Zero(t, env.pendingUploads(t))
}

func TestCreate_UploadFailureBlocksSave(t *testing.T) {
	env := newTestEnv(t)

	w := env.postMultipart(t, "/admin/press-media/create",
		url.Values{
			"title":          {"Photo"},
			"content":        {"c"},
			"published_date": {"2025-03-01"},
		},
		map[string][2]string{"image_url_file": {"photo.jpg", "definitely not an image"}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Upload failed. The record was not saved.")
	assert.Contains(t, body, "This file type is not allowed for photo uploads.")

	listing, err := env.resource(t, content.SegmentPressMedia).List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Zero(t, listing.Total)
}

func TestEditForm_Prefilled(t *testing.T) {
	env := newTestEnv(t)
	ids := env.createArticles(t, 1)

	w := env.get("/admin/articles/edit/" + ids[0])
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `value="Report 1"`)
	assert.Contains(t, body, `action="/admin/articles/edit/`+ids[0]+`"`)
}

func TestEditForm_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/admin/articles/edit/404")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No data")
}

func TestUpdate_ClearsOmittedOptionals(t *testing.T) {
	env := newTestEnv(t)
	res := env.resource(t, content.SegmentArticles)
	id, err := res.Create(context.Background(), url.Values{
		"title":       {"Old"},
		"description": {"d"},
		"pdf_url":     {"https://example.com/a.pdf"},
	})
	require.NoError(t, err)

	w := env.postForm("/admin/articles/edit/"+id, url.Values{
		"title":       {"New"},
		"description": {"d"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/articles/"+id, w.Header().Get("Location"))

	rec, err := res.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "New", rec.Title)
	assert.Empty(t, rec.Values.Get("pdf_url"))
}

func TestUpdate_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/admin/articles/edit/77", url.Values{
		"title":       {"t"},
		"description": {"d"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreate_StoreFailureKeepsForm(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.db.Exec(`CREATE TRIGGER no_insert BEFORE INSERT ON article
		BEGIN SELECT RAISE(ABORT, 'store is read-only'); END`)
	require.NoError(t, err)

	w := env.postForm("/admin/articles/create", url.Values{
		"title":       {"Kept title"},
		"description": {"d"},
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Failed to save Article")
	assert.Contains(t, body, `value="Kept title"`)
}

func TestFormData_Rows(t *testing.T) {
	d := FormData{Values: url.Values{
		"people.0.name":  {"Ada"},
		"people.3.title": {"CTO"},
		"other.9.name":   {"x"},
	}}
	assert.Equal(t, []int{0, 3, 4}, d.Rows("people"))
	assert.Equal(t, []int{0}, FormData{Values: url.Values{}}.Rows("people"))
}

func TestUploadMessage(t *testing.T) {
	assert.Equal(t, "File is larger than 5.0 MB.", uploadMessage(storage.KindImage, storage.ErrTooLarge))
	assert.Equal(t, "The selected file is empty.", uploadMessage(storage.KindDocument, storage.ErrEmpty))
	assert.Equal(t, "This file type is not allowed for document uploads.", uploadMessage(storage.KindDocument, storage.ErrUnsupportedType))
}
