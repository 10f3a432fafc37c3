// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/contentdesk/internal/content"
	"github.com/olegiv/contentdesk/internal/render"
	"github.com/olegiv/contentdesk/internal/resource"
	"github.com/olegiv/contentdesk/internal/storage"
	"github.com/olegiv/contentdesk/internal/uikit"
)

// formMemory is how much of a multipart body is kept in memory; the rest
// spills to temporary files.
const formMemory = 32 << 20

// maxFormBody caps a form submission: every upload kind once plus the
// text fields.
var maxFormBody = storage.KindImage.Limit() + storage.KindPhoto.Limit() + storage.KindDocument.Limit() + 1<<20

// FormData holds data for the create/edit form.
type FormData struct {
	Tabs      []Tab
	Segment   string
	Singular  string
	IsEdit    bool
	ID        string
	Action    string
	CancelURL string
	Fields    []resource.FormField
	Values    url.Values
	Errors    map[string]string
}

// Value returns the submitted or stored value of name.
func (d FormData) Value(name string) string {
	return d.Values.Get(name)
}

// Uploaded returns the URL of the upload attached to name, if any.
func (d FormData) Uploaded(name string) string {
	return d.Values.Get(name + content.UploadSuffix)
}

// Limit returns the human readable size limit of an upload kind.
func (d FormData) Limit(kind string) string {
	k, err := storage.ParseKind(kind)
	if err != nil {
		return ""
	}
	return uikit.FormatBytes(k.Limit())
}

// LimitBytes returns the size limit of an upload kind in bytes, or 0.
func (d FormData) LimitBytes(kind string) int64 {
	k, err := storage.ParseKind(kind)
	if err != nil {
		return 0
	}
	return k.Limit()
}

// Rows returns the indexes of the repeated rows under prefix plus one blank
// row for adding another entry.
func (d FormData) Rows(prefix string) []int {
	seen := map[int]bool{}
	for key := range d.Values {
		rest, ok := strings.CutPrefix(key, prefix+".")
		if !ok {
			continue
		}
		idx, _, _ := strings.Cut(rest, ".")
		if n, err := strconv.Atoi(idx); err == nil && n >= 0 {
			seen[n] = true
		}
	}
	rows := make([]int, 0, len(seen)+1)
	for n := range seen {
		rows = append(rows, n)
	}
	sort.Ints(rows)
	next := 0
	if len(rows) > 0 {
		next = rows[len(rows)-1] + 1
	}
	return append(rows, next)
}

// NewForm handles GET /admin/{entity}/create.
func (h *DashboardHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.renderForm(w, r, res, "", url.Values{}, nil, http.StatusOK)
}

// EditForm handles GET /admin/{entity}/edit/{id}.
func (h *DashboardHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")

	rec, err := res.Find(r.Context(), id)
	switch {
	case errors.Is(err, resource.ErrNotFound):
		h.renderNotFound(w, r, res)
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "failed to load record", "entity", res.Entity(), "id", id, "error", err)
		flashError(w, r, h.renderer, listURL(res.Segment()), "Failed to load "+res.Singular()+".")
		return
	}

	h.renderForm(w, r, res, rec.ID, rec.Values, nil, http.StatusOK)
}

// Create handles POST /admin/{entity}/create.
func (h *DashboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.save(w, r, res, "")
}

// Update handles POST /admin/{entity}/edit/{id}.
func (h *DashboardHandler) Update(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.save(w, r, res, chi.URLParam(r, "id"))
}

// save validates the form, stores attached files and then writes the
// record. id is empty for creates.
func (h *DashboardHandler) save(w http.ResponseWriter, r *http.Request, res resource.Resource, id string) {
	form, err := h.parseForm(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderFormError(w, r, res, id, url.Values{}, nil, http.StatusRequestEntityTooLarge,
				"The submitted files are larger than "+uikit.FormatBytes(tooLarge.Limit)+".")
			return
		}
		h.logger.WarnContext(r.Context(), "failed to parse form", "entity", res.Entity(), "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	if err := res.Check(form); err != nil {
		h.renderFormError(w, r, res, id, form, resource.FieldErrors(err), http.StatusUnprocessableEntity,
			"Please correct the errors below.")
		return
	}

	if errs := h.attachUploads(r, res, form); len(errs) > 0 {
		h.renderFormError(w, r, res, id, form, errs, http.StatusUnprocessableEntity,
			"Upload failed. The record was not saved.")
		return
	}

	var savedID string
	if id == "" {
		savedID, err = res.Create(r.Context(), form)
	} else {
		savedID, err = res.Update(r.Context(), id, form)
	}
	switch {
	case err == nil:
	case errors.Is(err, resource.ErrNotFound):
		h.renderNotFound(w, r, res)
		return
	case resource.FieldErrors(err) != nil:
		h.renderFormError(w, r, res, id, form, resource.FieldErrors(err), http.StatusUnprocessableEntity,
			"Please correct the errors below.")
		return
	default:
		h.logger.ErrorContext(r.Context(), "failed to save record", "entity", res.Entity(), "id", id, "error", err)
		h.renderFormError(w, r, res, id, form, nil, http.StatusInternalServerError,
			"Failed to save "+res.Singular()+": "+err.Error())
		return
	}

	if h.uploader != nil {
		if err := h.uploader.Link(r.Context(), res.Uploaded(form)...); err != nil {
			// the reaper would remove the files the record now points at
			h.logger.ErrorContext(r.Context(), "failed to link uploads", "entity", res.Entity(), "id", savedID, "error", err)
		}
	}

	verb := "created"
	if id != "" {
		verb = "updated"
	}
	h.logger.InfoContext(r.Context(), "record saved", "entity", res.Entity(), "id", savedID, "action", verb)
	flashSuccess(w, r, h.renderer, detailURL(res.Segment(), savedID), res.Singular()+" "+verb+" successfully.")
}

// parseForm reads a urlencoded or multipart body into a fresh url.Values.
func (h *DashboardHandler) parseForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseMultipartForm(formMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	form := make(url.Values, len(r.PostForm))
	for k, v := range r.PostForm {
		form[k] = append([]string(nil), v...)
	}
	return form, nil
}

// attachUploads stores the file part of every upload field and records the
// resulting URL in form under the field's upload key, where it overrides
// the manual URL. It returns field-keyed errors for failed uploads.
func (h *DashboardHandler) attachUploads(r *http.Request, res resource.Resource, form url.Values) map[string]string {
	if h.uploader == nil || r.MultipartForm == nil {
		return nil
	}

	errs := map[string]string{}
	for _, f := range res.FormFields() {
		if f.Upload == "" {
			continue
		}
		headers := r.MultipartForm.File[f.Name+fileSuffix]
		if len(headers) == 0 || headers[0].Filename == "" {
			continue
		}
		kind, err := storage.ParseKind(f.Upload)
		if err != nil {
			errs[f.Name] = err.Error()
			continue
		}

		file, err := headers[0].Open()
		if err != nil {
			errs[f.Name] = "Could not read the uploaded file."
			continue
		}
		result, err := h.uploader.Upload(r.Context(), storage.Upload{
			Kind:     kind,
			Category: res.Segment(),
			Filename: headers[0].Filename,
			Body:     file,
		})
		_ = file.Close()
		if err != nil {
			h.logger.WarnContext(r.Context(), "upload failed", "entity", res.Entity(), "field", f.Name, "error", err)
			errs[f.Name] = uploadMessage(kind, err)
			continue
		}

		key := f.Name + content.UploadSuffix
		form.Set(key, result.URL)
		form.Set(key+"_name", result.Name)
		form.Set(key+"_type", result.ContentType)
		form.Set(key+"_size", strconv.FormatInt(result.Size, 10))
	}
	return errs
}

// uploadMessage turns an upload error into an inline field message.
func uploadMessage(kind storage.Kind, err error) string {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return "File is larger than " + uikit.FormatBytes(kind.Limit()) + "."
	case errors.Is(err, storage.ErrUnsupportedType):
		return fmt.Sprintf("This file type is not allowed for %s uploads.", kind)
	case errors.Is(err, storage.ErrEmpty):
		return "The selected file is empty."
	default:
		return "Upload failed, please try again."
	}
}

func (h *DashboardHandler) renderForm(w http.ResponseWriter, r *http.Request, res resource.Resource, id string, values url.Values, errs map[string]string, status int) {
	h.renderFormError(w, r, res, id, values, errs, status, "")
}

func (h *DashboardHandler) renderFormError(w http.ResponseWriter, r *http.Request, res resource.Resource, id string, values url.Values, errs map[string]string, status int, flash string) {
	data := FormData{
		Tabs:      h.tabs(res.Segment()),
		Segment:   res.Segment(),
		Singular:  res.Singular(),
		IsEdit:    id != "",
		ID:        id,
		Action:    createURL(res.Segment()),
		CancelURL: listURL(res.Segment()),
		Fields:    res.FormFields(),
		Values:    values,
		Errors:    errs,
	}
	title := "New " + res.Singular()
	if id != "" {
		data.Action = editURL(res.Segment(), id)
		data.CancelURL = detailURL(res.Segment(), id)
		title = "Edit " + res.Singular()
	}

	td := render.TemplateData{Title: title, Data: data}
	if flash != "" {
		td.Flash, td.FlashType = flash, "error"
	}
	renderPage(w, r, h.renderer, status, tmplForm, td)
}

// renderNotFound renders the detail empty state with 404.
func (h *DashboardHandler) renderNotFound(w http.ResponseWriter, r *http.Request, res resource.Resource) {
	renderPage(w, r, h.renderer, http.StatusNotFound, tmplDetail, render.TemplateData{
		Title: res.Singular() + " not found",
		Data: DetailData{
			Tabs:     h.tabs(res.Segment()),
			Segment:  res.Segment(),
			Singular: res.Singular(),
			ListURL:  listURL(res.Segment()),
		},
	})
}
