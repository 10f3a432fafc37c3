// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"database/sql"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/testutil"
)

func articleSchema() Schema[model.Article, model.ArticleInput] {
	return Schema[model.Article, model.ArticleInput]{
		Entity:  "article",
		Table:   "article",
		Columns: []string{"title", "description", "pdf_url"},
		Values: func(in model.ArticleInput) ([]any, error) {
			return []any{in.Title, in.Description, in.PDFURL}, nil
		},
		Scan: func(row Scanner) (model.Article, error) {
			var a model.Article
			var pdf sql.NullString
			err := row.Scan(&a.ID, &a.Title, &a.Description, &pdf, &a.CreatedAt, &a.UpdatedAt)
			if pdf.Valid {
				a.PDFURL = &pdf.String
			}
			return a, err
		},
		ID: func(a model.Article) string { return strconv.FormatInt(a.ID, 10) },
	}
}

func pressSchema() Schema[model.PressMedia, model.PressMediaInput] {
	return Schema[model.PressMedia, model.PressMediaInput]{
		Entity:  "press media",
		Table:   "press_media",
		IDKind:  UUIDv7ID,
		Columns: []string{"title", "content", "image_url", "file_url", "published_date", "is_featured", "display_order"},
		Values: func(in model.PressMediaInput) ([]any, error) {
			return []any{in.Title, in.Content, in.ImageURL, in.FileURL, in.PublishedDate, in.IsFeatured, in.DisplayOrder}, nil
		},
		Scan: func(row Scanner) (model.PressMedia, error) {
			var p model.PressMedia
			var img, file sql.NullString
			err := row.Scan(&p.ID, &p.Title, &p.Content, &img, &file, &p.PublishedDate,
				&p.IsFeatured, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt)
			if img.Valid {
				p.ImageURL = &img.String
			}
			if file.Valid {
				p.FileURL = &file.String
			}
			return p, err
		},
		ID: func(p model.PressMedia) string { return p.ID },
	}
}

func articleView() View[model.Article, model.ArticleInput] {
	return View[model.Article, model.ArticleInput]{
		Segment:  "articles",
		Label:    "Articles",
		Singular: "Article",
		Columns: []Column[model.Article]{
			{Header: "Title", Value: func(a model.Article) string { return a.Title }},
		},
		Title: func(a model.Article) string { return a.Title },
		Detail: func(a model.Article) []Field {
			return []Field{{Label: "Description", Kind: ShowMarkdown, Value: a.Description}}
		},
		Form: []FormField{{Name: "title", Label: "Title", Type: FieldText, Required: true}},
		Decode: func(f url.Values) model.ArticleInput {
			in := model.ArticleInput{Title: f.Get("title"), Description: f.Get("description")}
			if v := f.Get("pdf_url"); v != "" {
				in.PDFURL = &v
			}
			return in
		},
		Encode: func(in model.ArticleInput) url.Values {
			return url.Values{"title": {in.Title}, "description": {in.Description}, "pdf_url": {model.Deref(in.PDFURL)}}
		},
		Input: model.Article.Input,
		Uploaded: func(in model.ArticleInput) []string {
			if in.PDFURL == nil {
				return nil
			}
			return []string{*in.PDFURL}
		},
	}
}

func newArticleRepo(t *testing.T) *Repository[model.Article, model.ArticleInput] {
	t.Helper()
	return NewRepository(testutil.TestDB(t), articleSchema(), nil)
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveMutation(entity, op string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	result := "ok"
	if err != nil {
		result = "error"
	}
	o.calls = append(o.calls, entity+":"+op+":"+result)
}
