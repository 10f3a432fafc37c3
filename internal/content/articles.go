// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"database/sql"
	"net/url"
	"strconv"

	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/resource"
	"github.com/olegiv/contentdesk/internal/storage"
	"github.com/olegiv/contentdesk/internal/util"
)

var articleSchema = resource.Schema[model.Article, model.ArticleInput]{
	Entity:  "article",
	Table:   "article",
	Columns: []string{"title", "description", "pdf_url"},
	Values: func(in model.ArticleInput) ([]any, error) {
		return []any{in.Title, in.Description, in.PDFURL}, nil
	},
	Scan: func(row resource.Scanner) (model.Article, error) {
		var a model.Article
		var pdf sql.NullString
		if err := row.Scan(&a.ID, &a.Title, &a.Description, &pdf, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return a, err
		}
		a.PDFURL = util.StringPtr(pdf)
		return a, nil
	},
	ID: func(a model.Article) string { return strconv.FormatInt(a.ID, 10) },
}

func articleView() resource.View[model.Article, model.ArticleInput] {
	return resource.View[model.Article, model.ArticleInput]{
		Segment:  SegmentArticles,
		Label:    "Articles",
		Singular: "Article",
		Columns: []resource.Column[model.Article]{
			{Header: "Title", Value: func(a model.Article) string { return a.Title }},
			{Header: "PDF", Value: func(a model.Article) string { return yesNo(a.PDFURL != nil) }},
			{Header: "Updated", Value: func(a model.Article) string { return shortTime(a.UpdatedAt) }},
		},
		Title: func(a model.Article) string { return a.Title },
		Detail: func(a model.Article) []resource.Field {
			return []resource.Field{
				{Label: "Description", Kind: resource.ShowMarkdown, Value: a.Description},
				{Label: "PDF", Kind: resource.ShowLink, Value: model.Deref(a.PDFURL)},
			}
		},
		Form: []resource.FormField{
			{Name: "title", Label: "Title", Type: resource.FieldText, Required: true},
			{Name: "description", Label: "Description", Type: resource.FieldTextarea, Required: true, Help: "Markdown supported"},
			{Name: "pdf_url", Label: "PDF", Type: resource.FieldURL, Upload: string(storage.KindDocument)},
		},
		Decode: func(f url.Values) model.ArticleInput {
			return model.ArticleInput{
				Title:       f.Get("title"),
				Description: f.Get("description"),
				PDFURL:      urlField(f, "pdf_url"),
			}
		},
		Encode: func(in model.ArticleInput) url.Values {
			return url.Values{
				"title":       {in.Title},
				"description": {in.Description},
				"pdf_url":     {model.Deref(in.PDFURL)},
			}
		},
		Input: model.Article.Input,
		Uploaded: func(in model.ArticleInput) []string {
			return appendURL(nil, in.PDFURL)
		},
	}
}
