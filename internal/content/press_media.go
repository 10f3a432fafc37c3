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

var pressMediaSchema = resource.Schema[model.PressMedia, model.PressMediaInput]{
	Entity:  "press media",
	Table:   "press_media",
	IDKind:  resource.UUIDv7ID,
	Columns: []string{"title", "content", "image_url", "file_url", "published_date", "is_featured", "display_order"},
	Values: func(in model.PressMediaInput) ([]any, error) {
		return []any{
			in.Title, in.Content, in.ImageURL, in.FileURL, in.PublishedDate, in.IsFeatured, in.DisplayOrder,
		}, nil
	},
	Scan: func(row resource.Scanner) (model.PressMedia, error) {
		var p model.PressMedia
		var image, file sql.NullString
		if err := row.Scan(&p.ID, &p.Title, &p.Content, &image, &file, &p.PublishedDate,
			&p.IsFeatured, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return p, err
		}
		p.ImageURL = util.StringPtr(image)
		p.FileURL = util.StringPtr(file)
		return p, nil
	},
	ID: func(p model.PressMedia) string { return p.ID },
}

func pressMediaView() resource.View[model.PressMedia, model.PressMediaInput] {
	return resource.View[model.PressMedia, model.PressMediaInput]{
		Segment:  SegmentPressMedia,
		Label:    "Press media",
		Singular: "Press item",
		Columns: []resource.Column[model.PressMedia]{
			{Header: "Title", Value: func(p model.PressMedia) string { return p.Title }},
			{Header: "Published date", Value: func(p model.PressMedia) string { return p.PublishedDate }},
			{Header: "Featured", Value: func(p model.PressMedia) string { return yesNo(p.IsFeatured) }},
			{Header: "Order", Value: func(p model.PressMedia) string { return strconv.FormatInt(p.DisplayOrder, 10) }},
		},
		Title: func(p model.PressMedia) string { return p.Title },
		Detail: func(p model.PressMedia) []resource.Field {
			return []resource.Field{
				{Label: "Content", Kind: resource.ShowMarkdown, Value: p.Content},
				{Label: "Image", Kind: resource.ShowLink, Value: model.Deref(p.ImageURL)},
				{Label: "File", Kind: resource.ShowLink, Value: model.Deref(p.FileURL)},
				{Label: "Published date", Kind: resource.ShowText, Value: p.PublishedDate},
				{Label: "Featured", Kind: resource.ShowBool, Value: p.IsFeatured},
				{Label: "Display order", Kind: resource.ShowText, Value: strconv.FormatInt(p.DisplayOrder, 10)},
			}
		},
		Form: []resource.FormField{
			{Name: "title", Label: "Title", Type: resource.FieldText, Required: true},
			{Name: "content", Label: "Content", Type: resource.FieldTextarea, Required: true, Help: "Markdown supported"},
			{Name: "image_url", Label: "Image", Type: resource.FieldURL, Upload: string(storage.KindPhoto)},
			{Name: "file_url", Label: "File", Type: resource.FieldURL, Upload: string(storage.KindDocument)},
			{Name: "published_date", Label: "Published date", Type: resource.FieldDate, Required: true},
			{Name: "is_featured", Label: "Featured", Type: resource.FieldCheckbox},
			{Name: "display_order", Label: "Display order", Type: resource.FieldNumber, Help: "Lower numbers are shown first"},
		},
		Decode: func(f url.Values) model.PressMediaInput {
			return model.PressMediaInput{
				Title:         f.Get("title"),
				Content:       f.Get("content"),
				ImageURL:      urlField(f, "image_url"),
				FileURL:       urlField(f, "file_url"),
				PublishedDate: f.Get("published_date"),
				IsFeatured:    checkbox(f, "is_featured"),
				DisplayOrder:  integer(f, "display_order"),
			}
		},
		Encode: func(in model.PressMediaInput) url.Values {
			v := url.Values{
				"title":          {in.Title},
				"content":        {in.Content},
				"image_url":      {model.Deref(in.ImageURL)},
				"file_url":       {model.Deref(in.FileURL)},
				"published_date": {in.PublishedDate},
				"display_order":  {strconv.FormatInt(in.DisplayOrder, 10)},
			}
			if in.IsFeatured {
				v.Set("is_featured", "1")
			}
			return v
		},
		Input: model.PressMedia.Input,
		Uploaded: func(in model.PressMediaInput) []string {
			return appendURL(appendURL(nil, in.ImageURL), in.FileURL)
		},
	}
}
