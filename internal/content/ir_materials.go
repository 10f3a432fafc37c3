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

var irMaterialSchema = resource.Schema[model.IRMaterial, model.IRMaterialInput]{
	Entity: "ir material",
	Table:  "ir_materials",
	Columns: []string{
		"title", "description", "file_url", "file_name", "file_type", "file_size",
		"category", "published_date", "is_published",
	},
	Values: func(in model.IRMaterialInput) ([]any, error) {
		return []any{
			in.Title, in.Description, in.FileURL, in.FileName, in.FileType, in.FileSize,
			in.Category, in.PublishedDate, in.IsPublished,
		}, nil
	},
	Scan: func(row resource.Scanner) (model.IRMaterial, error) {
		var m model.IRMaterial
		var desc, fileURL, fileName, fileType, category, published sql.NullString
		var size sql.NullInt64
		if err := row.Scan(&m.ID, &m.Title, &desc, &fileURL, &fileName, &fileType, &size,
			&category, &published, &m.IsPublished, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return m, err
		}
		m.Description = util.StringPtr(desc)
		m.FileURL = util.StringPtr(fileURL)
		m.FileName = util.StringPtr(fileName)
		m.FileType = util.StringPtr(fileType)
		m.FileSize = util.Int64Ptr(size)
		m.Category = util.StringPtr(category)
		m.PublishedDate = util.StringPtr(published)
		return m, nil
	},
	ID: func(m model.IRMaterial) string { return strconv.FormatInt(m.ID, 10) },
}

// decodeIRMaterial fills file name, type and size from an attached upload
// when the operator left them blank.
func decodeIRMaterial(f url.Values) model.IRMaterialInput {
	in := model.IRMaterialInput{
		Title:         f.Get("title"),
		Description:   optional(f, "description"),
		FileURL:       urlField(f, "file_url"),
		FileName:      optional(f, "file_name"),
		FileType:      optional(f, "file_type"),
		FileSize:      optionalInt(f, "file_size"),
		Category:      optional(f, "category"),
		PublishedDate: optional(f, "published_date"),
		IsPublished:   checkbox(f, "is_published"),
	}

	if f.Get("file_url"+UploadSuffix) != "" {
		if in.FileName == nil {
			in.FileName = optional(f, "file_url"+UploadSuffix+"_name")
		}
		if in.FileType == nil {
			in.FileType = optional(f, "file_url"+UploadSuffix+"_type")
		}
		if in.FileSize == nil {
			in.FileSize = optionalInt(f, "file_url"+UploadSuffix+"_size")
		}
	}
	return in
}

func irMaterialView() resource.View[model.IRMaterial, model.IRMaterialInput] {
	return resource.View[model.IRMaterial, model.IRMaterialInput]{
		Segment:  SegmentIRMaterials,
		Label:    "IR materials",
		Singular: "IR material",
		Columns: []resource.Column[model.IRMaterial]{
			{Header: "Title", Value: func(m model.IRMaterial) string { return m.Title }},
			{Header: "Category", Value: func(m model.IRMaterial) string { return orDash(m.Category) }},
			{Header: "Published date", Value: func(m model.IRMaterial) string { return orDash(m.PublishedDate) }},
			{Header: "Published", Value: func(m model.IRMaterial) string { return yesNo(m.IsPublished) }},
		},
		Title: func(m model.IRMaterial) string { return m.Title },
		Detail: func(m model.IRMaterial) []resource.Field {
			return []resource.Field{
				{Label: "Description", Kind: resource.ShowMarkdown, Value: model.Deref(m.Description)},
				{Label: "File", Kind: resource.ShowLink, Value: model.Deref(m.FileURL)},
				{Label: "File name", Kind: resource.ShowText, Value: model.Deref(m.FileName)},
				{Label: "File type", Kind: resource.ShowText, Value: model.Deref(m.FileType)},
				{Label: "File size", Kind: resource.ShowText, Value: formatInt(m.FileSize)},
				{Label: "Category", Kind: resource.ShowText, Value: model.Deref(m.Category)},
				{Label: "Published date", Kind: resource.ShowText, Value: model.Deref(m.PublishedDate)},
				{Label: "Published", Kind: resource.ShowBool, Value: m.IsPublished},
			}
		},
		Form: []resource.FormField{
			{Name: "title", Label: "Title", Type: resource.FieldText, Required: true},
			{Name: "description", Label: "Description", Type: resource.FieldTextarea, Help: "Markdown supported"},
			{
				Name: "file_url", Label: "File", Type: resource.FieldURL, Upload: string(storage.KindDocument),
				Help: "Files up to 500MB can be linked by URL",
			},
			{Name: "file_name", Label: "File name", Type: resource.FieldText},
			{Name: "file_type", Label: "File type", Type: resource.FieldText},
			{Name: "file_size", Label: "File size (bytes)", Type: resource.FieldNumber},
			{Name: "category", Label: "Category", Type: resource.FieldText},
			{Name: "published_date", Label: "Published date", Type: resource.FieldDate},
			{Name: "is_published", Label: "Published", Type: resource.FieldCheckbox},
		},
		Decode: decodeIRMaterial,
		Encode: func(in model.IRMaterialInput) url.Values {
			v := url.Values{
				"title":          {in.Title},
				"description":    {model.Deref(in.Description)},
				"file_url":       {model.Deref(in.FileURL)},
				"file_name":      {model.Deref(in.FileName)},
				"file_type":      {model.Deref(in.FileType)},
				"file_size":      {formatInt(in.FileSize)},
				"category":       {model.Deref(in.Category)},
				"published_date": {model.Deref(in.PublishedDate)},
			}
			if in.IsPublished {
				v.Set("is_published", "1")
			}
			return v
		},
		Input: model.IRMaterial.Input,
		Uploaded: func(in model.IRMaterialInput) []string {
			return appendURL(nil, in.FileURL)
		},
	}
}
