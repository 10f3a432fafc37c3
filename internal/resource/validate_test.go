// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/contentdesk/internal/model"
)

func TestValidator_FieldKeyedErrors(t *testing.T) {
	v := NewValidator()
	negative := int64(-1)

	tests := []struct {
		name string
		in   any
		want map[string]string
	}{
		{
			name: "article missing both",
			in:   model.ArticleInput{},
			want: map[string]string{"title": "Title is required", "description": "Description is required"},
		},
		{
			name: "article only description missing",
			in:   model.ArticleInput{Title: "Q1"},
			want: map[string]string{"description": "Description is required"},
		},
		{
			name: "press date missing",
			in:   model.PressMediaInput{Title: "t", Content: "c"},
			want: map[string]string{"published_date": "Published date is required"},
		},
		{
			name: "event person without name",
			in: model.EventInput{
				Title: "t", Description: "d",
				People: []model.Person{{Name: "Ada"}, {Title: "CTO"}},
			},
			want: map[string]string{"people.1.name": "Name is required"},
		},
		{
			name: "ir negative size",
			in:   model.IRMaterialInput{Title: "t", FileSize: &negative},
			want: map[string]string{"file_size": "File size must be at least 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := FieldErrors(v.Struct(tt.in))
			assert.Equal(t, tt.want, fields)
		})
	}
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Struct(model.ArticleInput{Title: "Q1 Report", Description: "Summary text"}))
	require.NoError(t, v.Struct(model.IRMaterialInput{Title: "t", PublishedDate: model.Str("2026-01-31")}))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"title": "x", "content": "y"}}
	assert.Equal(t, "validation failed: content, title", err.Error())
	assert.Nil(t, FieldErrors(ErrNotFound))
}

func TestFieldKey(t *testing.T) {
	tests := map[string]string{
		"ArticleInput.title":          "title",
		"EventInput.people[3].name":   "people.3.name",
		"EventInput.people[10].title": "people.10.title",
	}
	for in, want := range tests {
		if got := fieldKey(in); got != want {
			t.Errorf("fieldKey(%q) = %q, want %q", in, got, want)
		}
	}
}
