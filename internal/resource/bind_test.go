// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/contentdesk/internal/model"
)

func TestBind_FormLifecycle(t *testing.T) {
	res := Bind(newArticleRepo(t), articleView(), nil)
	ctx := context.Background()

	assert.Equal(t, "articles", res.Segment())
	assert.Equal(t, "article", res.Entity())

	blank := url.Values{"title": {" "}, "description": {"d"}}
	assert.Equal(t, map[string]string{"title": "Title is required"}, FieldErrors(res.Check(blank)))

	form := url.Values{"title": {"Q1 Report"}, "description": {"Summary text"}, "pdf_url": {"http://cdn/q1.pdf"}}
	require.NoError(t, res.Check(form))
	assert.Equal(t, []string{"http://cdn/q1.pdf"}, res.Uploaded(form))

	id, err := res.Create(ctx, form)
	require.NoError(t, err)

	d, err := res.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, d.ID)
	assert.Equal(t, "Q1 Report", d.Title)
	assert.Equal(t, "http://cdn/q1.pdf", d.Values.Get("pdf_url"))
	assert.False(t, d.CreatedAt.IsZero())

	l, err := res.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Title"}, l.Headers)
	require.Len(t, l.Rows, 1)
	assert.Equal(t, Row{ID: id, Cells: []string{"Q1 Report"}}, l.Rows[0])
	assert.Equal(t, 1, l.Pages)

	_, err = res.Update(ctx, id, url.Values{"title": {"Q1"}, "description": {"d"}})
	require.NoError(t, err)
	d, err = res.Find(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, d.Values.Get("pdf_url"))

	require.NoError(t, res.Delete(ctx, id))
	_, err = res.Find(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBind_PublicReads(t *testing.T) {
	repo := newArticleRepo(t)
	res := Bind(repo, articleView(), nil)
	ctx := context.Background()

	for range 3 {
		_, err := repo.Create(ctx, model.ArticleInput{Title: "t", Description: "d"})
		require.NoError(t, err)
	}

	rows, meta, err := res.PublicList(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, Meta{Total: 3, Index: 1, Size: 2, Pages: 2}, meta)

	_, err = res.PublicGet(ctx, "12345")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry(t *testing.T) {
	a := Bind(newArticleRepo(t), articleView(), nil)
	reg := NewRegistry(a, a)

	assert.Len(t, reg.All(), 1)
	got, ok := reg.Get("articles")
	assert.True(t, ok)
	assert.Equal(t, a, got)
	_, ok = reg.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, a, reg.Default())
	assert.Nil(t, NewRegistry().Default())
}

func TestPage_Pages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		p := Page[int]{Total: tt.total, Size: tt.size}
		if got := p.Pages(); got != tt.want {
			t.Errorf("Pages(total=%d, size=%d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}
