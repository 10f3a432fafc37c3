// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/contentdesk/internal/cache"
	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/testutil"
)

func newCachedFixture(t *testing.T) (*Repository[model.Article, model.ArticleInput], *CachedReader[model.Article], *cache.MemoryCache) {
	t.Helper()
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mc.Close() })

	repo := NewRepository(testutil.TestDB(t), articleSchema(), nil)
	return repo, NewCachedReader(repo, mc, 30*time.Second), mc
}

func TestCachedReader_ServesFromCache(t *testing.T) {
	repo, cr, mc := newCachedFixture(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, model.ArticleInput{Title: "one", Description: "d"})
	require.NoError(t, err)

	first, err := cr.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, first.Rows, 1)

	before := mc.Stats().Hits
	again, err := cr.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, first.Total, again.Total)
	assert.Greater(t, mc.Stats().Hits, before)
}

func TestCachedReader_InvalidatedByMutation(t *testing.T) {
	repo, cr, _ := newCachedFixture(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, model.ArticleInput{Title: "before", Description: "d"})
	require.NoError(t, err)
	id := strconv.FormatInt(a.ID, 10)

	got, err := cr.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "before", got.Title)

	_, err = repo.Update(ctx, id, model.ArticleInput{Title: "after", Description: "d"})
	require.NoError(t, err)

	got, err = cr.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = cr.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	page, err := cr.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestCachedReader_NormalizesPageKey(t *testing.T) {
	repo, cr, mc := newCachedFixture(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, model.ArticleInput{Title: "one", Description: "d"})
	require.NoError(t, err)

	_, err = cr.List(ctx, -1, 0)
	require.NoError(t, err)
	before := mc.Stats().Hits
	_, err = cr.List(ctx, 0, DefaultPageSize)
	require.NoError(t, err)
	assert.Greater(t, mc.Stats().Hits, before, "equivalent requests share a key")
}
