// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/olegiv/contentdesk/internal/cache"
)

// Reader is the read side of a Repository.
type Reader[R any] interface {
	Get(ctx context.Context, id string) (R, error)
	List(ctx context.Context, index, size int) (Page[R], error)
}

// CachedReader serves reads from a cache for at most the configured
// freshness window. Mutations on the source repository bump a per-entity
// generation number that is part of every key, so the next read refetches.
type CachedReader[R any] struct {
	src    Reader[R]
	entity string
	cache  cache.Cacher
	pages  *cache.TypedCache[Page[R]]
	items  *cache.TypedCache[R]
}

// NewCachedReader wraps repo and subscribes to its mutations.
func NewCachedReader[R any, I Input[I]](repo *Repository[R, I], c cache.Cacher, ttl time.Duration) *CachedReader[R] {
	cr := &CachedReader[R]{
		src:    repo,
		entity: repo.Entity(),
		cache:  c,
		pages:  cache.NewTypedCache[Page[R]](c, ttl),
		items:  cache.NewTypedCache[R](c, ttl),
	}
	repo.OnChange(func(ctx context.Context, _ string) { cr.Invalidate(ctx) })
	return cr
}

// Get returns one record. Not-found results are never cached.
func (c *CachedReader[R]) Get(ctx context.Context, id string) (R, error) {
	key := fmt.Sprintf("%s:g%d:get:%s", c.entity, c.generation(ctx), id)
	return c.items.GetOrSet(ctx, key, func() (R, error) {
		return c.src.Get(ctx, id)
	})
}

// List returns one page.
func (c *CachedReader[R]) List(ctx context.Context, index, size int) (Page[R], error) {
	index, size = Normalize(index, size)
	key := fmt.Sprintf("%s:g%d:list:%d:%d", c.entity, c.generation(ctx), index, size)
	return c.pages.GetOrSet(ctx, key, func() (Page[R], error) {
		return c.src.List(ctx, index, size)
	})
}

// Invalidate makes every cached entry of the entity unreachable.
func (c *CachedReader[R]) Invalidate(ctx context.Context) {
	_, _ = c.cache.Incr(ctx, c.genKey())
}

func (c *CachedReader[R]) genKey() string {
	return "gen:" + c.entity
}

// generation returns 0 when the counter is missing or unreadable.
func (c *CachedReader[R]) generation(ctx context.Context) int64 {
	data, err := c.cache.Get(ctx, c.genKey())
	if err != nil {
		return 0
	}
	n, _ := strconv.ParseInt(string(data), 10, 64)
	return n
}
