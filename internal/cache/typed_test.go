// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"log/slog"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	URL   *string `json:"url"`
}

func TestTypedCache_GetOrSet(t *testing.T) {
	mc := newTestMemoryCache(t, MemoryCacheOptions{DefaultTTL: time.Minute})
	tc := NewTypedCache[[]testItem](mc, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func() ([]testItem, error) {
		calls++
		return []testItem{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}}, nil
	}

	first, err := tc.GetOrSet(ctx, "list", load)
	require.NoError(t, err)
	second, err := tc.GetOrSet(ctx, "list", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "loader should run once")
	assert.Equal(t, first, second)
	assert.Nil(t, second[0].URL)
}

func TestTypedCache_LoaderErrorNotCached(t *testing.T) {
	mc := newTestMemoryCache(t, MemoryCacheOptions{DefaultTTL: time.Minute})
	tc := NewTypedCache[testItem](mc, time.Minute)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := tc.GetOrSet(ctx, "k", func() (testItem, error) { return testItem{}, boom })
	require.ErrorIs(t, err, boom)

	_, ok := tc.Get(ctx, "k")
	assert.False(t, ok)
}

func TestTypedCache_UndecodableIsMiss(t *testing.T) {
	mc := newTestMemoryCache(t, MemoryCacheOptions{DefaultTTL: time.Minute})
	tc := NewTypedCache[testItem](mc, time.Minute)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("{not json"), 0))
	_, ok := tc.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNew_FallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, backend := New(Config{DefaultTTL: time.Second}, logger)
	t.Cleanup(func() { _ = c.Close() })
	assert.Equal(t, BackendMemory, backend)

	bad, backend := New(Config{RedisURL: "redis://127.0.0.1:1/0", DefaultTTL: time.Second}, logger)
	t.Cleanup(func() { _ = bad.Close() })
	assert.Equal(t, BackendMemory, backend)
}
