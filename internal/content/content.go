// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content declares the four dashboard entities on top of the
// generic resource layer.
package content

import (
	"time"

	"github.com/olegiv/contentdesk/internal/cache"
	"github.com/olegiv/contentdesk/internal/resource"
	"github.com/olegiv/contentdesk/internal/store"
)

// Route segments of the content entities.
const (
	SegmentArticles    = "articles"
	SegmentEvents      = "events"
	SegmentIRMaterials = "ir-materials"
	SegmentPressMedia  = "press-media"
)

// Options wires the content registry.
type Options struct {
	DB        store.DBTX
	Validator *resource.Validator // nil creates one
	Observer  resource.Observer   // optional mutation metrics

	// Cache backs public reads for TTL. Nil serves public reads from the store.
	Cache cache.Cacher
	TTL   time.Duration
}

// New builds the registry of content resources in tab order.
func New(opts Options) *resource.Registry {
	if opts.Validator == nil {
		opts.Validator = resource.NewValidator()
	}
	return resource.NewRegistry(
		bind(opts, articleSchema, articleView()),
		bind(opts, eventSchema, eventView()),
		bind(opts, irMaterialSchema, irMaterialView()),
		bind(opts, pressMediaSchema, pressMediaView()),
	)
}

func bind[R any, I resource.Input[I]](opts Options, schema resource.Schema[R, I], view resource.View[R, I]) resource.Resource {
	repo := resource.NewRepository(opts.DB, schema, opts.Validator)
	if opts.Observer != nil {
		repo.SetObserver(opts.Observer)
	}
	if opts.Cache == nil {
		return resource.Bind(repo, view, nil)
	}
	return resource.Bind(repo, view, resource.NewCachedReader(repo, opts.Cache, opts.TTL))
}
