// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

// Registry holds resources in declaration order and indexes them by segment.
type Registry struct {
	order     []Resource
	bySegment map[string]Resource
}

// NewRegistry creates a registry from rs. Later duplicates of a segment are
// ignored.
func NewRegistry(rs ...Resource) *Registry {
	reg := &Registry{bySegment: make(map[string]Resource, len(rs))}
	for _, r := range rs {
		if _, dup := reg.bySegment[r.Segment()]; dup {
			continue
		}
		reg.order = append(reg.order, r)
		reg.bySegment[r.Segment()] = r
	}
	return reg
}

// Get returns the resource served under segment.
func (reg *Registry) Get(segment string) (Resource, bool) {
	r, ok := reg.bySegment[segment]
	return r, ok
}

// All returns resources in declaration order.
func (reg *Registry) All() []Resource {
	return reg.order
}

// Default returns the first registered resource, or nil.
func (reg *Registry) Default() Resource {
	if len(reg.order) == 0 {
		return nil
	}
	return reg.order[0]
}
