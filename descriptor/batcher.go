// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package descriptor implements per-frame descriptor-set batching:
// rather than allocating and writing one set per draw, identical
// consecutive binds are deduplicated and sets are allocated from a
// pool in fixed-size groups, amortizing the pool-allocation call over
// many draws.
//
// Grounded on hal/vulkan/descriptor.go's DescriptorAllocator (pool
// growth by a fixed factor, tracked via mutex-protected counters).
package descriptor

import "sync"

// groupSize is how many sets are requested from the pool at once.
const groupSize = 8

// Binding is the backend-agnostic description of one descriptor set's
// contents: buffer/texture/sampler bindings, keyed by slot.
type Binding struct {
	Slot     int
	Buffer   any // backend native buffer handle, or nil
	Texture  any // backend native image view handle, or nil
	Sampler  any // backend native sampler handle, or nil
}

// Set is a batch key: the pipeline layout plus its resolved bindings.
// Two draws with identical Sets can share one native descriptor set.
type Set struct {
	Layout   any // backend native pipeline-layout handle
	Bindings []Binding
}

func (s Set) equal(o Set) bool {
	if s.Layout != o.Layout || len(s.Bindings) != len(o.Bindings) {
		return false
	}
	for i := range s.Bindings {
		if s.Bindings[i] != o.Bindings[i] {
			return false
		}
	}
	return true
}

// Pool allocates native descriptor sets from the backend in groups,
// handing them out from Batcher as needed and growing when exhausted.
type Pool interface {
	// AllocGroup returns groupSize freshly allocated native descriptor
	// set handles for the given layout.
	AllocGroup(layout any, count int) ([]any, error)
	// Write populates a native set's bindings.
	Write(native any, bindings []Binding)
}

// Batcher hands out native descriptor sets for a frame, deduplicating
// consecutive identical requests and drawing from Pool in batches.
type Batcher struct {
	mu   sync.Mutex
	pool Pool

	lastSet    Set
	lastNative any
	hasLast    bool

	free map[any][]any // layout -> spare pre-allocated native sets
}

// NewBatcher creates a Batcher drawing from pool.
func NewBatcher(pool Pool) *Batcher {
	return &Batcher{pool: pool, free: make(map[any][]any)}
}

// Reset clears the dedup window; call once per frame before recording
// begins, since a set reused across frames would alias a description
// from a prior frame's resources.
func (b *Batcher) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hasLast = false
	b.free = make(map[any][]any)
}

// Get returns a native descriptor set matching set, reusing the
// immediately prior request if it is identical (the common case: a
// material drawn across several consecutive meshes binds the same
// textures every time), otherwise drawing a fresh one from the pool's
// free list, refilling the free list in groupSize batches when empty.
func (b *Batcher) Get(set Set) (native any, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.hasLast && b.lastSet.equal(set) {
		return b.lastNative, nil
	}

	free := b.free[set.Layout]
	if len(free) == 0 {
		fresh, err := b.pool.AllocGroup(set.Layout, groupSize)
		if err != nil {
			return nil, err
		}
		free = fresh
	}
	native = free[len(free)-1]
	b.free[set.Layout] = free[:len(free)-1]

	b.pool.Write(native, set.Bindings)
	b.lastSet, b.lastNative, b.hasLast = set, native, true
	return native, nil
}
