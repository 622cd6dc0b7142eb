// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import "github.com/tinygpu/rq/descriptor"

// glBindSet is the native object behind a descriptor.Set on GL: there is
// no real descriptor-set object on this backend, binding is always
// direct (glBindBufferBase / glBindTexture at draw time), so the "pool"
// only needs to hand back a place to stash the resolved bindings for
// Executor.ExecuteCommand to apply.
type glBindSet struct {
	bindings []descriptor.Binding
}

// Pool implements descriptor.Pool for GL. It exists purely so package
// descriptor's batching/dedup logic is exercised uniformly
// across backends; GL itself never allocates a native descriptor object.
type Pool struct{}

func (p *Pool) AllocGroup(layout any, count int) ([]any, error) {
	out := make([]any, count)
	for i := range out {
		out[i] = &glBindSet{}
	}
	return out, nil
}

func (p *Pool) Write(native any, bindings []descriptor.Binding) {
	native.(*glBindSet).bindings = bindings
}
