// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package res implements the lazily-created GPU resource handles: buffers, textures, framebuffers, shaders,
// pipelines, and input layouts. A handle is created on the emu thread but
// its native object is only materialized by an init step that the
// Manager queues for the render thread; using a handle before
// materialization is a programmer error, since the render thread is
// trusted to issue coherent commands.
//
// Grounded on core/resource.go's handle/ID pattern and
// hal/vulkan/resource.go's deferred-native-creation shape.
package res

import "sync/atomic"

// ID is an opaque, pointer-sized resource identity. Zero is never a
// valid ID.
type ID uint64

var nextID atomic.Uint64

func newID() ID {
	return ID(nextID.Add(1))
}

// Aspect selects which part of a framebuffer/texture an operation
// targets.
type Aspect uint8

const (
	AspectColor Aspect = iota
	AspectDepth
	AspectStencil
	AspectDepthStencil
)

// Kind tags what sort of resource a handle refers to.
type Kind uint8

const (
	KindBuffer Kind = iota
	KindTexture
	KindFramebuffer
	KindShader
	KindPipeline
	KindInputLayout
)

// state tracks a handle's materialization status. Native objects are
// created by an init step on the render thread; until that runs, any use
// of the handle besides recording more commands is a programmer error.
type state uint8

const (
	statePending state = iota
	stateReady
	stateFailed
)

// Handle is the common header embedded in every concrete resource type.
type Handle struct {
	ID    ID
	Kind  Kind
	Tag   string
	state state
	// Native is filled in by the render thread when the init step runs.
	// It is a sentinel (nil) until then; backends type-assert it to their
	// concrete native type.
	Native any
}

// Ready reports whether the native object has been materialized.
func (h *Handle) Ready() bool { return h.state == stateReady }

// Failed reports whether materialization was attempted and failed:
// downstream consumers treat this as "skip draw".
func (h *Handle) Failed() bool { return h.state == stateFailed }

func (h *Handle) markReady(native any) {
	h.Native = native
	h.state = stateReady
}

func (h *Handle) markFailed() {
	h.state = stateFailed
}
