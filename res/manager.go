// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package res

import (
	"fmt"
	"sync"

	"github.com/tinygpu/rq/hal"
)

// InitStep is one piece of render-thread work that materializes a
// handle's native object. The render thread runs these in the order
// they were queued, before executing any Step that might reference the
// handle.
type InitStep func(dev Device) error

// Manager owns every resource handle's bookkeeping: allocation of IDs,
// the pending-init-step queue the emu thread fills and the render
// thread drains, and the deferred-deletion lists keyed by inflight
// frame slot ("a deleted resource's native object is kept
// alive until every frame that might still reference it has retired").
//
// Grounded on core/resource.go's Manager (ID allocation + init-step
// list) and hal/vulkan/deleter.go's per-frame deletion queues.
type Manager struct {
	mu sync.Mutex

	buffers      map[ID]*Buffer
	textures     map[ID]*Texture
	framebuffers map[ID]*Framebuffer
	shaders      map[ID]*Shader
	pipelines    map[ID]*Pipeline
	layouts      map[ID]*InputLayout

	pendingInit []InitStep

	// deleters[i] holds handles queued for deletion while frame slot i was
	// the active frame; Manager.Collect(slot) is called once that slot's
	// fence has signaled, guaranteeing no Step still in flight references
	// them.
	deleters [][]func(Device)

	sawOOM bool

	onError func(error)
}

// NewManager creates a Manager with deleter lists sized for
// inflightFrames frame slots.
func NewManager(inflightFrames int, onError func(error)) *Manager {
	m := &Manager{
		buffers:      make(map[ID]*Buffer),
		textures:     make(map[ID]*Texture),
		framebuffers: make(map[ID]*Framebuffer),
		shaders:      make(map[ID]*Shader),
		pipelines:    make(map[ID]*Pipeline),
		layouts:      make(map[ID]*InputLayout),
		deleters:     make([][]func(Device), inflightFrames),
		onError:      onError,
	}
	return m
}

// CreateBuffer allocates a Buffer handle and queues the init step that
// will materialize its native object.
func (m *Manager) CreateBuffer(size int64, usage Usage, tag string) *Buffer {
	b := &Buffer{
		Handle: Handle{ID: newID(), Kind: KindBuffer, Tag: tag},
		Size:   size,
		Usage:  usage,
	}
	m.mu.Lock()
	m.buffers[b.ID] = b
	m.pendingInit = append(m.pendingInit, func(dev Device) error {
		native, err := dev.CreateBuffer(size, usage)
		if err != nil {
			b.markFailed()
			return fmt.Errorf("res: create buffer %q: %w", tag, err)
		}
		b.markReady(native)
		return nil
	})
	m.mu.Unlock()
	return b
}

// CreateTexture allocates a Texture handle and queues its init step.
// Mip upload commands are recorded separately by package queue against
// the same handle once it is known to be ready.
func (m *Manager) CreateTexture(w, h, d, mips int, format uint32, sampler SamplerState, genMips bool, tag string) *Texture {
	t := &Texture{
		Handle:    Handle{ID: newID(), Kind: KindTexture, Tag: tag},
		Width:     w,
		Height:    h,
		Depth:     d,
		MipLevels: mips,
		Format:    format,
		Sampler:   sampler,
		GenMips:   genMips,
	}
	m.mu.Lock()
	m.textures[t.ID] = t
	m.pendingInit = append(m.pendingInit, func(dev Device) error {
		native, err := dev.CreateTexture(w, h, d, mips, format)
		if err != nil {
			t.markFailed()
			return fmt.Errorf("res: create texture %q: %w", tag, err)
		}
		t.markReady(native)
		return nil
	})
	m.mu.Unlock()
	return t
}

// CreateFramebuffer allocates a Framebuffer handle and queues its init
// step. ColorTex/DepthTex are left zero.
func (m *Manager) CreateFramebuffer(w, h, layers, samples int, colorFormat uint32, hasDS bool, tag string) *Framebuffer {
	fb := &Framebuffer{
		Handle:          Handle{ID: newID(), Kind: KindFramebuffer, Tag: tag},
		Width:           w,
		Height:          h,
		Layers:          layers,
		Samples:         samples,
		ColorFormat:     colorFormat,
		HasDepthStencil: hasDS,
	}
	m.mu.Lock()
	m.framebuffers[fb.ID] = fb
	m.pendingInit = append(m.pendingInit, func(dev Device) error {
		native, err := dev.CreateFramebuffer(w, h, layers, samples, colorFormat, hasDS)
		if err != nil {
			fb.markFailed()
			return fmt.Errorf("res: create framebuffer %q: %w", tag, err)
		}
		fb.markReady(native)
		return nil
	})
	m.mu.Unlock()
	return fb
}

// CreateShader allocates a Shader handle and queues compilation.
func (m *Manager) CreateShader(stage ShaderStage, source []byte, tag string) *Shader {
	s := &Shader{
		Handle: Handle{ID: newID(), Kind: KindShader, Tag: tag},
		Stage:  stage,
		Source: source,
	}
	m.mu.Lock()
	m.shaders[s.ID] = s
	m.pendingInit = append(m.pendingInit, func(dev Device) error {
		native, err := dev.CompileShaderModule(uint8(stage), source)
		if err != nil {
			s.markFailed()
			return fmt.Errorf("res: compile shader %q: %w", tag, err)
		}
		s.markReady(native)
		return nil
	})
	m.mu.Unlock()
	return s
}

// CreateInputLayout allocates an InputLayout handle. Input layouts have
// no native object of their own (backends consume the Go struct
// directly when building a pipeline variant), so no init step is queued
// and the handle is ready immediately.
func (m *Manager) CreateInputLayout(stride int, attrs []VertexAttr, tag string) *InputLayout {
	l := &InputLayout{
		Handle: Handle{ID: newID(), Kind: KindInputLayout, Tag: tag, state: stateReady},
		Stride: stride,
		Attrs:  attrs,
	}
	m.mu.Lock()
	m.layouts[l.ID] = l
	m.mu.Unlock()
	return l
}

// CreatePipeline allocates a logical Pipeline handle. Like InputLayout,
// it is immediately "ready" from the emu thread's point of view: actual
// native variant compilation happens lazily per (RenderPassType, sample
// count) in package pipeline, the first time a step needs it.
func (m *Manager) CreatePipeline(desc PipelineDesc, tag string) *Pipeline {
	p := &Pipeline{
		Handle: Handle{ID: newID(), Kind: KindPipeline, Tag: tag, state: stateReady},
		Desc:   desc,
	}
	m.mu.Lock()
	m.pipelines[p.ID] = p
	m.mu.Unlock()
	return p
}

// Buffer looks up a previously created buffer handle by ID, for a
// backend Executor to resolve a queue.Command's resource references
// into native objects.
func (m *Manager) Buffer(id ID) *Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffers[id]
}

// Texture looks up a previously created texture handle by ID.
func (m *Manager) Texture(id ID) *Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.textures[id]
}

// Framebuffer looks up a previously created framebuffer handle by ID.
func (m *Manager) Framebuffer(id ID) *Framebuffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.framebuffers[id]
}

// Shader looks up a previously created shader handle by ID.
func (m *Manager) Shader(id ID) *Shader {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shaders[id]
}

// Pipeline looks up a previously created logical pipeline handle by ID.
func (m *Manager) Pipeline(id ID) *Pipeline {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipelines[id]
}

// InputLayout looks up a previously created input layout handle by ID.
func (m *Manager) InputLayout(id ID) *InputLayout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layouts[id]
}

// DrainInit removes and returns every pending init step, for the render
// thread to execute in order. Called once per frame before running that
// frame's Steps.
func (m *Manager) DrainInit() []InitStep {
	m.mu.Lock()
	defer m.mu.Unlock()
	steps := m.pendingInit
	m.pendingInit = nil
	return steps
}

// RunInit executes every pending init step against dev, logging and
// continuing past individual failures (a failed resource is marked
// Failed and later steps referencing it are skipped by the runner,
// rather than aborting the whole frame).
func (m *Manager) RunInit(dev Device) {
	for _, step := range m.DrainInit() {
		if err := step(dev); err != nil {
			hal.Logger().Warn("resource init step failed", "error", err)
			if m.onError != nil {
				m.onError(err)
			}
		}
	}
}

// QueueDelete marks a handle for deletion once frame slot `slot`'s fence
// has signaled. fn receives the Device so it can release the native
// object through the same interface that created it.
func (m *Manager) QueueDelete(slot int, fn func(Device)) {
	m.mu.Lock()
	m.deleters[slot] = append(m.deleters[slot], fn)
	m.mu.Unlock()
}

// Collect runs and clears every deleter queued against frame slot
// `slot`; the caller must only invoke this after that slot's fence has
// signaled.
func (m *Manager) Collect(slot int, dev Device) {
	m.mu.Lock()
	pending := m.deleters[slot]
	m.deleters[slot] = nil
	m.mu.Unlock()
	for _, fn := range pending {
		fn(dev)
	}
}

// SawOutOfMemory reports whether any upload has hit OutOfMemoryOnUpload
// since the last call to ClearOutOfMemory. Consumers (e.g. a texture
// scaler/cache) use this as a signal to shed cached data and retry
// smaller.
func (m *Manager) SawOutOfMemory() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sawOOM
}

// ClearOutOfMemory resets the sticky out-of-memory flag, typically after
// the caller has freed memory and intends to retry.
func (m *Manager) ClearOutOfMemory() {
	m.mu.Lock()
	m.sawOOM = false
	m.mu.Unlock()
}

// ReportOutOfMemory implements the Device callback surface consumers use
// to notify Manager directly (wired from backend Device implementations).
func (m *Manager) ReportOutOfMemory() {
	m.mu.Lock()
	m.sawOOM = true
	m.mu.Unlock()
}
