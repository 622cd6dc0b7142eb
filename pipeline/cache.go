// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package pipeline implements the pipeline variant cache and background
// compiler pool: a logical res.Pipeline may need a
// distinct native variant per (RenderPassType, sample count) pair it is
// ever used against, compiled lazily off the render thread's critical
// path and awaited through a promise the first step that needs it
// blocks on.
//
// Grounded on hal/vulkan/pipeline.go's native pipeline creation shape
// and hal/vulkan/renderpass.go's RenderPassCache key/lookup pattern.
package pipeline

import (
	"sync"

	"github.com/tinygpu/rq/queue"
	"github.com/tinygpu/rq/res"
)

// Key identifies one compiled pipeline variant: the logical pipeline's
// two shader ids and input layout plus the render-pass-type/sample-count
// axis that a native graphics pipeline object is bound to.
type Key struct {
	VertexShader   res.ID
	FragmentShader res.ID
	InputLayout    res.ID
	HWTransform    bool
	Raster         res.RasterState
	RPType         queue.RenderPassType
	SampleCount    int
}

// Compiler is implemented by a backend to turn a Key plus the pipeline's
// full description into a native pipeline object.
type Compiler interface {
	CompilePipeline(key Key, desc res.PipelineDesc) (native any, err error)
}

// slot holds one variant's compile result: either still pending (done
// not yet closed) or resolved.
type slot struct {
	done   chan struct{}
	native any
	err    error
}

// Cache maps Keys to compiled native pipeline variants, compiling on
// first use and serving every later lookup for the same Key instantly.
type Cache struct {
	mu      sync.Mutex
	slots   map[Key]*slot
	compile Compiler
	jobs    chan compileJob
}

type compileJob struct {
	key  Key
	desc res.PipelineDesc
	s    *slot
}

// NewCache creates a Cache with workerCount background compile
// goroutines draining a shared job queue. workerCount <= 0 falls back to 1.
func NewCache(compile Compiler, workerCount int) *Cache {
	if workerCount <= 0 {
		workerCount = 1
	}
	c := &Cache{
		slots:   make(map[Key]*slot),
		compile: compile,
		jobs:    make(chan compileJob, 64),
	}
	for i := 0; i < workerCount; i++ {
		go c.worker()
	}
	return c
}

func (c *Cache) worker() {
	for job := range c.jobs {
		native, err := c.compile.CompilePipeline(job.key, job.desc)
		job.s.native, job.s.err = native, err
		close(job.s.done)
	}
}

// GetOrCompile returns the slot for key, starting a background compile
// if this is the first request for it. It does not wait for the compile,
// but blocks while the buffered job queue is full; use Await on the
// returned handle to block until ready.
func (c *Cache) GetOrCompile(key Key, desc res.PipelineDesc) *Handle {
	c.mu.Lock()
	s, ok := c.slots[key]
	if !ok {
		s = &slot{done: make(chan struct{})}
		c.slots[key] = s
		c.mu.Unlock()
		c.jobs <- compileJob{key: key, desc: desc, s: s}
	} else {
		c.mu.Unlock()
	}
	return &Handle{s: s}
}

// Peek returns the variant for key if it has already finished
// compiling, without blocking; ok is false if it's still pending or has
// never been requested.
func (c *Cache) Peek(key Key) (native any, ok bool) {
	c.mu.Lock()
	s, exists := c.slots[key]
	c.mu.Unlock()
	if !exists {
		return nil, false
	}
	select {
	case <-s.done:
		return s.native, s.err == nil
	default:
		return nil, false
	}
}

// Handle is an awaitable reference to one compile-in-progress variant.
type Handle struct{ s *slot }

// Await blocks until the variant finishes compiling.
func (h *Handle) Await() (native any, err error) {
	<-h.s.done
	return h.s.native, h.s.err
}

// Ready reports whether Await would return immediately.
func (h *Handle) Ready() bool {
	select {
	case <-h.s.done:
		return true
	default:
		return false
	}
}
