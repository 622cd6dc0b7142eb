// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package push implements per-frame linear allocators ("push buffers")
// used for transient vertex, index, uniform, and staging uploads. A push
// buffer never aliases data across frames: Begin resets the cursor (and
// may defragment), Push/PushAligned hand out offsets within the current
// chunk, and End flushes or unmaps depending on the chosen Strategy.
//
// Grounded on hal/vulkan/memory's allocator pool/block model,
// simplified to a single-cursor-per-chunk shape: a push buffer is a
// per-frame linear region, not a general suballocator.
package push

import (
	"errors"
	"fmt"

	"github.com/tinygpu/rq/caps"
)

// ErrAllocationFailed is returned (and also reported through the error
// callback) when the backend cannot allocate a new chunk.
var ErrAllocationFailed = errors.New("push: buffer allocation failed")

// Strategy selects the upload path for a chunk, chosen once from
// (vendor, bug mask, extension availability) and fixed for the buffer's
// lifetime.
type Strategy uint8

const (
	// StrategySubdata uploads the whole chunk once via BufferSubData at
	// End; used when persistent mapping is unavailable or known slow
	// (caps.BugMapBufferRangeSlow).
	StrategySubdata Strategy = iota
	// StrategyFrameUnmap maps at Begin, writes directly into the mapped
	// pointer, unmaps at End.
	StrategyFrameUnmap
	// StrategyInvalidateUnmap additionally invalidates the buffer's
	// previous contents on map (GL_MAP_INVALIDATE_BUFFER_BIT or
	// equivalent), letting the driver skip a sync.
	StrategyInvalidateUnmap
	// StrategyFlushUnmap maps without coherency and explicitly flushes
	// the written range before unmapping.
	StrategyFlushUnmap
	// StrategyFlushInvalidateUnmap combines both: invalidate on map,
	// explicit flush before unmap.
	StrategyFlushInvalidateUnmap
)

// ChooseStrategy picks a Strategy from device capabilities: persistent
// coherent mapping is preferred unless the driver is known to be slow
// at it, in which case the buffer falls back to a single end-of-frame
// upload.
func ChooseStrategy(c caps.Caps, persistentMappingAvailable bool) Strategy {
	if !persistentMappingAvailable {
		return StrategySubdata
	}
	if c.Bugs.Has(caps.BugMapBufferRangeSlow) {
		return StrategySubdata
	}
	if c.IsTilingGPU {
		// Tile-based deferred renderers benefit from explicit invalidate:
		// it tells the driver the old contents are dead before the tile
		// pass starts, avoiding a stall waiting for in-flight reads.
		return StrategyInvalidateUnmap
	}
	return StrategyFrameUnmap
}

// TargetKind identifies what a push buffer's native backing is used for.
type TargetKind uint8

const (
	TargetVertex TargetKind = iota
	TargetIndex
	TargetUniform
	TargetStaging
)

// NativeChunk is the backend-provided handle and mapped pointer for one
// allocated region. Backends implement Allocator to produce these.
type NativeChunk struct {
	Handle  any    // backend-specific buffer handle (vk.Buffer, GL buffer name, ...)
	Mapped  []byte // nil unless currently mapped
	Size    int
}

// Allocator is implemented by each backend to (de)allocate and (un)map
// native chunks. The render thread owns every call into it.
type Allocator interface {
	AllocChunk(kind TargetKind, size int) (NativeChunk, error)
	FreeChunk(kind TargetKind, c NativeChunk)
	MapChunk(kind TargetKind, c *NativeChunk) error
	UnmapChunk(kind TargetKind, c *NativeChunk, strategy Strategy, dirtyEnd int) error
}

// chunk tracks one allocated native buffer plus the bookkeeping needed to
// hand out sub-allocations from it.
type chunk struct {
	native NativeChunk
	used   int // high-water mark within this chunk, for the dirty-range flush
}

// Buffer is a per-frame linear allocator over one or more native chunks
// of a fixed TargetKind.
type Buffer struct {
	kind      TargetKind
	alloc     Allocator
	strategy  Strategy
	chunkSize int // size used when growing organically (not under pressure from a single large Push)

	chunks  []chunk
	cur     int // index into chunks of the chunk currently being written
	cursor  int // write cursor within chunks[cur]
	onError func(error)
}

// New creates a push buffer that grows from an initial chunkSize and
// allocates additional or larger chunks on demand.
func New(kind TargetKind, alloc Allocator, chunkSize int, onError func(error)) *Buffer {
	return &Buffer{
		kind:      kind,
		alloc:     alloc,
		chunkSize: chunkSize,
		onError:   onError,
	}
}

// SetStrategy updates the upload strategy; takes effect on the next
// Begin/End cycle.
func (b *Buffer) SetStrategy(s Strategy) { b.strategy = s }

// Begin resets the write cursor to the start of chunk 0, defragmenting
// first if more than one chunk exists (invariant 4: a push buffer never
// aliases across frames, and defragment may release old chunks and
// allocate a single larger chunk sized to the sum of the previous ones).
func (b *Buffer) Begin() error {
	b.cursor = 0
	b.cur = 0
	if len(b.chunks) > 1 {
		if err := b.defragment(); err != nil {
			return err
		}
	}
	if len(b.chunks) == 0 {
		if err := b.growChunk(b.chunkSize); err != nil {
			return err
		}
	}
	for i := range b.chunks {
		b.chunks[i].used = 0
	}
	if b.strategy != StrategySubdata {
		if err := b.alloc.MapChunk(b.kind, &b.chunks[0].native); err != nil {
			return b.fail(err)
		}
	}
	return nil
}

// defragment frees every chunk and allocates a single chunk sized to the
// sum of the previous chunks' sizes, so future frames stop churning
// through NextBuffer transitions.
func (b *Buffer) defragment() error {
	total := 0
	for _, c := range b.chunks {
		total += c.native.Size
		b.alloc.FreeChunk(b.kind, c.native)
	}
	b.chunks = nil
	return b.growChunk(total)
}

func (b *Buffer) growChunk(size int) error {
	if size < b.chunkSize {
		size = b.chunkSize
	}
	nc, err := b.alloc.AllocChunk(b.kind, size)
	if err != nil {
		return b.fail(fmt.Errorf("%w: %v", ErrAllocationFailed, err))
	}
	b.chunks = append(b.chunks, chunk{native: nc})
	return nil
}

// Push allocates size bytes, 4-byte aligned, from the current chunk,
// transitioning to (or allocating) the next chunk if the current one
// lacks room. It returns a pointer into mapped memory (nil under
// StrategySubdata, where callers write into a CPU staging copy managed
// by the caller instead), the native buffer handle, and the byte offset
// within that buffer.
func (b *Buffer) Push(size int) (ptr []byte, handle any, offset int, err error) {
	return b.PushAligned(size, 4)
}

// PushAligned is Push with an explicit alignment.
func (b *Buffer) PushAligned(size, alignment int) (ptr []byte, handle any, offset int, err error) {
	if alignment <= 0 {
		alignment = 4
	}
	c := &b.chunks[b.cur]
	aligned := alignUp(b.cursor, alignment)
	if aligned+size > c.native.Size {
		if err := b.nextChunk(size); err != nil {
			return nil, nil, 0, err
		}
		c = &b.chunks[b.cur]
		aligned = alignUp(b.cursor, alignment)
	}
	b.cursor = aligned + size
	c.used = b.cursor
	if c.native.Mapped != nil {
		return c.native.Mapped[aligned : aligned+size], c.native.Handle, aligned, nil
	}
	return nil, c.native.Handle, aligned, nil
}

// nextChunk advances to the next existing chunk, or allocates a new one
// sized to fit size if none remains or the next one is too small.
func (b *Buffer) nextChunk(size int) error {
	b.cur++
	b.cursor = 0
	if b.cur < len(b.chunks) && b.chunks[b.cur].native.Size >= size {
		if b.strategy != StrategySubdata && b.chunks[b.cur].native.Mapped == nil {
			if err := b.alloc.MapChunk(b.kind, &b.chunks[b.cur].native); err != nil {
				return b.fail(err)
			}
		}
		return nil
	}
	// Truncate any remaining (too-small) chunks past cur and grow fresh.
	b.chunks = b.chunks[:b.cur]
	if err := b.growChunk(size); err != nil {
		return err
	}
	if b.strategy != StrategySubdata {
		if err := b.alloc.MapChunk(b.kind, &b.chunks[b.cur].native); err != nil {
			return b.fail(err)
		}
	}
	return nil
}

// End unmaps (or, under StrategySubdata, uploads) every chunk touched
// this frame.
func (b *Buffer) End() error {
	for i := range b.chunks {
		c := &b.chunks[i]
		if c.native.Mapped == nil && b.strategy != StrategySubdata {
			continue
		}
		if err := b.alloc.UnmapChunk(b.kind, &c.native, b.strategy, c.used); err != nil {
			return b.fail(err)
		}
	}
	return nil
}

// ChunkCount reports the number of native chunks currently backing this
// buffer (test hook for exercising the chunk-growth scenario).
func (b *Buffer) ChunkCount() int { return len(b.chunks) }

func (b *Buffer) fail(err error) error {
	if b.onError != nil {
		b.onError(err)
	}
	return err
}

func alignUp(v, alignment int) int {
	return (v + alignment - 1) &^ (alignment - 1)
}
