// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package push

import (
	"testing"

	"github.com/tinygpu/rq/caps"
)

// fakeAllocator backs chunks with plain Go byte slices so push buffer
// logic can be tested without a real GPU.
type fakeAllocator struct {
	allocCount int
	freeCount  int
}

func (f *fakeAllocator) AllocChunk(kind TargetKind, size int) (NativeChunk, error) {
	f.allocCount++
	buf := make([]byte, size)
	return NativeChunk{Handle: &buf, Mapped: buf, Size: size}, nil
}

func (f *fakeAllocator) FreeChunk(kind TargetKind, c NativeChunk) { f.freeCount++ }

func (f *fakeAllocator) MapChunk(kind TargetKind, c *NativeChunk) error { return nil }

func (f *fakeAllocator) UnmapChunk(kind TargetKind, c *NativeChunk, strategy Strategy, dirtyEnd int) error {
	return nil
}

func TestPushBufferChunkGrowth(t *testing.T) {
	alloc := &fakeAllocator{}
	buf := New(TargetVertex, alloc, 1024, nil)
	if err := buf.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	_, _, off1, err := buf.PushAligned(600, 16)
	if err != nil {
		t.Fatalf("first PushAligned: %v", err)
	}
	if off1 != 0 {
		t.Errorf("first offset = %d, want 0", off1)
	}

	_, _, off2, err := buf.PushAligned(600, 16)
	if err != nil {
		t.Fatalf("second PushAligned: %v", err)
	}
	if off2 != 0 {
		t.Errorf("second offset = %d, want 0 (new chunk)", off2)
	}
	if got := buf.ChunkCount(); got != 2 {
		t.Fatalf("ChunkCount = %d, want 2", got)
	}

	if err := buf.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	if err := buf.Begin(); err != nil { // triggers defragment
		t.Fatalf("second Begin (defragment): %v", err)
	}
	if got := buf.ChunkCount(); got != 1 {
		t.Fatalf("after defragment ChunkCount = %d, want 1", got)
	}
	_, _, off3, err := buf.PushAligned(64, 16)
	if err != nil {
		t.Fatalf("PushAligned after defragment: %v", err)
	}
	if off3 != 0 {
		t.Errorf("offset after defragment = %d, want 0", off3)
	}
}

// TestPushAlignedInvariant checks the push-buffer allocation invariant:
// for any sequence of PushAligned(s_i, a_i) calls, returned offsets o_i
// satisfy o_i % a_i == 0 and o_i + s_i <= o_{i+1}.
func TestPushAlignedInvariant(t *testing.T) {
	alloc := &fakeAllocator{}
	buf := New(TargetUniform, alloc, 4096, nil)
	if err := buf.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	sizes := []int{17, 256, 3, 128, 64, 512}
	aligns := []int{4, 16, 4, 256, 16, 64}
	var prevOffset, prevSize int
	for i, s := range sizes {
		a := aligns[i]
		_, _, off, err := buf.PushAligned(s, a)
		if err != nil {
			t.Fatalf("PushAligned(%d, %d): %v", s, a, err)
		}
		if off%a != 0 {
			t.Errorf("offset %d not aligned to %d", off, a)
		}
		if i > 0 && off < prevOffset+prevSize {
			// Allowed to be greater (chunk rollover), never less.
			if buf.ChunkCount() == 1 {
				t.Errorf("offset %d overlaps previous allocation ending at %d", off, prevOffset+prevSize)
			}
		}
		prevOffset, prevSize = off, s
	}
}

func TestChooseStrategyFallsBackWhenSlow(t *testing.T) {
	// A driver flagged slow at glMapBufferRange gets the subdata strategy
	// even when persistent mapping is available; the buffer then runs a
	// frame with that strategy.
	if got := ChooseStrategy(caps.Caps{Bugs: caps.BugMapBufferRangeSlow}, true); got != StrategySubdata {
		t.Fatalf("ChooseStrategy = %v, want StrategySubdata", got)
	}
	alloc := &fakeAllocator{}
	buf := New(TargetStaging, alloc, 256, nil)
	buf.SetStrategy(StrategySubdata)
	if err := buf.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, _, _, err := buf.PushAligned(16, 4); err != nil {
		t.Fatalf("PushAligned: %v", err)
	}
	if err := buf.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
}
