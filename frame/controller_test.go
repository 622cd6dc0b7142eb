// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"testing"

	"github.com/tinygpu/rq/res"
)

type fakeFence struct {
	waited, reset bool
}

func (f *fakeFence) Wait() error         { f.waited = true; return nil }
func (f *fakeFence) Reset() error        { f.reset = true; return nil }
func (f *fakeFence) Poll() (bool, error) { return true, nil }

type fakeSwapchain struct {
	acquireCount int
	presented    []int
}

func (s *fakeSwapchain) AcquireNext() (int, error) {
	idx := s.acquireCount % 3
	s.acquireCount++
	return idx, nil
}
func (s *fakeSwapchain) Present(imageIndex int) error {
	s.presented = append(s.presented, imageIndex)
	return nil
}
func (s *fakeSwapchain) Recreate() (int, int, error) { return 0, 0, nil }

type fakeDevice struct{}

func (fakeDevice) CreateBuffer(int64, res.Usage) (any, error)                 { return nil, nil }
func (fakeDevice) UploadBufferSubdata(any, int64, []byte) error               { return nil }
func (fakeDevice) CreateTexture(int, int, int, int, uint32) (any, error)      { return nil, nil }
func (fakeDevice) UploadTextureMip(any, int, int, []byte, int) error          { return nil }
func (fakeDevice) TransitionToShaderRead(any) error                          { return nil }
func (fakeDevice) CreateFramebuffer(int, int, int, int, uint32, bool) (any, error) { return nil, nil }
func (fakeDevice) CompileShaderModule(uint8, []byte) (any, error)             { return nil, nil }
func (fakeDevice) ReportOutOfMemory()                                        {}

func TestBeginFrameRoundRobinsSlotsAndWaitsOnReuse(t *testing.T) {
	fences := []Fence{&fakeFence{}, &fakeFence{}}
	sc := &fakeSwapchain{}
	m := res.NewManager(len(fences), nil)
	c := NewController(fences, sc, m, SubmitUnified)
	dev := fakeDevice{}

	slot0, _, err := c.BeginFrame(dev)
	if err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if slot0 != 0 {
		t.Fatalf("first slot = %d, want 0", slot0)
	}
	if fences[0].(*fakeFence).waited {
		t.Error("first use of slot 0 should not wait (never submitted before)")
	}
	c.Finish(slot0)

	slot1, _, err := c.BeginFrame(dev)
	if err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if slot1 != 1 {
		t.Fatalf("second slot = %d, want 1", slot1)
	}
	c.Finish(slot1)

	slot2, _, err := c.BeginFrame(dev)
	if err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if slot2 != 0 {
		t.Fatalf("third slot = %d, want 0 (wrapped)", slot2)
	}
	if !fences[0].(*fakeFence).waited {
		t.Error("reusing slot 0 should wait on its fence")
	}
}

func TestQueueDeleteRunsOnlyAfterSlotReused(t *testing.T) {
	fences := []Fence{&fakeFence{}, &fakeFence{}}
	sc := &fakeSwapchain{}
	m := res.NewManager(len(fences), nil)
	c := NewController(fences, sc, m, SubmitUnified)
	dev := fakeDevice{}

	ran := false
	slot0, _, _ := c.BeginFrame(dev)
	c.QueueDelete(slot0, func(res.Device) { ran = true })
	c.Finish(slot0)

	slot1, _, _ := c.BeginFrame(dev) // slot 1, deleter for slot 0 not yet due
	if ran {
		t.Fatal("deleter ran before its slot was reused")
	}
	c.Finish(slot1)

	c.BeginFrame(dev) // wraps back to slot 0, should collect
	if !ran {
		t.Error("deleter should have run once slot 0 was reused")
	}
}
