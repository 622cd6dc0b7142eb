// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package frame implements the round-robin inflight frame controller:
// a fixed number of frame slots, each owning a fence the render thread
// waits on before reusing that slot's resources, and the
// deferred-deletion handoff into package res's per-slot deleter lists.
//
// Grounded on hal/vulkan/fence_pool.go's signal/wait/maintain shape and
// hal/vulkan/swapchain.go's acquire/present bookkeeping.
package frame

import (
	"fmt"

	"github.com/tinygpu/rq/res"
)

// Fence is the backend's synchronization primitive for one submission.
type Fence interface {
	Wait() error
	Reset() error
	// Poll reports whether the fence has signaled without blocking.
	Poll() (bool, error)
}

// Swapchain is the backend's presentation surface.
type Swapchain interface {
	AcquireNext() (imageIndex int, err error)
	Present(imageIndex int) error
	// Recreate rebuilds the swapchain after a resize or a suboptimal
	// acquire/present result; returns the new (width, height).
	Recreate() (width, height int, err error)
}

// SubmitMode selects whether the render thread issues one command
// buffer submission per frame (Unified) or splits the backbuffer-bound
// render step into its own submission so present doesn't have to wait
// on an unrelated offscreen pass (Split). Controller records the mode
// and reports it through SubmitMode; it does not change how anything is
// submitted.
type SubmitMode uint8

const (
	SubmitUnified SubmitMode = iota
	SubmitSplit
)

// slot is the per-inflight-frame bookkeeping.
type slot struct {
	fence      Fence
	everUsed   bool
	imageIndex int
}

// Controller owns MAX_INFLIGHT frame slots and drives
// Begin/acquire/Finish/Present, including fence waits and deferred
// deletion collection.
type Controller struct {
	slots      []slot
	cur        int
	swapchain  Swapchain
	manager    *res.Manager
	submitMode SubmitMode
}

// NewController creates a Controller with len(fences) inflight slots,
// one fence per slot, supplied by the backend at startup.
func NewController(fences []Fence, sc Swapchain, m *res.Manager, mode SubmitMode) *Controller {
	c := &Controller{
		slots:      make([]slot, len(fences)),
		swapchain:  sc,
		manager:    m,
		submitMode: mode,
	}
	for i, f := range fences {
		c.slots[i].fence = f
	}
	return c
}

// BeginFrame waits for the slot about to be reused to finish its
// previous submission, collects that slot's deferred deletions, runs
// any pending resource init steps, acquires the next swapchain image,
// and returns the slot index the caller should submit against.
func (c *Controller) BeginFrame(dev res.Device) (slotIdx int, imageIndex int, err error) {
	slotIdx = c.cur
	s := &c.slots[slotIdx]

	if s.everUsed {
		if err := s.fence.Wait(); err != nil {
			return slotIdx, 0, fmt.Errorf("frame: wait fence for slot %d: %w", slotIdx, err)
		}
		if err := s.fence.Reset(); err != nil {
			return slotIdx, 0, fmt.Errorf("frame: reset fence for slot %d: %w", slotIdx, err)
		}
	}
	c.manager.Collect(slotIdx, dev)
	c.manager.RunInit(dev)

	imageIndex, err = c.swapchain.AcquireNext()
	if err != nil {
		return slotIdx, 0, fmt.Errorf("frame: acquire swapchain image: %w", err)
	}
	s.everUsed = true
	s.imageIndex = imageIndex
	return slotIdx, imageIndex, nil
}

// Finish advances to the next frame slot round-robin; call once the
// render thread has submitted slotIdx's command buffers.
func (c *Controller) Finish(slotIdx int) {
	c.cur = (slotIdx + 1) % len(c.slots)
}

// Present presents the image acquired for slotIdx. If the backend
// reports the swapchain is stale, the caller should call Recreate and
// skip presenting this frame.
func (c *Controller) Present(slotIdx int) error {
	return c.swapchain.Present(c.slots[slotIdx].imageIndex)
}

// QueueDelete defers fn until frame slot slotIdx's fence has signaled,
// i.e. until no Step submitted against that slot can still be in
// flight.
func (c *Controller) QueueDelete(slotIdx int, fn func(res.Device)) {
	c.manager.QueueDelete(slotIdx, fn)
}

// NumSlots reports MAX_INFLIGHT.
func (c *Controller) NumSlots() int { return len(c.slots) }

// SubmitMode reports the configured submission strategy.
func (c *Controller) SubmitMode() SubmitMode { return c.submitMode }
