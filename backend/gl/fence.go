// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import (
	"fmt"

	"github.com/tinygpu/rq/backend/gl/gl"
)

// Fence implements frame.Fence using a GL sync object (glFenceSync /
// glClientWaitSync), the GL analogue of a Vulkan VkFence.
//
// Grounded on hal/vulkan/fence.go's deviceFence wait/reset shape,
// adapted to GL's sync-object API.
type Fence struct {
	ctx  *gl.Context
	sync uintptr
}

// NewFence returns a Fence with no sync object; Wait and Poll treat it as
// already signaled until Reset records the first sync point.
func NewFence(ctx *gl.Context) *Fence {
	return &Fence{ctx: ctx}
}

// Wait blocks until the sync object placed by the last Reset signals.
func (f *Fence) Wait() error {
	if f.sync == 0 {
		return nil // never submitted against, nothing to wait for
	}
	const oneSecondNs = 1_000_000_000
	result := f.ctx.ClientWaitSync(f.sync, gl.SYNC_FLUSH_COMMANDS_BIT, oneSecondNs)
	if result == gl.TIMEOUT_EXPIRED || result == gl.WAIT_FAILED {
		return fmt.Errorf("gl: fence wait failed or timed out, result 0x%x", result)
	}
	return nil
}

// Reset drops the previous sync object and places a new one at the
// current point in the command stream, to be waited on by a later Wait.
func (f *Fence) Reset() error {
	if f.sync != 0 {
		f.ctx.DeleteSync(f.sync)
	}
	f.sync = f.ctx.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
	if f.sync == 0 {
		return fmt.Errorf("gl: glFenceSync failed")
	}
	return nil
}

// Poll reports whether the fence has already signaled, without blocking.
func (f *Fence) Poll() (bool, error) {
	if f.sync == 0 {
		return true, nil
	}
	result := f.ctx.ClientWaitSync(f.sync, 0, 0)
	if result == gl.WAIT_FAILED {
		return false, fmt.Errorf("gl: fence poll failed")
	}
	return result == gl.ALREADY_SIGNALED || result == gl.CONDITION_SATISFIED, nil
}
