// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package runner implements the render-thread consumer of a frame's
// optimized Step list: for each Step it performs any
// pending layout transitions, then dispatches to the backend's
// Executor, tracking per-framebuffer image layout across the whole
// frame so each transition is only issued when actually needed.
//
// Grounded on VulkanQueueRunner::RunSteps' per-step switch
// (Common/GPU/Vulkan/VulkanQueueRunner.cpp) and
// hal/vulkan/renderpass.go's RenderPassCache lookup shape.
package runner

import (
	"fmt"

	"github.com/tinygpu/rq/queue"
	"github.com/tinygpu/rq/res"
)

// Executor is implemented by a backend to turn Steps into native
// command-buffer/command-list work. Runner owns sequencing and layout
// bookkeeping; Executor owns everything backend-specific.
type Executor interface {
	TransitionLayout(fb res.ID, aspect res.Aspect, to queue.Layout) error

	BeginRenderPass(step *queue.Step) error
	ExecuteCommand(step *queue.Step, cmd queue.Command) error
	EndRenderPass(step *queue.Step) error

	Copy(step *queue.Step) error
	Blit(step *queue.Step) error
	Readback(step *queue.Step) error
	ReadbackImage(step *queue.Step) error

	// AcquireBackbuffer is called the first time a Step renders directly
	// to the backbuffer in a frame (a RENDER step with FB == 0); it
	// signals the backend to finish any split-submit work and acquire
	// the swapchain image before presentation commands are recorded.
	AcquireBackbuffer() error
}

// layoutKey names one (framebuffer, aspect) pair; Run tracks the most
// recently known layout per key across the frame, so it only calls
// TransitionLayout when the image isn't already where it needs to be.
type layoutKey struct {
	fb     res.ID
	aspect res.Aspect
}

// Run executes steps in order against exec, skipping
// StepRenderSkip entries (left behind by package opt) and failed
// resources.
func Run(steps []*queue.Step, exec Executor, failed func(res.ID) bool) error {
	layouts := make(map[layoutKey]queue.Layout)
	backbufferAcquired := false

	for _, step := range steps {
		switch step.Type {
		case queue.StepRenderSkip:
			continue

		case queue.StepRender:
			if step.Render.FB == 0 && !backbufferAcquired {
				if err := exec.AcquireBackbuffer(); err != nil {
					return fmt.Errorf("runner: acquire backbuffer: %w", err)
				}
				backbufferAcquired = true
			}
			if failed != nil && step.Render.FB != 0 && failed(step.Render.FB) {
				continue
			}
			if err := applyTransitions(exec, layouts, step.Render.PreTransitions); err != nil {
				return err
			}
			if err := exec.BeginRenderPass(step); err != nil {
				return fmt.Errorf("runner: begin render pass %q: %w", step.Tag, err)
			}
			for _, cmd := range step.Render.Commands {
				if cmd.Op == queue.OpRemoved {
					continue
				}
				if err := exec.ExecuteCommand(step, cmd); err != nil {
					return fmt.Errorf("runner: command in pass %q: %w", step.Tag, err)
				}
			}
			if err := exec.EndRenderPass(step); err != nil {
				return fmt.Errorf("runner: end render pass %q: %w", step.Tag, err)
			}
			if step.Render.FB != 0 {
				layouts[layoutKey{step.Render.FB, res.AspectColor}] = step.Render.FinalColorLayout
				if step.Render.FinalDepthLayout != queue.LayoutUndefined {
					layouts[layoutKey{step.Render.FB, res.AspectDepth}] = step.Render.FinalDepthLayout
				}
			}

		case queue.StepCopy:
			if err := exec.Copy(step); err != nil {
				return fmt.Errorf("runner: copy %q: %w", step.Tag, err)
			}
			layouts[layoutKey{step.Copy.DstFB, res.AspectColor}] = queue.LayoutTransferDst

		case queue.StepBlit:
			if err := exec.Blit(step); err != nil {
				return fmt.Errorf("runner: blit %q: %w", step.Tag, err)
			}
			layouts[layoutKey{step.Copy.DstFB, res.AspectColor}] = queue.LayoutTransferDst

		case queue.StepReadback:
			if err := exec.Readback(step); err != nil {
				return fmt.Errorf("runner: readback %q: %w", step.Tag, err)
			}

		case queue.StepReadbackImage:
			if err := exec.ReadbackImage(step); err != nil {
				return fmt.Errorf("runner: readback-image %q: %w", step.Tag, err)
			}
		}
	}
	return nil
}

// applyTransitions issues only the transitions whose target layout
// differs from what's already tracked for that (fb, aspect) pair.
func applyTransitions(exec Executor, layouts map[layoutKey]queue.Layout, ts []queue.Transition) error {
	for _, t := range ts {
		key := layoutKey{t.FB, t.Aspect}
		if layouts[key] == t.To {
			continue
		}
		if err := exec.TransitionLayout(t.FB, t.Aspect, t.To); err != nil {
			return fmt.Errorf("runner: transition fb %v aspect %v to %v: %w", t.FB, t.Aspect, t.To, err)
		}
		layouts[key] = t.To
	}
	return nil
}
