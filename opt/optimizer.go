// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package opt rewrites a frame's recorded Step list before the runner
// submits it: filling in final image layouts left undecided by the
// recorder, hoisting empty clear-only passes forward into the first
// real pass touching the same framebuffer, and, only when enabled
// through explicit CompatFlags, merging compatible back-to-back render
// passes and applying a small set of game-specific step reorderings.
// Without HackRenderPassMerge no render passes are merged.
//
// Grounded on VulkanQueueRunner::PreprocessSteps and
// ApplyMGSHack/ApplySonicHack/ApplyRenderPassMerge
// (Common/GPU/Vulkan/VulkanQueueRunner.cpp).
package opt

import "github.com/tinygpu/rq/queue"

// CompatFlags gates the per-title step reorderings and render-pass
// merging. The reorderings rearrange draw order based on patterns
// specific to known games and are unsafe to apply universally, so they
// stay off unless a compat profile asks for them by name; merging runs
// only when HackRenderPassMerge is set.
type CompatFlags uint8

const (
	HackMGS2Acid CompatFlags = 1 << iota
	HackSonic
	HackRenderPassMerge
)

// Preprocess runs the fixed optimization pipeline over steps in place,
// returning the rewritten slice. Absorbed or hoisted steps become
// RENDER_SKIP rather than being removed, so step indices stay stable
// for anything that recorded a reference to one by position; runner.Run
// skips RENDER_SKIP entries itself.
func Preprocess(steps []*queue.Step, hacks CompatFlags) []*queue.Step {
	fillFinalLayouts(steps)
	hoistEmptyClears(steps)
	if hacks&HackMGS2Acid != 0 {
		applyMGS2AcidHack(steps)
	}
	if hacks&HackSonic != 0 {
		applySonicHack(steps)
	}
	if hacks&HackRenderPassMerge != 0 {
		steps = mergeRenderPasses(steps)
	}
	return steps
}

// fillFinalLayouts assigns COLOR_ATTACHMENT/DEPTH_STENCIL_ATTACHMENT to
// any offscreen render step whose recorder left FinalColorLayout or
// FinalDepthLayout undecided ("every attachment has
// a decided final layout before submission").
func fillFinalLayouts(steps []*queue.Step) {
	for _, s := range steps {
		if s.Type != queue.StepRender || s.Render.FB == 0 {
			continue
		}
		if s.Render.FinalColorLayout == queue.LayoutUndefined {
			s.Render.FinalColorLayout = queue.LayoutColorAttachment
		}
		if s.Render.FinalDepthLayout == queue.LayoutUndefined {
			s.Render.FinalDepthLayout = queue.LayoutDepthStencilAttachment
		}
	}
}

// hoistEmptyClears finds RENDER steps that do nothing but clear (no
// draws, no reads, every aspect load action CLEAR) and folds them
// forward into the next step touching the same framebuffer, so a
// clear-then-render-elsewhere sequence doesn't cost a whole extra pass.
func hoistEmptyClears(steps []*queue.Step) {
	for j := 0; j < len(steps)-1; j++ {
		s := steps[j]
		if s.Type != queue.StepRender || s.Render.NumDraws != 0 || s.Render.NumReads != 0 {
			continue
		}
		if s.Render.ColorLoad != queue.LoadClear || s.Render.DepthLoad != queue.LoadClear || s.Render.StencilLoad != queue.LoadClear {
			continue
		}

		for i := j + 1; i < len(steps); i++ {
			t := steps[i]
			if t.Type == queue.StepRender && t.Render.FB == s.Render.FB {
				if t.Render.ColorLoad != queue.LoadClear {
					t.Render.ColorLoad = queue.LoadClear
					t.Render.ClearColor = s.Render.ClearColor
				}
				if t.Render.DepthLoad != queue.LoadClear {
					t.Render.DepthLoad = queue.LoadClear
					t.Render.ClearDepth = s.Render.ClearDepth
				}
				if t.Render.StencilLoad != queue.LoadClear {
					t.Render.StencilLoad = queue.LoadClear
					t.Render.ClearStencil = s.Render.ClearStencil
				}
				t.Render.Area = t.Render.Area.Union(s.Render.Area)
				if merged, ok := t.Render.RPType.Merge(s.Render.RPType); ok {
					t.Render.RPType = merged
				}
				t.Render.NumDraws += s.Render.NumDraws
				t.Render.NumReads += s.Render.NumReads
				s.Type = queue.StepRenderSkip
				break
			}
			if t.Type == queue.StepCopy && t.Copy.SrcFB == s.Render.FB {
				// A copy reads the clear before anything draws to it:
				// folding forward would lose that clear, so leave it.
				break
			}
		}
	}
}

// compact drops every StepRenderSkip entry, preserving order.
func compact(steps []*queue.Step) []*queue.Step {
	out := steps[:0]
	for _, s := range steps {
		if s.Type == queue.StepRenderSkip {
			continue
		}
		out = append(out, s)
	}
	return out
}
