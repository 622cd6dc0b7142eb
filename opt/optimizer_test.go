// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package opt

import (
	"testing"

	"github.com/tinygpu/rq/queue"
	"github.com/tinygpu/rq/res"
)

func TestFillFinalLayoutsDefaultsOffscreenTargets(t *testing.T) {
	fb := res.ID(3)
	s := &queue.Step{Type: queue.StepRender}
	s.Render.FB = fb
	steps := []*queue.Step{s}

	fillFinalLayouts(steps)

	if s.Render.FinalColorLayout != queue.LayoutColorAttachment {
		t.Errorf("FinalColorLayout = %v, want LayoutColorAttachment", s.Render.FinalColorLayout)
	}
	if s.Render.FinalDepthLayout != queue.LayoutDepthStencilAttachment {
		t.Errorf("FinalDepthLayout = %v, want LayoutDepthStencilAttachment", s.Render.FinalDepthLayout)
	}
}

// TestHoistEmptyClearFoldsForward covers the clear-hoisting scenario at
// the optimizer level: a RENDER step that only clears (no draws, no
// reads) folds its clear into the next step touching the same
// framebuffer and becomes RENDER_SKIP, rather than being removed from
// the slice, so step indices stay stable.
func TestHoistEmptyClearFoldsForward(t *testing.T) {
	fb := res.ID(9)
	clearOnly := &queue.Step{Type: queue.StepRender}
	clearOnly.Render.FB = fb
	clearOnly.Render.ColorLoad, clearOnly.Render.DepthLoad, clearOnly.Render.StencilLoad = queue.LoadClear, queue.LoadClear, queue.LoadClear
	clearOnly.Render.ClearColor = [4]float32{1, 1, 1, 1}

	draw := &queue.Step{Type: queue.StepRender}
	draw.Render.FB = fb
	draw.Render.ColorLoad, draw.Render.DepthLoad, draw.Render.StencilLoad = queue.LoadKeep, queue.LoadKeep, queue.LoadKeep
	draw.Render.NumDraws = 1

	steps := Preprocess([]*queue.Step{clearOnly, draw}, 0)

	if len(steps) != 2 {
		t.Fatalf("len(steps) = %d, want 2 (hoisted step stays as RENDER_SKIP)", len(steps))
	}
	if steps[0].Type != queue.StepRenderSkip {
		t.Errorf("steps[0].Type = %v, want StepRenderSkip", steps[0].Type)
	}
	if steps[1].Render.ColorLoad != queue.LoadClear {
		t.Errorf("ColorLoad = %v, want LoadClear", steps[1].Render.ColorLoad)
	}
	if steps[1].Render.ClearColor != [4]float32{1, 1, 1, 1} {
		t.Errorf("ClearColor = %v, want the hoisted clear color", steps[1].Render.ClearColor)
	}
}

func TestHoistEmptyClearStopsAtInterveningCopy(t *testing.T) {
	fb := res.ID(9)
	clearOnly := &queue.Step{Type: queue.StepRender}
	clearOnly.Render.FB = fb
	clearOnly.Render.ColorLoad, clearOnly.Render.DepthLoad, clearOnly.Render.StencilLoad = queue.LoadClear, queue.LoadClear, queue.LoadClear

	cp := &queue.Step{Type: queue.StepCopy}
	cp.Copy.SrcFB = fb

	draw := &queue.Step{Type: queue.StepRender}
	draw.Render.FB = fb
	draw.Render.NumDraws = 1

	steps := Preprocess([]*queue.Step{clearOnly, cp, draw}, 0)
	if len(steps) != 3 {
		t.Fatalf("len(steps) = %d, want 3 (clear must survive the intervening copy)", len(steps))
	}
	if steps[0].Type != queue.StepRender {
		t.Fatalf("steps[0].Type = %v, want StepRender (clear must survive the intervening copy)", steps[0].Type)
	}
}

func TestMergeRenderPassesCombinesRepeatedTarget(t *testing.T) {
	fb := res.ID(5)
	a := &queue.Step{Type: queue.StepRender}
	a.Render.FB = fb
	a.Render.NumDraws = 1

	b := &queue.Step{Type: queue.StepRender}
	b.Render.FB = fb
	b.Render.NumDraws = 1

	steps := mergeRenderPasses([]*queue.Step{a, b})
	out := compact(steps)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0].Render.NumDraws != 2 {
		t.Errorf("NumDraws = %d, want 2", out[0].Render.NumDraws)
	}
}

func TestMergeRenderPassesStopsOnReClear(t *testing.T) {
	fb := res.ID(5)
	a := &queue.Step{Type: queue.StepRender}
	a.Render.FB = fb
	a.Render.NumDraws = 1

	b := &queue.Step{Type: queue.StepRender}
	b.Render.FB = fb
	b.Render.ColorLoad = queue.LoadClear
	b.Render.NumDraws = 1

	steps := mergeRenderPasses([]*queue.Step{a, b})
	out := compact(steps)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2 (re-clear should block merging)", len(out))
	}
}
