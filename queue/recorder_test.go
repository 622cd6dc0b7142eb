// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package queue

import (
	"testing"

	"github.com/tinygpu/rq/res"
)

// TestBindSameFramebufferFoldsIntoClear covers the clear-hoisting
// scenario: binding the same render target twice in a row with a clear
// the second time should fold into the existing step as an inline
// CLEAR command rather than opening a second RENDER step.
func TestBindSameFramebufferFoldsIntoClear(t *testing.T) {
	r := NewRecorder(false)
	r.BindFramebufferAsRenderTarget(nil, LoadClear, LoadClear, LoadClear, [4]float32{1, 0, 0, 1}, 1, 0, 480, 272, "first")
	r.Draw(0, 3, 1)

	r.BindFramebufferAsRenderTarget(nil, LoadClear, LoadKeep, LoadKeep, [4]float32{0, 1, 0, 1}, 1, 0, 480, 272, "second")
	r.Draw(0, 3, 1)

	steps := r.Finish()
	if len(steps) != 1 {
		t.Fatalf("len(steps) = %d, want 1 (second bind should fold)", len(steps))
	}
	var clears int
	for _, c := range steps[0].Render.Commands {
		if c.Op == OpClear {
			clears++
		}
	}
	if clears != 1 {
		t.Errorf("clears = %d, want 1 inline clear from the folded rebind", clears)
	}
}

// TestBindDifferentFramebufferOpensNewStep ensures distinct targets are
// never folded together.
func TestBindDifferentFramebufferOpensNewStep(t *testing.T) {
	fb := &res.Framebuffer{Handle: res.Handle{ID: 7}}
	r := NewRecorder(false)
	r.BindFramebufferAsRenderTarget(nil, LoadClear, LoadClear, LoadClear, [4]float32{}, 1, 0, 480, 272, "backbuffer")
	r.BindFramebufferAsRenderTarget(fb, LoadClear, LoadClear, LoadClear, [4]float32{}, 1, 0, 512, 512, "offscreen")

	steps := r.Finish()
	if len(steps) != 2 {
		t.Fatalf("len(steps) = %d, want 2", len(steps))
	}
	if steps[1].Render.FB != fb.ID {
		t.Errorf("second step FB = %v, want %v", steps[1].Render.FB, fb.ID)
	}
}

// TestBindFramebufferAsTextureBackStamps covers the bind-as-texture
// scenario: binding an earlier step's color attachment as a texture
// should retroactively set that step's FinalColorLayout to SHADER_READ
// so no extra transition is needed later.
func TestBindFramebufferAsTextureBackStamps(t *testing.T) {
	fb := &res.Framebuffer{Handle: res.Handle{ID: 42}}
	r := NewRecorder(false)
	r.BindFramebufferAsRenderTarget(fb, LoadClear, LoadDontCare, LoadDontCare, [4]float32{}, 1, 0, 256, 256, "offscreen")
	r.Draw(0, 3, 1)

	r.BindFramebufferAsRenderTarget(nil, LoadClear, LoadClear, LoadClear, [4]float32{}, 1, 0, 480, 272, "backbuffer")
	r.BindFramebufferAsTexture(fb, res.AspectColor)
	r.Draw(0, 6, 1)

	steps := r.Finish()
	if steps[0].Render.FinalColorLayout != LayoutShaderRead {
		t.Errorf("FinalColorLayout = %v, want LayoutShaderRead", steps[0].Render.FinalColorLayout)
	}
	if steps[0].Render.NumReads != 1 {
		t.Errorf("NumReads = %d, want 1", steps[0].Render.NumReads)
	}
	found := false
	for _, dep := range steps[1].Deps {
		if dep.FB == fb.ID && dep.Read {
			found = true
		}
	}
	if !found {
		t.Error("backbuffer step missing read dependency on the offscreen framebuffer")
	}
}

// TestMaliDepthStencilLoadMismatchUnified implements the Mali load-
// action workaround: when depthLoad and stencilLoad disagree and one
// side is CLEAR, both load actions must end up equal and the CLEAR side
// not originally requesting it gets a late inline clear.
func TestMaliDepthStencilLoadMismatchUnified(t *testing.T) {
	r := NewRecorder(true)
	r.BindFramebufferAsRenderTarget(nil, LoadClear, LoadClear, LoadKeep, [4]float32{}, 1, 0, 480, 272, "mali")
	steps := r.Finish()

	s := steps[0]
	if s.Render.DepthLoad != s.Render.StencilLoad {
		t.Fatalf("DepthLoad=%v StencilLoad=%v, want equal on ARM", s.Render.DepthLoad, s.Render.StencilLoad)
	}
	var lateClears int
	for _, c := range s.Render.Commands {
		if c.Op == OpClear {
			lateClears++
		}
	}
	if lateClears != 1 {
		t.Errorf("late clears = %d, want 1", lateClears)
	}
}

func TestRenderPassTypeMergeRejectsMultiViewMismatch(t *testing.T) {
	a := RPHasDepth | RPMultiView
	b := RPHasDepth
	if _, ok := a.Merge(b); ok {
		t.Error("Merge should fail when MULTIVIEW bits disagree")
	}
}

func TestRenderPassTypeMergeRejectsBackbufferMismatch(t *testing.T) {
	a := RPBackbuffer
	b := RenderPassType(0)
	if _, ok := a.Merge(b); ok {
		t.Error("Merge should fail when only one side is the backbuffer")
	}
	if merged, ok := a.Merge(RPBackbuffer); !ok || merged != RPBackbuffer {
		t.Error("Merge of two identical backbuffer types should succeed")
	}
}

func TestRenderPassTypeCompatibleWith(t *testing.T) {
	a := RPHasDepth
	if !a.CompatibleWith(RPHasDepth, 4, 4) {
		t.Error("identical type and sample count should be compatible")
	}
	if a.CompatibleWith(RPHasDepth, 4, 1) {
		t.Error("differing sample counts should not be compatible")
	}
	if a.CompatibleWith(RPHasDepth|RPMultiView, 1, 1) {
		t.Error("differing types should not be compatible")
	}
}
