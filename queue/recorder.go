// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package queue

import "github.com/tinygpu/rq/res"

// Recorder builds the Step list for one frame on the emu thread. It is
// not safe for concurrent use; one Recorder belongs to exactly one emu
// thread for exactly one frame.
//
// Grounded on VulkanRenderManager's steps_/curRenderStep_ bookkeeping
// (Common/GPU/Vulkan/VulkanRenderManager.cpp).
type Recorder struct {
	steps []*Step
	cur   *Step // points into steps when the current step is a RENDER step being built, else nil

	curWidth, curHeight int
	vendorIsARM         bool
}

// NewRecorder starts a fresh, empty step list. vendorIsARM enables the
// Mali depth/stencil load-action workaround in
// BindFramebufferAsRenderTarget.
func NewRecorder(vendorIsARM bool) *Recorder {
	return &Recorder{vendorIsARM: vendorIsARM}
}

// Steps returns the recorded step list so far.
func (r *Recorder) Steps() []*Step { return r.steps }

// endCurRenderStep finalizes bookkeeping on the in-progress render step,
// if any, so the next Bind/Copy/Readback call starts clean.
func (r *Recorder) endCurRenderStep() {
	r.cur = nil
}

// BindFramebufferAsRenderTarget opens a new RENDER step targeting fb (nil
// meaning the backbuffer), eliminating a redundant rebind of the step
// already at the top of the list by folding it into an inline CLEAR
// command instead, exactly as BindFramebufferAsRenderTarget
// does.
func (r *Recorder) BindFramebufferAsRenderTarget(fb *res.Framebuffer, colorLoad, depthLoad, stencilLoad LoadAction, clearColor [4]float32, clearDepth float32, clearStencil uint8, w, h int, tag string) {
	fbID := fbIDOf(fb)

	if n := len(r.steps); n > 0 && r.steps[n-1].Type == StepRender && r.steps[n-1].Render.FB == fbID {
		last := r.steps[n-1]
		var clearMask uint8
		if colorLoad == LoadClear {
			clearMask |= 1
		}
		if depthLoad == LoadClear {
			clearMask |= 2
			last.Render.PipelineFlagsAccum |= PipelineUsesDepthStencil
		}
		if stencilLoad == LoadClear {
			clearMask |= 4
			last.Render.PipelineFlagsAccum |= PipelineUsesDepthStencil
		}

		// If no clear is needed, or the previous pass already has commands,
		// fold into it: either add an inline clear or simply keep
		// rendering into the same pass. Otherwise (a clear is needed but
		// the pass is still empty) fall through and start a fresh pass, so
		// the optimizer gets the chance to merge it with an earlier one.
		if clearMask == 0 || len(last.Render.Commands) != 0 {
			r.cur = last
			if clearMask != 0 {
				last.Render.Commands = append(last.Render.Commands, Command{
					Op:           OpClear,
					ClearMask:    clearMask,
					ClearColor:   clearColor,
					ClearDepth:   clearDepth,
					ClearStencil: clearStencil,
				})
				last.Render.Area = Rect{0, 0, r.curWidth, r.curHeight}
			}
			return
		}
	}

	// Trivially drop the previous step if it turned out empty and didn't
	// need a clear (commonly left behind after a pure pixel upload).
	if r.cur != nil && len(r.cur.Render.Commands) == 0 &&
		r.cur.Render.ColorLoad != LoadClear && r.cur.Render.DepthLoad != LoadClear && r.cur.Render.StencilLoad != LoadClear {
		r.steps = r.steps[:len(r.steps)-1]
	}
	r.endCurRenderStep()

	// Older Mali drivers misbehave when depth and stencil load actions
	// disagree; make them match, folding the odd one out into a
	// late inline clear so the pass-level load action stays uniform.
	var lateClearMask uint8
	if depthLoad != stencilLoad && r.vendorIsARM {
		switch {
		case stencilLoad == LoadDontCare:
			stencilLoad = depthLoad
		case depthLoad == LoadDontCare:
			depthLoad = stencilLoad
		case stencilLoad == LoadClear:
			depthLoad = stencilLoad
			lateClearMask |= 2
		case depthLoad == LoadClear:
			stencilLoad = depthLoad
			lateClearMask |= 4
		}
	}

	step := &Step{Type: StepRender, Tag: tag}
	step.Render.FB = fbID
	step.Render.ColorLoad, step.Render.DepthLoad, step.Render.StencilLoad = colorLoad, depthLoad, stencilLoad
	step.Render.ColorStore, step.Render.DepthStore, step.Render.StencilStore = StoreStore, StoreStore, StoreStore
	step.Render.ClearColor, step.Render.ClearDepth, step.Render.ClearStencil = clearColor, clearDepth, clearStencil
	if fb == nil {
		step.Render.FinalColorLayout = LayoutColorAttachment
		step.Render.FinalDepthLayout = LayoutDepthStencilAttachment
	}
	r.steps = append(r.steps, step)

	if fb != nil && (colorLoad == LoadKeep || depthLoad == LoadKeep || stencilLoad == LoadKeep) {
		step.AddDep(fbID, false, true)
	}

	r.cur = step
	r.curWidth, r.curHeight = w, h
	if colorLoad == LoadClear || depthLoad == LoadClear || stencilLoad == LoadClear {
		step.Render.Area = Rect{0, 0, r.curWidth, r.curHeight}
	}
	if lateClearMask != 0 {
		step.Render.Commands = append(step.Render.Commands, Command{
			Op:           OpClear,
			ClearMask:    lateClearMask,
			ClearColor:   clearColor,
			ClearDepth:   clearDepth,
			ClearStencil: clearStencil,
		})
	}
}

// BindFramebufferAsTexture records that the current render step depends
// on having read fb's given aspect as a texture, opportunistically
// steering an earlier step that rendered to fb toward ending in
// SHADER_READ layout so no extra transition is needed later.
func (r *Recorder) BindFramebufferAsTexture(fb *res.Framebuffer, aspect res.Aspect) {
	if r.cur == nil || fb == nil {
		return
	}
	fbID := fb.ID

	for i := len(r.steps) - 1; i >= 0; i-- {
		s := r.steps[i]
		if s.Type != StepRender || s.Render.FB != fbID {
			continue
		}
		switch aspect {
		case res.AspectColor:
			if s.Render.FinalColorLayout == LayoutUndefined {
				s.Render.FinalColorLayout = LayoutShaderRead
			}
		case res.AspectDepth:
			if s.Render.FinalDepthLayout == LayoutUndefined {
				s.Render.FinalDepthLayout = LayoutShaderRead
			}
		}
		s.Render.NumReads++
		break
	}

	r.cur.AddDep(fbID, false, true)

	to := LayoutShaderRead
	found := false
	for _, t := range r.cur.Render.PreTransitions {
		if t.FB == fbID && t.Aspect == aspect && t.To == to {
			found = true
			break
		}
	}
	if !found {
		r.cur.Render.PreTransitions = append(r.cur.Render.PreTransitions, Transition{FB: fbID, Aspect: aspect, To: to})
	}
}

// CopyFramebuffer records a COPY step moving pixels from src to dst.
func (r *Recorder) CopyFramebuffer(src, dst *res.Framebuffer, srcRect, dstRect Rect, aspect res.Aspect, tag string) {
	r.markRead(fbIDOf(src))
	r.endCurRenderStep()
	step := &Step{Type: StepCopy, Tag: tag}
	step.Copy = CopyParams{SrcFB: fbIDOf(src), DstFB: fbIDOf(dst), SrcRect: srcRect, DstRect: dstRect, Aspect: aspect}
	step.AddDep(fbIDOf(src), false, true)
	step.AddDep(fbIDOf(dst), true, false)
	r.steps = append(r.steps, step)
}

// BlitFramebuffer records a BLIT step (like Copy, but allows differing
// rect sizes and performs filtering).
func (r *Recorder) BlitFramebuffer(src, dst *res.Framebuffer, srcRect, dstRect Rect, aspect res.Aspect, tag string) {
	r.markRead(fbIDOf(src))
	r.endCurRenderStep()
	step := &Step{Type: StepBlit, Tag: tag}
	step.Copy = CopyParams{SrcFB: fbIDOf(src), DstFB: fbIDOf(dst), SrcRect: srcRect, DstRect: dstRect, Aspect: aspect}
	step.AddDep(fbIDOf(src), false, true)
	step.AddDep(fbIDOf(dst), true, false)
	r.steps = append(r.steps, step)
}

// CopyFramebufferToMemory records a READBACK step, marking the
// still-open render step (if it targets src) as read from first.
func (r *Recorder) CopyFramebufferToMemory(src *res.Framebuffer, aspect res.Aspect, rect Rect, dstFormat uint32, sync, cacheOldData bool, tag string) {
	r.markRead(fbIDOf(src))
	r.endCurRenderStep()
	step := &Step{Type: StepReadback, Tag: tag}
	step.Readback = ReadbackParams{
		SrcFB: fbIDOf(src), Aspect: aspect, Rect: rect,
		DstFormat: dstFormat, Sync: sync, CacheOldData: cacheOldData,
	}
	step.AddDep(fbIDOf(src), false, true)
	r.steps = append(r.steps, step)
}

// CopyTextureToMemory records a READBACK_IMAGE step reading a plain
// texture rather than a framebuffer attachment.
func (r *Recorder) CopyTextureToMemory(tex *res.Texture, rect Rect, dstFormat uint32, tag string) {
	r.endCurRenderStep()
	step := &Step{Type: StepReadbackImage, Tag: tag}
	step.Readback = ReadbackParams{SrcTex: tex.ID, Aspect: res.AspectColor, Rect: rect, DstFormat: dstFormat, Sync: true}
	r.steps = append(r.steps, step)
}

// markRead bumps NumReads on the most recent render step targeting fbID,
// used before ending it so the optimizer can see it was consumed.
func (r *Recorder) markRead(fbID res.ID) {
	for i := len(r.steps) - 1; i >= 0; i-- {
		if r.steps[i].Type == StepRender && r.steps[i].Render.FB == fbID {
			r.steps[i].Render.NumReads++
			return
		}
	}
}

// Draw appends a DRAW command to the current render step.
func (r *Recorder) Draw(firstVertex, vertexCount, instanceCount int) {
	if r.cur == nil {
		return
	}
	r.cur.Render.Commands = append(r.cur.Render.Commands, Command{
		Op: OpDraw, FirstVertex: firstVertex, VertexCount: vertexCount, InstanceCount: instanceCount,
	})
	r.cur.Render.NumDraws++
}

// DrawIndexed appends a DRAW_INDEXED command to the current render step.
func (r *Recorder) DrawIndexed(firstIndex, indexCount, baseVertex, instanceCount int) {
	if r.cur == nil {
		return
	}
	r.cur.Render.Commands = append(r.cur.Render.Commands, Command{
		Op: OpDrawIndexed, FirstIndex: firstIndex, IndexCount: indexCount, BaseVertex: baseVertex, InstanceCount: instanceCount,
	})
	r.cur.Render.NumDraws++
}

// BindPipeline appends a BIND_PIPELINE command and folds the pipeline's
// flags into the step's accumulated PipelineFlags (PipelineFlagsAccum).
func (r *Recorder) BindPipeline(p *res.Pipeline, flags PipelineFlags) {
	if r.cur == nil {
		return
	}
	r.cur.Render.Commands = append(r.cur.Render.Commands, Command{Op: OpBindPipeline, Pipeline: p.ID})
	r.cur.Render.PipelineFlagsAccum |= flags
}

// Command appends an arbitrary pre-built command (state setters,
// uniform uploads, texture binds, and the rest of the ops in
// CommandOp) to the current render step.
func (r *Recorder) Command(c Command) {
	if r.cur == nil {
		return
	}
	r.cur.Render.Commands = append(r.cur.Render.Commands, c)
}

// Finish closes out the in-progress step (if any); call once per frame
// after the last Bind/Draw/Copy/Readback call.
func (r *Recorder) Finish() []*Step {
	r.endCurRenderStep()
	return r.steps
}

func fbIDOf(fb *res.Framebuffer) res.ID {
	if fb == nil {
		return 0
	}
	return fb.ID
}
