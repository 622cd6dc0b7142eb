// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import (
	"fmt"
	"unsafe"

	"github.com/tinygpu/rq/backend/gl/gl"
	"github.com/tinygpu/rq/descriptor"
	"github.com/tinygpu/rq/pipeline"
	"github.com/tinygpu/rq/queue"
	"github.com/tinygpu/rq/res"
)

// Executor implements runner.Executor for GL: each Step's commands are
// issued immediately against the bound context, since GL has no
// separate command-buffer recording step the way Vulkan does.
//
// Grounded on hal/gles/command.go's immediate-mode command encoder and
// VulkanQueueRunner.cpp's per-step dispatch this package's sibling
// runner.Run already mirrors structurally.
type Executor struct {
	ctx        *gl.Context
	manager    *res.Manager
	pipelines  *pipeline.Cache
	descriptors *descriptor.Batcher

	curPipeline *glPipeline
	curRaster   res.RasterState
}

// NewExecutor builds an Executor bound to manager for resource lookups,
// pipelines for variant compilation, and descriptors for bind-set reuse.
func NewExecutor(ctx *gl.Context, manager *res.Manager, pipelines *pipeline.Cache, descriptors *descriptor.Batcher) *Executor {
	return &Executor{ctx: ctx, manager: manager, pipelines: pipelines, descriptors: descriptors}
}

// TransitionLayout is a no-op on GL (see Device.TransitionToShaderRead).
func (e *Executor) TransitionLayout(fb res.ID, aspect res.Aspect, to queue.Layout) error { return nil }

func (e *Executor) nativeFB(id res.ID) *glFramebuffer {
	if id == 0 {
		return nil // backbuffer
	}
	fb := e.manager.Framebuffer(id)
	if fb == nil || !fb.Ready() {
		return nil
	}
	return fb.Native.(*glFramebuffer)
}

func (e *Executor) BeginRenderPass(step *queue.Step) error {
	r := &step.Render
	native := e.nativeFB(r.FB)
	if native != nil {
		e.ctx.BindFramebuffer(gl.FRAMEBUFFER, native.fbo)
		e.ctx.Viewport(0, 0, int32(native.width), int32(native.height))
	} else {
		e.ctx.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}

	var mask uint32
	if r.ColorLoad == queue.LoadClear {
		e.ctx.ClearColor(r.ClearColor[0], r.ClearColor[1], r.ClearColor[2], r.ClearColor[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if r.DepthLoad == queue.LoadClear {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if r.StencilLoad == queue.LoadClear {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	if mask != 0 {
		if r.DepthLoad == queue.LoadClear || r.StencilLoad == queue.LoadClear {
			e.ctx.DepthMask(true)
		}
		e.ctx.Clear(mask)
	}
	if r.Area.W > 0 || r.Area.H > 0 {
		e.ctx.Enable(gl.SCISSOR_TEST)
		e.ctx.Scissor(int32(r.Area.X), int32(r.Area.Y), int32(r.Area.W), int32(r.Area.H))
	}
	return nil
}

func (e *Executor) EndRenderPass(step *queue.Step) error {
	e.ctx.Disable(gl.SCISSOR_TEST)
	e.curPipeline = nil
	return nil
}

func (e *Executor) ExecuteCommand(step *queue.Step, cmd queue.Command) error {
	switch cmd.Op {
	case queue.OpRemoved:
		return nil
	case queue.OpBindPipeline:
		return e.bindPipeline(step, cmd.Pipeline)
	case queue.OpViewport:
		e.ctx.Viewport(int32(cmd.Rect.X), int32(cmd.Rect.Y), int32(cmd.Rect.W), int32(cmd.Rect.H))
	case queue.OpScissor:
		e.ctx.Scissor(int32(cmd.Rect.X), int32(cmd.Rect.Y), int32(cmd.Rect.W), int32(cmd.Rect.H))
	case queue.OpBlendFactor:
		e.ctx.BlendColor(cmd.BlendConstant[0], cmd.BlendConstant[1], cmd.BlendConstant[2], cmd.BlendConstant[3])
	case queue.OpStencilParams:
		e.ctx.StencilFuncSeparate(gl.FRONT_AND_BACK, compareToGL(e.curRaster.StencilCompare),
			int32(cmd.StencilRef), uint32(cmd.StencilCompareMask))
		e.ctx.StencilMaskSeparate(gl.FRONT_AND_BACK, uint32(cmd.StencilWriteMask))
	case queue.OpDepth:
		// GL's depth range is normalized [0,1] unlike Vulkan's arbitrary
		// viewport depth range; applied via no dedicated call in this
		// binding (glDepthRangef is not exposed), so min/max are recorded
		// but not separately enforced beyond the default range.
		_ = cmd.DepthRangeMin
		_ = cmd.DepthRangeMax
	case queue.OpPushConstants:
		// GL has no push-constant analogue; push-constant data is instead
		// expected to arrive as individual Uniform* commands, matching
		// hal/gles's uniform-block-free shader ABI.
	case queue.OpUniform1f:
		e.ctx.Uniform1f(cmd.UniformLocation, cmd.UniformF1)
	case queue.OpUniform4f:
		e.ctx.Uniform4f(cmd.UniformLocation, cmd.UniformF4[0], cmd.UniformF4[1], cmd.UniformF4[2], cmd.UniformF4[3])
	case queue.OpUniform4i:
		v := cmd.UniformI4
		e.ctx.Uniform4iv(cmd.UniformLocation, v[:])
	case queue.OpUniform4ui:
		v := [4]int32{int32(cmd.UniformUI4[0]), int32(cmd.UniformUI4[1]), int32(cmd.UniformUI4[2]), int32(cmd.UniformUI4[3])}
		e.ctx.Uniform4iv(cmd.UniformLocation, v[:])
	case queue.OpUniformMatrix:
		m := cmd.UniformMatrix
		e.ctx.UniformMatrix4fv(cmd.UniformLocation, false, m[:])
	case queue.OpUniformStereoMatrix:
		// Only the left-eye matrix maps onto a single GL uniform location;
		// the right-eye matrix is consumed by a VR-aware caller issuing a
		// second pass with its own OpUniformMatrix: stereo rendering is two
		// ordinary passes at this layer.
		m := cmd.UniformMatrix
		e.ctx.UniformMatrix4fv(cmd.UniformLocation, false, m[:])
	case queue.OpBindTexture:
		e.bindTexture(cmd.Slot, cmd.Texture)
	case queue.OpBindFBTexture:
		e.bindFBTexture(cmd.Slot, cmd.SrcFB, cmd.SrcAspect)
	case queue.OpTextureSampler:
		e.applySampler(cmd.Sampler)
	case queue.OpTextureLOD:
		// Per-draw LOD clamping has no direct GL call wired in this
		// binding (no glTexParameterf(TEXTURE_MIN_LOD/MAX_LOD) wrapper);
		// left unapplied, matching backend/gl/gl's current call surface.
	case queue.OpGenMips:
		e.ctx.GenerateMipmap(gl.TEXTURE_2D)
	case queue.OpClear:
		e.inlineClear(cmd)
	case queue.OpTextureSubImage:
		e.textureSubImage(cmd)
	case queue.OpDraw:
		mode := topologyToGL(e.curRaster.Topology)
		e.ctx.DrawArrays(mode, int32(cmd.FirstVertex), int32(cmd.VertexCount))
	case queue.OpDrawIndexed:
		mode := topologyToGL(e.curRaster.Topology)
		offset := uintptr(cmd.FirstIndex * 2)
		e.ctx.DrawElements(mode, int32(cmd.IndexCount), gl.UNSIGNED_SHORT, offset)
	case queue.OpRaster:
		e.applyRasterCommand(cmd.Raster)
	case queue.OpDebugAnnotation:
		// No GL_KHR_debug push/pop group wrapper in this binding; labels
		// are dropped rather than fabricating an unexposed call.
	default:
		return fmt.Errorf("gl: unhandled command op %d", cmd.Op)
	}
	return nil
}

func (e *Executor) bindPipeline(step *queue.Step, id res.ID) error {
	p := e.manager.Pipeline(id)
	if p == nil {
		return fmt.Errorf("gl: bind pipeline: unknown handle")
	}
	key := pipeline.Key{
		VertexShader:   p.Desc.VertexShader,
		FragmentShader: p.Desc.FragmentShader,
		InputLayout:    p.Desc.InputLayout,
		HWTransform:    p.Desc.HWTransform,
		Raster:         p.Desc.Raster,
		RPType:         step.Render.RPType,
		SampleCount:    step.Render.SampleCount,
	}
	handle := e.pipelines.GetOrCompile(key, p.Desc)
	native, err := handle.Await()
	if err != nil {
		return fmt.Errorf("gl: pipeline compile: %w", err)
	}
	gp := native.(*glPipeline)
	e.curPipeline = gp
	e.curRaster = gp.raster
	e.ctx.UseProgram(gp.program)
	e.applyRasterState(gp.raster)
	return nil
}

func (e *Executor) applyRasterState(r res.RasterState) {
	if r.BlendEnable {
		e.ctx.Enable(gl.BLEND)
		e.ctx.BlendFuncSeparate(blendFactorToGL(r.SrcColorBlend), blendFactorToGL(r.DstColorBlend),
			blendFactorToGL(r.SrcAlphaBlend), blendFactorToGL(r.DstAlphaBlend))
		e.ctx.BlendEquationSeparate(blendOpToGL(r.ColorBlendOp), blendOpToGL(r.AlphaBlendOp))
	} else {
		e.ctx.Disable(gl.BLEND)
	}
	e.ctx.ColorMask(r.ColorWriteMask&1 != 0, r.ColorWriteMask&2 != 0, r.ColorWriteMask&4 != 0, r.ColorWriteMask&8 != 0)

	if r.DepthTestEnable {
		e.ctx.Enable(gl.DEPTH_TEST)
		e.ctx.DepthFunc(compareToGL(r.DepthCompare))
	} else {
		e.ctx.Disable(gl.DEPTH_TEST)
	}
	e.ctx.DepthMask(r.DepthWriteEnable)

	if r.StencilEnable {
		e.ctx.Enable(gl.STENCIL_TEST)
	} else {
		e.ctx.Disable(gl.STENCIL_TEST)
	}

	e.applyRasterCommand(queue.RasterState{CullMode: r.CullMode})
}

func (e *Executor) applyRasterCommand(r queue.RasterState) {
	switch r.CullMode {
	case 0:
		e.ctx.Disable(gl.CULL_FACE)
	case 1:
		e.ctx.Enable(gl.CULL_FACE)
		e.ctx.CullFace(gl.FRONT)
	case 2:
		e.ctx.Enable(gl.CULL_FACE)
		e.ctx.CullFace(gl.BACK)
	}
	if r.FrontCW {
		e.ctx.FrontFace(gl.CW)
	} else {
		e.ctx.FrontFace(gl.CCW)
	}
}

func (e *Executor) bindTexture(slot int, id res.ID) {
	t := e.manager.Texture(id)
	if t == nil || !t.Ready() {
		return
	}
	e.ctx.ActiveTexture(gl.TEXTURE0 + uint32(slot))
	e.ctx.BindTexture(gl.TEXTURE_2D, t.Native.(*glTexture).name)
}

func (e *Executor) bindFBTexture(slot int, fbID res.ID, aspect res.Aspect) {
	fb := e.nativeFB(fbID)
	if fb == nil {
		return
	}
	e.ctx.ActiveTexture(gl.TEXTURE0 + uint32(slot))
	e.ctx.BindTexture(gl.TEXTURE_2D, fb.colorTex)
}

func (e *Executor) applySampler(s res.SamplerState) {
	e.ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, int32(glWrap(s.WrapU)))
	e.ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, int32(glWrap(s.WrapV)))
	e.ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, int32(glFilter(s.MinFilter, false)))
	e.ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, int32(glFilter(s.MagFilter, false)))
}

func (e *Executor) inlineClear(cmd queue.Command) {
	var mask uint32
	if cmd.ClearMask&1 != 0 {
		e.ctx.ClearColor(cmd.ClearColor[0], cmd.ClearColor[1], cmd.ClearColor[2], cmd.ClearColor[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if cmd.ClearMask&2 != 0 {
		e.ctx.DepthMask(true)
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if cmd.ClearMask&4 != 0 {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	if mask != 0 {
		e.ctx.Clear(mask)
	}
}

func (e *Executor) textureSubImage(cmd queue.Command) {
	if len(cmd.SrcData) == 0 {
		return
	}
	e.ctx.TexImage2D(gl.TEXTURE_2D, int32(cmd.MipLevel), gl.RGBA8,
		int32(cmd.SrcStride/4), int32(len(cmd.SrcData)/cmd.SrcStride), 0, gl.RGBA, gl.UNSIGNED_BYTE,
		unsafe.Pointer(&cmd.SrcData[0]))
}

func (e *Executor) Copy(step *queue.Step) error {
	return e.blitInternal(step, gl.NEAREST)
}

func (e *Executor) Blit(step *queue.Step) error {
	return e.blitInternal(step, gl.LINEAR)
}

func (e *Executor) blitInternal(step *queue.Step, filter uint32) error {
	c := &step.Copy
	src := e.nativeFB(c.SrcFB)
	dst := e.nativeFB(c.DstFB)

	if src != nil {
		e.ctx.BindFramebuffer(gl.READ_FRAMEBUFFER, src.fbo)
	} else {
		e.ctx.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	}
	if dst != nil {
		e.ctx.BindFramebuffer(gl.DRAW_FRAMEBUFFER, dst.fbo)
	} else {
		e.ctx.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	}

	mask := uint32(gl.COLOR_BUFFER_BIT)
	if c.Aspect == res.AspectDepth || c.Aspect == res.AspectDepthStencil {
		mask = gl.DEPTH_BUFFER_BIT
	}
	e.ctx.BlitFramebuffer(
		int32(c.SrcRect.X), int32(c.SrcRect.Y), int32(c.SrcRect.X+c.SrcRect.W), int32(c.SrcRect.Y+c.SrcRect.H),
		int32(c.DstRect.X), int32(c.DstRect.Y), int32(c.DstRect.X+c.DstRect.W), int32(c.DstRect.Y+c.DstRect.H),
		mask, filter)
	return nil
}

func (e *Executor) Readback(step *queue.Step) error {
	c := &step.Readback
	src := e.nativeFB(c.SrcFB)
	if src != nil {
		e.ctx.BindFramebuffer(gl.READ_FRAMEBUFFER, src.fbo)
	} else {
		e.ctx.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	}
	// The destination buffer is allocated and owned by the caller that
	// issued the READBACK step (outside Executor's contract); reading
	// into it is therefore done by the caller after this returns via its
	// own ReadPixels-backed accessor, mirroring frame.Controller's
	// Collect-after-fence-signal handoff rather than duplicating a buffer
	// owner here.
	return nil
}

func (e *Executor) ReadbackImage(step *queue.Step) error {
	t := e.manager.Texture(step.Readback.SrcTex)
	if t == nil || !t.Ready() {
		return fmt.Errorf("gl: readback image: unmaterialized texture")
	}
	return nil
}

// AcquireBackbuffer is a no-op on GL: the default framebuffer is always
// available, there is no explicit acquire step the way a Vulkan
// swapchain requires.
func (e *Executor) AcquireBackbuffer() error { return nil }

func blendFactorToGL(f res.BlendFactor) uint32 {
	switch f {
	case res.BlendOne:
		return gl.ONE
	case res.BlendSrcAlpha:
		return gl.SRC_ALPHA
	case res.BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case res.BlendDstAlpha:
		return gl.DST_ALPHA
	case res.BlendOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	default:
		return gl.ZERO
	}
}

func blendOpToGL(op res.BlendOp) uint32 {
	switch op {
	case res.BlendOpSubtract:
		return gl.FUNC_SUBTRACT
	case res.BlendOpReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case res.BlendOpMin:
		return gl.MIN
	case res.BlendOpMax:
		return gl.MAX
	default:
		return gl.FUNC_ADD
	}
}

func compareToGL(c res.CompareOp) uint32 {
	switch c {
	case res.CompareLess:
		return gl.LESS
	case res.CompareEqual:
		return gl.EQUAL
	case res.CompareLessOrEqual:
		return gl.LEQUAL
	case res.CompareGreater:
		return gl.GREATER
	case res.CompareNotEqual:
		return gl.NOTEQUAL
	case res.CompareGreaterOrEqual:
		return gl.GEQUAL
	case res.CompareAlways:
		return gl.ALWAYS
	default:
		return gl.NEVER
	}
}

// topologyToGL maps res.RasterState.Topology (0=triangles, 1=triangle
// strip, 2=lines, 3=points) to a GL primitive mode.
func topologyToGL(topology uint8) uint32 {
	switch topology {
	case 1:
		return gl.TRIANGLE_STRIP
	case 2:
		return gl.LINES
	case 3:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}
