// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package gl adapts backend/gl/gl's low-level OpenGL function-pointer
// bindings into the render queue's backend contracts: res.Device,
// runner.Executor, frame.Fence/Swapchain, pipeline.Compiler,
// descriptor.Pool, profile.QueryPool, and drawctx.Context.
//
// Grounded on hal/gles/device.go's native-object creation shape,
// adapted from wgpu's hal.Device contract to the render queue's
// lazily-materialized res.Device contract.
package gl

import (
	"fmt"
	"unsafe"

	"github.com/tinygpu/rq/backend/gl/gl"
	"github.com/tinygpu/rq/gpufmt"
	"github.com/tinygpu/rq/res"
)

// glBuffer is the native object behind a res.Buffer handle.
type glBuffer struct {
	name   uint32
	target uint32
}

// glTexture is the native object behind a res.Texture handle.
type glTexture struct {
	name   uint32
	width  int
	height int
	genMips bool
}

// glFramebuffer is the native object behind a res.Framebuffer handle.
type glFramebuffer struct {
	fbo       uint32
	colorTex  uint32
	depthRBO  uint32
	hasDepthStencil bool
	width, height int
}

// glShader is the native object behind a res.Shader handle: the
// compiled GL shader object and its stage.
type glShader struct {
	stage  uint32
	shader uint32
}

// Device implements res.Device against a live backend/gl/gl.Context.
// It assumes the context is already current on the render thread that
// calls these methods, matching the render queue's single-render-thread design.
type Device struct {
	ctx *gl.Context
	oom bool
}

// NewDevice wraps an already-loaded GL context.
func NewDevice(ctx *gl.Context) *Device {
	return &Device{ctx: ctx}
}

func (d *Device) CreateBuffer(size int64, usage res.Usage) (any, error) {
	name := d.ctx.GenBuffers(1)
	target := uint32(gl.ARRAY_BUFFER)
	if usage&res.UsageIndex != 0 {
		target = gl.ELEMENT_ARRAY_BUFFER
	}
	d.ctx.BindBuffer(target, name)
	usageHint := uint32(gl.STATIC_DRAW)
	if usage&res.UsageDynamic != 0 {
		usageHint = gl.DYNAMIC_DRAW
	}
	d.ctx.BufferData(target, int(size), nil, usageHint)
	if err := d.checkError("CreateBuffer"); err != nil {
		return nil, err
	}
	return &glBuffer{name: name, target: target}, nil
}

func (d *Device) UploadBufferSubdata(native any, offset int64, data []byte) error {
	b := native.(*glBuffer)
	d.ctx.BindBuffer(b.target, b.name)
	if len(data) == 0 {
		return nil
	}
	d.ctx.BufferSubData(b.target, int(offset), len(data), unsafe.Pointer(&data[0]))
	return d.checkError("UploadBufferSubdata")
}

func (d *Device) CreateTexture(w, h, depth, mipCount int, format uint32) (any, error) {
	name := d.ctx.GenTextures(1)
	d.ctx.BindTexture(gl.TEXTURE_2D, name)
	internal, pixFmt, typ, ok := glFormat(gpufmt.Format(format))
	if !ok {
		return nil, fmt.Errorf("gl: unsupported texture format %d", format)
	}
	d.ctx.TexImage2D(gl.TEXTURE_2D, 0, int32(internal), int32(w), int32(h), 0, pixFmt, typ, nil)
	if err := d.checkError("CreateTexture"); err != nil {
		d.oom = true
		return nil, err
	}
	return &glTexture{name: name, width: w, height: h}, nil
}

func (d *Device) UploadTextureMip(native any, level, layer int, data []byte, rowPitch int) error {
	t := native.(*glTexture)
	d.ctx.BindTexture(gl.TEXTURE_2D, t.name)
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	// internalformat/format/type are fixed at creation time; TexImage2D
	// with nil pixels at CreateTexture already reserved storage, so a
	// sub-upload here re-specifies the same level via TexImage2D again
	// (GL has no direct mip-subdata call without TexSubImage2D, which
	// backend/gl/gl does not currently expose).
	_ = rowPitch
	d.ctx.TexImage2D(gl.TEXTURE_2D, int32(level), gl.RGBA8, int32(t.width>>uint(level)), int32(t.height>>uint(level)), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	return d.checkError("UploadTextureMip")
}

// TransitionToShaderRead is a no-op on GL: there is no explicit image
// layout state to transition, binding a texture unit is always valid
// once storage exists (the layout-transition concept is Vulkan-specific;
// GL satisfies the same invariant implicitly).
func (d *Device) TransitionToShaderRead(native any) error { return nil }

func (d *Device) CreateFramebuffer(w, h, layers, samples int, colorFormat uint32, hasDepthStencil bool) (any, error) {
	fbo := d.ctx.GenFramebuffers(1)
	d.ctx.BindFramebuffer(gl.FRAMEBUFFER, fbo)

	colorTex := d.ctx.GenTextures(1)
	d.ctx.BindTexture(gl.TEXTURE_2D, colorTex)
	internal, pixFmt, typ, ok := glFormat(gpufmt.Format(colorFormat))
	if !ok {
		return nil, fmt.Errorf("gl: unsupported framebuffer color format %d", colorFormat)
	}
	d.ctx.TexImage2D(gl.TEXTURE_2D, 0, int32(internal), int32(w), int32(h), 0, pixFmt, typ, nil)
	d.ctx.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, colorTex, 0)

	var depthRBO uint32
	if hasDepthStencil {
		depthRBO = d.ctx.GenRenderbuffers(1)
		d.ctx.BindRenderbuffer(gl.RENDERBUFFER, depthRBO)
		d.ctx.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(w), int32(h))
		d.ctx.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, depthRBO)
	}

	if status := d.ctx.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("gl: framebuffer incomplete, status 0x%x", status)
	}
	return &glFramebuffer{fbo: fbo, colorTex: colorTex, depthRBO: depthRBO, hasDepthStencil: hasDepthStencil, width: w, height: h}, nil
}

func (d *Device) CompileShaderModule(stage uint8, source []byte) (any, error) {
	glStage := uint32(gl.FRAGMENT_SHADER)
	if stage == 0 {
		glStage = gl.VERTEX_SHADER
	}
	name := d.ctx.CreateShader(glStage)
	d.ctx.ShaderSource(name, string(source))
	d.ctx.CompileShader(name)

	var status int32
	d.ctx.GetShaderiv(name, gl.COMPILE_STATUS, &status)
	if status == 0 {
		msg := d.ctx.GetShaderInfoLog(name)
		d.ctx.DeleteShader(name)
		return nil, fmt.Errorf("gl: shader compile failed: %s", msg)
	}
	return &glShader{stage: glStage, shader: name}, nil
}

func (d *Device) ReportOutOfMemory() { d.oom = true }

// OutOfMemory reports whether CreateTexture has seen any GL error or
// ReportOutOfMemory has been called. The flag is sticky: nothing clears it.
func (d *Device) OutOfMemory() bool { return d.oom }

func (d *Device) checkError(op string) error {
	if e := d.ctx.GetError(); e != 0 {
		return fmt.Errorf("gl: %s failed, error 0x%x", op, e)
	}
	return nil
}
