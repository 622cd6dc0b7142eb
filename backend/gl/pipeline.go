// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import (
	"fmt"

	"github.com/tinygpu/rq/backend/gl/gl"
	"github.com/tinygpu/rq/pipeline"
	"github.com/tinygpu/rq/res"
)

// glPipeline is the native object behind a compiled pipeline.Key variant:
// a linked program plus the raster state to apply before each draw that
// binds it (GL has no separate pipeline-state object, unlike Vulkan/DX12).
type glPipeline struct {
	program uint32
	raster  res.RasterState
}

// Compiler implements pipeline.Compiler by linking the vertex/fragment
// shader pair named in desc into one GL program. RPType/SampleCount in
// the key are part of the cache key but don't affect a GL program's
// link inputs, so distinct variants for the same shader pair end up
// sharing identical link results — still compiled once per key to keep
// the cache's promise semantics uniform across backends.
type Compiler struct {
	ctx   *gl.Context
	shaders func(res.ID) *glShader // resolves a shader handle's native object
}

// NewCompiler builds a pipeline.Compiler; shaders resolves a res.Shader
// handle's already-compiled native *glShader (via res.Manager + this
// package's Device.CompileShaderModule).
func NewCompiler(ctx *gl.Context, shaders func(res.ID) *glShader) *Compiler {
	return &Compiler{ctx: ctx, shaders: shaders}
}

func (c *Compiler) CompilePipeline(key pipeline.Key, desc res.PipelineDesc) (any, error) {
	vs := c.shaders(desc.VertexShader)
	fs := c.shaders(desc.FragmentShader)
	if vs == nil || fs == nil {
		return nil, fmt.Errorf("gl: pipeline references unmaterialized shader")
	}
	program := c.ctx.CreateProgram()
	c.ctx.AttachShader(program, vs.shader)
	c.ctx.AttachShader(program, fs.shader)
	c.ctx.LinkProgram(program)

	var status int32
	c.ctx.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == 0 {
		msg := c.ctx.GetProgramInfoLog(program)
		c.ctx.DeleteProgram(program)
		return nil, fmt.Errorf("gl: program link failed: %s", msg)
	}
	return &glPipeline{program: program, raster: desc.Raster}, nil
}
