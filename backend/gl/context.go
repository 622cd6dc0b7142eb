// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import (
	"github.com/tinygpu/rq/backend/gl/gl"
	"github.com/tinygpu/rq/descriptor"
	"github.com/tinygpu/rq/drawctx"
	"github.com/tinygpu/rq/frame"
	"github.com/tinygpu/rq/pipeline"
	"github.com/tinygpu/rq/queue"
	"github.com/tinygpu/rq/res"
	"github.com/tinygpu/rq/runner"
)

// maxInflight is this backend's MAX_INFLIGHT; GL's
// single-context immediate-mode model still benefits from double
// buffering deferred deletion against the fence the GPU driver
// implicitly maintains.
const maxInflight = 2

// Context implements drawctx.Context for OpenGL, wiring backend/gl/gl's
// low-level bindings into the res/queue/opt/runner/pipeline/descriptor/
// frame packages built for the render queue.
type Context struct {
	dev       *Device
	manager   *res.Manager
	recorder  *queue.Recorder
	fences    []frame.Fence
	swapchain *Swapchain
	frames    *frame.Controller
	runner    *Executor
	stereo    *drawctx.StereoState

	curSlot int
}

// NewContext wires one complete GL Context from an already-loaded
// backend/gl/gl.Context and a platform SwapBuffers callback.
func NewContext(glCtx *gl.Context, width, height int, swapBuffers func() error, vendorIsARM bool) *Context {
	c := &Context{}
	c.dev = NewDevice(glCtx)
	c.manager = res.NewManager(maxInflight, func(err error) {
		if c.dev.OutOfMemory() {
			c.manager.ReportOutOfMemory()
		}
	})
	c.recorder = queue.NewRecorder(vendorIsARM)
	c.swapchain = NewSwapchain(width, height, swapBuffers)

	fences := make([]frame.Fence, maxInflight)
	for i := range fences {
		fences[i] = NewFence(glCtx)
	}
	c.fences = fences
	c.frames = frame.NewController(fences, c.swapchain, c.manager, frame.SubmitUnified)

	shaderLookup := func(id res.ID) *glShader {
		s := c.manager.Shader(id)
		if s == nil || !s.Ready() {
			return nil
		}
		return s.Native.(*glShader)
	}
	compiler := NewCompiler(glCtx, shaderLookup)
	pipelines := pipeline.NewCache(compiler, 1)
	descriptors := descriptor.NewBatcher(&Pool{})
	c.runner = NewExecutor(glCtx, c.manager, pipelines, descriptors)

	return c
}

func (c *Context) CreateBuffer(size int64, usage res.Usage, tag string) *res.Buffer {
	return c.manager.CreateBuffer(size, usage, tag)
}

func (c *Context) CreateTexture(w, h, d, mips int, format uint32, sampler res.SamplerState, genMips bool, tag string) *res.Texture {
	return c.manager.CreateTexture(w, h, d, mips, format, sampler, genMips, tag)
}

func (c *Context) CreateFramebuffer(w, h, layers, samples int, colorFormat uint32, hasDepthStencil bool, tag string) *res.Framebuffer {
	return c.manager.CreateFramebuffer(w, h, layers, samples, colorFormat, hasDepthStencil, tag)
}

func (c *Context) CreateShader(stage res.ShaderStage, source []byte, tag string) *res.Shader {
	return c.manager.CreateShader(stage, source, tag)
}

func (c *Context) CreateInputLayout(stride int, attrs []res.VertexAttr, tag string) *res.InputLayout {
	return c.manager.CreateInputLayout(stride, attrs, tag)
}

func (c *Context) CreatePipeline(desc res.PipelineDesc, tag string) *res.Pipeline {
	return c.manager.CreatePipeline(desc, tag)
}

func (c *Context) BeginFrame() error {
	slotIdx, _, err := c.frames.BeginFrame(c.dev)
	c.curSlot = slotIdx
	return err
}

func (c *Context) EndFrame() error {
	steps := c.recorder.Finish()
	if err := runner.Run(steps, c.runner, func(id res.ID) bool {
		fb := c.manager.Framebuffer(id)
		return fb != nil && fb.Failed()
	}); err != nil {
		return err
	}
	c.stereo = nil
	return nil
}

func (c *Context) Present() error {
	defer c.frames.Finish(c.curSlot)
	return c.frames.Present(c.curSlot)
}

func (c *Context) Recorder() *queue.Recorder { return c.recorder }

func (c *Context) SetStereoState(s *drawctx.StereoState) { c.stereo = s }
