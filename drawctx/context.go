// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package drawctx is the backend-neutral front door over the whole
// render queue: one interface, Context, implemented per backend
// (backend/gl.Context today), bundling resource creation, frame
// lifecycle, and command recording behind a single per-application
// object.
package drawctx

import (
	"github.com/tinygpu/rq/queue"
	"github.com/tinygpu/rq/res"
)

// StereoState holds left/right eye view-projection matrices. It is a
// plain data struct the caller (a VR-aware frontend) fills in;
// backend/gl's Context stores it and clears it at EndFrame, and nothing
// reads it back (queue.OpUniformStereoMatrix commands carry their own
// matrices). Any actual VR SDK integration is out of scope.
type StereoState struct {
	LeftEyeMatrix  [16]float32
	RightEyeMatrix [16]float32
}

// Context is the full draw-time surface an application program against
// a single backend: resource creation (delegating to res.Manager),
// recording (delegating to queue.Recorder), and frame submission
// (delegating to frame.Controller). A concrete backend composes these
// with its own Device/Executor implementations.
type Context interface {
	// Resource creation, mirroring res.Manager's Create* methods.
	CreateBuffer(size int64, usage res.Usage, tag string) *res.Buffer
	CreateTexture(w, h, d, mips int, format uint32, sampler res.SamplerState, genMips bool, tag string) *res.Texture
	CreateFramebuffer(w, h, layers, samples int, colorFormat uint32, hasDepthStencil bool, tag string) *res.Framebuffer
	CreateShader(stage res.ShaderStage, source []byte, tag string) *res.Shader
	CreateInputLayout(stride int, attrs []res.VertexAttr, tag string) *res.InputLayout
	CreatePipeline(desc res.PipelineDesc, tag string) *res.Pipeline

	// Frame lifecycle.
	BeginFrame() error
	EndFrame() error
	Present() error

	// Recording, delegating to the frame's queue.Recorder.
	Recorder() *queue.Recorder

	// Stereo rendering hook: set before recording a frame
	// that issues OpUniformStereoMatrix; cleared at EndFrame.
	SetStereoState(s *StereoState)
}
