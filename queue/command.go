// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package queue

import "github.com/tinygpu/rq/res"

// CommandOp tags a Command's variant. Naming mirrors the underlying
// GPU operation so the runner's dispatch switch reads plainly.
type CommandOp uint8

const (
	OpBindPipeline CommandOp = iota
	OpViewport
	OpScissor
	OpBlendFactor
	OpStencilParams
	OpDepth
	OpLogic
	OpPushConstants
	OpUniform1f
	OpUniform4f
	OpUniform4i
	OpUniform4ui
	OpUniformMatrix
	OpUniformStereoMatrix
	OpBindTexture
	OpBindFBTexture
	OpTextureSampler
	OpTextureLOD
	OpGenMips
	OpClear
	OpTextureSubImage
	OpDraw
	OpDrawIndexed
	OpRaster
	OpDebugAnnotation
	// OpRemoved marks a command slot that the runner and the GL executor
	// skip; no pass in this module writes it.
	OpRemoved
)

// Command is a tagged union of one recorded render-thread instruction.
// Each op populates only the fields it needs; the rest stay zero.
type Command struct {
	Op CommandOp

	// OpBindPipeline
	Pipeline res.ID

	// OpViewport / OpScissor
	Rect Rect

	// OpBlendFactor
	BlendConstant [4]float32

	// OpStencilParams
	StencilWriteMask, StencilCompareMask, StencilRef uint8

	// OpDepth
	DepthRangeMin, DepthRangeMax float32

	// OpLogic
	LogicOp uint8

	// OpPushConstants
	PushConstantOffset int
	PushConstantData   []byte

	// OpUniform1f / OpUniform4f / OpUniform4i / OpUniform4ui /
	// OpUniformMatrix / OpUniformStereoMatrix
	UniformLocation int32
	UniformF1       float32
	UniformF4       [4]float32
	UniformI4       [4]int32
	UniformUI4      [4]uint32
	UniformMatrix   [16]float32
	// UniformMatrixRight is the second eye's matrix for
	// OpUniformStereoMatrix.
	UniformMatrixRight [16]float32

	// OpBindTexture / OpBindFBTexture
	Slot    int
	Texture res.ID
	// SrcFB/SrcAspect are set instead of Texture for OpBindFBTexture,
	// which binds another step's framebuffer attachment directly.
	SrcFB     res.ID
	SrcAspect res.Aspect

	// OpTextureSampler
	Sampler res.SamplerState

	// OpTextureLOD
	LODMin, LODMax, LODBias float32

	// OpClear (intra-pass clear, distinct from the pass's LoadClear)
	ClearMask  uint8 // bit0 color, bit1 depth, bit2 stencil
	ClearColor [4]float32
	ClearDepth float32
	ClearStencil uint8

	// OpTextureSubImage
	MipLevel  int
	DestX, DestY int
	SrcData   []byte
	SrcStride int

	// OpDraw
	VertexCount, FirstVertex int
	InstanceCount            int

	// OpDrawIndexed
	IndexCount, FirstIndex int
	BaseVertex             int

	// OpRaster — fixed-function state not covered above (cull mode, front
	// face, line width); kept as a small inline struct rather than more
	// top-level fields since it is set as a unit.
	Raster RasterState

	// OpDebugAnnotation
	Label string
}

// RasterState groups fixed-function rasterizer bits set together by a
// single OpRaster command.
type RasterState struct {
	CullMode  uint8
	FrontCW   bool
	LineWidth float32
}
