// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package res

// BlendFactor and BlendOp name the fixed-function blend equation.
type BlendFactor uint8

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
)

type BlendOp uint8

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

type CompareOp uint8

const (
	CompareNever CompareOp = iota
	CompareLess
	CompareEqual
	CompareLessOrEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterOrEqual
	CompareAlways
)

// RasterState is the fixed-function pipeline state that, together with
// the two shader IDs, the vertex format, and the hardware-transform bit,
// forms a pipeline's cache key.
type RasterState struct {
	BlendEnable                        bool
	SrcColorBlend, DstColorBlend       BlendFactor
	SrcAlphaBlend, DstAlphaBlend       BlendFactor
	ColorBlendOp, AlphaBlendOp         BlendOp
	ColorWriteMask                     uint8

	DepthTestEnable, DepthWriteEnable bool
	DepthCompare                      CompareOp

	StencilEnable bool
	StencilCompare CompareOp
	StencilPass, StencilFail, StencilDepthFail uint8

	CullMode  uint8
	Topology  uint8
}

// PipelineDesc is the logical description from which a Pipeline handle
// is created. The Manager stores it as is; backend/gl builds package
// pipeline's cache key from its fields plus the step's RenderPassType
// and sample count.
type PipelineDesc struct {
	Raster         RasterState
	VertexShader   ID
	FragmentShader ID
	InputLayout    ID
	// HWTransform selects whether the vertex shader expects pre-transformed
	// (CPU "software transform") or raw attributes; a distinct variant
	// axis because it changes the vertex shader's effective input
	// signature without changing VertexShader's ID.
	HWTransform bool
}

// Pipeline is a logical pipeline: the description plus, once the render
// thread compiles it for a given RenderPassType/sample-count pair, the
// resulting native variant. Handle.Native is unused directly — actual
// native variants live behind package pipeline's cache, keyed by the
// description's fields plus render-pass type and sample count.
type Pipeline struct {
	Handle
	Desc PipelineDesc
}
