// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package queue implements the emu-thread side of the render queue: the
// typed Step/Command records and the Recorder that appends
// to them. The render thread's consumer lives in package
// runner; the step-list rewriting passes live in package opt.
package queue

import "github.com/tinygpu/rq/res"

// StepType tags a Step's kind.
type StepType uint8

const (
	StepRender StepType = iota
	StepCopy
	StepBlit
	StepReadback
	StepReadbackImage
	StepRenderSkip
)

// LoadAction selects how a render pass attachment's previous contents are
// treated at pass start.
type LoadAction uint8

const (
	LoadKeep LoadAction = iota
	LoadClear
	LoadDontCare
)

// StoreAction selects whether a render pass attachment's contents are
// written back at pass end.
type StoreAction uint8

const (
	StoreStore StoreAction = iota
	StoreDontCare
)

// Layout is a coarse image layout, tracked per attachment at step
// boundaries.
type Layout uint8

const (
	LayoutUndefined Layout = iota
	LayoutColorAttachment
	LayoutDepthStencilAttachment
	LayoutTransferSrc
	LayoutTransferDst
	LayoutShaderRead
	LayoutPresentSrc
	LayoutGeneral
)

// Rect is an integer render-area rectangle.
type Rect struct{ X, Y, W, H int }

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if o.W == 0 && o.H == 0 {
		return r
	}
	if r.W == 0 && r.H == 0 {
		return o
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether r is fully inside bounds.
func (r Rect) Contains(bounds Rect) bool {
	return r.X >= bounds.X && r.Y >= bounds.Y &&
		r.X+r.W <= bounds.X+bounds.W && r.Y+r.H <= bounds.Y+bounds.H
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// PipelineFlags is an accumulated OR of flags contributed by the
// pipelines bound within a step. The recorder accumulates it; the step's
// RenderPassType is not derived from it.
type PipelineFlags uint32

const (
	PipelineUsesDepthStencil PipelineFlags = 1 << iota
	PipelineUsesMultiView
	PipelineUsesMultisample
)

// Transition is a pre-step image-layout change request: "fbID's aspect
// must reach `To` before this step begins".
type Transition struct {
	FB     res.ID
	Aspect res.Aspect
	To     Layout
}

// FBRef is a stable small-vector entry recording that a step touches a
// framebuffer, used for the renderpass-merge pass's dependency scan
// instead of a pointer graph.
type FBRef struct {
	FB     res.ID
	Wrote  bool
	Read   bool
}

// RenderParams holds the fields specific to a RENDER step.
type RenderParams struct {
	FB res.ID // zero value == backbuffer

	ColorLoad, DepthLoad, StencilLoad    LoadAction
	ColorStore, DepthStore, StencilStore StoreAction

	ClearColor          [4]float32
	ClearDepth          float32
	ClearStencil        uint8

	Area Rect

	NumDraws int
	NumReads int
	PipelineFlagsAccum PipelineFlags

	// FinalColorLayout/FinalDepthLayout are assigned at step close by the
	// command recorder (back-stamping) or by the optimizer's
	// final-layout-fill pass; LayoutUndefined until then.
	FinalColorLayout Layout
	FinalDepthLayout Layout

	PreTransitions []Transition
	Commands       []Command

	// RPType is the step's render-pass type. The recorder leaves it zero
	// and nothing derives it from PipelineFlagsAccum, attachments,
	// layer/sample count or backbuffer-ness; the optimizer combines values
	// with Merge when it folds steps, and backend/gl copies it into
	// pipeline.Key.
	RPType RenderPassType
	SampleCount int
}

// CopyParams holds the fields specific to COPY/BLIT steps.
type CopyParams struct {
	SrcFB, DstFB     res.ID
	SrcRect, DstRect Rect
	Aspect           res.Aspect
}

// ReadbackParams holds the fields specific to READBACK/READBACK_IMAGE steps.
type ReadbackParams struct {
	SrcFB        res.ID  // READBACK
	SrcTex       res.ID  // READBACK_IMAGE
	Aspect       res.Aspect
	Rect         Rect
	DstFormat    uint32 // gpufmt.Format
	Sync         bool   // BLOCK mode: FlushSync before returning
	CacheOldData bool   // OLD_DATA_OK mode: reuse buffer keyed by (fb,w,h)
}

// Step is one coarse-grained unit of GPU work.
type Step struct {
	Type StepType
	Tag  string

	Render   RenderParams
	Copy     CopyParams
	Readback ReadbackParams

	// Deps lists framebuffers this step reads or writes, used by the
	// optimizer's renderpass-merge pass to detect blockers without a
	// pointer graph.
	Deps []FBRef
}

// AddDep records that the step touches fb, merging with any existing
// entry for the same id.
func (s *Step) AddDep(fb res.ID, wrote, read bool) {
	for i := range s.Deps {
		if s.Deps[i].FB == fb {
			s.Deps[i].Wrote = s.Deps[i].Wrote || wrote
			s.Deps[i].Read = s.Deps[i].Read || read
			return
		}
	}
	s.Deps = append(s.Deps, FBRef{FB: fb, Wrote: wrote, Read: read})
}

// RenderPassType is a bitset selecting which compiled pipeline variant a
// step is compatible with.
type RenderPassType uint8

const (
	RPHasDepth RenderPassType = 1 << iota
	RPMultiView
	RPMultisample
	RPBackbuffer
)

// Merge combines two RenderPassTypes for two steps folding into one
// render pass: if either is BACKBUFFER both must be BACKBUFFER (and
// must be equal); otherwise MULTIVIEW must match exactly, and the
// remaining bits are OR'd.
func (a RenderPassType) Merge(b RenderPassType) (RenderPassType, bool) {
	aBack := a&RPBackbuffer != 0
	bBack := b&RPBackbuffer != 0
	if aBack || bBack {
		return a, a == b
	}
	if a&RPMultiView != b&RPMultiView {
		return a, false
	}
	return a | b, true
}

// CompatibleWith reports whether a pipeline compiled for `want` at
// `wantSamples` can be used for a step of type t at sampleCount samples:
// the types must be identical and sample counts must match.
func (a RenderPassType) CompatibleWith(want RenderPassType, sampleCount, wantSamples int) bool {
	return a == want && sampleCount == wantSamples
}
