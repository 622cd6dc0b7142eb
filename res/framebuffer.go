// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package res

// Framebuffer is an offscreen render target: a color attachment plus an
// optional combined depth-stencil attachment, both addressable later as
// a sampled texture ("color texture + optional
// depth/stencil, both bindable as a texture after the fact").
type Framebuffer struct {
	Handle
	Width, Height int
	Layers        int // > 1 for OpUniformStereoMatrix / multiview targets
	Samples       int
	ColorFormat   uint32 // gpufmt.Format
	HasDepthStencil bool

	// ColorTex/DepthTex are child handle IDs; nothing in the module
	// assigns them, so they stay zero.
	ColorTex ID
	DepthTex ID
}
