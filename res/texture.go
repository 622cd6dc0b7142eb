// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package res

// Texture is a sampled-image resource. Mip data is uploaded through one
// or more TEXTURE_SUBIMAGE commands recorded against the init step that
// creates it; GenMips marks that mip levels beyond 0 are
// produced on the GPU instead of uploaded.
type Texture struct {
	Handle
	Width, Height, Depth int
	MipLevels            int
	Format                uint32 // gpufmt.Format
	Sampler               SamplerState
	GenMips               bool
}
