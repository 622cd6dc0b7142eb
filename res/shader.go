// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package res

// ShaderStage identifies which pipeline stage a Shader module targets.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
)

// Shader is a compiled shader module. Source is kept alongside Handle so
// a later pipeline-variant compile can re-translate it
// for a render-pass type it hasn't seen yet, without re-fetching from
// the caller.
type Shader struct {
	Handle
	Stage  ShaderStage
	Source []byte // backend-agnostic IR consumed by package shadertx
}
