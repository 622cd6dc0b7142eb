// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package shadertx is the boundary between the backend-agnostic
// res.Shader source stored on a handle and the GLSL/SPIR-V text or
// bytes a concrete backend's Device.CompileShaderModule actually wants.
// It treats github.com/gogpu/naga strictly as a black box: source in,
// target-language output out, no inspection of naga's AST/IR from
// outside this package.
//
// Grounded on hal/gles/shader.go's Parse -> Lower -> glsl.Compile
// pipeline and hal/dx12/device.go's Parse -> LowerWithSource -> hlsl.Compile
// pipeline.
package shadertx

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
)

// Stage names the shader stage being translated, mirroring
// res.ShaderStage without importing package res (shadertx stays a leaf
// package any backend can import without a cycle).
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

// ToGLSL translates WGSL source to GLSL 4.30 core for the given entry
// point, for the GL backend. 4.30 is required for the
// layout(binding=N) qualifiers naga emits.
func ToGLSL(wgsl string, entryPoint string, stage Stage) (string, error) {
	ast, err := naga.Parse(wgsl)
	if err != nil {
		return "", fmt.Errorf("shadertx: WGSL parse error: %w", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return "", fmt.Errorf("shadertx: WGSL lower error: %w", err)
	}
	code, _, err := glsl.Compile(module, glsl.Options{
		LangVersion:        glsl.Version430,
		EntryPoint:         entryPoint,
		ForceHighPrecision: true,
	})
	if err != nil {
		return "", fmt.Errorf("shadertx: GLSL compile error for entry point %q: %w", entryPoint, err)
	}
	return code, nil
}

// ValidateSPIRV checks that a res.Shader's Source looks like a
// well-formed SPIR-V module before handing it to the Vulkan backend.
// Unlike GL, Vulkan consumes SPIR-V directly rather than through naga:
// there is no confirmed naga SPIR-V emission backend in this stack, so
// Vulkan shaders are supplied pre-compiled (matching how the Vulkan HAL
// layer itself expects CreateShaderModule's input).
func ValidateSPIRV(bytes []byte) error {
	const spirvMagic = 0x07230203
	if len(bytes) < 4 || len(bytes)%4 != 0 {
		return fmt.Errorf("shadertx: SPIR-V module must be a non-empty multiple of 4 bytes, got %d", len(bytes))
	}
	magic := uint32(bytes[0]) | uint32(bytes[1])<<8 | uint32(bytes[2])<<16 | uint32(bytes[3])<<24
	magicBE := uint32(bytes[3]) | uint32(bytes[2])<<8 | uint32(bytes[1])<<16 | uint32(bytes[0])<<24
	if magic != spirvMagic && magicBE != spirvMagic {
		return fmt.Errorf("shadertx: SPIR-V magic number mismatch")
	}
	return nil
}
