// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package caps probes and records device capabilities. It is invoked once
// per backend at device-open time and produces an immutable Caps record
// that the rest of the render queue branches on instead of re-deriving
// vendor-specific behavior at every call site.
package caps

// Vendor identifies the GPU driver vendor. Downstream code should prefer
// branching on the Bugs mask over Vendor directly; Vendor exists mainly
// to derive the mask and for diagnostics.
type Vendor uint8

const (
	VendorUnknown Vendor = iota
	VendorNVIDIA
	VendorAMD
	VendorIntel
	VendorARM      // Mali
	VendorImgTec   // PowerVR
	VendorQualcomm // Adreno
	VendorBroadcom // VideoCore
	VendorVivante
	VendorApple
)

func (v Vendor) String() string {
	switch v {
	case VendorNVIDIA:
		return "nvidia"
	case VendorAMD:
		return "amd"
	case VendorIntel:
		return "intel"
	case VendorARM:
		return "arm"
	case VendorImgTec:
		return "imgtec"
	case VendorQualcomm:
		return "qualcomm"
	case VendorBroadcom:
		return "broadcom"
	case VendorVivante:
		return "vivante"
	case VendorApple:
		return "apple"
	default:
		return "unknown"
	}
}

// Bugs is a bitmask of known driver defects. The render queue and its
// backends consult this mask rather than switching on Vendor, so a new
// workaround only needs to touch the probe that sets the bit and the one
// call site that reads it.
type Bugs uint32

const (
	BugNone Bugs = 0

	// BugPVRShaderPrecisionBad marks PowerVR SGX parts whose mediump
	// precision is unreliable for general shader math.
	BugPVRShaderPrecisionBad Bugs = 1 << iota

	// BugPVRShaderPrecisionTerrible marks the subset of SGX parts (520
	// through 545) where even straightforward mediump math misbehaves.
	BugPVRShaderPrecisionTerrible

	// BugPVRGenMipmapHeightGreater works around a PowerVR glGenerateMipmap
	// bug when height > width.
	BugPVRGenMipmapHeightGreater

	// BugDualSourceBlendingBroken disables GL_ARB_blend_func_extended /
	// VK_EXT_blend_operation_advanced style dual-source blending on
	// drivers where it silently misrenders (all Intel Vulkan drivers, AMD
	// Vulkan drivers below version 0x00407000, all pre-3.0 GL).
	BugDualSourceBlendingBroken

	// BugAdrenoResourceDeadlock marks Adreno drivers below model 600 on Android 8+
	// that can deadlock on concurrent resource access.
	BugAdrenoResourceDeadlock

	// BugMaliStencilDiscardBug marks Mali drivers where a stencil-discard
	// draw can corrupt unrelated framebuffer state; the recorder emits an
	// extra CLEAR to route around it.
	BugMaliStencilDiscardBug

	// BugEqualWZCorruptsDepth marks Mali GPUs where gl_Position.w == .z
	// corrupts the depth buffer; callers nudge Z by an epsilon.
	BugEqualWZCorruptsDepth

	// BugBrokenNaNInConditional marks GPUs (early Tegra, Vivante,
	// Broadcom VideoCore) whose shader cores don't handle NaN in
	// conditional expressions per IEEE 754.
	BugBrokenNaNInConditional

	// BugMapBufferRangeSlow marks drivers where glMapBufferRange is
	// slower than glBufferSubData, steering the push buffer strategy
	// away from persistent mapping.
	BugMapBufferRangeSlow

	// BugNoDepthCannotDiscardStencil marks Adreno 5xx drivers that fail
	// to discard the stencil aspect when depth write is disabled.
	BugNoDepthCannotDiscardStencil

	// BugColorWriteMaskBrokenWithDepthTest marks Adreno drivers where the
	// color write mask is not honored in the presence of a depth test.
	BugColorWriteMaskBrokenWithDepthTest

	// BugRaspberryShaderCompHang marks Broadcom VideoCore (Raspberry Pi)
	// on 32-bit ARM where certain shader compiles hang the driver thread.
	BugRaspberryShaderCompHang

	// BugBrokenFlatInShader marks Apple GPUs where the `flat` interpolation
	// qualifier misbehaves for certain varyings.
	BugBrokenFlatInShader

	// BugFBOUnusable marks GPUs/drivers where framebuffer objects cannot
	// be trusted at all; forces a software fallback path.
	BugFBOUnusable
)

// Has reports whether every bit in want is set in b.
func (b Bugs) Has(want Bugs) bool { return b&want == want }

// Limits captures fixed numeric device limits consulted by the memory
// manager, descriptor batcher, and pipeline cache.
type Limits struct {
	MaxTextureSize       int
	MaxAnisotropy        float32
	MaxColorAttachments  int
	MaxMSAASamples       int
	MinUniformBufferAlignment int
	MinStorageBufferAlignment int
}

// Features records per-feature booleans the render queue branches on.
type Features struct {
	Anisotropy              bool
	DualSourceBlend         bool
	FramebufferBlit         bool
	FramebufferCopy         bool
	FramebufferDepthBlit    bool
	DepthClamp              bool
	ClipDistance            bool
	CullDistance             bool
	LogicOps                bool
	BlendMinMax             bool
	Texture3D               bool
	TextureNPOT              bool
	FragmentShaderDepthWrite bool
	StencilExport            bool
	CompressedBC             bool
	CompressedETC2           bool
	CompressedASTC           bool
	PresentWait              bool // VK_KHR_present_wait
	TimelineSemaphore        bool
}

// Caps is the immutable capability record a backend fills in once per
// device and that is consulted for the remainder of the process lifetime.
type Caps struct {
	Vendor          Vendor
	Model           string
	APIVersionMajor int
	APIVersionMinor int
	APIVersionPatch int

	DriverVersion uint32 // backend-specific encoding; compared only within the same vendor+backend
	DeviceID      uint32 // backend-specific encoding (Vulkan: high bits of vkPhysicalDeviceProperties.deviceID)

	Features Features
	Limits   Limits

	// PreferredDepthFormat is the depth format the backend recommends for
	// framebuffers that don't need a specific one (gpufmt.D24S8 or
	// gpufmt.D32FS8 depending on driver preference).
	PreferredDepthFormat uint32 // gpufmt.Format, avoiding an import cycle with gpufmt's test-only usages

	Bugs Bugs

	// IsTilingGPU is a rough heuristic (GLES on a mobile vendor) used to
	// decide whether render-pass load/store actions matter enough to
	// bother optimizing (tile-based deferred renderers pay a real cost
	// for DONT_CARE mistakes; desktop IMRs mostly don't).
	IsTilingGPU bool
}
