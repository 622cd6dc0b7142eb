// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package caps

// VulkanDeviceInfo is the subset of vkGetPhysicalDeviceProperties the
// Vulkan bug-mask rules need. Kept narrow and backend-agnostic so the
// rules in this file can be unit tested without a live instance.
type VulkanDeviceInfo struct {
	Vendor        Vendor
	DeviceID      uint32 // vkPhysicalDeviceProperties.deviceID
	DriverVersion uint32 // vkPhysicalDeviceProperties.driverVersion
}

// VulkanBugs derives the Vulkan bug mask. The (vendor, ID-range,
// driver-version-range) triggers below are ported verbatim from a
// device probe: they are live fixes for specific games and devices,
// not general heuristics, and must not be "improved" without
// re-validating against the hardware that motivated them.
func VulkanBugs(d VulkanDeviceInfo) Bugs {
	var b Bugs
	switch d.Vendor {
	case VendorQualcomm:
		// Adreno 5xx devices with a driver version below 0x80180000 fail
		// to discard stencil when depth write is off.
		if d.DeviceID >= 0x05000000 && d.DeviceID < 0x06000000 {
			if d.DriverVersion < 0x80180000 {
				b |= BugNoDepthCannotDiscardStencil
			}
		}
		// Color write mask not honored in certain scenarios with a depth
		// test; observed present through at least driver 0x80180000.
		b |= BugColorWriteMaskBrokenWithDepthTest
	case VendorAMD:
		if d.DriverVersion < 0x00407000 {
			b |= BugDualSourceBlendingBroken
		}
	case VendorIntel:
		b |= BugDualSourceBlendingBroken
	case VendorARM:
		// gl_Position.w == .z corrupts the depth buffer on these parts;
		// worked around by nudging Z by an epsilon rather than disabled.
		b |= BugEqualWZCorruptsDepth
		b |= BugMaliStencilDiscardBug
	}
	return b
}

// GLDeviceInfo is the subset of the parsed GL_VERSION/GL_VENDOR strings
// and queried properties the GL bug-mask rules need.
type GLDeviceInfo struct {
	Vendor       Vendor
	Model        string
	VersionMajor int
	VersionMinor int
	IsGLES       bool
	// AndroidAPILevel is 0 off-Android.
	AndroidAPILevel int
	// ModelNumber is a vendor-specific numeric model hint (e.g. Adreno
	// model number parsed from the renderer string); 0 if unknown.
	ModelNumber int
}

var pvrTerriblePrecisionModels = map[string]bool{
	"PowerVR SGX 545":    true,
	"PowerVR SGX 544":    true,
	"PowerVR SGX 544MP2": true,
	"PowerVR SGX 543":    true,
	"PowerVR SGX 540":    true,
	"PowerVR SGX 530":    true,
	"PowerVR SGX 520":    true,
}

// GLBugs derives the GL/GLES bug mask. Like VulkanBugs, every branch here
// is a named, cited workaround ported verbatim from a device probe.
func GLBugs(d GLDeviceInfo) Bugs {
	var b Bugs

	if d.Vendor == VendorImgTec {
		if pvrTerriblePrecisionModels[d.Model] {
			b |= BugPVRShaderPrecisionTerrible | BugPVRShaderPrecisionBad
		} else {
			b |= BugPVRShaderPrecisionBad
		}
		b |= BugPVRGenMipmapHeightGreater
	}

	versionAtLeast30 := d.VersionMajor > 3 || (d.VersionMajor == 3 && d.VersionMinor >= 0)
	if !versionAtLeast30 {
		// Dual-source blending is unreliable pre-3.0 regardless of vendor.
		b |= BugDualSourceBlendingBroken
	}
	// Intel dual-source blending bugs are handled by the caller, which has
	// the parsed build-version quadruplet (HasIntelDualSrcBug below); the
	// mask is OR'd in there rather than here since the trigger needs the
	// 4-component build string, not just major.minor.

	if d.Vendor == VendorVivante || d.Vendor == VendorBroadcom ||
		(d.Vendor == VendorNVIDIA && !versionAtLeast30) {
		b |= BugBrokenNaNInConditional
	}

	// Disabled on NVIDIA only: glMapBufferRange is fast there. Every other
	// vendor, in practice, regresses on it.
	if d.Vendor != VendorNVIDIA {
		b |= BugMapBufferRangeSlow
	}

	if d.Vendor == VendorQualcomm && d.AndroidAPILevel >= 26 && d.ModelNumber < 600 && d.ModelNumber > 0 {
		b |= BugAdrenoResourceDeadlock
	}

	if d.Vendor == VendorApple {
		b |= BugBrokenFlatInShader
	}

	return b
}

// GLBugsARM32 adds the subset of GLBugs' workarounds that only apply when
// running on 32-bit ARM (Raspberry Pi class hardware), kept as a separate
// entry point so callers on other architectures never need to plumb an
// architecture flag through GLDeviceInfo.
func GLBugsARM32(d GLDeviceInfo) Bugs {
	if d.Vendor == VendorBroadcom {
		return BugRaspberryShaderCompHang
	}
	return BugNone
}

// HasIntelDualSrcBug reports whether an Intel Windows driver build
// version quadruplet (as parsed from a string like "Build 10.18.10.4352")
// falls in the range known to misrender dual-source blending. Ported
// verbatim; the upper bound is intentionally open-ended pending
// revalidation against newer driver releases.
func HasIntelDualSrcBug(ver [4]int) bool {
	// Every Intel GL3+ driver seen so far is flagged; no version in
	// the quadruplet is currently known to be fixed.
	return true
}
