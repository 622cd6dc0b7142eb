// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package caps

import "testing"

func TestVendorFromGLString(t *testing.T) {
	cases := map[string]Vendor{
		"NVIDIA Corporation":      VendorNVIDIA,
		"nouveau":                 VendorNVIDIA,
		"ATI Technologies Inc.":   VendorAMD,
		"Intel Inc.":              VendorIntel,
		"ARM":                     VendorARM,
		"Imagination Technologies": VendorImgTec,
		"Qualcomm":                VendorQualcomm,
		"Broadcom":                VendorBroadcom,
		"Vivante Corporation":     VendorVivante,
		"Apple":                   VendorApple,
		"Some Random GPU Vendor":  VendorUnknown,
	}
	for raw, want := range cases {
		if got := VendorFromGLString(raw); got != want {
			t.Errorf("VendorFromGLString(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestVulkanBugsAdreno5xxStencilDiscard(t *testing.T) {
	b := VulkanBugs(VulkanDeviceInfo{
		Vendor:        VendorQualcomm,
		DeviceID:      0x05030001,
		DriverVersion: 0x80170000, // below the 0x80180000 threshold
	})
	if !b.Has(BugNoDepthCannotDiscardStencil) {
		t.Error("expected BugNoDepthCannotDiscardStencil for old Adreno 5xx driver")
	}
	if !b.Has(BugColorWriteMaskBrokenWithDepthTest) {
		t.Error("expected BugColorWriteMaskBrokenWithDepthTest on all Adreno")
	}
}

func TestVulkanBugsAdreno5xxFixedDriver(t *testing.T) {
	b := VulkanBugs(VulkanDeviceInfo{
		Vendor:        VendorQualcomm,
		DeviceID:      0x05030001,
		DriverVersion: 0x80190000, // above the threshold: fixed
	})
	if b.Has(BugNoDepthCannotDiscardStencil) {
		t.Error("did not expect BugNoDepthCannotDiscardStencil for fixed Adreno driver")
	}
}

func TestVulkanBugsMali(t *testing.T) {
	b := VulkanBugs(VulkanDeviceInfo{Vendor: VendorARM})
	if !b.Has(BugEqualWZCorruptsDepth) || !b.Has(BugMaliStencilDiscardBug) {
		t.Error("expected both Mali depth bugs")
	}
}

func TestGLBugsPVRTerriblePrecision(t *testing.T) {
	b := GLBugs(GLDeviceInfo{Vendor: VendorImgTec, Model: "PowerVR SGX 540", VersionMajor: 2, VersionMinor: 0})
	if !b.Has(BugPVRShaderPrecisionTerrible) || !b.Has(BugPVRShaderPrecisionBad) {
		t.Error("expected terrible+bad precision bugs for SGX 540")
	}
}

func TestGLBugsPVRBadPrecisionOnly(t *testing.T) {
	b := GLBugs(GLDeviceInfo{Vendor: VendorImgTec, Model: "PowerVR Rogue GE8320", VersionMajor: 3, VersionMinor: 2})
	if b.Has(BugPVRShaderPrecisionTerrible) {
		t.Error("did not expect terrible precision bug for a Rogue part")
	}
	if !b.Has(BugPVRShaderPrecisionBad) {
		t.Error("expected bad precision bug for any PVR part")
	}
}

func TestGLBugsDualSourceBlendSub30(t *testing.T) {
	b := GLBugs(GLDeviceInfo{Vendor: VendorAMD, VersionMajor: 2, VersionMinor: 1})
	if !b.Has(BugDualSourceBlendingBroken) {
		t.Error("expected dual source blending broken pre-3.0")
	}
}

func TestGLBugsMapBufferRangeSlowExceptNVIDIA(t *testing.T) {
	if GLBugs(GLDeviceInfo{Vendor: VendorNVIDIA, VersionMajor: 4}).Has(BugMapBufferRangeSlow) {
		t.Error("NVIDIA should not carry BugMapBufferRangeSlow")
	}
	if !GLBugs(GLDeviceInfo{Vendor: VendorARM, VersionMajor: 3}).Has(BugMapBufferRangeSlow) {
		t.Error("non-NVIDIA vendors should carry BugMapBufferRangeSlow")
	}
}

func TestGLBugsAdrenoResourceDeadlock(t *testing.T) {
	b := GLBugs(GLDeviceInfo{Vendor: VendorQualcomm, VersionMajor: 3, AndroidAPILevel: 26, ModelNumber: 330})
	if !b.Has(BugAdrenoResourceDeadlock) {
		t.Error("expected resource deadlock bug for Adreno 3xx on API 26+")
	}
	b2 := GLBugs(GLDeviceInfo{Vendor: VendorQualcomm, VersionMajor: 3, AndroidAPILevel: 24, ModelNumber: 330})
	if b2.Has(BugAdrenoResourceDeadlock) {
		t.Error("did not expect resource deadlock bug below API 26")
	}
}

func TestIsTilingGPU(t *testing.T) {
	if !IsTilingGPU(true, VendorARM) {
		t.Error("Mali GLES should be a tiling GPU")
	}
	if IsTilingGPU(true, VendorNVIDIA) {
		t.Error("NVIDIA GLES should not be classified as tiling")
	}
	if IsTilingGPU(false, VendorARM) {
		t.Error("non-GLES backends are never classified as tiling")
	}
}
