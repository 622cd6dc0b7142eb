// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package caps

import "strings"

// VendorFromGLString maps a raw GL_VENDOR string to a Vendor enum,
// including the quirky aliasing of Nouveau and Tungsten Graphics to
// their respective real vendors.
func VendorFromGLString(raw string) Vendor {
	v := strings.TrimSpace(raw)
	switch v {
	case "NVIDIA Corporation", "Nouveau", "nouveau":
		return VendorNVIDIA
	case "Advanced Micro Devices, Inc.", "ATI Technologies Inc.", "AMD":
		return VendorAMD
	case "Intel", "Intel Inc.", "Intel Corporation", "Tungsten Graphics, Inc":
		return VendorIntel
	case "ARM":
		return VendorARM
	case "Imagination Technologies":
		return VendorImgTec
	case "Qualcomm":
		return VendorQualcomm
	case "Broadcom":
		return VendorBroadcom
	case "Vivante Corporation":
		return VendorVivante
	case "Apple Inc.", "Apple":
		return VendorApple
	default:
		return VendorUnknown
	}
}

// VendorFromVulkanID maps a vkPhysicalDeviceProperties.vendorID PCI
// vendor ID to a Vendor enum.
func VendorFromVulkanID(pciVendorID uint32) Vendor {
	switch pciVendorID {
	case 0x10DE:
		return VendorNVIDIA
	case 0x1002, 0x1022:
		return VendorAMD
	case 0x8086:
		return VendorIntel
	case 0x13B5:
		return VendorARM
	case 0x1010:
		return VendorImgTec
	case 0x5143:
		return VendorQualcomm
	default:
		return VendorUnknown
	}
}

// IsTilingGPU applies a rough heuristic: any GLES device that isn't
// NVIDIA or Intel is assumed tile-based.
func IsTilingGPU(isGLES bool, v Vendor) bool {
	return isGLES && v != VendorNVIDIA && v != VendorIntel
}
