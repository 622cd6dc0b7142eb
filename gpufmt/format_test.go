// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpufmt

import "testing"

func TestBlockSizes(t *testing.T) {
	cases := []struct {
		f            Format
		bytesPerUnit int
		w, h         int
	}{
		{RGBA8888, 4, 1, 1},
		{BC1, 8, 4, 4},
		{BC3, 16, 4, 4},
		{ASTC4x4, 16, 4, 4},
		{D16, 2, 1, 1},
		{D24S8, 4, 1, 1},
	}
	for _, c := range cases {
		if got := BytesPerUnit(c.f); got != c.bytesPerUnit {
			t.Errorf("%s: BytesPerUnit = %d, want %d", Name(c.f), got, c.bytesPerUnit)
		}
		if w, h := BlockSize(c.f); w != c.w || h != c.h {
			t.Errorf("%s: BlockSize = (%d,%d), want (%d,%d)", Name(c.f), w, h, c.w, c.h)
		}
	}
}

func TestIsBlockCompressed(t *testing.T) {
	if IsBlockCompressed(RGBA8888) {
		t.Error("RGBA8888 should not be block compressed")
	}
	if !IsBlockCompressed(BC1) {
		t.Error("BC1 should be block compressed")
	}
	if !IsBlockCompressed(ETC2RGBA) {
		t.Error("ETC2RGBA should be block compressed")
	}
}

func TestIsDepthStencil(t *testing.T) {
	for _, f := range []Format{D16, D24S8, D32F, D32FS8, S8} {
		if !IsDepthStencil(f) {
			t.Errorf("%s should be depth/stencil", Name(f))
		}
	}
	if IsDepthStencil(RGBA8888) {
		t.Error("RGBA8888 should not be depth/stencil")
	}
}

func TestSizeBytes(t *testing.T) {
	// 64x64 RGBA8888 framebuffer, as used in the clear-only readback scenario.
	if got, want := SizeBytes(RGBA8888, 64, 64), 64*64*4; got != want {
		t.Errorf("SizeBytes = %d, want %d", got, want)
	}
	// A BC1 8x8 texture is 2x2 blocks of 8 bytes each.
	if got, want := SizeBytes(BC1, 8, 8), 2*2*8; got != want {
		t.Errorf("SizeBytes(BC1, 8, 8) = %d, want %d", got, want)
	}
}
