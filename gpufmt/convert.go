// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpufmt

import (
	"encoding/binary"
	"math"
)

// ConvertColor converts a rectangular region of w x h pixels from a packed
// source color format to one of RGBA8888, BGRA8888, R8, RG88, RGB565,
// RGBA5551, RGBA4444 or RGBA32Float. Any other destination format,
// RGBA16Float included, is left unwritten.
// srcStride/dstStride are row pitches in bytes and may differ from
// w*BytesPerUnit to accommodate padded framebuffers; 0 means tightly
// packed. src and dst must be pre-sized by the caller.
//
// Only RGBA8888 and BGRA8888 are accepted as source formats, matching the
// two layouts the queue runner ever reads back from a native surface or
// render target.
func ConvertColor(srcFmt Format, src []byte, srcStride int, dstFmt Format, dst []byte, dstStride int, w, h int) {
	if srcStride == 0 {
		srcStride = RowBytes(srcFmt, w)
	}
	if dstStride == 0 {
		dstStride = RowBytes(dstFmt, w)
	}
	for y := 0; y < h; y++ {
		srow := src[y*srcStride:]
		drow := dst[y*dstStride:]
		for x := 0; x < w; x++ {
			r, g, b, a := readColor8888(srcFmt, srow, x)
			writeColor(dstFmt, drow, x, r, g, b, a)
		}
	}
}

// readColor8888 extracts 8-bit RGBA components from a pixel at index x in
// a row encoded as srcFmt. Only RGBA8888/BGRA8888 are meaningful sources;
// any other format yields opaque black so callers never read garbage.
func readColor8888(srcFmt Format, row []byte, x int) (r, g, b, a uint8) {
	switch srcFmt {
	case RGBA8888:
		o := x * 4
		return row[o], row[o+1], row[o+2], row[o+3]
	case BGRA8888:
		o := x * 4
		return row[o+2], row[o+1], row[o], row[o+3]
	default:
		return 0, 0, 0, 0xff
	}
}

// writeColor packs 8-bit RGBA components into a pixel at index x in a row
// encoded as dstFmt.
func writeColor(dstFmt Format, row []byte, x int, r, g, b, a uint8) {
	switch dstFmt {
	case RGBA8888:
		o := x * 4
		row[o], row[o+1], row[o+2], row[o+3] = r, g, b, a
	case BGRA8888:
		o := x * 4
		row[o], row[o+1], row[o+2], row[o+3] = b, g, r, a
	case R8:
		row[x] = r
	case RG88:
		o := x * 2
		row[o], row[o+1] = r, g
	case RGB565:
		o := x * 2
		v := pack565(r, g, b)
		binary.LittleEndian.PutUint16(row[o:], v)
	case RGBA5551:
		o := x * 2
		v := pack5551(r, g, b, a)
		binary.LittleEndian.PutUint16(row[o:], v)
	case RGBA4444:
		o := x * 2
		v := pack4444(r, g, b, a)
		binary.LittleEndian.PutUint16(row[o:], v)
	case RGBA32Float:
		o := x * 16
		putF32(row[o:], float32(r)/255)
		putF32(row[o+4:], float32(g)/255)
		putF32(row[o+8:], float32(b)/255)
		putF32(row[o+12:], float32(a)/255)
	default:
		// Any other format (RGBA16Float, block-compressed, depth/stencil)
		// is left unwritten.
	}
}

// pack565 reduces 8-bit RGB to RGB565 by truncation (simple >> shift, no
// dithering), matching driver readback behavior.
func pack565(r, g, b uint8) uint16 {
	r5 := uint16(r) >> 3
	g6 := uint16(g) >> 2
	b5 := uint16(b) >> 3
	return r5<<11 | g6<<5 | b5
}

func pack5551(r, g, b, a uint8) uint16 {
	r5 := uint16(r) >> 3
	g5 := uint16(g) >> 3
	b5 := uint16(b) >> 3
	a1 := uint16(0)
	if a >= 0x80 {
		a1 = 1
	}
	return r5<<11 | g5<<6 | b5<<1 | a1
}

func pack4444(r, g, b, a uint8) uint16 {
	r4 := uint16(r) >> 4
	g4 := uint16(g) >> 4
	b4 := uint16(b) >> 4
	a4 := uint16(a) >> 4
	return r4<<12 | g4<<8 | b4<<4 | a4
}

func putF32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// ConvertDepth converts a rectangular region of depth (or depth+stencil)
// data between any two of the native depth layouts the runner ever reads
// back from or writes into: D16, D24S8, D32F, D32FS8, S8. Formats that
// already match are a straight byte copy; otherwise values are bit
// expanded or truncated per-texel. srcStride/dstStride are row pitches in
// bytes; 0 means tightly packed.
func ConvertDepth(srcFmt Format, src []byte, srcStride int, dstFmt Format, dst []byte, dstStride int, w, h int) {
	if srcFmt == dstFmt {
		copyRows(src, srcStride, dst, dstStride, RowBytes(srcFmt, w), h)
		return
	}
	if srcStride == 0 {
		srcStride = RowBytes(srcFmt, w)
	}
	if dstStride == 0 {
		dstStride = RowBytes(dstFmt, w)
	}
	for y := 0; y < h; y++ {
		srow := src[y*srcStride:]
		drow := dst[y*dstStride:]
		for x := 0; x < w; x++ {
			depth, stencil := readDepth(srcFmt, srow, x)
			writeDepth(dstFmt, drow, x, depth, stencil)
		}
	}
}

func copyRows(src []byte, srcStride int, dst []byte, dstStride int, rowBytes int, h int) {
	if srcStride == rowBytes && dstStride == rowBytes {
		copy(dst, src[:rowBytes*h])
		return
	}
	for y := 0; y < h; y++ {
		copy(dst[y*dstStride:y*dstStride+rowBytes], src[y*srcStride:y*srcStride+rowBytes])
	}
}

// readDepth returns a normalized [0,1] depth value as a float64 (enough
// precision to hold a 24-bit or 32-bit source exactly) plus an 8-bit
// stencil value (0 if the source has none).
func readDepth(f Format, row []byte, x int) (depth float64, stencil uint8) {
	switch f {
	case D16:
		o := x * 2
		v := binary.LittleEndian.Uint16(row[o:])
		return float64(v) / float64(0xffff), 0
	case D24S8:
		o := x * 4
		v := binary.LittleEndian.Uint32(row[o:])
		d24 := v >> 8
		s8 := uint8(v)
		return float64(d24) / float64(1<<24-1), s8
	case D32F:
		o := x * 4
		bits := binary.LittleEndian.Uint32(row[o:])
		return float64(math.Float32frombits(bits)), 0
	case D32FS8:
		o := x * 8
		bits := binary.LittleEndian.Uint32(row[o:])
		s8 := row[o+4]
		return float64(math.Float32frombits(bits)), s8
	case S8:
		return 0, row[x]
	default:
		return 0, 0
	}
}

func writeDepth(f Format, row []byte, x int, depth float64, stencil uint8) {
	switch f {
	case D16:
		o := x * 2
		v := uint16(clamp01(depth) * float64(0xffff))
		binary.LittleEndian.PutUint16(row[o:], v)
	case D24S8:
		o := x * 4
		d24 := uint32(clamp01(depth) * float64(1<<24-1))
		v := d24<<8 | uint32(stencil)
		binary.LittleEndian.PutUint32(row[o:], v)
	case D32F:
		o := x * 4
		binary.LittleEndian.PutUint32(row[o:], math.Float32bits(float32(depth)))
	case D32FS8:
		o := x * 8
		binary.LittleEndian.PutUint32(row[o:], math.Float32bits(float32(depth)))
		row[o+4] = stencil
	case S8:
		row[x] = stencil
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
