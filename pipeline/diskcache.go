// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tinygpu/rq/queue"
	"github.com/tinygpu/rq/res"
)

// diskCacheMagic and diskCacheVersion guard against loading a cache
// file written by an incompatible build; version bumps whenever Key's
// encoded shape changes.
const (
	diskCacheMagic   = uint32(0x524b5031) // "RKP1"
	diskCacheVersion = uint32(1)
)

// entry is one (Key, backend-opaque blob) pair as stored on disk. The
// blob itself (e.g. a VkPipelineCache export, or a GL program binary)
// is produced and consumed only by the backend; this package just
// frames it next to its Key.
type entry struct {
	key  Key
	blob []byte
}

// SaveDisk writes every (key, blob) pair to w in the order given, so a
// later process can skip recompiling pipelines it has already seen.
//
// Layout: magic(u32) version(u32) count(u32) then, per entry:
//
//	keyLen(u32) key-bytes  blobLen(u32) blob-bytes
func SaveDisk(w io.Writer, entries []struct {
	Key  Key
	Blob []byte
}) error {
	bw := bufio.NewWriter(w)
	if err := writeU32(bw, diskCacheMagic); err != nil {
		return err
	}
	if err := writeU32(bw, diskCacheVersion); err != nil {
		return err
	}
	if err := writeU32(bw, uint32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		kb := encodeKey(e.Key)
		if err := writeU32(bw, uint32(len(kb))); err != nil {
			return err
		}
		if _, err := bw.Write(kb); err != nil {
			return err
		}
		if err := writeU32(bw, uint32(len(e.Blob))); err != nil {
			return err
		}
		if _, err := bw.Write(e.Blob); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadDisk reads back what SaveDisk wrote. A magic or version mismatch
// returns an error rather than attempting to interpret stale data.
func LoadDisk(r io.Reader) ([]struct {
	Key  Key
	Blob []byte
}, error) {
	br := bufio.NewReader(r)
	magic, err := readU32(br)
	if err != nil {
		return nil, err
	}
	if magic != diskCacheMagic {
		return nil, fmt.Errorf("pipeline: bad disk cache magic %#x", magic)
	}
	version, err := readU32(br)
	if err != nil {
		return nil, err
	}
	if version != diskCacheVersion {
		return nil, fmt.Errorf("pipeline: disk cache version %d unsupported (want %d)", version, diskCacheVersion)
	}
	count, err := readU32(br)
	if err != nil {
		return nil, err
	}
	out := make([]struct {
		Key  Key
		Blob []byte
	}, 0, count)
	for i := uint32(0); i < count; i++ {
		klen, err := readU32(br)
		if err != nil {
			return nil, err
		}
		kb := make([]byte, klen)
		if _, err := io.ReadFull(br, kb); err != nil {
			return nil, err
		}
		key, err := decodeKey(kb)
		if err != nil {
			return nil, err
		}
		blen, err := readU32(br)
		if err != nil {
			return nil, err
		}
		blob := make([]byte, blen)
		if _, err := io.ReadFull(br, blob); err != nil {
			return nil, err
		}
		out = append(out, struct {
			Key  Key
			Blob []byte
		}{Key: key, Blob: blob})
	}
	return out, nil
}

func writeU32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// encodeKey serializes Key's scalar fields; RasterState is flattened
// field by field rather than via reflection so the layout is stable
// across Go versions.
func encodeKey(k Key) []byte {
	buf := make([]byte, 0, 64)
	buf = appendU64(buf, uint64(k.VertexShader))
	buf = appendU64(buf, uint64(k.FragmentShader))
	buf = appendU64(buf, uint64(k.InputLayout))
	buf = appendBool(buf, k.HWTransform)
	buf = appendRaster(buf, k.Raster)
	buf = append(buf, byte(k.RPType))
	buf = appendU32(buf, uint32(k.SampleCount))
	return buf
}

func decodeKey(b []byte) (Key, error) {
	if len(b) < 8*3+1 {
		return Key{}, fmt.Errorf("pipeline: truncated key")
	}
	var k Key
	off := 0
	k.VertexShader = res.ID(readU64At(b, &off))
	k.FragmentShader = res.ID(readU64At(b, &off))
	k.InputLayout = res.ID(readU64At(b, &off))
	k.HWTransform = b[off] != 0
	off++
	var err error
	k.Raster, off, err = readRasterAt(b, off)
	if err != nil {
		return Key{}, err
	}
	if off+5 > len(b) {
		return Key{}, fmt.Errorf("pipeline: truncated key tail")
	}
	k.RPType = queue.RenderPassType(b[off])
	off++
	k.SampleCount = int(binary.LittleEndian.Uint32(b[off:]))
	return k, nil
}

func appendU64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// appendRaster flattens RasterState's scalar fields in declaration
// order; it intentionally does not use reflection so the on-disk shape
// only changes when this function does.
func appendRaster(buf []byte, r res.RasterState) []byte {
	buf = appendBool(buf, r.BlendEnable)
	buf = append(buf, byte(r.SrcColorBlend), byte(r.DstColorBlend))
	buf = append(buf, byte(r.SrcAlphaBlend), byte(r.DstAlphaBlend))
	buf = append(buf, byte(r.ColorBlendOp), byte(r.AlphaBlendOp))
	buf = append(buf, r.ColorWriteMask)
	buf = appendBool(buf, r.DepthTestEnable)
	buf = appendBool(buf, r.DepthWriteEnable)
	buf = append(buf, byte(r.DepthCompare))
	buf = appendBool(buf, r.StencilEnable)
	buf = append(buf, byte(r.StencilCompare), r.StencilPass, r.StencilFail, r.StencilDepthFail)
	buf = append(buf, r.CullMode, r.Topology)
	return buf
}

const rasterEncodedSize = 1 + 2 + 2 + 2 + 1 + 1 + 1 + 1 + 1 + 4 + 2

func readRasterAt(b []byte, off int) (res.RasterState, int, error) {
	if off+rasterEncodedSize > len(b) {
		return res.RasterState{}, off, fmt.Errorf("pipeline: truncated raster state")
	}
	var r res.RasterState
	r.BlendEnable = b[off] != 0
	off++
	r.SrcColorBlend, r.DstColorBlend = res.BlendFactor(b[off]), res.BlendFactor(b[off+1])
	off += 2
	r.SrcAlphaBlend, r.DstAlphaBlend = res.BlendFactor(b[off]), res.BlendFactor(b[off+1])
	off += 2
	r.ColorBlendOp, r.AlphaBlendOp = res.BlendOp(b[off]), res.BlendOp(b[off+1])
	off += 2
	r.ColorWriteMask = b[off]
	off++
	r.DepthTestEnable = b[off] != 0
	off++
	r.DepthWriteEnable = b[off] != 0
	off++
	r.DepthCompare = res.CompareOp(b[off])
	off++
	r.StencilEnable = b[off] != 0
	off++
	r.StencilCompare = res.CompareOp(b[off])
	r.StencilPass, r.StencilFail, r.StencilDepthFail = b[off+1], b[off+2], b[off+3]
	off += 4
	r.CullMode, r.Topology = b[off], b[off+1]
	off += 2
	return r, off, nil
}

func readU64At(b []byte, off *int) uint64 {
	v := binary.LittleEndian.Uint64(b[*off:])
	*off += 8
	return v
}
