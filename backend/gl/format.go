// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import (
	"github.com/tinygpu/rq/backend/gl/gl"
	"github.com/tinygpu/rq/gpufmt"
	"github.com/tinygpu/rq/res"
)

// glFormat maps a gpufmt.Format to the GL (internalformat, format, type)
// triple TexImage2D/RenderbufferStorage need. Only the formats the
// render queue actually issues to a GL target are covered; anything
// else is a programmer error caught at CreateTexture time.
func glFormat(f gpufmt.Format) (internalFormat, format, typ uint32, ok bool) {
	switch f {
	case gpufmt.RGBA8888:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, true
	case gpufmt.BGRA8888:
		return gl.RGBA8, gl.BGRA, gl.UNSIGNED_BYTE, true
	case gpufmt.RGBA16Float:
		return gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT, true
	case gpufmt.RGBA32Float:
		return gl.RGBA32F, gl.RGBA, gl.FLOAT, true
	case gpufmt.R8:
		return gl.R8, gl.RED, gl.UNSIGNED_BYTE, true
	case gpufmt.RG88:
		return gl.RG8, gl.RG, gl.UNSIGNED_BYTE, true
	case gpufmt.D16:
		return gl.DEPTH_COMPONENT16, gl.DEPTH_COMPONENT, gl.UNSIGNED_SHORT, true
	case gpufmt.D24S8:
		return gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT, true
	default:
		return 0, 0, 0, false
	}
}

func glWrap(w res.WrapMode) uint32 {
	switch w {
	case res.WrapClamp:
		return gl.CLAMP_TO_EDGE
	case res.WrapMirror:
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}

func glFilter(f res.FilterMode, mips bool) uint32 {
	if f == res.FilterNearest {
		if mips {
			return gl.NEAREST_MIPMAP_NEAREST
		}
		return gl.NEAREST
	}
	if mips {
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return gl.LINEAR
}
