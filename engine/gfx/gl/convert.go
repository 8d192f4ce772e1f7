package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/lumen/engine/gfx"
)

func glType(t gfx.ElementType) uint32 {
	switch t {
	case gfx.Float:
		return gl.FLOAT
	case gfx.Int:
		return gl.INT
	case gfx.UnsignedInt:
		return gl.UNSIGNED_INT
	case gfx.Bool:
		return gl.UNSIGNED_BYTE
	default:
		panic(fmt.Sprintf("glbackend: unknown element type %v", t))
	}
}

func isInteger(t gfx.ElementType) bool {
	return t == gfx.Int || t == gfx.UnsignedInt || t == gfx.Bool
}

func glStage(s gfx.ShaderStage) (uint32, error) {
	switch s {
	case gfx.VertexStage:
		return gl.VERTEX_SHADER, nil
	case gfx.FragmentStage:
		return gl.FRAGMENT_SHADER, nil
	case gfx.GeometryStage:
		return gl.GEOMETRY_SHADER, nil
	default:
		return 0, fmt.Errorf("%w: unknown stage %v", gfx.ErrShaderCompile, s)
	}
}

// cString appends the terminator gl.Strs and gl.Str expect.
func cString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// trimLog strips the padding and trailing newlines from an info log.
func trimLog(log string) string {
	return strings.TrimRight(log, "\x00\r\n\t ")
}
