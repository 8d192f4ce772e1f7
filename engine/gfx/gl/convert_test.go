package glbackend

import (
	"testing"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGLType(t *testing.T) {
	assert.Equal(t, uint32(gl.FLOAT), glType(gfx.Float))
	assert.Equal(t, uint32(gl.INT), glType(gfx.Int))
	assert.Equal(t, uint32(gl.UNSIGNED_INT), glType(gfx.UnsignedInt))
	assert.Equal(t, uint32(gl.UNSIGNED_BYTE), glType(gfx.Bool))
	assert.Panics(t, func() { glType(gfx.ElementType(99)) })

	assert.False(t, isInteger(gfx.Float))
	assert.True(t, isInteger(gfx.Int))
}

func TestGLStage(t *testing.T) {
	s, err := glStage(gfx.VertexStage)
	require.NoError(t, err)
	assert.Equal(t, uint32(gl.VERTEX_SHADER), s)

	s, err = glStage(gfx.GeometryStage)
	require.NoError(t, err)
	assert.Equal(t, uint32(gl.GEOMETRY_SHADER), s)

	_, err = glStage(gfx.ShaderStage(42))
	assert.ErrorIs(t, err, gfx.ErrShaderCompile)
}

func TestCStringAndLog(t *testing.T) {
	assert.Equal(t, "u_color\x00", cString("u_color"))
	assert.Equal(t, "u_color\x00", cString("u_color\x00"))
	assert.Equal(t, "0:1: error", trimLog("0:1: error\n\x00\x00"))
}
