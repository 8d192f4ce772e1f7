// Package gfx holds the graphics-API-agnostic rendering primitives: buffer
// layouts, GPU buffers, vertex arrays, shader programs and the API seam that
// every one of them talks through.
//
// Nothing in this package calls a graphics library. A concrete API (see
// engine/gfx/gl) is created by the program and handed to each primitive at
// construction.
package gfx

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/lumen/engine/colors"
)

// Handles returned by an API. Zero is never a valid handle.
type (
	BufferID      uint32
	VertexArrayID uint32
	ProgramID     uint32
	ShaderID      uint32
)

// UniformLocation is a resolved uniform slot in a linked program.
type UniformLocation int32

// NoUniform is returned for names the program does not declare (or that the
// driver optimized out). Setting it is a no-op.
const NoUniform UniformLocation = -1

// Info describes the device behind an API.
type Info struct {
	Vendor          string
	Renderer        string
	Version         string
	ShadingLanguage string
}

// API is the only seam through which the engine reaches the GPU.
//
// Bind-style calls operate on the currently bound object, mirroring the
// underlying driver; Update* writes into the bound buffer starting at offset 0.
type API interface {
	Init() error
	Info() Info

	SetViewport(x, y, w, h int)
	Clear(c colors.Color)

	CreateVertexBuffer(size int) BufferID
	CreateStaticVertexBuffer(data []byte) BufferID
	BindVertexBuffer(id BufferID)
	UpdateVertexBuffer(data []byte)
	UnbindVertexBuffer()

	CreateIndexBuffer(count int) BufferID
	CreateStaticIndexBuffer(indices []uint32) BufferID
	BindIndexBuffer(id BufferID)
	UpdateIndexBuffer(indices []uint32)
	UnbindIndexBuffer()

	DeleteBuffer(id BufferID)

	CreateVertexArray() VertexArrayID
	BindVertexArray(id VertexArrayID)
	UnbindVertexArray()
	DeleteVertexArray(id VertexArrayID)
	AddVertexAttribute(index, count int, typ ElementType, normalized bool, stride, offset int)

	CreateProgram() ProgramID
	CompileShader(stage ShaderStage, source string) (ShaderID, error)
	AttachShader(program ProgramID, shader ShaderID)
	LinkProgram(program ProgramID) error
	UseProgram(program ProgramID)
	// CurrentProgram reports the program last passed to UseProgram, or 0.
	CurrentProgram() ProgramID
	DeleteShader(shader ShaderID)
	DeleteProgram(program ProgramID)

	UniformLocation(program ProgramID, name string) UniformLocation
	SetUniformInt(loc UniformLocation, v int32)
	SetUniformVec3(loc UniformLocation, v mgl32.Vec3)
	SetUniformVec4(loc UniformLocation, v mgl32.Vec4)
	SetUniformMat3(loc UniformLocation, v mgl32.Mat3)
	SetUniformMat4(loc UniformLocation, v mgl32.Mat4)

	DrawIndexedTriangles(count int)
	DrawIndexedLines(count int)
}

// Topology says how an index stream is interpreted.
type Topology int

const (
	Triangles Topology = iota
	Lines
)

func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	default:
		return "topology(?)"
	}
}

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
	GeometryStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	case GeometryStage:
		return "geometry"
	default:
		return "stage(?)"
	}
}
