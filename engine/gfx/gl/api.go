// Package glbackend implements gfx.API on OpenGL 3.3 core.
//
// Every method must run on the thread that owns the current GL context.
package glbackend

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/logx"
)

type API struct {
	info    gfx.Info
	program gfx.ProgramID
}

var _ gfx.API = (*API)(nil)

// New returns an uninitialized backend. Call Init once a context is current.
func New() *API { return &API{} }

func (a *API) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("glbackend: init: %w", err)
	}
	a.info = gfx.Info{
		Vendor:          gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:        gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:         gl.GoStr(gl.GetString(gl.VERSION)),
		ShadingLanguage: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	logx.Logger().Debug("opengl initialized", "version", a.info.Version, "glsl", a.info.ShadingLanguage)
	return nil
}

func (a *API) Info() gfx.Info { return a.info }

func (a *API) SetViewport(x, y, w, h int) {
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
}

func (a *API) Clear(c colors.Color) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// --- buffers ---

func (a *API) CreateVertexBuffer(size int) gfx.BufferID {
	return gfx.BufferID(newBuffer(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW))
}

func (a *API) CreateStaticVertexBuffer(data []byte) gfx.BufferID {
	return gfx.BufferID(newBuffer(gl.ARRAY_BUFFER, len(data), ptr(data), gl.STATIC_DRAW))
}

func (a *API) BindVertexBuffer(id gfx.BufferID) { gl.BindBuffer(gl.ARRAY_BUFFER, uint32(id)) }
func (a *API) UnbindVertexBuffer()              { gl.BindBuffer(gl.ARRAY_BUFFER, 0) }

func (a *API) UpdateVertexBuffer(data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data), gl.Ptr(data))
}

func (a *API) CreateIndexBuffer(count int) gfx.BufferID {
	return gfx.BufferID(newBuffer(gl.ELEMENT_ARRAY_BUFFER, count*4, nil, gl.DYNAMIC_DRAW))
}

func (a *API) CreateStaticIndexBuffer(indices []uint32) gfx.BufferID {
	return gfx.BufferID(newBuffer(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, ptr(indices), gl.STATIC_DRAW))
}

func (a *API) BindIndexBuffer(id gfx.BufferID) { gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(id)) }
func (a *API) UnbindIndexBuffer()              { gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0) }

func (a *API) UpdateIndexBuffer(indices []uint32) {
	if len(indices) == 0 {
		return
	}
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(indices)*4, gl.Ptr(indices))
}

func (a *API) DeleteBuffer(id gfx.BufferID) {
	b := uint32(id)
	gl.DeleteBuffers(1, &b)
}

// newBuffer creates a buffer and leaves it bound to target.
func newBuffer(target uint32, size int, data unsafe.Pointer, usage uint32) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(target, id)
	gl.BufferData(target, size, data, usage)
	return id
}

// ptr is gl.Ptr that tolerates empty slices.
func ptr[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return gl.Ptr(s)
}

// --- vertex arrays ---

func (a *API) CreateVertexArray() gfx.VertexArrayID {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return gfx.VertexArrayID(id)
}

func (a *API) BindVertexArray(id gfx.VertexArrayID) { gl.BindVertexArray(uint32(id)) }
func (a *API) UnbindVertexArray()                   { gl.BindVertexArray(0) }

func (a *API) DeleteVertexArray(id gfx.VertexArrayID) {
	v := uint32(id)
	gl.DeleteVertexArrays(1, &v)
}

func (a *API) AddVertexAttribute(index, count int, typ gfx.ElementType, normalized bool, stride, offset int) {
	i := uint32(index)
	gl.EnableVertexAttribArray(i)
	if isInteger(typ) && !normalized {
		gl.VertexAttribIPointer(i, int32(count), glType(typ), int32(stride), gl.PtrOffset(offset))
		return
	}
	gl.VertexAttribPointer(i, int32(count), glType(typ), normalized, int32(stride), gl.PtrOffset(offset))
}

// --- shaders ---

func (a *API) CreateProgram() gfx.ProgramID { return gfx.ProgramID(gl.CreateProgram()) }

func (a *API) CompileShader(stage gfx.ShaderStage, source string) (gfx.ShaderID, error) {
	kind, err := glStage(stage)
	if err != nil {
		return 0, err
	}
	sh := gl.CreateShader(kind)
	csrc, free := gl.Strs(cString(source))
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%w: %v: %s", gfx.ErrShaderCompile, stage, trimLog(log))
	}
	return gfx.ShaderID(sh), nil
}

func (a *API) AttachShader(program gfx.ProgramID, shader gfx.ShaderID) {
	gl.AttachShader(uint32(program), uint32(shader))
}

func (a *API) LinkProgram(program gfx.ProgramID) error {
	p := uint32(program)
	gl.LinkProgram(p)

	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetProgramInfoLog(p, logLen, nil, gl.Str(log))
		return fmt.Errorf("%w: %s", gfx.ErrShaderLink, trimLog(log))
	}
	return nil
}

func (a *API) UseProgram(program gfx.ProgramID) {
	gl.UseProgram(uint32(program))
	a.program = program
}

func (a *API) CurrentProgram() gfx.ProgramID { return a.program }

func (a *API) DeleteShader(shader gfx.ShaderID) { gl.DeleteShader(uint32(shader)) }
func (a *API) DeleteProgram(program gfx.ProgramID) {
	gl.DeleteProgram(uint32(program))
	if a.program == program {
		a.program = 0
	}
}

func (a *API) UniformLocation(program gfx.ProgramID, name string) gfx.UniformLocation {
	cname, free := gl.Strs(cString(name))
	defer free()
	return gfx.UniformLocation(gl.GetUniformLocation(uint32(program), *cname))
}

func (a *API) SetUniformInt(loc gfx.UniformLocation, v int32) { gl.Uniform1i(int32(loc), v) }

func (a *API) SetUniformVec3(loc gfx.UniformLocation, v mgl32.Vec3) {
	gl.Uniform3fv(int32(loc), 1, &v[0])
}

func (a *API) SetUniformVec4(loc gfx.UniformLocation, v mgl32.Vec4) {
	gl.Uniform4fv(int32(loc), 1, &v[0])
}

func (a *API) SetUniformMat3(loc gfx.UniformLocation, m mgl32.Mat3) {
	gl.UniformMatrix3fv(int32(loc), 1, false, &m[0])
}

func (a *API) SetUniformMat4(loc gfx.UniformLocation, m mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

// --- draws ---

func (a *API) DrawIndexedTriangles(count int) {
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, nil)
}

func (a *API) DrawIndexedLines(count int) {
	gl.DrawElements(gl.LINES, int32(count), gl.UNSIGNED_INT, nil)
}
