// Package gfxtest provides a recording gfx.API for tests that need to observe
// GPU traffic without a GPU context.
package gfxtest

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/gfx"
)

// Call is one recorded API invocation.
type Call struct {
	Op   string
	Args []any
}

// Buffer is the recorded state of one GPU buffer.
type Buffer struct {
	Index   bool
	Static  bool
	Size    int // bytes
	Data    []byte
	Deleted bool
}

// Upload is one Update*Buffer call.
type Upload struct {
	Buffer gfx.BufferID
	Index  bool
	Data   []byte
}

// Draw is one indexed draw call.
type Draw struct {
	Topology    gfx.Topology
	Count       int
	Program     gfx.ProgramID
	VertexArray gfx.VertexArrayID
}

// Attribute is one AddVertexAttribute call.
type Attribute struct {
	Index, Count   int
	Type           gfx.ElementType
	Normalized     bool
	Stride, Offset int
}

type uniformKey struct {
	program gfx.ProgramID
	name    string
}

// Recorder implements gfx.API by recording every call.
type Recorder struct {
	// KnownUniforms, when non-nil, restricts the names UniformLocation
	// resolves; every other name yields gfx.NoUniform.
	KnownUniforms []string
	// CompileErrors makes CompileShader fail for a stage with the given log.
	CompileErrors map[gfx.ShaderStage]string
	// LinkError makes LinkProgram fail with the given log when non-empty.
	LinkError string

	Calls      []Call
	Draws      []Draw
	Uploads    []Upload
	Attributes []Attribute
	Clears     []colors.Color
	Uniforms   map[gfx.UniformLocation]any

	buffers   map[gfx.BufferID]*Buffer
	locations map[uniformKey]gfx.UniformLocation
	nextLoc   gfx.UniformLocation
	next      uint32

	boundVB gfx.BufferID
	boundIB gfx.BufferID
	program gfx.ProgramID
	vao     gfx.VertexArrayID
}

var _ gfx.API = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{
		Uniforms:  make(map[gfx.UniformLocation]any),
		buffers:   make(map[gfx.BufferID]*Buffer),
		locations: make(map[uniformKey]gfx.UniformLocation),
	}
}

// Count returns how many times op was called.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the recorded operation names in call order.
func (r *Recorder) Ops() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Op
	}
	return out
}

// Buffer returns the recorded state of id, or nil.
func (r *Recorder) Buffer(id gfx.BufferID) *Buffer { return r.buffers[id] }

// LastUpload returns the most recent vertex (index=false) or index upload.
func (r *Recorder) LastUpload(index bool) (Upload, bool) {
	for i := len(r.Uploads) - 1; i >= 0; i-- {
		if r.Uploads[i].Index == index {
			return r.Uploads[i], true
		}
	}
	return Upload{}, false
}

// Live counts buffers that were created and not deleted.
func (r *Recorder) Live() int {
	n := 0
	for _, b := range r.buffers {
		if !b.Deleted {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps object state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
	r.Uploads = nil
	r.Clears = nil
}

// Floats reinterprets uploaded bytes as float32 values.
func Floats(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}

// Indices reinterprets uploaded bytes as uint32 indices.
func Indices(b []byte) []uint32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), len(b)/4)
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) id() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) Init() error {
	r.record("Init")
	return nil
}

func (r *Recorder) Info() gfx.Info {
	return gfx.Info{Vendor: "gfxtest", Renderer: "recorder", Version: "0", ShadingLanguage: "none"}
}

func (r *Recorder) SetViewport(x, y, w, h int) { r.record("SetViewport", x, y, w, h) }

func (r *Recorder) Clear(c colors.Color) {
	r.record("Clear", c)
	r.Clears = append(r.Clears, c)
}

func (r *Recorder) newBuffer(b *Buffer) gfx.BufferID {
	id := gfx.BufferID(r.id())
	r.buffers[id] = b
	return id
}

func (r *Recorder) CreateVertexBuffer(size int) gfx.BufferID {
	id := r.newBuffer(&Buffer{Size: size, Data: make([]byte, size)})
	r.boundVB = id
	r.record("CreateVertexBuffer", size)
	return id
}

func (r *Recorder) CreateStaticVertexBuffer(data []byte) gfx.BufferID {
	id := r.newBuffer(&Buffer{Static: true, Size: len(data), Data: append([]byte(nil), data...)})
	r.boundVB = id
	r.record("CreateStaticVertexBuffer", len(data))
	return id
}

func (r *Recorder) BindVertexBuffer(id gfx.BufferID) {
	r.boundVB = id
	r.record("BindVertexBuffer", id)
}

func (r *Recorder) UpdateVertexBuffer(data []byte) {
	r.record("UpdateVertexBuffer", len(data))
	r.write(r.boundVB, false, data)
}

func (r *Recorder) UnbindVertexBuffer() {
	r.boundVB = 0
	r.record("UnbindVertexBuffer")
}

func (r *Recorder) CreateIndexBuffer(count int) gfx.BufferID {
	id := r.newBuffer(&Buffer{Index: true, Size: count * 4, Data: make([]byte, count*4)})
	r.boundIB = id
	r.record("CreateIndexBuffer", count)
	return id
}

func (r *Recorder) CreateStaticIndexBuffer(indices []uint32) gfx.BufferID {
	data := append([]byte(nil), gfx.Bytes(indices)...)
	id := r.newBuffer(&Buffer{Index: true, Static: true, Size: len(data), Data: data})
	r.boundIB = id
	r.record("CreateStaticIndexBuffer", len(indices))
	return id
}

func (r *Recorder) BindIndexBuffer(id gfx.BufferID) {
	r.boundIB = id
	r.record("BindIndexBuffer", id)
}

func (r *Recorder) UpdateIndexBuffer(indices []uint32) {
	r.record("UpdateIndexBuffer", len(indices))
	r.write(r.boundIB, true, gfx.Bytes(indices))
}

func (r *Recorder) UnbindIndexBuffer() {
	r.boundIB = 0
	r.record("UnbindIndexBuffer")
}

func (r *Recorder) write(id gfx.BufferID, index bool, data []byte) {
	b, ok := r.buffers[id]
	if !ok || b.Deleted {
		panic(fmt.Sprintf("gfxtest: update of unbound or deleted buffer %d", id))
	}
	if len(data) > b.Size {
		panic(fmt.Sprintf("gfxtest: driver overflow, %d bytes into buffer of %d", len(data), b.Size))
	}
	copy(b.Data, data)
	r.Uploads = append(r.Uploads, Upload{Buffer: id, Index: index, Data: append([]byte(nil), data...)})
}

func (r *Recorder) DeleteBuffer(id gfx.BufferID) {
	if b, ok := r.buffers[id]; ok {
		b.Deleted = true
	}
	r.record("DeleteBuffer", id)
}

func (r *Recorder) CreateVertexArray() gfx.VertexArrayID {
	id := gfx.VertexArrayID(r.id())
	r.record("CreateVertexArray")
	return id
}

func (r *Recorder) BindVertexArray(id gfx.VertexArrayID) {
	r.vao = id
	r.record("BindVertexArray", id)
}

func (r *Recorder) UnbindVertexArray() {
	r.vao = 0
	r.record("UnbindVertexArray")
}

func (r *Recorder) DeleteVertexArray(id gfx.VertexArrayID) { r.record("DeleteVertexArray", id) }

func (r *Recorder) AddVertexAttribute(index, count int, typ gfx.ElementType, normalized bool, stride, offset int) {
	r.Attributes = append(r.Attributes, Attribute{
		Index: index, Count: count, Type: typ, Normalized: normalized, Stride: stride, Offset: offset,
	})
	r.record("AddVertexAttribute", index, count, typ, normalized, stride, offset)
}

func (r *Recorder) CreateProgram() gfx.ProgramID {
	r.record("CreateProgram")
	return gfx.ProgramID(r.id())
}

func (r *Recorder) CompileShader(stage gfx.ShaderStage, source string) (gfx.ShaderID, error) {
	r.record("CompileShader", stage, source)
	if msg, ok := r.CompileErrors[stage]; ok {
		return 0, fmt.Errorf("%w: %v: %s", gfx.ErrShaderCompile, stage, msg)
	}
	return gfx.ShaderID(r.id()), nil
}

func (r *Recorder) AttachShader(program gfx.ProgramID, shader gfx.ShaderID) {
	r.record("AttachShader", program, shader)
}

func (r *Recorder) LinkProgram(program gfx.ProgramID) error {
	r.record("LinkProgram", program)
	if r.LinkError != "" {
		return fmt.Errorf("%w: %s", gfx.ErrShaderLink, r.LinkError)
	}
	return nil
}

func (r *Recorder) UseProgram(program gfx.ProgramID) {
	r.program = program
	r.record("UseProgram", program)
}

func (r *Recorder) CurrentProgram() gfx.ProgramID { return r.program }

func (r *Recorder) DeleteShader(shader gfx.ShaderID) { r.record("DeleteShader", shader) }
func (r *Recorder) DeleteProgram(program gfx.ProgramID) {
	r.record("DeleteProgram", program)
	if r.program == program {
		r.program = 0
	}
}

func (r *Recorder) UniformLocation(program gfx.ProgramID, name string) gfx.UniformLocation {
	r.record("UniformLocation", program, name)
	if r.KnownUniforms != nil && !contains(r.KnownUniforms, name) {
		return gfx.NoUniform
	}
	key := uniformKey{program: program, name: name}
	if loc, ok := r.locations[key]; ok {
		return loc
	}
	loc := r.nextLoc
	r.nextLoc++
	r.locations[key] = loc
	return loc
}

// UniformValue returns the last value set for name on the given program.
func (r *Recorder) UniformValue(program gfx.ProgramID, name string) (any, bool) {
	loc, ok := r.locations[uniformKey{program: program, name: name}]
	if !ok {
		return nil, false
	}
	v, ok := r.Uniforms[loc]
	return v, ok
}

func (r *Recorder) setUniform(op string, loc gfx.UniformLocation, v any) {
	if r.program == 0 {
		panic(errors.New("gfxtest: uniform set with no program in use"))
	}
	r.Uniforms[loc] = v
	r.record(op, loc, v)
}

func (r *Recorder) SetUniformInt(loc gfx.UniformLocation, v int32) {
	r.setUniform("SetUniformInt", loc, v)
}

func (r *Recorder) SetUniformVec3(loc gfx.UniformLocation, v mgl32.Vec3) {
	r.setUniform("SetUniformVec3", loc, v)
}

func (r *Recorder) SetUniformVec4(loc gfx.UniformLocation, v mgl32.Vec4) {
	r.setUniform("SetUniformVec4", loc, v)
}

func (r *Recorder) SetUniformMat3(loc gfx.UniformLocation, v mgl32.Mat3) {
	r.setUniform("SetUniformMat3", loc, v)
}

func (r *Recorder) SetUniformMat4(loc gfx.UniformLocation, v mgl32.Mat4) {
	r.setUniform("SetUniformMat4", loc, v)
}

func (r *Recorder) DrawIndexedTriangles(count int) { r.draw(gfx.Triangles, count) }
func (r *Recorder) DrawIndexedLines(count int)     { r.draw(gfx.Lines, count) }

func (r *Recorder) draw(t gfx.Topology, count int) {
	r.Draws = append(r.Draws, Draw{Topology: t, Count: count, Program: r.program, VertexArray: r.vao})
	r.record("Draw", t, count)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
