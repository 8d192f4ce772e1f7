// Package renderer2d batches meshes that share a shader and topology into a
// single upload and draw.
package renderer2d

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/logx"
	"github.com/hubastard/lumen/engine/mesh"
	"github.com/hubastard/lumen/engine/profiler"
)

const (
	DefaultMaxVertices = 40000
	DefaultMaxIndices  = 60000
)

// ViewProjectionUniform is set on the batch shader before every draw.
const ViewProjectionUniform = "u_viewProjection"

var ErrInvalidOptions = errors.New("renderer2d: invalid options")

// Options sizes the batch storage. Zero values select the defaults.
type Options struct {
	MaxVertices int
	MaxIndices  int
}

// State is the renderer's position in the scene/batch protocol.
type State int

const (
	Idle State = iota
	SceneOpen
	BatchOpen
	Destroyed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case SceneOpen:
		return "SceneOpen"
	case BatchOpen:
		return "BatchOpen"
	case Destroyed:
		return "Destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Statistics captures the counts generated since the last BeginScene.
type Statistics struct {
	DrawCalls int
	Batches   int
	Meshes    int
	Vertices  int
	Indices   int
}

// ViewProjector is anything that can supply a combined view-projection
// matrix, typically a scene.OrthographicCamera.
type ViewProjector interface {
	ViewProjection() mgl32.Mat4
}

type Renderer struct {
	cmd  gfx.Command
	va   *gfx.VertexArray
	opts Options

	state    State
	viewProj mgl32.Mat4
	shader   *gfx.Shader
	topology gfx.Topology

	vertices []mesh.Vertex
	indices  []uint32

	uniforms     map[string]any
	uniformNames []string

	stats Statistics
}

// New allocates the dynamic vertex array every batch is streamed through.
func New(api gfx.API, opts Options) (*Renderer, error) {
	if opts.MaxVertices < 0 || opts.MaxIndices < 0 {
		return nil, fmt.Errorf("%w: negative capacity %+v", ErrInvalidOptions, opts)
	}
	if opts.MaxVertices == 0 {
		opts.MaxVertices = DefaultMaxVertices
	}
	if opts.MaxIndices == 0 {
		opts.MaxIndices = DefaultMaxIndices
	}

	vb := gfx.NewVertexBuffer(api, mesh.Layout, opts.MaxVertices*mesh.Layout.Stride())
	ib := gfx.NewIndexBuffer(api, opts.MaxIndices)
	va := gfx.NewVertexArray(api)
	va.SetBuffers(vb, ib)

	logx.Logger().Debug("renderer2d ready", "maxVertices", opts.MaxVertices, "maxIndices", opts.MaxIndices)

	return &Renderer{
		cmd:      gfx.NewCommand(api),
		va:       va,
		opts:     opts,
		vertices: make([]mesh.Vertex, 0, opts.MaxVertices),
		indices:  make([]uint32, 0, opts.MaxIndices),
		uniforms: make(map[string]any),
	}, nil
}

func (r *Renderer) State() State        { return r.state }
func (r *Renderer) Options() Options    { return r.opts }
func (r *Renderer) Stats() Statistics   { return r.stats }
func (r *Renderer) Pending() (v, i int) { return len(r.vertices), len(r.indices) }

// BeginScene captures the camera's view-projection for every batch drawn
// until EndScene and resets the statistics.
func (r *Renderer) BeginScene(cam ViewProjector) {
	r.expect("BeginScene", Idle)
	r.viewProj = cam.ViewProjection()
	r.stats = Statistics{}
	r.state = SceneOpen
}

// BeginBatch starts accumulating meshes drawn with shader as topology.
func (r *Renderer) BeginBatch(shader *gfx.Shader, topology gfx.Topology) {
	r.expect("BeginBatch", SceneOpen)
	if shader == nil {
		panic("renderer2d: BeginBatch with nil shader")
	}
	if st := shader.State(); st != gfx.Linked && st != gfx.Bound {
		panic(fmt.Sprintf("renderer2d: BeginBatch with shader %q in state %v", shader.Name(), st))
	}
	if topology != gfx.Triangles && topology != gfx.Lines {
		panic(fmt.Sprintf("renderer2d: BeginBatch with unknown topology %d", int(topology)))
	}
	r.shader = shader
	r.topology = topology
	r.stats.Batches++
	r.state = BatchOpen
}

// Submit appends m with every vertex position multiplied by transform. The
// mesh indices for the batch topology are rebased onto the vertices already
// accumulated. When the batch is full it is drawn first and accumulation
// restarts.
func (r *Renderer) Submit(m *mesh.Mesh, transform mgl32.Mat4) {
	r.expect("Submit", BatchOpen)
	if m == nil {
		panic("renderer2d: Submit with nil mesh")
	}
	verts := m.Vertices()
	idx := m.Indices(r.topology)
	if len(verts) > r.opts.MaxVertices || len(idx) > r.opts.MaxIndices {
		panic(fmt.Sprintf("renderer2d: mesh of %d vertices / %d indices exceeds batch capacity %d / %d",
			len(verts), len(idx), r.opts.MaxVertices, r.opts.MaxIndices))
	}
	if len(r.vertices)+len(verts) > r.opts.MaxVertices || len(r.indices)+len(idx) > r.opts.MaxIndices {
		r.draw()
	}

	base := uint32(len(r.vertices))
	for _, v := range verts {
		r.vertices = append(r.vertices, mesh.Vertex{
			Position: transform.Mul4x1(v.Position),
			Color:    v.Color,
		})
	}
	for _, i := range idx {
		r.indices = append(r.indices, i+base)
	}
	r.stats.Meshes++
}

// FlushBatch draws everything accumulated since BeginBatch with exactly one
// draw call, even when nothing was submitted.
func (r *Renderer) FlushBatch() {
	r.expect("FlushBatch", BatchOpen)
	r.draw()
	r.shader = nil
	r.state = SceneOpen
}

func (r *Renderer) EndScene() {
	r.expect("EndScene", SceneOpen)
	r.state = Idle
}

// SetUniform registers an extra uniform sent with every draw until it is
// overwritten or removed with a nil value. Supported values are int, int32,
// mgl32.Vec3, mgl32.Vec4, mgl32.Mat3, mgl32.Mat4 and colors.Color.
func (r *Renderer) SetUniform(name string, value any) {
	if value == nil {
		if _, ok := r.uniforms[name]; ok {
			delete(r.uniforms, name)
			i := sort.SearchStrings(r.uniformNames, name)
			r.uniformNames = append(r.uniformNames[:i], r.uniformNames[i+1:]...)
		}
		return
	}
	switch value.(type) {
	case int, int32, mgl32.Vec3, mgl32.Vec4, mgl32.Mat3, mgl32.Mat4, colors.Color:
	default:
		panic(fmt.Sprintf("renderer2d: unsupported uniform %q of type %T", name, value))
	}
	if _, ok := r.uniforms[name]; !ok {
		i := sort.SearchStrings(r.uniformNames, name)
		r.uniformNames = append(r.uniformNames, "")
		copy(r.uniformNames[i+1:], r.uniformNames[i:])
		r.uniformNames[i] = name
	}
	r.uniforms[name] = value
}

// Destroy releases the GPU storage. The renderer cannot be used afterwards.
func (r *Renderer) Destroy() {
	if r.state == Destroyed {
		return
	}
	r.va.Destroy()
	r.vertices, r.indices = nil, nil
	r.state = Destroyed
}

func (r *Renderer) expect(call string, want State) {
	if r.state != want {
		panic(fmt.Sprintf("renderer2d: %s called in state %v, want %v", call, r.state, want))
	}
}

// draw uploads the accumulators, issues one draw and clears them for reuse.
func (r *Renderer) draw() {
	defer profiler.Start("renderer2d.Flush")()

	r.va.Bind()
	r.va.VertexBuffer().Update(gfx.Bytes(r.vertices))
	r.va.IndexBuffer().Update(r.indices)

	r.shader.Bind()
	r.shader.SetMat4(ViewProjectionUniform, r.viewProj)
	for _, name := range r.uniformNames {
		r.applyUniform(name, r.uniforms[name])
	}

	r.cmd.DrawIndexed(r.topology, len(r.indices))
	r.va.Unbind()

	r.stats.DrawCalls++
	r.stats.Vertices += len(r.vertices)
	r.stats.Indices += len(r.indices)

	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}

func (r *Renderer) applyUniform(name string, value any) {
	switch v := value.(type) {
	case int:
		r.shader.SetInt(name, int32(v))
	case int32:
		r.shader.SetInt(name, v)
	case mgl32.Vec3:
		r.shader.SetVec3(name, v)
	case mgl32.Vec4:
		r.shader.SetVec4(name, v)
	case mgl32.Mat3:
		r.shader.SetMat3(name, v)
	case mgl32.Mat4:
		r.shader.SetMat4(name, v)
	case colors.Color:
		r.shader.SetVec4(name, v.Vec4())
	}
}
