package renderer2d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/gfx/gfxtest"
	"github.com/hubastard/lumen/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCamera mgl32.Mat4

func (c fixedCamera) ViewProjection() mgl32.Mat4 { return mgl32.Mat4(c) }

var identityCam = fixedCamera(mgl32.Ident4())

func setup(t *testing.T, opts Options) (*gfxtest.Recorder, *Renderer, *gfx.Shader) {
	t.Helper()
	rec := gfxtest.New()
	r, err := New(rec, opts)
	require.NoError(t, err)

	sh := gfx.NewShader(rec, "flat")
	sh.Attach(gfx.VertexStage, "vs")
	sh.Attach(gfx.FragmentStage, "fs")
	require.NoError(t, sh.Compile())

	rec.Reset()
	return rec, r, sh
}

func TestNewDefaults(t *testing.T) {
	rec := gfxtest.New()
	r, err := New(rec, Options{})
	require.NoError(t, err)

	assert.Equal(t, Options{MaxVertices: DefaultMaxVertices, MaxIndices: DefaultMaxIndices}, r.Options())
	assert.Equal(t, Idle, r.State())
	// One dynamic vertex buffer and one index buffer.
	assert.Equal(t, 1, rec.Count("CreateVertexBuffer"))
	assert.Equal(t, 1, rec.Count("CreateIndexBuffer"))
	assert.Len(t, rec.Attributes, 2)
	assert.Equal(t, 32, rec.Attributes[0].Stride)
	assert.Equal(t, 16, rec.Attributes[1].Offset)

	_, err = New(rec, Options{MaxVertices: -1})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestSquareRoundTrip(t *testing.T) {
	rec, r, sh := setup(t, Options{})

	r.BeginScene(identityCam)
	r.BeginBatch(sh, gfx.Triangles)
	r.Submit(mesh.Square(), mgl32.Ident4())
	r.FlushBatch()
	r.EndScene()

	require.Len(t, rec.Draws, 1)
	assert.Equal(t, gfx.Triangles, rec.Draws[0].Topology)
	assert.Equal(t, 6, rec.Draws[0].Count)
	assert.Equal(t, sh.Program(), rec.Draws[0].Program)

	vu, ok := rec.LastUpload(false)
	require.True(t, ok)
	floats := gfxtest.Floats(vu.Data)
	require.Len(t, floats, 4*8)
	assert.Equal(t, []float32{-0.5, -0.5, 0, 1}, floats[0:4])
	assert.Equal(t, []float32(colors.Red[:]), floats[4:8])

	iu, ok := rec.LastUpload(true)
	require.True(t, ok)
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0}, gfxtest.Indices(iu.Data))

	assert.Equal(t, 1, rec.Count("UpdateVertexBuffer"))
	assert.Equal(t, 1, rec.Count("UpdateIndexBuffer"))
}

func TestSubmitRebasesIndicesAndTransforms(t *testing.T) {
	rec, r, sh := setup(t, Options{})

	r.BeginScene(identityCam)
	r.BeginBatch(sh, gfx.Triangles)
	r.Submit(mesh.Quad(colors.Red), mgl32.Ident4())
	r.Submit(mesh.Quad(colors.Blue), mgl32.Translate3D(2, 0, 0))
	r.FlushBatch()
	r.EndScene()

	require.Len(t, rec.Draws, 1)
	assert.Equal(t, 12, rec.Draws[0].Count)

	iu, _ := rec.LastUpload(true)
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4}, gfxtest.Indices(iu.Data))

	vu, _ := rec.LastUpload(false)
	floats := gfxtest.Floats(vu.Data)
	require.Len(t, floats, 8*8)
	// Fifth vertex is the second quad's first corner, moved by +2 on x.
	assert.InDelta(t, 1.5, floats[4*8], 1e-6)
	assert.InDelta(t, -0.5, floats[4*8+1], 1e-6)
	assert.Equal(t, []float32(colors.Blue[:]), floats[4*8+4:4*8+8])
}

func TestLinesTopologyUsesEdges(t *testing.T) {
	rec, r, sh := setup(t, Options{})

	tri := mesh.Triangle()
	r.BeginScene(identityCam)
	r.BeginBatch(sh, gfx.Lines)
	r.Submit(mesh.Square(), mgl32.Ident4())
	r.Submit(tri, mgl32.Ident4())
	r.FlushBatch()
	r.EndScene()

	require.Len(t, rec.Draws, 1)
	assert.Equal(t, gfx.Lines, rec.Draws[0].Topology)
	assert.Equal(t, 8+len(tri.Indices(gfx.Lines)), rec.Draws[0].Count)

	iu, _ := rec.LastUpload(true)
	got := gfxtest.Indices(iu.Data)
	assert.Equal(t, []uint32{0, 1, 1, 2, 2, 3, 3, 0}, got[:8])
	for _, i := range got[8:] {
		assert.GreaterOrEqual(t, i, uint32(4))
	}
}

func TestEmptyBatchDrawsZero(t *testing.T) {
	rec, r, sh := setup(t, Options{})

	r.BeginScene(identityCam)
	r.BeginBatch(sh, gfx.Triangles)
	r.FlushBatch()
	r.EndScene()

	require.Len(t, rec.Draws, 1)
	assert.Zero(t, rec.Draws[0].Count)
}

func TestOutOfOrderCallsPanic(t *testing.T) {
	_, r, sh := setup(t, Options{})
	sq := mesh.Square()

	assert.PanicsWithValue(t, "renderer2d: Submit called in state Idle, want BatchOpen", func() {
		r.Submit(sq, mgl32.Ident4())
	})
	assert.PanicsWithValue(t, "renderer2d: BeginBatch called in state Idle, want SceneOpen", func() {
		r.BeginBatch(sh, gfx.Triangles)
	})
	assert.PanicsWithValue(t, "renderer2d: EndScene called in state Idle, want SceneOpen", func() {
		r.EndScene()
	})

	r.BeginScene(identityCam)
	assert.PanicsWithValue(t, "renderer2d: BeginScene called in state SceneOpen, want Idle", func() {
		r.BeginScene(identityCam)
	})
	assert.PanicsWithValue(t, "renderer2d: FlushBatch called in state SceneOpen, want BatchOpen", func() {
		r.FlushBatch()
	})

	r.BeginBatch(sh, gfx.Triangles)
	assert.PanicsWithValue(t, "renderer2d: EndScene called in state BatchOpen, want SceneOpen", func() {
		r.EndScene()
	})
	assert.PanicsWithValue(t, "renderer2d: BeginBatch called in state BatchOpen, want SceneOpen", func() {
		r.BeginBatch(sh, gfx.Triangles)
	})
}

func TestBeginBatchRejectsUnlinkedShader(t *testing.T) {
	rec, r, _ := setup(t, Options{})
	raw := gfx.NewShader(rec, "raw")

	r.BeginScene(identityCam)
	assert.Panics(t, func() { r.BeginBatch(raw, gfx.Triangles) })
	assert.Panics(t, func() { r.BeginBatch(nil, gfx.Triangles) })
	assert.Equal(t, SceneOpen, r.State())
}

func TestOverflowDrawsEarly(t *testing.T) {
	rec, r, sh := setup(t, Options{MaxVertices: 6, MaxIndices: 100})

	r.BeginScene(identityCam)
	r.BeginBatch(sh, gfx.Triangles)
	r.Submit(mesh.Quad(colors.Red), mgl32.Ident4())
	require.Empty(t, rec.Draws)

	r.Submit(mesh.Quad(colors.Green), mgl32.Ident4())
	require.Len(t, rec.Draws, 1)
	assert.Equal(t, 6, rec.Draws[0].Count)

	r.FlushBatch()
	r.EndScene()

	require.Len(t, rec.Draws, 2)
	assert.Equal(t, 6, rec.Draws[1].Count)
	// The restarted batch indexes from zero again.
	iu, _ := rec.LastUpload(true)
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0}, gfxtest.Indices(iu.Data))
	assert.Equal(t, 2, r.Stats().DrawCalls)
	assert.Equal(t, 1, r.Stats().Batches)
}

func TestMeshLargerThanCapacityPanics(t *testing.T) {
	_, r, sh := setup(t, Options{MaxVertices: 3, MaxIndices: 100})

	r.BeginScene(identityCam)
	r.BeginBatch(sh, gfx.Triangles)
	assert.Panics(t, func() { r.Submit(mesh.Square(), mgl32.Ident4()) })
}

func TestUniformsAppliedOnFlush(t *testing.T) {
	rec, r, sh := setup(t, Options{})
	vp := mgl32.Ortho(-4, 4, -3, 3, -1, 1)

	r.SetUniform("u_color", colors.Yellow)
	r.SetUniform("u_mode", 2)

	r.BeginScene(fixedCamera(vp))
	r.BeginBatch(sh, gfx.Triangles)
	r.Submit(mesh.Square(), mgl32.Ident4())
	r.FlushBatch()
	r.EndScene()

	got, ok := rec.UniformValue(sh.Program(), ViewProjectionUniform)
	require.True(t, ok)
	assert.Equal(t, vp, got)

	got, ok = rec.UniformValue(sh.Program(), "u_color")
	require.True(t, ok)
	assert.Equal(t, colors.Yellow.Vec4(), got)

	got, ok = rec.UniformValue(sh.Program(), "u_mode")
	require.True(t, ok)
	assert.Equal(t, int32(2), got)
}

func TestSetUniformRemoveAndReject(t *testing.T) {
	rec, r, sh := setup(t, Options{})

	r.SetUniform("u_b", mgl32.Vec3{1, 2, 3})
	r.SetUniform("u_a", mgl32.Mat3{})
	r.SetUniform("u_c", int32(1))
	assert.Equal(t, []string{"u_a", "u_b", "u_c"}, r.uniformNames)

	r.SetUniform("u_b", nil)
	r.SetUniform("u_missing", nil)
	assert.Equal(t, []string{"u_a", "u_c"}, r.uniformNames)

	assert.Panics(t, func() { r.SetUniform("u_bad", "text") })

	r.BeginScene(identityCam)
	r.BeginBatch(sh, gfx.Triangles)
	r.FlushBatch()
	r.EndScene()
	_, ok := rec.UniformValue(sh.Program(), "u_b")
	assert.False(t, ok)
}

func TestAccumulatorsReusedAcrossFrames(t *testing.T) {
	rec, r, sh := setup(t, Options{MaxVertices: 64, MaxIndices: 96})

	frame := func() {
		r.BeginScene(identityCam)
		r.BeginBatch(sh, gfx.Triangles)
		r.Submit(mesh.Square(), mgl32.Ident4())
		r.Submit(mesh.Square(), mgl32.Translate3D(1, 1, 0))
		r.FlushBatch()
		r.EndScene()
	}

	frame()
	vcap, icap := cap(r.vertices), cap(r.indices)
	frame()

	assert.Equal(t, vcap, cap(r.vertices))
	assert.Equal(t, icap, cap(r.indices))
	v, i := r.Pending()
	assert.Zero(t, v)
	assert.Zero(t, i)

	// Stats only cover the latest scene.
	assert.Equal(t, Statistics{DrawCalls: 1, Batches: 1, Meshes: 2, Vertices: 8, Indices: 12}, r.Stats())
	// Storage is created once by New; frames only upload into it.
	assert.Zero(t, rec.Count("CreateVertexBuffer"))
	assert.Zero(t, rec.Count("CreateIndexBuffer"))
	assert.Equal(t, 2, rec.Count("UpdateVertexBuffer"))
	assert.Len(t, rec.Draws, 2)
}

func TestMultipleBatchesPerScene(t *testing.T) {
	rec, r, sh := setup(t, Options{})

	r.BeginScene(identityCam)
	r.BeginBatch(sh, gfx.Triangles)
	r.Submit(mesh.Square(), mgl32.Ident4())
	r.FlushBatch()
	r.BeginBatch(sh, gfx.Lines)
	r.Submit(mesh.Square(), mgl32.Ident4())
	r.FlushBatch()
	r.EndScene()

	require.Len(t, rec.Draws, 2)
	assert.Equal(t, gfx.Triangles, rec.Draws[0].Topology)
	assert.Equal(t, gfx.Lines, rec.Draws[1].Topology)
	assert.Equal(t, 8, rec.Draws[1].Count)
	assert.Equal(t, 2, r.Stats().Batches)
}

func TestDestroy(t *testing.T) {
	rec, r, _ := setup(t, Options{})

	r.Destroy()
	r.Destroy()
	assert.Zero(t, rec.Live())
	assert.Equal(t, 1, rec.Count("DeleteVertexArray"))
	assert.Panics(t, func() { r.BeginScene(identityCam) })
}
