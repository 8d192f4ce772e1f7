// Package mesh describes drawable shapes in local space.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/gfx"
)

// Vertex is the record the batch renderer uploads. Keep it in sync with Layout.
type Vertex struct {
	Position mgl32.Vec4
	Color    mgl32.Vec4
}

// Layout describes Vertex for vertex-array registration.
var Layout = gfx.MustBufferLayout(
	gfx.LayoutElement{Name: "a_position", Count: 4, Type: gfx.Float},
	gfx.LayoutElement{Name: "a_color", Count: 4, Type: gfx.Float},
)

// V builds a vertex at (x, y) with color c.
func V(x, y float32, c colors.Color) Vertex {
	return Vertex{Position: mgl32.Vec4{x, y, 0, 1}, Color: c.Vec4()}
}

var ErrInvalidMesh = errors.New("mesh: invalid mesh")

// Mesh is an immutable set of vertices with triangle and edge indices.
// Accessors return the backing slices; callers must not modify them.
type Mesh struct {
	vertices  []Vertex
	triangles []uint32
	edges     []uint32
}

// New copies vertices and triangle indices. Edge indices are derived from
// the unique triangle edges.
func New(vertices []Vertex, triangles []uint32) (*Mesh, error) {
	return NewWithEdges(vertices, triangles, nil)
}

// NewWithEdges is New with explicit edge indices (pairs). When edges is nil
// they are derived from triangles.
func NewWithEdges(vertices []Vertex, triangles, edges []uint32) (*Mesh, error) {
	if len(triangles)%3 != 0 {
		return nil, fmt.Errorf("%w: %d triangle indices is not a multiple of 3", ErrInvalidMesh, len(triangles))
	}
	if len(edges)%2 != 0 {
		return nil, fmt.Errorf("%w: %d edge indices is not a multiple of 2", ErrInvalidMesh, len(edges))
	}
	n := uint32(len(vertices))
	for _, set := range [][]uint32{triangles, edges} {
		for i, idx := range set {
			if idx >= n {
				return nil, fmt.Errorf("%w: index %d at %d out of range for %d vertices", ErrInvalidMesh, idx, i, n)
			}
		}
	}
	m := &Mesh{
		vertices:  append([]Vertex(nil), vertices...),
		triangles: append([]uint32(nil), triangles...),
	}
	if edges != nil {
		m.edges = append([]uint32(nil), edges...)
	} else {
		m.edges = edgesOf(triangles)
	}
	return m, nil
}

// MustNew is New for meshes built from literals.
func MustNew(vertices []Vertex, triangles []uint32) *Mesh {
	m, err := New(vertices, triangles)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Mesh) Vertices() []Vertex { return m.vertices }
func (m *Mesh) VertexCount() int   { return len(m.vertices) }

// Indices returns the index stream for topology t.
func (m *Mesh) Indices(t gfx.Topology) []uint32 {
	if t == gfx.Lines {
		return m.edges
	}
	return m.triangles
}

// edgesOf lists every distinct triangle edge once, in first-seen order.
func edgesOf(triangles []uint32) []uint32 {
	type edge struct{ a, b uint32 }
	seen := make(map[edge]bool, len(triangles))
	out := make([]uint32, 0, len(triangles)*2)
	for i := 0; i+2 < len(triangles); i += 3 {
		tri := [3]uint32{triangles[i], triangles[i+1], triangles[i+2]}
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			key := edge{min(a, b), max(a, b)}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, a, b)
		}
	}
	return out
}
