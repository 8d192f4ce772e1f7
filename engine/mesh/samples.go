package mesh

import "github.com/hubastard/lumen/engine/colors"

var (
	quadTriangles = []uint32{0, 1, 2, 2, 3, 0}
	quadOutline   = []uint32{0, 1, 1, 2, 2, 3, 3, 0}
)

// Square is a unit quad centered on the origin with one color per corner.
// Its edge indices trace the outline only.
func Square() *Mesh {
	return mustEdges([]Vertex{
		V(-0.5, -0.5, colors.Red),
		V(0.5, -0.5, colors.Green),
		V(0.5, 0.5, colors.Blue),
		V(-0.5, 0.5, colors.White),
	}, quadTriangles, quadOutline)
}

// Quad is a unit quad of a single color.
func Quad(c colors.Color) *Mesh {
	return mustEdges([]Vertex{
		V(-0.5, -0.5, c),
		V(0.5, -0.5, c),
		V(0.5, 0.5, c),
		V(-0.5, 0.5, c),
	}, quadTriangles, quadOutline)
}

// Triangle is a unit-height triangle centered on the origin.
func Triangle() *Mesh {
	return MustNew([]Vertex{
		V(-0.5, -0.5, colors.Red),
		V(0.5, -0.5, colors.Green),
		V(0, 0.5, colors.Blue),
	}, []uint32{0, 1, 2})
}

func mustEdges(vertices []Vertex, triangles, edges []uint32) *Mesh {
	m, err := NewWithEdges(vertices, triangles, edges)
	if err != nil {
		panic(err)
	}
	return m
}
