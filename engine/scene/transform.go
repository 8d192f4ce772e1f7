package scene

import "github.com/go-gl/mathgl/mgl32"

// Transform2D places a mesh in the world.
type Transform2D struct {
	Position mgl32.Vec2
	Rotation float32 // radians, counter-clockwise
	Scale    mgl32.Vec2
}

// NewTransform2D returns a transform at (x, y) with uniform scale s.
func NewTransform2D(x, y, s float32) Transform2D {
	return Transform2D{Position: mgl32.Vec2{x, y}, Scale: mgl32.Vec2{s, s}}
}

// Matrix returns translation * rotation * scale.
func (t Transform2D) Matrix() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Position.X(), t.Position.Y(), 0)
	rot := mgl32.HomogRotate3DZ(t.Rotation)
	sc := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), 1)
	return tr.Mul4(rot).Mul4(sc)
}
