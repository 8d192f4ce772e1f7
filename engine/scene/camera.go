package scene

import "github.com/go-gl/mathgl/mgl32"

// MinZoomLevel is the floor applied to every zoom change. It keeps the zoom
// denominator strictly positive.
const MinZoomLevel = 0.05

// OrthographicCamera maps world units to clip space.
//
// With a zoom denominator d = 2 * pixelsPerUnit * zoom, the visible half
// extents are (viewportWidth/d, viewportHeight/d): an 800x600 viewport at one
// pixel per unit and zoom 1 shows x in [-400, 400] and y in [-300, 300], and
// doubling the zoom halves both. Every mutation recomputes the matrices, so
// ViewProjection is never stale.
type OrthographicCamera struct {
	viewportW, viewportH int
	pixelsPerUnit        float32
	zoom                 float32
	position             mgl32.Vec2
	rotation             float32 // radians
	near, far            float32

	projection     mgl32.Mat4
	view           mgl32.Mat4
	viewProjection mgl32.Mat4
}

// NewOrthographicCamera sizes the camera to a viewport in pixels.
// pixelsPerUnit <= 0 means one pixel per world unit.
func NewOrthographicCamera(viewportW, viewportH int, pixelsPerUnit float32) *OrthographicCamera {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 1
	}
	c := &OrthographicCamera{
		viewportW:     max(viewportW, 1),
		viewportH:     max(viewportH, 1),
		pixelsPerUnit: pixelsPerUnit,
		zoom:          1,
		near:          -1,
		far:           1,
	}
	c.Recompute()
	return c
}

// OnViewportResize stores the new viewport size. Minimized windows report
// zero sizes; those are ignored.
func (c *OrthographicCamera) OnViewportResize(w, h int) {
	if w < 1 || h < 1 {
		return
	}
	c.viewportW, c.viewportH = w, h
	c.Recompute()
}

// AddZoomLevel adjusts the zoom by delta, clamped to MinZoomLevel.
func (c *OrthographicCamera) AddZoomLevel(delta float32) { c.SetZoomLevel(c.zoom + delta) }

func (c *OrthographicCamera) SetZoomLevel(z float32) {
	if z < MinZoomLevel {
		z = MinZoomLevel
	}
	c.zoom = z
	c.Recompute()
}

func (c *OrthographicCamera) SetPosition(x, y float32) {
	c.position = mgl32.Vec2{x, y}
	c.Recompute()
}

func (c *OrthographicCamera) Move(dx, dy float32) {
	c.position = c.position.Add(mgl32.Vec2{dx, dy})
	c.Recompute()
}

func (c *OrthographicCamera) SetRotation(rad float32) {
	c.rotation = rad
	c.Recompute()
}

func (c *OrthographicCamera) Rotate(dRad float32) { c.SetRotation(c.rotation + dRad) }

func (c *OrthographicCamera) ZoomLevel() float32     { return c.zoom }
func (c *OrthographicCamera) Position() mgl32.Vec2   { return c.position }
func (c *OrthographicCamera) Rotation() float32      { return c.rotation }
func (c *OrthographicCamera) Viewport() (int, int)   { return c.viewportW, c.viewportH }
func (c *OrthographicCamera) PixelsPerUnit() float32 { return c.pixelsPerUnit }

// HalfExtents returns half the visible world width and height.
func (c *OrthographicCamera) HalfExtents() (float32, float32) {
	d := 2 * c.pixelsPerUnit * c.zoom
	return float32(c.viewportW) / d, float32(c.viewportH) / d
}

func (c *OrthographicCamera) Projection() mgl32.Mat4     { return c.projection }
func (c *OrthographicCamera) View() mgl32.Mat4           { return c.view }
func (c *OrthographicCamera) ViewProjection() mgl32.Mat4 { return c.viewProjection }

// Recompute rebuilds projection, view and view-projection from the current
// state.
func (c *OrthographicCamera) Recompute() {
	hw, hh := c.HalfExtents()
	c.projection = mgl32.Ortho(-hw, hw, -hh, hh, c.near, c.far)
	// view = R(-rot) * T(-pos)
	c.view = mgl32.HomogRotate3DZ(-c.rotation).Mul4(mgl32.Translate3D(-c.position.X(), -c.position.Y(), 0))
	c.viewProjection = c.projection.Mul4(c.view)
}

// ScreenToWorld converts a cursor position in pixels (origin top-left, y
// down) to world coordinates.
func (c *OrthographicCamera) ScreenToWorld(px, py float64) mgl32.Vec2 {
	ndcX := float32(px)/float32(c.viewportW)*2 - 1
	ndcY := 1 - float32(py)/float32(c.viewportH)*2
	p := c.viewProjection.Inv().Mul4x1(mgl32.Vec4{ndcX, ndcY, 0, 1})
	return mgl32.Vec2{p.X(), p.Y()}
}
