package scene

import "github.com/hubastard/lumen/engine/core"

// CameraController feeds window events into a camera: resizes update the
// viewport, Up/Down zoom in and out. With Pan set, Update moves the camera
// with WASD.
type CameraController struct {
	Camera   *OrthographicCamera
	ZoomStep float32
	PanSpeed float32 // world units per second
	Pan      bool
}

func NewCameraController(cam *OrthographicCamera) *CameraController {
	return &CameraController{
		Camera:   cam,
		ZoomStep: 0.1,
		PanSpeed: 5,
	}
}

// HandleEvent reports whether ev was consumed.
func (cc *CameraController) HandleEvent(ev core.Event) bool {
	switch e := ev.(type) {
	case core.EventResize:
		cc.Camera.OnViewportResize(e.W, e.H)
		// Other listeners (viewport, layout) still need resizes.
		return false
	case core.EventKey:
		if e.Action == core.Release {
			return false
		}
		switch e.Key {
		case core.KeyUp:
			cc.Camera.AddZoomLevel(cc.ZoomStep)
			return true
		case core.KeyDown:
			cc.Camera.AddZoomLevel(-cc.ZoomStep)
			return true
		}
	}
	return false
}

func (cc *CameraController) Update(in *core.Input, dt float32) {
	if !cc.Pan || in == nil {
		return
	}
	step := cc.PanSpeed * dt
	var dx, dy float32
	if in.IsKeyDown(core.KeyW) {
		dy += step
	}
	if in.IsKeyDown(core.KeyS) {
		dy -= step
	}
	if in.IsKeyDown(core.KeyA) {
		dx -= step
	}
	if in.IsKeyDown(core.KeyD) {
		dx += step
	}
	if dx != 0 || dy != 0 {
		cc.Camera.Move(dx, dy)
	}
}
