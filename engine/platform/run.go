package platform

import (
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/gfx"
	glbackend "github.com/hubastard/lumen/engine/gfx/gl"
)

// NewGLAPI has the signature core.Run expects. The backend is initialized
// by core.Run once the window's context is current.
func NewGLAPI(core.Window, core.Config) (gfx.API, error) { return glbackend.New(), nil }

// Run starts app in a GLFW window drawn with OpenGL.
func Run(app core.App, cfg core.Config) error {
	return core.Run(app, cfg, NewWindow, NewGLAPI)
}
