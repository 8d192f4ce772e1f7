package core

import (
	"time"

	"github.com/hubastard/lumen/engine/gfx"
)

// App defines the game/application hooks.
type App interface {
	OnStart(e *Engine)                 // called once after window/renderer init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // render with interpolation alpha [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events not handled by a layer
	OnShutdown(e *Engine)              // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window  Window
	API     gfx.API
	Command gfx.Command
	Input   *Input
	Layers  LayerStack
	Config  Config
	start   time.Time
	stats   FrameStats
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Stats returns the loop counters of the last full second.
func (e *Engine) Stats() FrameStats { return e.stats }

// PushLayer attaches l and puts it on top of the stack.
func (e *Engine) PushLayer(l Layer) {
	l.OnAttach(e)
	e.Layers.Push(l)
}

// FrameStats counts frames and fixed updates per second.
type FrameStats struct {
	FPS, UPS int
}

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	Title() string
	SetTitle(title string)
	// SetEventCallback routes window events to cb; nil detaches.
	SetEventCallback(cb func(Event))
	Destroy()
}
