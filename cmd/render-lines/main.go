// Command render-lines draws a square and a triangle as wireframes. Space
// toggles between line and filled rendering.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hubastard/lumen/engine/assets"
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/gfx/renderer2d"
	"github.com/hubastard/lumen/engine/logx"
	"github.com/hubastard/lumen/engine/mesh"
	"github.com/hubastard/lumen/engine/platform"
	"github.com/hubastard/lumen/engine/scene"
)

type App struct {
	cam    *scene.OrthographicCamera
	ctrl   *scene.CameraController
	r2d    *renderer2d.Renderer
	shader *gfx.Shader

	square, triangle   *mesh.Mesh
	squareT, triangleT scene.Transform2D
	topology           gfx.Topology
}

func (a *App) OnStart(e *core.Engine) {
	w, h := e.Window.FramebufferSize()
	a.cam = scene.NewOrthographicCamera(w, h, 120)
	a.ctrl = scene.NewCameraController(a.cam)
	a.ctrl.Pan = true

	var err error
	a.shader, err = assets.LoadProgram(e.API, "lines", assets.ShaderFiles{
		Vertex:   filepath.Join(e.Config.ShaderDir, "vertex-position.glsl"),
		Fragment: filepath.Join(e.Config.ShaderDir, "fragment-color.glsl"),
	})
	if err != nil {
		panic(err)
	}
	a.r2d, err = renderer2d.New(e.API, renderer2d.Options{MaxVertices: 1024, MaxIndices: 2048})
	if err != nil {
		panic(err)
	}
	a.r2d.SetUniform("u_color", colors.White)

	a.square = mesh.Square()
	a.triangle = mesh.Triangle()
	a.squareT = scene.NewTransform2D(-1.2, 0, 1.5)
	a.triangleT = scene.NewTransform2D(1.2, 0, 1.5)
	a.topology = gfx.Lines
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	a.ctrl.Update(e.Input, float32(dt))
	a.squareT.Rotation += float32(dt) * 0.5
	a.triangleT.Rotation -= float32(dt)
}

func (a *App) OnRender(e *core.Engine, alpha float64) {
	a.r2d.BeginScene(a.cam)
	a.r2d.BeginBatch(a.shader, a.topology)
	a.r2d.Submit(a.square, a.squareT.Matrix())
	a.r2d.Submit(a.triangle, a.triangleT.Matrix())
	a.r2d.FlushBatch()
	a.r2d.EndScene()
}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	if a.ctrl.HandleEvent(ev) {
		return
	}
	switch ev := ev.(type) {
	case core.EventCloseRequested:
		e.Window.RequestClose()
	case core.EventKey:
		if ev.Action != core.Press {
			return
		}
		switch ev.Key {
		case core.KeyEscape:
			e.Window.RequestClose()
		case core.KeySpace:
			if a.topology == gfx.Lines {
				a.topology = gfx.Triangles
			} else {
				a.topology = gfx.Lines
			}
			logx.Logger().Info("topology", "mode", a.topology)
		}
	}
}

func (a *App) OnShutdown(e *core.Engine) {
	a.r2d.Destroy()
	a.shader.Destroy()
}

func main() {
	configPath := flag.String("config", "engine.yml", "path to the engine config")
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	cfg.Title = "Render Lines"
	logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if err := platform.Run(&App{}, cfg); err != nil {
		logx.Logger().Error("run", "err", err)
		os.Exit(1)
	}
}
