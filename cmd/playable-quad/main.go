// Command playable-quad draws two quads. WASD moves the first one, Up/Down
// zoom the camera, P dumps a profile when built with -tags profile.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/lumen/engine/assets"
	"github.com/hubastard/lumen/engine/colors"
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/gfx/renderer2d"
	"github.com/hubastard/lumen/engine/logx"
	"github.com/hubastard/lumen/engine/mesh"
	"github.com/hubastard/lumen/engine/platform"
	"github.com/hubastard/lumen/engine/profiler"
	"github.com/hubastard/lumen/engine/scene"
)

const (
	pixelsPerUnit = 100
	moveSpeed     = 2 // world units per second
)

type App struct {
	cam  *scene.OrthographicCamera
	ctrl *scene.CameraController
	r2d  *renderer2d.Renderer
	hot  *assets.HotShader
	flat *gfx.Shader

	quad    *mesh.Mesh
	player  scene.Transform2D
	partner scene.Transform2D
}

func (a *App) OnStart(e *core.Engine) {
	profiler.Init(1 << 12)

	w, h := e.Window.FramebufferSize()
	a.cam = scene.NewOrthographicCamera(w, h, pixelsPerUnit)
	a.ctrl = scene.NewCameraController(a.cam)

	files := assets.ShaderFiles{
		Vertex:   filepath.Join(e.Config.ShaderDir, "vertex-position.glsl"),
		Fragment: filepath.Join(e.Config.ShaderDir, "fragment-color.glsl"),
	}
	var err error
	if e.Config.HotReload {
		a.hot, err = assets.NewHotShader(e.API, "quad", files)
	} else {
		a.flat, err = assets.LoadProgram(e.API, "quad", files)
	}
	if err != nil {
		panic(err)
	}

	a.r2d, err = renderer2d.New(e.API, renderer2d.Options{})
	if err != nil {
		panic(err)
	}

	a.quad = mesh.Square()
	a.player = scene.NewTransform2D(-1, 0, 1)
	a.partner = scene.NewTransform2D(1.5, 0, 0.75)
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	step := float32(moveSpeed * dt)
	var move mgl32.Vec2
	if e.Input.IsKeyDown(core.KeyW) {
		move[1] += step
	}
	if e.Input.IsKeyDown(core.KeyS) {
		move[1] -= step
	}
	if e.Input.IsKeyDown(core.KeyA) {
		move[0] -= step
	}
	if e.Input.IsKeyDown(core.KeyD) {
		move[0] += step
	}
	a.player.Position = a.player.Position.Add(move)
	a.partner.Rotation += float32(dt)
}

func (a *App) OnRender(e *core.Engine, alpha float64) {
	shader := a.flat
	if a.hot != nil {
		if _, err := a.hot.Poll(); err != nil {
			logx.Logger().Warn("keeping previous shader", "err", err)
		}
		shader = a.hot.Shader()
	}

	a.r2d.BeginScene(a.cam)

	a.r2d.SetUniform("u_color", colors.Yellow)
	a.r2d.BeginBatch(shader, gfx.Triangles)
	a.r2d.Submit(a.quad, a.player.Matrix())
	a.r2d.FlushBatch()

	a.r2d.SetUniform("u_color", colors.Cyan)
	a.r2d.BeginBatch(shader, gfx.Triangles)
	a.r2d.Submit(a.quad, a.partner.Matrix())
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
		case core.KeyP:
			dumpProfile()
		}
	}
}

func (a *App) OnShutdown(e *core.Engine) {
	stats := a.r2d.Stats()
	logx.Logger().Info("last frame", "drawCalls", stats.DrawCalls, "vertices", stats.Vertices, "indices", stats.Indices)
	a.r2d.Destroy()
	if a.hot != nil {
		if err := a.hot.Close(); err != nil {
			logx.Logger().Warn("close shader watcher", "err", err)
		}
	}
	if a.flat != nil {
		a.flat.Destroy()
	}
}

func dumpProfile() {
	if !profiler.Enabled {
		logx.Logger().Info("profiler disabled; rebuild with -tags profile")
		return
	}
	path, err := profiler.Dump(".")
	if err != nil {
		logx.Logger().Warn("profile dump failed", "err", err)
		return
	}
	logx.Logger().Info("profile written", "path", path)
}

func main() {
	configPath := flag.String("config", "engine.yml", "path to the engine config")
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	cfg.Title = "Playable Quad"
	logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if err := platform.Run(&App{}, cfg); err != nil {
		logx.Logger().Error("run", "err", err)
		os.Exit(1)
	}
}
