package core

import (
	"fmt"
	"runtime"
	"time"

	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/logx"
	"github.com/hubastard/lumen/engine/profiler"
)

// Run wires the platform window + graphics API and executes the main loop.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newAPI func(Window, Config) (gfx.API, error)) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	win, err := newWindow(cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Destroy()

	api, err := newAPI(win, cfg)
	if err != nil {
		return fmt.Errorf("create graphics api: %w", err)
	}
	cmd := gfx.NewCommand(api)
	if err := cmd.Init(); err != nil {
		return fmt.Errorf("init graphics api: %w", err)
	}
	info := cmd.Info()
	logx.Logger().Info("graphics ready", "vendor", info.Vendor, "renderer", info.Renderer, "version", info.Version)

	w, h := win.FramebufferSize()
	cmd.SetViewport(w, h)

	eng := &Engine{
		Window:  win,
		API:     api,
		Command: cmd,
		Input:   NewInput(),
		Config:  cfg,
		start:   time.Now(),
	}

	// The callback lives exactly as long as the loop.
	win.SetEventCallback(func(ev Event) { dispatch(eng, app, ev) })
	defer win.SetEventCallback(nil)

	app.OnStart(eng)

	var (
		tick    = time.Second / time.Duration(cfg.UpdateRate)
		dt      = tick.Seconds()
		accum   time.Duration
		prev    = time.Now()
		second  = prev
		frames  int
		updates int
		title   = win.Title()
	)

	for !win.ShouldClose() {
		now := time.Now()
		accum += now.Sub(prev)
		prev = now

		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()

		// Fixed updates, capped to avoid a spiral of death after a stall.
		var steps int
		steps, accum = fixedSteps(accum, tick, cfg.MaxUpdateSteps)
		for range steps {
			app.OnUpdate(eng, dt)
			eng.Layers.ForEach(func(l Layer) { l.OnUpdate(eng, dt) })
			updates++
		}
		alpha := float64(accum) / float64(tick)

		endRender := profiler.Start("core.Render")
		cmd.Clear(cfg.ClearColor)
		app.OnRender(eng, alpha)
		eng.Layers.ForEach(func(l Layer) { l.OnRender(eng, alpha) })
		endRender()
		frames++

		if now.Sub(second) >= time.Second {
			eng.stats = FrameStats{FPS: frames, UPS: updates}
			win.SetTitle(frameTitle(title, frames, updates))
			second = now
			frames, updates = 0, 0
		}

		win.SwapBuffers()
	}

	app.OnShutdown(eng)
	for {
		l, ok := eng.Layers.Pop()
		if !ok {
			break
		}
		l.OnDetach(eng)
	}
	logx.Logger().Info("engine exit", "uptime", eng.Uptime().Round(time.Millisecond))
	return nil
}

// fixedSteps returns how many ticks fit in accum, at most maxSteps, and the
// remainder. A backlog still left after maxSteps is dropped.
func fixedSteps(accum, tick time.Duration, maxSteps int) (int, time.Duration) {
	steps := 0
	for accum >= tick && steps < maxSteps {
		accum -= tick
		steps++
	}
	if accum >= tick {
		accum = 0
	}
	return steps, accum
}

func frameTitle(base string, fps, ups int) string {
	return fmt.Sprintf("%s - FPS: %d Updates: %d", base, fps, ups)
}

// dispatch feeds input state and the viewport, then offers ev to layers
// top-down and finally to the app.
func dispatch(eng *Engine, app App, ev Event) {
	eng.Input.Handle(ev)
	if r, ok := ev.(EventResize); ok && r.W > 0 && r.H > 0 {
		eng.Command.SetViewport(r.W, r.H)
	}
	handled := eng.Layers.ForEachReverse(func(l Layer) bool { return l.OnEvent(eng, ev) })
	if !handled {
		app.OnEvent(eng, ev)
	}
}
