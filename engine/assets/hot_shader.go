package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/logx"
)

// HotShader owns a shader built from files and rebuilds it when one of the
// files changes on disk.
//
// The watcher goroutine only marks the shader dirty; the rebuild happens in
// Poll, which must be called from the render thread.
type HotShader struct {
	api    gfx.API
	name   string
	files  ShaderFiles
	shader *gfx.Shader

	watcher *fsnotify.Watcher
	watched map[string]bool // absolute file paths
	running bool
	done    chan struct{}

	mu      sync.Mutex
	dirty   bool
	changed string
}

// NewHotShader compiles the shader once and starts watching its files.
func NewHotShader(api gfx.API, name string, files ShaderFiles) (*HotShader, error) {
	sh, err := LoadProgram(api, name, files)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		sh.Destroy()
		return nil, fmt.Errorf("watch shader %q: %w", name, err)
	}
	h := &HotShader{
		api:     api,
		name:    name,
		files:   files,
		shader:  sh,
		watcher: w,
		watched: make(map[string]bool),
		done:    make(chan struct{}),
	}

	// Editors often save by rename, so watch directories and filter by file.
	dirs := make(map[string]bool)
	for _, p := range files.Paths() {
		abs, err := filepath.Abs(p)
		if err != nil {
			h.Close()
			return nil, fmt.Errorf("watch shader %q: %w", name, err)
		}
		h.watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			h.Close()
			return nil, fmt.Errorf("watch shader %q: %w", name, err)
		}
	}

	h.running = true
	go h.watch()
	return h, nil
}

// Shader returns the current shader. It changes after a successful Poll.
func (h *HotShader) Shader() *gfx.Shader { return h.shader }

func (h *HotShader) watch() {
	defer close(h.done)
	for {
		select {
		case ev, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !h.watched[abs] {
				continue
			}
			h.mu.Lock()
			h.dirty = true
			h.changed = abs
			h.mu.Unlock()
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			logx.Logger().Warn("shader watcher error", "shader", h.name, "err", err)
		}
	}
}

// Poll rebuilds the shader if a file changed since the last call. It
// reports whether the shader was replaced. On failure the previous shader
// stays in use and the error is returned; the next change retries.
func (h *HotShader) Poll() (bool, error) {
	h.mu.Lock()
	dirty, changed := h.dirty, h.changed
	h.dirty = false
	h.mu.Unlock()
	if !dirty || h.shader == nil {
		return false, nil
	}

	next, err := LoadProgram(h.api, h.name, h.files)
	if err != nil {
		logx.Logger().Warn("shader reload failed", "shader", h.name, "file", changed, "err", err)
		return false, err
	}
	h.shader.Destroy()
	h.shader = next
	logx.Logger().Info("shader reloaded", "shader", h.name, "file", changed)
	return true, nil
}

// Close stops watching and destroys the current shader.
func (h *HotShader) Close() error {
	var err error
	if h.watcher != nil {
		err = h.watcher.Close()
		if h.running {
			<-h.done
			h.running = false
		}
		h.watcher = nil
	}
	if h.shader != nil {
		h.shader.Destroy()
		h.shader = nil
	}
	if err != nil && !errors.Is(err, fsnotify.ErrClosed) {
		return fmt.Errorf("close shader watcher %q: %w", h.name, err)
	}
	return nil
}
