// Package assets loads GLSL sources from disk and keeps shaders in sync
// with them.
package assets

import (
	"fmt"
	"os"

	"github.com/hubastard/lumen/engine/gfx"
	"github.com/hubastard/lumen/engine/logx"
)

// LoadShader reads a GLSL source file.
func LoadShader(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", path, err)
	}
	return string(b), nil
}

// ShaderFiles names the source file of each stage. Geometry is optional.
type ShaderFiles struct {
	Vertex   string
	Fragment string
	Geometry string
}

type stageFile struct {
	stage gfx.ShaderStage
	path  string
}

func (f ShaderFiles) stages() []stageFile {
	out := []stageFile{{gfx.VertexStage, f.Vertex}, {gfx.FragmentStage, f.Fragment}}
	if f.Geometry != "" {
		out = append(out, stageFile{gfx.GeometryStage, f.Geometry})
	}
	return out
}

// Paths lists the configured files, vertex first.
func (f ShaderFiles) Paths() []string {
	var out []string
	for _, s := range f.stages() {
		out = append(out, s.path)
	}
	return out
}

// LoadProgram reads every stage and compiles them into a linked shader.
func LoadProgram(api gfx.API, name string, files ShaderFiles) (*gfx.Shader, error) {
	sh := gfx.NewShader(api, name)
	for _, s := range files.stages() {
		src, err := LoadShader(s.path)
		if err != nil {
			return nil, err
		}
		sh.Attach(s.stage, src)
	}
	if err := sh.Compile(); err != nil {
		return nil, err
	}
	logx.Logger().Debug("shader loaded", "shader", name, "files", files.Paths())
	return sh, nil
}
