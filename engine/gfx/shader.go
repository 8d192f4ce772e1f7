package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/lumen/engine/logx"
)

// ShaderState tracks a program through its lifecycle.
type ShaderState int

const (
	Uncompiled ShaderState = iota
	Compiling
	Linked
	Bound
	Failed
	Destroyed
)

func (s ShaderState) String() string {
	switch s {
	case Uncompiled:
		return "uncompiled"
	case Compiling:
		return "compiling"
	case Linked:
		return "linked"
	case Bound:
		return "bound"
	case Failed:
		return "failed"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("ShaderState(%d)", int(s))
	}
}

type stageSource struct {
	stage  ShaderStage
	source string
}

// Shader is a GPU program built from one source per stage.
//
// Uniform locations are resolved against the program on first use and cached
// for its lifetime, including names the program does not declare.
//
// Only one program is current per API. A shader reports Bound while its
// program is the API's current one; binding another shader on the same API
// returns it to Linked.
type Shader struct {
	api      API
	name     string
	program  ProgramID
	state    ShaderState
	stages   []stageSource
	uniforms map[string]UniformLocation
}

// NewShader returns an empty program. name is only used in diagnostics.
func NewShader(api API, name string) *Shader {
	return &Shader{api: api, name: name, uniforms: make(map[string]UniformLocation)}
}

func (s *Shader) Name() string       { return s.name }
func (s *Shader) Program() ProgramID { return s.program }

func (s *Shader) State() ShaderState {
	s.sync()
	return s.state
}

// Attach adds the source text of one stage. Stages must be attached before
// Compile.
func (s *Shader) Attach(stage ShaderStage, source string) {
	if s.state != Uncompiled {
		panic(fmt.Sprintf("gfx: attach %v stage to shader %q in state %v", stage, s.name, s.state))
	}
	for _, st := range s.stages {
		if st.stage == stage {
			panic(fmt.Sprintf("gfx: shader %q already has a %v stage", s.name, stage))
		}
	}
	s.stages = append(s.stages, stageSource{stage: stage, source: source})
}

// Compile compiles every attached stage and links the program. On failure
// the returned error carries the driver diagnostic and the shader is left
// Failed; it must not be bound.
func (s *Shader) Compile() error {
	if s.state != Uncompiled {
		panic(fmt.Sprintf("gfx: compile shader %q in state %v", s.name, s.state))
	}
	if !s.hasStage(VertexStage) || !s.hasStage(FragmentStage) {
		s.state = Failed
		return fmt.Errorf("shader %q: %w", s.name, ErrShaderStages)
	}
	s.state = Compiling

	compiled := make([]ShaderID, 0, len(s.stages))
	release := func() {
		for _, id := range compiled {
			s.api.DeleteShader(id)
		}
	}

	for _, st := range s.stages {
		id, err := s.api.CompileShader(st.stage, st.source)
		if err != nil {
			release()
			s.state = Failed
			logx.Logger().Error("shader compile failed", "shader", s.name, "stage", st.stage, "error", err)
			return fmt.Errorf("shader %q: %w", s.name, err)
		}
		compiled = append(compiled, id)
	}

	s.program = s.api.CreateProgram()
	for _, id := range compiled {
		s.api.AttachShader(s.program, id)
	}
	err := s.api.LinkProgram(s.program)
	// Stage objects are no longer needed once linking ran.
	release()
	if err != nil {
		s.api.DeleteProgram(s.program)
		s.program = 0
		s.state = Failed
		logx.Logger().Error("shader link failed", "shader", s.name, "error", err)
		return fmt.Errorf("shader %q: %w", s.name, err)
	}

	s.state = Linked
	logx.Logger().Debug("shader linked", "shader", s.name, "program", s.program, "stages", len(s.stages))
	return nil
}

// Bind makes the program current. Uniform setters require it.
func (s *Shader) Bind() {
	s.sync()
	if s.state != Linked && s.state != Bound {
		panic(fmt.Sprintf("gfx: bind shader %q in state %v", s.name, s.state))
	}
	s.api.UseProgram(s.program)
	s.state = Bound
}

func (s *Shader) Unbind() {
	s.sync()
	if s.state != Bound {
		return
	}
	s.api.UseProgram(0)
	s.state = Linked
}

// Location resolves name once and caches the result.
func (s *Shader) Location(name string) UniformLocation {
	if loc, ok := s.uniforms[name]; ok {
		return loc
	}
	loc := s.api.UniformLocation(s.program, name)
	if loc == NoUniform {
		logx.Logger().Debug("uniform not found", "shader", s.name, "uniform", name)
	}
	s.uniforms[name] = loc
	return loc
}

func (s *Shader) SetInt(name string, v int32) {
	if loc := s.boundLocation(name); loc != NoUniform {
		s.api.SetUniformInt(loc, v)
	}
}

func (s *Shader) SetVec3(name string, v mgl32.Vec3) {
	if loc := s.boundLocation(name); loc != NoUniform {
		s.api.SetUniformVec3(loc, v)
	}
}

func (s *Shader) SetVec4(name string, v mgl32.Vec4) {
	if loc := s.boundLocation(name); loc != NoUniform {
		s.api.SetUniformVec4(loc, v)
	}
}

func (s *Shader) SetMat3(name string, v mgl32.Mat3) {
	if loc := s.boundLocation(name); loc != NoUniform {
		s.api.SetUniformMat3(loc, v)
	}
}

func (s *Shader) SetMat4(name string, v mgl32.Mat4) {
	if loc := s.boundLocation(name); loc != NoUniform {
		s.api.SetUniformMat4(loc, v)
	}
}

// Destroy deletes the program. Safe to call more than once.
func (s *Shader) Destroy() {
	s.sync()
	if s.state == Bound {
		s.api.UseProgram(0)
	}
	if s.program != 0 {
		s.api.DeleteProgram(s.program)
		s.program = 0
	}
	s.state = Destroyed
}

// sync demotes a Bound shader whose program is no longer current.
func (s *Shader) sync() {
	if s.state == Bound && s.api.CurrentProgram() != s.program {
		s.state = Linked
	}
}

func (s *Shader) boundLocation(name string) UniformLocation {
	s.sync()
	if s.state != Bound {
		panic(fmt.Sprintf("gfx: set uniform %q on shader %q in state %v", name, s.name, s.state))
	}
	return s.Location(name)
}

func (s *Shader) hasStage(stage ShaderStage) bool {
	for _, st := range s.stages {
		if st.stage == stage {
			return true
		}
	}
	return false
}
