package gfx

import "errors"

var (
	ErrInvalidLayout = errors.New("gfx: invalid buffer layout")
	ErrShaderCompile = errors.New("gfx: shader compile failed")
	ErrShaderLink    = errors.New("gfx: program link failed")
	ErrShaderStages  = errors.New("gfx: program needs a vertex and a fragment stage")
)
