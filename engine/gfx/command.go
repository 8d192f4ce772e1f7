package gfx

import (
	"fmt"

	"github.com/hubastard/lumen/engine/colors"
)

// Command turns frame-level intents into API calls. It keeps no state of its
// own beyond the API it forwards to.
type Command struct {
	api API
}

func NewCommand(api API) Command { return Command{api: api} }

func (c Command) API() API             { return c.api }
func (c Command) Init() error          { return c.api.Init() }
func (c Command) Info() Info           { return c.api.Info() }
func (c Command) SetViewport(w, h int) { c.api.SetViewport(0, 0, w, h) }

// Clear fills the framebuffer with col.
func (c Command) Clear(col colors.Color) { c.api.Clear(col) }

// DrawIndexed draws count indices of the bound vertex array.
func (c Command) DrawIndexed(t Topology, count int) {
	switch t {
	case Triangles:
		c.api.DrawIndexedTriangles(count)
	case Lines:
		c.api.DrawIndexedLines(count)
	default:
		panic(fmt.Sprintf("gfx: unknown topology %d", int(t)))
	}
}
