package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/lumen/engine/core"
	"github.com/stretchr/testify/assert"
)

func TestTranslateKey(t *testing.T) {
	assert.Equal(t, core.KeyUp, translateKey(glfw.KeyUp))
	assert.Equal(t, core.KeyW, translateKey(glfw.KeyW))
	assert.Equal(t, core.KeyUnknown, translateKey(glfw.KeyF12))
}

func TestTranslateAction(t *testing.T) {
	assert.Equal(t, core.Press, translateAction(glfw.Press))
	assert.Equal(t, core.Repeat, translateAction(glfw.Repeat))
	assert.Equal(t, core.Release, translateAction(glfw.Release))
}

func TestTranslateButton(t *testing.T) {
	b, ok := translateButton(glfw.MouseButtonRight)
	assert.True(t, ok)
	assert.Equal(t, core.MouseRight, b)

	_, ok = translateButton(glfw.MouseButton5)
	assert.False(t, ok)
}

func TestTranslateMods(t *testing.T) {
	assert.Equal(t, core.ModNone, translateMods(0))
	assert.Equal(t, core.ModShift|core.ModSuper, translateMods(glfw.ModShift|glfw.ModSuper))
}
