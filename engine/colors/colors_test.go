package colors

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestWithAlpha(t *testing.T) {
	c := Red.WithAlpha(0.25)
	assert.Equal(t, Color{1, 0, 0, 0.25}, c)
	assert.Equal(t, Color{1, 0, 0, 1}, Red, "receiver is a copy")
}

func TestVec4(t *testing.T) {
	assert.Equal(t, mgl32.Vec4{0, 1, 1, 1}, Cyan.Vec4())
}

func TestLerp(t *testing.T) {
	assert.Equal(t, Black, Black.Lerp(White, 0))
	assert.Equal(t, White, Black.Lerp(White, 1))
	assert.Equal(t, Color{0.5, 0.5, 0.5, 1}, Black.Lerp(White, 0.5))
}
