package gfx_test

import (
	"testing"

	"github.com/hubastard/lumen/engine/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferLayoutStrideAndOffsets(t *testing.T) {
	l, err := gfx.NewBufferLayout(
		gfx.LayoutElement{Name: "pos", Count: 2, Type: gfx.Float},
		gfx.LayoutElement{Name: "color", Count: 4, Type: gfx.Float},
	)
	require.NoError(t, err)

	assert.Equal(t, 24, l.Stride())
	off, ok := l.Offset("color")
	assert.True(t, ok)
	assert.Equal(t, 8, off)
	off, ok = l.Offset("pos")
	assert.True(t, ok)
	assert.Equal(t, 0, off)
	_, ok = l.Offset("uv")
	assert.False(t, ok)
}

func TestBufferLayoutMixedTypes(t *testing.T) {
	l := gfx.MustBufferLayout(
		gfx.LayoutElement{Name: "a", Count: 3, Type: gfx.Float},
		gfx.LayoutElement{Name: "b", Count: 1, Type: gfx.Bool},
		gfx.LayoutElement{Name: "c", Count: 2, Type: gfx.Int},
		gfx.LayoutElement{Name: "d", Count: 1, Type: gfx.UnsignedInt},
	)
	offsets := []int{}
	for _, e := range l.Elements() {
		offsets = append(offsets, e.Offset)
	}
	assert.Equal(t, []int{0, 12, 13, 21}, offsets)
	assert.Equal(t, 25, l.Stride())
}

func TestBufferLayoutRejectsBadElements(t *testing.T) {
	tests := []struct {
		name string
		elem gfx.LayoutElement
	}{
		{"zero count", gfx.LayoutElement{Name: "pos", Count: 0, Type: gfx.Float}},
		{"negative count", gfx.LayoutElement{Name: "pos", Count: -2, Type: gfx.Float}},
		{"unknown type", gfx.LayoutElement{Name: "pos", Count: 2, Type: gfx.ElementType(42)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gfx.NewBufferLayout(tt.elem)
			assert.ErrorIs(t, err, gfx.ErrInvalidLayout)
			assert.Panics(t, func() { gfx.MustBufferLayout(tt.elem) })
		})
	}
}

func TestEmptyLayout(t *testing.T) {
	l, err := gfx.NewBufferLayout()
	require.NoError(t, err)
	assert.Zero(t, l.Stride())
	assert.Empty(t, l.Elements())
}
