package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerStackOrder(t *testing.T) {
	var trace []string
	var ls LayerStack
	a := &recordingLayer{name: "a", trace: &trace}
	b := &recordingLayer{name: "b", trace: &trace, consumes: KeyP}
	ls.Push(a)
	ls.Push(b)
	require.Equal(t, 2, ls.Len())

	var names []string
	ls.ForEach(func(l Layer) { names = append(names, l.(*recordingLayer).name) })
	assert.Equal(t, []string{"a", "b"}, names)

	handled := ls.ForEachReverse(func(l Layer) bool { return l.OnEvent(nil, EventKey{Key: KeyP}) })
	assert.True(t, handled)
	assert.Equal(t, []string{"b:event"}, trace)

	l, ok := ls.Pop()
	require.True(t, ok)
	assert.Same(t, b, l)
	ls.Pop()
	_, ok = ls.Pop()
	assert.False(t, ok)
	assert.Zero(t, ls.Len())
}
