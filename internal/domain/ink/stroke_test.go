package ink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchBounds(t *testing.T) {
	b := Batch{Strokes: []Stroke{
		line(10, 20, 110, 220),
		line(110, 20, 10, 220),
	}}

	box, ok := b.Bounds()
	require.True(t, ok)
	assert.Equal(t, Bounds{MinX: 10, MinY: 20, MaxX: 110, MaxY: 220}, box)
	assert.Equal(t, 100.0, box.Width())
	assert.Equal(t, 200.0, box.Height())
	assert.Equal(t, 4, b.PointCount())
}

func TestBatchBoundsEmpty(t *testing.T) {
	_, ok := Batch{}.Bounds()
	assert.False(t, ok)
	assert.Empty(t, Batch{}.Describe())
}

func TestStrokeLength(t *testing.T) {
	s := Stroke{Points: []Point{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 10}}}
	assert.InDelta(t, 11.0, s.Length(), 1e-9)
	assert.Equal(t, 0.0, Stroke{Points: []Point{{X: 1, Y: 1}}}.Length())
}

func TestBatchLength(t *testing.T) {
	b := Batch{Strokes: []Stroke{
		{Points: []Point{{X: 0, Y: 0}, {X: 3, Y: 4}}},
		{Points: []Point{{X: 10, Y: 10}, {X: 10, Y: 16}}},
		{Points: []Point{{X: 5, Y: 5}}},
	}}
	assert.InDelta(t, 11.0, b.Length(), 1e-9)
	assert.Equal(t, 0.0, Batch{}.Length())
}

func TestDescribe(t *testing.T) {
	one := Batch{Strokes: []Stroke{line(0, 0, 50, 40)}}
	assert.Equal(t, "The ink consists of 1 stroke covering x 0-50 and y 0-40.", one.Describe())

	two := Batch{Strokes: []Stroke{line(0, 0, 50, 40), line(50, 0, 0, 40)}}
	assert.Contains(t, two.Describe(), "2 strokes")
}
