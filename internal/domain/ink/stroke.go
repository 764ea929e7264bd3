// Package ink collects freehand strokes into debounced batches.
//
// A gesture is often drawn as several strokes (an X is two). Each completed
// stroke resets a single idle timer; when the timer runs out the pending
// strokes are handed over as one batch. N strokes in quick succession yield
// exactly one batch.
package ink

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptyStroke is returned for strokes without points
var ErrEmptyStroke = errors.New("stroke has no points")

// Point is a sample of the pointer position in screen coordinates.
// T is milliseconds since the stroke began and may be zero.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T int64   `json:"t,omitempty"`
}

// Stroke is one pen-down to pen-up path
type Stroke struct {
	Points []Point `json:"points"`
}

// Batch is the set of strokes that make up one gesture
type Batch struct {
	ID        string    `json:"id"`
	Strokes   []Stroke  `json:"strokes"`
	StartedAt time.Time `json:"started_at"`
	ReadyAt   time.Time `json:"ready_at"`
}

// Bounds is the axis-aligned box around all points of a batch
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width of the box
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height of the box
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// PointCount returns the total number of points
func (b Batch) PointCount() int {
	n := 0
	for _, s := range b.Strokes {
		n += len(s.Points)
	}
	return n
}

// Bounds returns the bounding box of the batch; ok is false for an empty batch
func (b Batch) Bounds() (Bounds, bool) {
	n := b.PointCount()
	if n == 0 {
		return Bounds{}, false
	}

	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for _, s := range b.Strokes {
		for _, p := range s.Points {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
	}

	return Bounds{
		MinX: floats.Min(xs),
		MinY: floats.Min(ys),
		MaxX: floats.Max(xs),
		MaxY: floats.Max(ys),
	}, true
}

// Length returns the polyline length of the stroke
func (s Stroke) Length() float64 {
	if len(s.Points) < 2 {
		return 0
	}
	segments := make([]float64, len(s.Points)-1)
	for i := 1; i < len(s.Points); i++ {
		a, b := s.Points[i-1], s.Points[i]
		segments[i-1] = floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
	}
	return floats.Sum(segments)
}

// Length returns the total polyline length of all strokes
func (b Batch) Length() float64 {
	lengths := make([]float64, len(b.Strokes))
	for i, s := range b.Strokes {
		lengths[i] = s.Length()
	}
	return floats.Sum(lengths)
}

// Describe summarizes the batch geometry in one sentence
func (b Batch) Describe() string {
	box, ok := b.Bounds()
	if !ok {
		return ""
	}

	noun := "strokes"
	if len(b.Strokes) == 1 {
		noun = "stroke"
	}
	return fmt.Sprintf("The ink consists of %d %s covering x %.0f-%.0f and y %.0f-%.0f.",
		len(b.Strokes), noun, box.MinX, box.MaxX, box.MinY, box.MaxY)
}
