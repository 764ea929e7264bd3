package snapshot

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/ink"
)

var inkColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}

// Rasterizer draws the batch's strokes onto a blank canvas the size of the
// screen. It gives the model the gesture shape when no frame is available.
type Rasterizer struct {
	Width     int
	Height    int
	LineWidth int
	Quality   int
}

// NewRasterizer creates a rasterizer for a width x height screen
func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{Width: width, Height: height, LineWidth: 4, Quality: 50}
}

// Name implements Capturer
func (r *Rasterizer) Name() string { return "raster" }

// Capture implements Capturer
func (r *Rasterizer) Capture(ctx context.Context, batch ink.Batch) (*Image, error) {
	if batch.PointCount() == 0 {
		return nil, errors.New("batch has no points to draw")
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, errors.New("raster size is not configured")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for _, s := range batch.Strokes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(s.Points) == 1 {
			r.dot(canvas, s.Points[0].X, s.Points[0].Y)
			continue
		}
		for i := 1; i < len(s.Points); i++ {
			r.segment(canvas, s.Points[i-1], s.Points[i])
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: r.Quality}); err != nil {
		return nil, err
	}
	return &Image{Data: buf.Bytes(), MIMEType: "image/jpeg", Source: r.Name()}, nil
}

func (r *Rasterizer) segment(canvas *image.RGBA, a, b ink.Point) {
	dist := math.Hypot(b.X-a.X, b.Y-a.Y)
	steps := int(math.Ceil(dist))
	if steps == 0 {
		r.dot(canvas, a.X, a.Y)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		r.dot(canvas, a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t)
	}
}

func (r *Rasterizer) dot(canvas *image.RGBA, x, y float64) {
	half := r.LineWidth / 2
	cx, cy := int(math.Round(x)), int(math.Round(y))
	bounds := canvas.Bounds()
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			p := image.Point{X: cx + dx, Y: cy + dy}
			if p.In(bounds) {
				canvas.SetRGBA(p.X, p.Y, inkColor)
			}
		}
	}
}
