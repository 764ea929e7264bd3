// Package wallpaper turns a sketch on the empty background into a generated
// wallpaper. Without an image generator it falls back to a tip notice.
package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/ink"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/InkOS/backend/internal/inference"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// ErrNotImage is returned when the generator answers with non-image bytes
var ErrNotImage = errors.New("generated wallpaper is not an image")

// Result reports what a paint request did
type Result struct {
	Wallpaper *workspace.Wallpaper `json:"wallpaper,omitempty"`
	Notice    *workspace.Notice    `json:"notice,omitempty"`
}

// Painter generates wallpapers
type Painter struct {
	workspace *workspace.Workspace
	generator inference.ImageGenerator
	sketch    snapshot.Capturer
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a painter. A nil generator makes every request a tip.
func New(ws *workspace.Workspace, generator inference.ImageGenerator, sketch snapshot.Capturer, timeout time.Duration, logger *zap.Logger) *Painter {
	if sketch == nil {
		sketch = snapshot.None{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Painter{
		workspace: ws,
		generator: generator,
		sketch:    sketch,
		timeout:   timeout,
		logger:    logger,
	}
}

// Enabled reports whether images can be generated
func (p *Painter) Enabled() bool {
	if p.generator == nil {
		return false
	}
	if c, ok := p.generator.(inference.ImageCapability); ok {
		return c.ImagesEnabled()
	}
	return true
}

// Paint generates a wallpaper from prompt and the sketch strokes. A blank
// prompt or a missing generator publishes the tip instead.
func (p *Painter) Paint(ctx context.Context, prompt string, strokes []ink.Stroke) (Result, error) {
	prompt = strings.TrimSpace(prompt)
	if !p.Enabled() || prompt == "" {
		n := p.workspace.Notify(workspace.NoticeTip, workspace.WallpaperTip)
		return Result{Notice: &n}, nil
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var sketch *inference.Blob
	img, err := p.sketch.Capture(ctx, ink.Batch{Strokes: strokes})
	switch {
	case err != nil:
		p.logger.Warn("Sketch capture failed, generating from prompt only", zap.Error(err))
	case img != nil:
		sketch = &inference.Blob{Data: img.Data, MIMEType: img.MIMEType}
	}

	blob, err := p.generator.GenerateImage(ctx, prompt, sketch)
	if err != nil {
		if errors.Is(err, inference.ErrNotConfigured) {
			n := p.workspace.Notify(workspace.NoticeTip, workspace.WallpaperTip)
			return Result{Notice: &n}, nil
		}
		p.logger.Error("Wallpaper generation failed", zap.String("prompt", prompt), zap.Error(err))
		return Result{}, fmt.Errorf("%w: %w", inference.ErrRemote, err)
	}

	mt := mimetype.Detect(blob.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Result{}, fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}

	wp := p.workspace.SetWallpaper(blob.Data, mt.String(), prompt)
	p.logger.Info("Wallpaper updated",
		zap.String("mime_type", wp.MIMEType),
		zap.Int("bytes", len(wp.Data)),
		zap.Bool("sketch", sketch != nil))
	return Result{Wallpaper: &wp}, nil
}
