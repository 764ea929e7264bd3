package wallpaper

import (
	"context"
	"errors"
	"testing"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/ink"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/InkOS/backend/internal/inference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for MIME sniffing
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type recordingGenerator struct {
	img    *inference.Blob
	err    error
	prompt string
	sketch *inference.Blob
}

func (g *recordingGenerator) GenerateImage(_ context.Context, prompt string, sketch *inference.Blob) (*inference.Blob, error) {
	g.prompt = prompt
	g.sketch = sketch
	return g.img, g.err
}

func TestPaintWithoutGeneratorPublishesTip(t *testing.T) {
	ws := workspace.New(nil, nil, nil, nil)
	p := New(ws, nil, nil, 0, nil)

	res, err := p.Paint(context.Background(), "mountains", nil)
	require.NoError(t, err)
	require.NotNil(t, res.Notice)
	assert.Equal(t, workspace.WallpaperTip, res.Notice.Message)
	assert.Equal(t, workspace.NoticeTip, res.Notice.Kind)
	assert.False(t, p.Enabled())
}

func TestEnabledFollowsImageCapability(t *testing.T) {
	ws := workspace.New(nil, nil, nil, nil)

	model := inference.NewScripted()
	p := New(ws, model, nil, 0, nil)
	assert.False(t, p.Enabled())

	model.SetImage(&inference.Blob{Data: pngHeader})
	assert.True(t, p.Enabled())

	assert.True(t, New(ws, &recordingGenerator{}, nil, 0, nil).Enabled())
}

func TestPaintSendsRasterSketch(t *testing.T) {
	ws := workspace.New(nil, nil, nil, nil)
	gen := &recordingGenerator{img: &inference.Blob{Data: pngHeader}}
	p := New(ws, gen, snapshot.NewRasterizer(64, 64), 0, nil)

	strokes := []ink.Stroke{{Points: []ink.Point{{X: 1, Y: 1}, {X: 30, Y: 40}}}}
	res, err := p.Paint(context.Background(), "  flowers ", strokes)
	require.NoError(t, err)

	require.NotNil(t, res.Wallpaper)
	assert.Equal(t, "image/png", res.Wallpaper.MIMEType)
	assert.Equal(t, "flowers", gen.prompt)
	require.NotNil(t, gen.sketch)
	assert.Equal(t, "image/jpeg", gen.sketch.MIMEType)

	stored, ok := ws.Wallpaper()
	require.True(t, ok)
	assert.Equal(t, "flowers", stored.Prompt)
}

func TestPaintBlankPromptIsTip(t *testing.T) {
	gen := &recordingGenerator{img: &inference.Blob{Data: pngHeader}}
	p := New(workspace.New(nil, nil, nil, nil), gen, nil, 0, nil)

	res, err := p.Paint(context.Background(), "   ", nil)
	require.NoError(t, err)
	assert.NotNil(t, res.Notice)
	assert.Empty(t, gen.prompt)
}

func TestPaintErrors(t *testing.T) {
	ws := workspace.New(nil, nil, nil, nil)

	p := New(ws, &recordingGenerator{err: errors.New("quota")}, nil, 0, nil)
	_, err := p.Paint(context.Background(), "sea", nil)
	assert.ErrorIs(t, err, inference.ErrRemote)

	p = New(ws, &recordingGenerator{img: &inference.Blob{Data: []byte("plain text")}}, nil, 0, nil)
	_, err = p.Paint(context.Background(), "sea", nil)
	assert.ErrorIs(t, err, ErrNotImage)

	_, ok := ws.Wallpaper()
	assert.False(t, ok)
}
