package snapshot

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/ink"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/mail"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/surface"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/tools"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorkspace() *workspace.Workspace {
	forest := desktop.Forest{
		{ID: "mail", Name: "Mail", Kind: desktop.KindApp, AppID: "mail"},
		{ID: "notes", Name: "notes.txt", Kind: desktop.KindApp, AppID: "notepad"},
		{ID: "docs", Name: "Documents", Kind: desktop.KindFolder},
	}
	emails := []mail.Email{
		{ID: 1, From: "Sarah Connors", Subject: "Project Update Q3"},
		{ID: 2, From: "Newsletter", Subject: "Weekly Tech Digest"},
	}
	return workspace.New(forest, emails, nil, nil)
}

func xBatch() ink.Batch {
	return ink.Batch{ID: "ink_test", Strokes: []ink.Stroke{
		{Points: []ink.Point{{X: 10, Y: 10}, {X: 60, Y: 60}}},
		{Points: []ink.Point{{X: 60, Y: 10}, {X: 10, Y: 60}}},
	}}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type failingCapturer struct{}

func (failingCapturer) Name() string { return "failing" }
func (failingCapturer) Capture(context.Context, ink.Batch) (*Image, error) {
	return nil, errors.New("canvas tainted")
}

func TestDescribeDesktop(t *testing.T) {
	ws := testWorkspace()
	router := surface.NewRouter(ws.Windows(), tools.NewRegistry())

	got := Describe(router.Active(), ws.Desktop().Snapshot(), ws.Mail().List())
	assert.Equal(t, "The user is on the desktop. Visible desktop items: Mail, notes.txt, Documents.", got)
}

func TestDescribeMail(t *testing.T) {
	ws := testWorkspace()
	router := surface.NewRouter(ws.Windows(), tools.NewRegistry())
	_, err := ws.Launch("mail")
	require.NoError(t, err)

	got := Describe(router.Active(), ws.Desktop().Snapshot(), ws.Mail().List())
	assert.Equal(t, "The user has the 'Mail' app open and focused. The visible emails are: [Project Update Q3] from Sarah Connors, [Weekly Tech Digest] from Newsletter.", got)
}

func TestDescribeOtherWindow(t *testing.T) {
	ws := testWorkspace()
	router := surface.NewRouter(ws.Windows(), tools.NewRegistry())
	_, err := ws.Launch("notes")
	require.NoError(t, err)

	got := Describe(router.Active(), ws.Desktop().Snapshot(), ws.Mail().List())
	assert.Equal(t, "The user has the 'notes.txt' app open and focused.", got)
}

func TestTakeTextOnlyOnCaptureFailure(t *testing.T) {
	ws := testWorkspace()
	router := surface.NewRouter(ws.Windows(), tools.NewRegistry())
	snap := New(ws, router, failingCapturer{}, nil).Take(context.Background(), xBatch())

	assert.Nil(t, snap.Image)
	assert.Equal(t, tools.SurfaceDesktop, snap.Focus.Surface)
	assert.True(t, len(snap.Prompt) > len(PromptPrefix))
	assert.Contains(t, snap.Prompt, "The ink consists of 2 strokes")

	parts := snap.Parts()
	require.Len(t, parts, 1)
	assert.Equal(t, snap.Prompt, parts[0].Text)
}

func TestTakeWithoutGeometry(t *testing.T) {
	ws := testWorkspace()
	router := surface.NewRouter(ws.Windows(), tools.NewRegistry())
	snap := New(ws, router, nil, nil).WithGeometry(false).Take(context.Background(), xBatch())

	assert.Equal(t, PromptPrefix+snap.Description, snap.Prompt)
}

func TestTakeImageFirst(t *testing.T) {
	ws := testWorkspace()
	router := surface.NewRouter(ws.Windows(), tools.NewRegistry())
	frames := NewFrameCapturer(time.Minute)
	_, err := frames.Store(pngBytes(t))
	require.NoError(t, err)

	snap := New(ws, router, frames, nil).Take(context.Background(), xBatch())

	require.NotNil(t, snap.Image)
	assert.Equal(t, "frame", snap.CapturedBy)
	parts := snap.Parts()
	require.Len(t, parts, 2)
	assert.NotNil(t, parts[0].Image)
	assert.Equal(t, "image/png", parts[0].Image.MIMEType)
	assert.Equal(t, snap.Prompt, parts[1].Text)
}

func TestFrameCapturer(t *testing.T) {
	frames := NewFrameCapturer(time.Second)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	frames.now = func() time.Time { return now }

	_, err := frames.Capture(context.Background(), ink.Batch{})
	assert.ErrorIs(t, err, ErrNoFrame)

	_, err = frames.Store([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrNotImage)

	mt, err := frames.Store(pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mt)

	img, err := frames.Capture(context.Background(), ink.Batch{})
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)

	now = now.Add(2 * time.Second)
	_, err = frames.Capture(context.Background(), ink.Batch{})
	assert.ErrorIs(t, err, ErrNoFrame, "stale frames are rejected")

	latest, ok := frames.Latest()
	require.True(t, ok)
	assert.Equal(t, "frame", latest.Source)
}

func TestRasterizer(t *testing.T) {
	r := NewRasterizer(100, 80)

	img, err := r.Capture(context.Background(), xBatch())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())

	// the crossing point of the X is inked
	cr, _, _, _ := decoded.At(35, 35).RGBA()
	assert.Less(t, cr, uint32(0x8000))
	// a far corner is blank
	wr, _, _, _ := decoded.At(95, 75).RGBA()
	assert.Greater(t, wr, uint32(0xc000))

	_, err = r.Capture(context.Background(), ink.Batch{})
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	chain := Chain{NewFrameCapturer(0), NewRasterizer(64, 64)}
	assert.Equal(t, "frame+raster", chain.Name())

	img, err := chain.Capture(context.Background(), xBatch())
	require.NoError(t, err)
	assert.Equal(t, "raster", img.Source)

	_, err = Chain{NewFrameCapturer(0), failingCapturer{}}.Capture(context.Background(), xBatch())
	assert.ErrorIs(t, err, ErrNoFrame)
}
