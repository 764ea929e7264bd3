// Package snapshot builds the context handed to the model for one stroke
// batch: a sentence describing the focused surface and, when a capturer
// succeeds, an image of the screen.
package snapshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/ink"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/mail"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/surface"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/tools"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/InkOS/backend/internal/inference"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// PromptPrefix opens every prompt
const PromptPrefix = "The user just drew a stroke on the screen. "

// Snapshot is the context of one dispatch cycle
type Snapshot struct {
	Focus       surface.Focus
	Description string
	Prompt      string
	Image       *inference.Blob
	CapturedBy  string
}

// Parts returns the prompt parts with the image, if any, ahead of the text
func (s Snapshot) Parts() []inference.Part {
	parts := make([]inference.Part, 0, 2)
	if s.Image != nil {
		parts = append(parts, inference.ImagePart(s.Image.Data, s.Image.MIMEType))
	}
	return append(parts, inference.TextPart(s.Prompt))
}

// Snapshotter reads the workspace and captures the screen
type Snapshotter struct {
	workspace *workspace.Workspace
	router    *surface.Router
	capturer  Capturer
	geometry  bool
	logger    *zap.Logger
	metrics   *monitoring.Metrics
}

// New creates a snapshotter. A nil capturer produces text-only snapshots.
func New(ws *workspace.Workspace, router *surface.Router, capturer Capturer, logger *zap.Logger) *Snapshotter {
	if capturer == nil {
		capturer = None{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshotter{
		workspace: ws,
		router:    router,
		capturer:  capturer,
		geometry:  true,
		logger:    logger,
	}
}

// WithMetrics adds metrics tracking to the snapshotter
func (s *Snapshotter) WithMetrics(metrics *monitoring.Metrics) *Snapshotter {
	s.metrics = metrics
	return s
}

// WithGeometry toggles the ink geometry sentence
func (s *Snapshotter) WithGeometry(enabled bool) *Snapshotter {
	s.geometry = enabled
	return s
}

// Take builds the snapshot for batch. Capture failures are logged and the
// snapshot proceeds without an image.
func (s *Snapshotter) Take(ctx context.Context, batch ink.Batch) Snapshot {
	focus := s.router.Active()
	description := Describe(focus, s.workspace.Desktop().Snapshot(), s.workspace.Mail().List())

	prompt := PromptPrefix + description
	if s.geometry {
		if geo := batch.Describe(); geo != "" {
			prompt += " " + geo
		}
	}

	snap := Snapshot{
		Focus:       focus,
		Description: description,
		Prompt:      prompt,
	}

	img, err := s.capturer.Capture(ctx, batch)
	switch {
	case err != nil:
		s.logger.Warn("Screen capture failed, dispatching text-only",
			zap.String("batch_id", batch.ID),
			zap.String("capturer", s.capturer.Name()),
			zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordCaptureFailure(s.capturer.Name())
		}
	case img != nil:
		snap.Image = &inference.Blob{Data: img.Data, MIMEType: img.MIMEType}
		snap.CapturedBy = img.Source
	}

	return snap
}

// Describe renders the context sentence for a focus
func Describe(focus surface.Focus, forest desktop.Forest, emails []mail.Email) string {
	if focus.Window == nil {
		return "The user is on the desktop. Visible desktop items: " +
			strings.Join(desktop.TopLevelNames(forest), ", ") + "."
	}

	desc := fmt.Sprintf("The user has the '%s' app open and focused.", focus.Window.Title)
	if focus.Surface == tools.SurfaceMail {
		listed := make([]string, len(emails))
		for i, e := range emails {
			listed[i] = fmt.Sprintf("[%s] from %s", e.Subject, e.From)
		}
		desc += " The visible emails are: " + strings.Join(listed, ", ") + "."
	}
	return desc
}
