package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/ink"
)

// ErrNoFrame is returned when no usable screen frame is available
var ErrNoFrame = errors.New("no screen frame available")

// Image is a captured screen image
type Image struct {
	Data     []byte
	MIMEType string
	Source   string
}

// Capturer produces an image of the screen for a batch
type Capturer interface {
	Name() string
	Capture(ctx context.Context, batch ink.Batch) (*Image, error)
}

// None never captures
type None struct{}

// Name implements Capturer
func (None) Name() string { return "none" }

// Capture implements Capturer
func (None) Capture(context.Context, ink.Batch) (*Image, error) { return nil, nil }

// Chain tries capturers in order and returns the first image
type Chain []Capturer

// Name implements Capturer
func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, capturer := range c {
		names[i] = capturer.Name()
	}
	return strings.Join(names, "+")
}

// Capture implements Capturer
func (c Chain) Capture(ctx context.Context, batch ink.Batch) (*Image, error) {
	var errs []error
	for _, capturer := range c {
		img, err := capturer.Capture(ctx, batch)
		if err == nil && img != nil {
			return img, nil
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", capturer.Name(), err))
		}
	}
	if len(errs) == 0 {
		return nil, nil
	}
	return nil, errors.Join(errs...)
}
