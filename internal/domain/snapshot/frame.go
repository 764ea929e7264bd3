package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/ink"
	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned when an uploaded frame is not a supported image
var ErrNotImage = errors.New("frame is not a supported image")

var frameTypes = []string{"image/jpeg", "image/png", "image/webp"}

// FrameCapturer serves the latest screenshot uploaded by the front end
type FrameCapturer struct {
	mu       sync.RWMutex
	data     []byte
	mimeType string
	at       time.Time
	maxAge   time.Duration
	now      func() time.Time
}

// NewFrameCapturer creates a capturer that rejects frames older than maxAge.
// A zero maxAge accepts frames of any age.
func NewFrameCapturer(maxAge time.Duration) *FrameCapturer {
	return &FrameCapturer{maxAge: maxAge, now: time.Now}
}

// Name implements Capturer
func (f *FrameCapturer) Name() string { return "frame" }

// Store sniffs and keeps a frame; it returns the detected MIME type
func (f *FrameCapturer) Store(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), frameTypes...) {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = data
	f.mimeType = mt.String()
	f.at = f.now()
	return f.mimeType, nil
}

// Latest returns the stored frame regardless of age
func (f *FrameCapturer) Latest() (*Image, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.data == nil {
		return nil, false
	}
	return &Image{Data: f.data, MIMEType: f.mimeType, Source: f.Name()}, true
}

// Capture implements Capturer
func (f *FrameCapturer) Capture(_ context.Context, _ ink.Batch) (*Image, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.data == nil {
		return nil, ErrNoFrame
	}
	if f.maxAge > 0 && f.now().Sub(f.at) > f.maxAge {
		return nil, fmt.Errorf("%w: frame is %s old", ErrNoFrame, f.now().Sub(f.at).Round(time.Millisecond))
	}
	return &Image{Data: f.data, MIMEType: f.mimeType, Source: f.Name()}, nil
}
