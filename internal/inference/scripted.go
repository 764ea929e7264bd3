package inference

import (
	"context"
	"sync"
	"time"
)

// Response is one scripted reply
type Response struct {
	Calls []ToolCall
	Err   error
	Delay time.Duration
}

// Scripted replays queued responses in order. Once the queue is empty it
// answers with no tool calls.
type Scripted struct {
	mu        sync.Mutex
	responses []Response
	requests  []Request
	image     *Blob
}

// NewScripted creates a stub with queued responses
func NewScripted(responses ...Response) *Scripted {
	return &Scripted{responses: responses}
}

// Name identifies the backend in logs and metrics
func (s *Scripted) Name() string { return "scripted" }

// Push queues another response
func (s *Scripted) Push(r Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, r)
}

// Generate records req and returns the next queued response
func (s *Scripted) Generate(ctx context.Context, req Request) ([]ToolCall, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	var resp Response
	if len(s.responses) > 0 {
		resp = s.responses[0]
		s.responses = s.responses[1:]
	}
	s.mu.Unlock()

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Calls, nil
}

// Requests returns every request received so far
func (s *Scripted) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// SetImage configures the image returned by GenerateImage
func (s *Scripted) SetImage(img *Blob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = img
}

// ImagesEnabled reports whether SetImage has been called
func (s *Scripted) ImagesEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image != nil
}

// GenerateImage returns the configured image
func (s *Scripted) GenerateImage(ctx context.Context, prompt string, sketch *Blob) (*Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.image == nil {
		return nil, ErrNotConfigured
	}
	return s.image, nil
}
