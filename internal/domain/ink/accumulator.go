package ink

import (
	"sync"
	"time"

	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/InkOS/backend/internal/shared/id"
)

// DefaultDebounce is the idle window after the last stroke
const DefaultDebounce = time.Second

// Accumulator holds the pending batch and its debounce timer
type Accumulator struct {
	mu         sync.Mutex
	window     time.Duration
	pending    []Stroke  // Protected by mu
	startedAt  time.Time // Protected by mu
	timer      *time.Timer
	generation uint64 // Protected by mu, bumped on every reset
	stopped    bool
	onReady    func(Batch)
	metrics    *monitoring.Metrics
}

// NewAccumulator creates an accumulator that calls onReady with each batch
// once window has passed without a new stroke. onReady runs on the timer's
// goroutine and should hand the batch off quickly.
func NewAccumulator(window time.Duration, onReady func(Batch)) *Accumulator {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Accumulator{
		window:  window,
		onReady: onReady,
	}
}

// WithMetrics adds metrics tracking to the accumulator
func (a *Accumulator) WithMetrics(metrics *monitoring.Metrics) *Accumulator {
	a.metrics = metrics
	return a
}

// Window returns the debounce window
func (a *Accumulator) Window() time.Duration {
	return a.window
}

// Add appends a completed stroke and restarts the debounce timer
func (a *Accumulator) Add(stroke Stroke) error {
	if len(stroke.Points) == 0 {
		return ErrEmptyStroke
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return nil
	}

	if len(a.pending) == 0 {
		a.startedAt = time.Now()
	}
	a.pending = append(a.pending, stroke)

	if a.timer != nil {
		a.timer.Stop()
	}
	a.generation++
	gen := a.generation
	a.timer = time.AfterFunc(a.window, func() { a.fire(gen) })

	if a.metrics != nil {
		a.metrics.RecordStroke(len(a.pending))
	}
	return nil
}

// Pending returns the number of strokes waiting for the timer
func (a *Accumulator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Discard drops pending strokes without emitting a batch and returns
// how many were dropped
func (a *Accumulator) Discard() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := len(a.pending)
	a.reset()
	return n
}

// Stop discards pending strokes and ignores any further ones
func (a *Accumulator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	a.reset()
}

func (a *Accumulator) fire(gen uint64) {
	a.mu.Lock()
	if gen != a.generation || len(a.pending) == 0 || a.stopped {
		a.mu.Unlock()
		return
	}

	batch := Batch{
		ID:        id.NewBatchID(),
		Strokes:   a.pending,
		StartedAt: a.startedAt,
		ReadyAt:   time.Now(),
	}
	a.pending = nil
	a.timer = nil
	if a.metrics != nil {
		a.metrics.SetPendingStrokes(0)
	}
	a.mu.Unlock()

	if a.onReady != nil {
		a.onReady(batch)
	}
}

// reset must be called with mu held
func (a *Accumulator) reset() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.generation++
	a.pending = nil
	if a.metrics != nil {
		a.metrics.SetPendingStrokes(0)
	}
}
