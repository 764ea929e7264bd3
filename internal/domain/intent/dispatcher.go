package intent

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/ink"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/surface"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/InkOS/backend/internal/inference"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/tracing"
	"go.uber.org/zap"
)

// DefaultQueueSize bounds batches waiting behind an in-flight cycle
const DefaultQueueSize = 4

// Config tunes the dispatcher
type Config struct {
	Debounce  time.Duration
	QueueSize int
}

// Dispatcher runs dispatch cycles one at a time
type Dispatcher struct {
	workspace   *workspace.Workspace
	snapshots   *snapshot.Snapshotter
	router      *surface.Router
	model       inference.Model
	accumulator *ink.Accumulator
	queue       chan ink.Batch

	tracer  *tracing.Tracer
	metrics *monitoring.Metrics
	logger  *zap.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	started   atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once

	cycleMu sync.Mutex // serializes RunCycle
	state   atomic.Int32
	busy    atomic.Bool

	lastMu sync.RWMutex
	last   *CycleResult
}

// New creates a dispatcher. Call Start to begin processing batches.
func New(ws *workspace.Workspace, snaps *snapshot.Snapshotter, router *surface.Router, model inference.Model, cfg Config, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		workspace: ws,
		snapshots: snaps,
		router:    router,
		model:     model,
		queue:     make(chan ink.Batch, cfg.QueueSize),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	d.accumulator = ink.NewAccumulator(cfg.Debounce, d.enqueue)
	return d
}

// WithMetrics adds metrics tracking to the dispatcher and its accumulator
func (d *Dispatcher) WithMetrics(metrics *monitoring.Metrics) *Dispatcher {
	d.metrics = metrics
	d.accumulator.WithMetrics(metrics)
	return d
}

// WithTracer records a span per cycle
func (d *Dispatcher) WithTracer(tracer *tracing.Tracer) *Dispatcher {
	d.tracer = tracer
	return d
}

// Start launches the worker goroutine
func (d *Dispatcher) Start() {
	if d.closed.Load() || !d.started.CompareAndSwap(false, true) {
		return
	}
	go d.run()
}

// Close stops accepting strokes, cancels any in-flight model call and
// waits for the worker to exit. A response that arrives after Close is
// dropped before it can mutate the workspace.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		d.accumulator.Stop()
		d.cancel()
		if d.started.Load() {
			<-d.done
		}
		d.logger.Info("Dispatcher closed")
	})
}

// AddStroke feeds a completed stroke into the pending batch
func (d *Dispatcher) AddStroke(stroke ink.Stroke) error {
	return d.accumulator.Add(stroke)
}

// State returns where the dispatcher is in the cycle. Outside a running
// cycle it reports Capturing while strokes wait on the debounce timer and
// Dispatching while a flushed batch waits in the queue.
func (d *Dispatcher) State() State {
	if s := State(d.state.Load()); s != StateIdle {
		return s
	}
	if len(d.queue) > 0 {
		return StateDispatching
	}
	if d.accumulator.Pending() > 0 {
		return StateCapturing
	}
	return StateIdle
}

// Busy reports whether a cycle is in flight
func (d *Dispatcher) Busy() bool {
	return d.busy.Load()
}

// Pending returns the number of strokes waiting for the debounce timer
func (d *Dispatcher) Pending() int {
	return d.accumulator.Pending()
}

// DiscardPending drops the strokes waiting for the debounce timer and
// returns how many were dropped. A cycle already in flight is unaffected.
func (d *Dispatcher) DiscardPending() int {
	n := d.accumulator.Discard()
	if n > 0 {
		d.logger.Info("Pending strokes discarded", zap.Int("strokes", n))
	}
	return n
}

// LastResult returns the most recent finished cycle
func (d *Dispatcher) LastResult() (CycleResult, bool) {
	d.lastMu.RLock()
	defer d.lastMu.RUnlock()

	if d.last == nil {
		return CycleResult{}, false
	}
	return *d.last, true
}

// Status returns a point-in-time view for health and status endpoints
func (d *Dispatcher) Status() Status {
	s := Status{
		State:    d.State(),
		Busy:     d.Busy(),
		Pending:  d.Pending(),
		Queued:   len(d.queue),
		Debounce: d.accumulator.Window(),
	}
	if last, ok := d.LastResult(); ok {
		s.Last = &last
	}
	return s
}

// enqueue runs on the accumulator's timer goroutine
func (d *Dispatcher) enqueue(batch ink.Batch) {
	if d.closed.Load() {
		return
	}

	select {
	case d.queue <- batch:
		d.logger.Debug("Batch queued",
			zap.String("batch_id", batch.ID),
			zap.Int("strokes", len(batch.Strokes)),
			zap.Float64("ink_length", batch.Length()))
	default:
		d.logger.Warn("Dispatch queue full, dropping batch",
			zap.String("batch_id", batch.ID),
			zap.Int("strokes", len(batch.Strokes)))
		if d.metrics != nil {
			d.metrics.IncBatchesDropped()
		}
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for {
		select {
		case <-d.ctx.Done():
			return
		case batch := <-d.queue:
			d.RunCycle(d.ctx, batch)
		}
	}
}

// RunCycle runs one full cycle for batch and returns its result. Cycles
// never overlap; a concurrent caller waits for the running one.
func (d *Dispatcher) RunCycle(ctx context.Context, batch ink.Batch) CycleResult {
	d.cycleMu.Lock()
	defer d.cycleMu.Unlock()

	result := CycleResult{
		BatchID: batch.ID,
		Strokes: len(batch.Strokes),
		Calls:   []Outcome{},
	}
	if d.closed.Load() {
		result.Status = CycleAbandoned
		return result
	}

	start := time.Now()
	var span *tracing.Span
	if d.tracer != nil {
		span, ctx = d.tracer.StartSpan(ctx, "dispatch.cycle")
		span.SetTag("batch_id", batch.ID)
		span.SetTag("ink.length", strconv.FormatFloat(batch.Length(), 'f', 1, 64))
	}

	d.state.Store(int32(StateDispatching))
	d.setBusy(true)
	defer func() { d.finish(&result, span, start) }()

	snap := d.snapshots.Take(ctx, batch)
	result.Surface = string(snap.Focus.Surface)
	result.CapturedBy = snap.CapturedBy

	schema := d.router.Schema(snap.Focus)
	d.logger.Debug("Dispatching batch",
		zap.String("batch_id", batch.ID),
		zap.String("surface", result.Surface),
		zap.Strings("tools", schema.Names()))
	calls, err := d.model.Generate(ctx, inference.Request{
		Parts:             snap.Parts(),
		Schema:            schema,
		SystemInstruction: d.router.Registry().SystemInstruction(),
	})

	if d.closed.Load() {
		result.Status = CycleAbandoned
		return result
	}
	if err != nil {
		d.logger.Error("Dispatch cycle failed",
			zap.String("batch_id", batch.ID),
			zap.String("surface", result.Surface),
			zap.Error(err))
		result.Status = CycleFailed
		result.Error = err.Error()
		return result
	}

	d.state.Store(int32(StateApplying))
	result.Calls = d.applyAll(calls, schema)
	result.Status = CycleOK
	return result
}

// finish runs on every exit path of a cycle
func (d *Dispatcher) finish(result *CycleResult, span *tracing.Span, start time.Time) {
	result.Duration = time.Since(start)
	result.FinishedAt = time.Now()

	d.state.Store(int32(StateIdle))
	d.setBusy(false)

	d.lastMu.Lock()
	last := *result
	d.last = &last
	d.lastMu.Unlock()

	if d.metrics != nil {
		d.metrics.RecordCycle(result.Surface, result.Status, result.Duration, result.Strokes)
	}
	if span != nil {
		span.SetTag("surface", result.Surface)
		span.SetTag("status", result.Status)
		if result.Error != "" {
			span.SetTag("error", result.Error)
		}
		span.Finish()
		d.tracer.Submit(span)
	}

	d.logger.Info("Dispatch cycle finished",
		zap.String("batch_id", result.BatchID),
		zap.String("surface", result.Surface),
		zap.String("status", result.Status),
		zap.Int("calls", len(result.Calls)),
		zap.Int("applied", result.Applied()),
		zap.Duration("duration", result.Duration))

	d.workspace.Events().Publish(workspace.EventCycle, last)
}

func (d *Dispatcher) setBusy(busy bool) {
	d.busy.Store(busy)
	d.workspace.SetBusy(busy)
	if d.metrics != nil {
		d.metrics.SetBusy(busy)
	}
}
