package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Dispatch metrics
	DispatchCycles   *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	ToolCalls        *prometheus.CounterVec
	CaptureFailures  *prometheus.CounterVec
	DispatchBusy     prometheus.Gauge
	BatchesDropped   prometheus.Counter

	// Ink metrics
	StrokesTotal   prometheus.Counter
	PendingStrokes prometheus.Gauge
	BatchStrokes   prometheus.Histogram

	// Inference metrics
	InferenceCalls    *prometheus.CounterVec
	InferenceDuration *prometheus.HistogramVec
	BreakerState      *prometheus.GaugeVec

	// Desktop metrics
	WindowsOpen prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for the JSON health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current counter values for the JSON API
type Snapshot struct {
	TotalRequests   int64   `json:"total_requests"`
	TotalErrors     int64   `json:"total_errors"`
	CyclesCompleted int64   `json:"cycles_completed"`
	CyclesFailed    int64   `json:"cycles_failed"`
	ToolCallsMade   int64   `json:"tool_calls"`
	WSConnections   int64   `json:"ws_connections"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector on a fresh registry
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry creates a metrics collector on reg. Go runtime and
// process collectors are registered alongside the application metrics.
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkos_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inkos_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inkos_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inkos_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		DispatchCycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkos_dispatch_cycles_total",
				Help: "Dispatch cycles by surface and outcome",
			},
			[]string{"surface", "status"},
		),
		DispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inkos_dispatch_duration_seconds",
				Help:    "End-to-end dispatch cycle duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"surface"},
		),
		ToolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkos_tool_calls_total",
				Help: "Tool calls returned by the model, by name and outcome",
			},
			[]string{"tool", "outcome"},
		),
		CaptureFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkos_capture_failures_total",
				Help: "Screen captures that fell back to text-only context",
			},
			[]string{"capturer"},
		),
		DispatchBusy: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "inkos_dispatch_busy",
				Help: "1 while a dispatch cycle is in flight",
			},
		),
		BatchesDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "inkos_batches_dropped_total",
				Help: "Stroke batches dropped because the dispatch queue was full",
			},
		),

		StrokesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "inkos_strokes_total",
				Help: "Total number of strokes accepted",
			},
		),
		PendingStrokes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "inkos_pending_strokes",
				Help: "Strokes waiting for the debounce window to elapse",
			},
		),
		BatchStrokes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inkos_batch_strokes",
				Help:    "Number of strokes per dispatched batch",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
			},
		),

		InferenceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkos_inference_calls_total",
				Help: "Remote inference calls by backend and status",
			},
			[]string{"backend", "status"},
		),
		InferenceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inkos_inference_duration_seconds",
				Help:    "Remote inference latency in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"backend"},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "inkos_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),

		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "inkos_windows_open",
				Help: "Number of open windows",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "inkos_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkos_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "inkos_uptime_seconds",
			Help: "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry backing these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordCycle records a finished dispatch cycle
func (m *Metrics) RecordCycle(surface, status string, duration time.Duration, strokes int) {
	m.DispatchCycles.WithLabelValues(surface, status).Inc()
	m.DispatchDuration.WithLabelValues(surface).Observe(duration.Seconds())
	m.BatchStrokes.Observe(float64(strokes))

	m.mu.Lock()
	if status == "ok" {
		m.snapshot.CyclesCompleted++
	} else {
		m.snapshot.CyclesFailed++
	}
	m.mu.Unlock()
}

// RecordToolCall records one applied, missed, malformed or ignored call
func (m *Metrics) RecordToolCall(tool, outcome string) {
	m.ToolCalls.WithLabelValues(tool, outcome).Inc()

	m.mu.Lock()
	m.snapshot.ToolCallsMade++
	m.mu.Unlock()
}

// RecordCaptureFailure records a capture that fell back to text-only
func (m *Metrics) RecordCaptureFailure(capturer string) {
	m.CaptureFailures.WithLabelValues(capturer).Inc()
}

// RecordInference records a remote inference call
func (m *Metrics) RecordInference(backend, status string, duration time.Duration) {
	m.InferenceCalls.WithLabelValues(backend, status).Inc()
	m.InferenceDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// SetBreakerState exports a breaker state as a gauge value
func (m *Metrics) SetBreakerState(name string, state int) {
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

// SetBusy toggles the busy gauge
func (m *Metrics) SetBusy(busy bool) {
	if busy {
		m.DispatchBusy.Set(1)
	} else {
		m.DispatchBusy.Set(0)
	}
}

// IncBatchesDropped counts a batch dropped on a full queue
func (m *Metrics) IncBatchesDropped() {
	m.BatchesDropped.Inc()
}

// RecordStroke counts an accepted stroke and the new pending total
func (m *Metrics) RecordStroke(pending int) {
	m.StrokesTotal.Inc()
	m.PendingStrokes.Set(float64(pending))
}

// SetPendingStrokes sets the pending stroke gauge
func (m *Metrics) SetPendingStrokes(pending int) {
	m.PendingStrokes.Set(float64(pending))
}

// SetWindowsOpen sets the number of open windows
func (m *Metrics) SetWindowsOpen(count int) {
	m.WindowsOpen.Set(float64(count))
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.WSConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.WSConnections--
	m.mu.Unlock()
}

// Snapshot returns the current counter values
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
