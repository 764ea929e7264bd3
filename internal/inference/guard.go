package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/resilience"
	"go.uber.org/zap"
)

// Guard bounds each call to a model with a timeout and a circuit breaker.
// Every error it returns wraps ErrRemote.
type Guard struct {
	model   Model
	breaker *resilience.Breaker
	timeout time.Duration
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewGuard wraps model. A zero timeout leaves the caller's deadline alone.
func NewGuard(model Model, breaker *resilience.Breaker, timeout time.Duration, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		model:   model,
		breaker: breaker,
		timeout: timeout,
		logger:  logger,
	}
}

// WithMetrics adds metrics tracking to the guard
func (g *Guard) WithMetrics(metrics *monitoring.Metrics) *Guard {
	g.metrics = metrics
	return g
}

// Name reports the wrapped backend's name
func (g *Guard) Name() string {
	return g.model.Name()
}

// Breaker exposes the breaker for health reporting
func (g *Guard) Breaker() *resilience.Breaker {
	return g.breaker
}

// Generate calls the wrapped model
func (g *Guard) Generate(ctx context.Context, req Request) ([]ToolCall, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	timer := monitoring.NewTimer(g.metrics, g.model.Name())
	calls, err := resilience.Call(g.breaker, func() ([]ToolCall, error) {
		return g.model.Generate(ctx, req)
	})
	if err != nil {
		timer.Stop("error")
		g.logger.Debug("Model call failed",
			zap.String("backend", g.model.Name()),
			zap.Stringer("breaker", g.breaker.State()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRemote, err)
	}

	timer.Stop("ok")
	return calls, nil
}
