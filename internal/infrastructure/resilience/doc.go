/*
Package resilience provides the circuit breaker that guards remote inference.

When the model endpoint is down or rejecting requests, the breaker opens and
dispatch cycles fail fast instead of holding the busy indicator for the full
request timeout. After Settings.Timeout one trial cycle is let through; its
result closes or reopens the breaker.

A cycle cancelled by the caller (teardown, client gone) does not count as a
failure.

	breaker := resilience.New("inference", resilience.Settings{
		Timeout: cfg.Inference.BreakerCooldown,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Inference.BreakerFailures
		},
	})

	calls, err := resilience.Call(breaker, func() ([]inference.ToolCall, error) {
		return model.Generate(ctx, req)
	})

The breaker state is exported as the inkos_breaker_state gauge and reported
by /health.
*/
package resilience
