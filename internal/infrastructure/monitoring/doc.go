/*
Package monitoring provides Prometheus metrics for the shell backend.

# Overview

Metrics live on an injected registry so tests and multiple servers in one
process never collide on registration. The server exposes them at /metrics.

# Metrics

- HTTP request metrics (latency, throughput, size) labeled by route
- Dispatch cycles by surface and outcome, cycle latency, busy gauge
- Tool-call outcomes (applied, miss, malformed, ignored)
- Stroke intake and pending strokes
- Remote inference latency and breaker state
- Open windows and WebSocket connections

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "gemini")
	// ... call the model ...
	timer.Stop("ok")
*/
package monitoring
