// Package config provides 12-factor configuration management for the InkOS backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP listen address, CORS origins, shutdown grace period
//   - Inference: model backend (gemini, gateway, scripted), timeout, breaker
//   - Ink: stroke debounce window and dispatch queue
//   - Capture: screen capture mode and raster size
//   - Seed: optional YAML or TOML seed file
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err == nil {
//		err = cfg.Validate()
//	}
//
// Environment Variables:
//   - PORT, HOST, CORS_ORIGINS, SHUTDOWN_TIMEOUT
//   - INFERENCE_BACKEND, GEMINI_API_KEY, INFERENCE_MODEL, INFERENCE_GATEWAY_URL
//   - INFERENCE_TIMEOUT, INFERENCE_WALLPAPER_MODEL
//   - INK_DEBOUNCE, CAPTURE_MODE, CAPTURE_FRAME_MAX_AGE, SEED_FILE
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST
package config
