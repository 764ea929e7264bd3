// Package main is the entry point for the InkOS shell backend.
//
// The server holds the desktop, window and inbox state in memory, serves it
// over HTTP and a WebSocket stream, and turns pen gestures drawn over the
// shell into actions chosen by a remote model.
//
// Architecture:
//
//	Frontend (strokes, frames) → Go Backend → Inference (Gemini or gateway)
//	                           ← events     ← tool calls
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Built-in demo seed when SEED_FILE is unset
//
// Usage:
//
//	# Production mode
//	GEMINI_API_KEY=... ./server --port 8000
//
//	# Offline development with a stub model
//	./server --dev --backend scripted --capture raster
//
//	# Validate a seed file
//	./server check-seed desktop.yaml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
