// Package inference is the boundary to the remote multimodal model.
//
// A Model receives the context parts (an optional screen image followed by
// a text description), the tool vocabulary of the focused surface and the
// system instruction, and returns zero or more tool calls. Backends live in
// subpackages; Scripted is an in-process stand-in for tests and offline
// demos, and Guard wraps any backend with a timeout and a circuit breaker.
package inference
