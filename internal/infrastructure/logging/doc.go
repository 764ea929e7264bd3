// Package logging provides structured logging using uber/zap.
//
// Two modes are available:
//   - Production: JSON output with a "component" key per child logger
//   - Development: colored console output
//
// Components receive a named child *zap.Logger rather than the wrapper:
//
//	logger := logging.NewDefault()
//	d := intent.New(ws, snaps, router, model, cfg, logger.Component(logging.ComponentDispatcher))
//
// The level is atomic and can be changed at runtime with SetLevel.
package logging
