/*
Package intent turns finished ink batches into desktop mutations.

# Overview

The Dispatcher owns a stroke accumulator and a single worker goroutine.
When the accumulator's debounce window elapses the batch is queued and
the worker runs one cycle:

	Idle -> Capturing -> Dispatching -> Applying -> Idle

Capturing builds a snapshot of the focused surface. Dispatching calls the
model exactly once with that surface's tool schema. Applying executes the
returned tool calls in order, each independently of the others.

# Failure Handling

A remote failure aborts the cycle before anything is applied. Busy is
cleared and the batch discarded on every exit path. After Close, a late
model response is dropped without touching the workspace.

# Usage

	d := intent.New(ws, snaps, router, guard, intent.Config{Debounce: time.Second}, logger)
	d.Start()
	defer d.Close()

	_ = d.AddStroke(stroke)
*/
package intent
