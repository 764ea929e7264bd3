/*
Package tracing provides lightweight request and dispatch tracing.

# Overview

Spans are created for every HTTP request and every dispatch cycle and
logged through zap when they finish. Trace context travels in the
X-Trace-ID and X-Span-ID headers, both on incoming requests and on calls
to an HTTP inference gateway.

# Usage

	tracer := tracing.New("inkos", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "dispatch.cycle")
	span.SetTag("surface", "mail")
	// ... work ...
	span.Finish()
	tracer.Submit(span)
*/
package tracing
