// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry wires OpenTelemetry tracing spans around the
// hosting layers that drive the checker: a CheckSite call made by the
// HTTP check handler, and every front-end scan of a source file.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "swapcheck"

// StartCheckSpan starts a span around a single CheckSite invocation.
// callee and argCount are recorded as attributes for later filtering.
func StartCheckSpan(ctx context.Context, callee string, argCount int) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "checker.CheckSite",
		trace.WithAttributes(
			attribute.String("swapcheck.callee", callee),
			attribute.Int("swapcheck.arg_count", argCount),
		),
	)
	return ctx, span
}

// StartScanSpan starts a span around a front-end scan of a source file.
func StartScanSpan(ctx context.Context, path string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "frontend.Scan",
		trace.WithAttributes(attribute.String("swapcheck.path", path)),
	)
	return ctx, span
}

// RecordResultCount annotates span with the number of Results a check
// produced, a common enough thing to want on the span without forcing
// every caller to import the attribute package directly.
func RecordResultCount(span trace.Span, n int) {
	span.SetAttributes(attribute.Int("swapcheck.result_count", n))
}
