package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var engineTracer = otel.Tracer("gameday/internal/usecase")
var engineNoopSpan = trace.SpanFromContext(context.Background())

// startEngineSpan opens a child span only when the caller already carries a
// valid trace, so untraced callers pay nothing.
func startEngineSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, engineNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, engineNoopSpan
	}
	return engineTracer.Start(ctx, name)
}
