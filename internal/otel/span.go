// Package otel provides tracing helpers shared by the sync and notification paths.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Attribute keys used on spans across the application.
const (
	AttrSyncTrigger     = attribute.Key("sync.trigger")
	AttrSnapshotVersion = attribute.Key("snapshot.version")
	AttrSourceType      = attribute.Key("source.type")
	AttrItemCount       = attribute.Key("item.count")
	AttrItemID          = attribute.Key("item.id")
	AttrWebhookID       = attribute.Key("webhook.id")
	AttrWebhookType     = attribute.Key("webhook.type")
	AttrTransition      = attribute.Key("readiness.transition")
)

// StartSpan starts a new span if the tracer is non-nil. Otherwise it returns a
// non-recording span, so callers may always End the result.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, noop.Span{}
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks the span as failed.
// The status description stays generic; details live in the recorded event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
