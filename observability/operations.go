package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer name for cratecompat operations.
const TracerName = "github.com/cratecompat/cratecompat"

// Common attribute keys.
const (
	AttrCrateName      = attribute.Key("crate.name")
	AttrCrateVersion   = attribute.Key("crate.version")
	AttrRegistryURL    = attribute.Key("registry.url")
	AttrOperation      = attribute.Key("cratecompat.operation")
	AttrCacheHit       = attribute.Key("cache.hit")
	AttrDependentCount = attribute.Key("cratecompat.dependents")
)

// StartDependencyFetchSpan starts a span covering one dependent's dependency
// list lookup.
func StartDependencyFetchSpan(ctx context.Context, crate, version, registryURL string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "crate.dependencies",
		trace.WithAttributes(
			AttrCrateName.String(crate),
			AttrCrateVersion.String(version),
			AttrRegistryURL.String(registryURL),
			AttrOperation.String("dependencies"),
		),
	)
}

// StartVersionsFetchSpan starts a span covering a published-versions lookup.
func StartVersionsFetchSpan(ctx context.Context, crate, registryURL string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "crate.versions",
		trace.WithAttributes(
			AttrCrateName.String(crate),
			AttrRegistryURL.String(registryURL),
			AttrOperation.String("versions"),
		),
	)
}

// StartCompatSpan starts a span covering a whole compatibility computation.
func StartCompatSpan(ctx context.Context, crate string, dependentCount int) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "compat.compute",
		trace.WithAttributes(
			AttrCrateName.String(crate),
			AttrDependentCount.Int(dependentCount),
			AttrOperation.String("compat"),
		),
	)
}

// StartCacheLookupSpan starts a span for a disk cache lookup.
func StartCacheLookupSpan(ctx context.Context, cacheKey string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "cache.lookup",
		trace.WithAttributes(attribute.String("cache.key", cacheKey)),
	)
}

// RecordCacheHit marks the current span with the lookup outcome.
func RecordCacheHit(ctx context.Context, hit bool) {
	trace.SpanFromContext(ctx).SetAttributes(AttrCacheHit.Bool(hit))
}

// RecordRetry adds a retry event to the current span. A nil err means the
// retry was triggered by a retriable status rather than a transport error.
func RecordRetry(ctx context.Context, attempt int, err error) {
	attrs := []attribute.KeyValue{attribute.Int("retry.attempt", attempt)}
	if err != nil {
		attrs = append(attrs, attribute.String("retry.error", err.Error()))
	}
	trace.SpanFromContext(ctx).AddEvent("retry", trace.WithAttributes(attrs...))
}

// EndSpanWithError ends a span, recording err when non-nil.
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
