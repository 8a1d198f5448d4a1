package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/matzehuels/mindcanvas"

// Package-level tracer and meter. Both resolve to no-ops until the binary
// installs global providers.
var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)
)

var (
	stageDuration metric.Float64Histogram
	stageTotal    metric.Int64Counter
	nodesCounted  metric.Int64Histogram
	cullRatio     metric.Float64Histogram
	cacheRequests metric.Int64Counter
	cacheBytes    metric.Int64Counter
	artifactBytes metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error
		if stageDuration, err = meter.Float64Histogram(
			"mindcanvas_stage_duration_seconds",
			metric.WithDescription("Duration of pipeline stages"),
			metric.WithUnit("s"),
		); err != nil {
			metricsErr = err
			return
		}
		if stageTotal, err = meter.Int64Counter(
			"mindcanvas_stage_total",
			metric.WithDescription("Pipeline stage executions"),
		); err != nil {
			metricsErr = err
			return
		}
		if nodesCounted, err = meter.Int64Histogram(
			"mindcanvas_stage_nodes",
			metric.WithDescription("Nodes handled per stage"),
		); err != nil {
			metricsErr = err
			return
		}
		if cullRatio, err = meter.Float64Histogram(
			"mindcanvas_cull_visible_ratio",
			metric.WithDescription("Fraction of nodes kept by virtualization"),
		); err != nil {
			metricsErr = err
			return
		}
		if cacheRequests, err = meter.Int64Counter(
			"mindcanvas_cache_requests_total",
			metric.WithDescription("Cache lookups by key type and result"),
		); err != nil {
			metricsErr = err
			return
		}
		if cacheBytes, err = meter.Int64Counter(
			"mindcanvas_cache_written_bytes_total",
			metric.WithDescription("Bytes written to the cache"),
			metric.WithUnit("By"),
		); err != nil {
			metricsErr = err
			return
		}
		if artifactBytes, err = meter.Int64Histogram(
			"mindcanvas_artifact_bytes",
			metric.WithDescription("Size of rendered artifacts"),
			metric.WithUnit("By"),
		); err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// StartSpan starts a span named name on the package tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// OTelPipelineHooks records pipeline events as OpenTelemetry metrics.
type OTelPipelineHooks struct{}

// NewOTelPipelineHooks returns pipeline hooks backed by the global meter.
func NewOTelPipelineHooks() OTelPipelineHooks { return OTelPipelineHooks{} }

func recordStage(ctx context.Context, stage string, nodes int, d time.Duration, err error) {
	if initMetrics() != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.Bool("success", err == nil),
	)
	stageTotal.Add(ctx, 1, attrs)
	if d > 0 {
		stageDuration.Record(ctx, d.Seconds(), attrs)
	}
	nodesCounted.Record(ctx, int64(nodes), metric.WithAttributes(attribute.String("stage", stage)))
}

func (OTelPipelineHooks) OnIndexComplete(ctx context.Context, nodeCount, warningCount int, err error) {
	recordStage(ctx, "index", nodeCount, 0, err)
}

func (OTelPipelineHooks) OnCullComplete(ctx context.Context, stage string, total, visible int, d time.Duration) {
	recordStage(ctx, "cull_"+stage, visible, d, nil)
	if total > 0 && initMetrics() == nil {
		cullRatio.Record(ctx, float64(visible)/float64(total), metric.WithAttributes(attribute.String("stage", stage)))
	}
}

func (OTelPipelineHooks) OnLayoutStart(context.Context, int) {}

func (OTelPipelineHooks) OnLayoutComplete(ctx context.Context, placed int, d time.Duration, err error) {
	recordStage(ctx, "layout", placed, d, err)
}

func (OTelPipelineHooks) OnRenderStart(context.Context, string) {}

func (OTelPipelineHooks) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	recordStage(ctx, "render", 0, d, err)
	if err == nil && initMetrics() == nil {
		artifactBytes.Record(ctx, int64(size), metric.WithAttributes(attribute.String("format", format)))
	}
}

// OTelCacheHooks records cache events as OpenTelemetry metrics.
type OTelCacheHooks struct{}

// NewOTelCacheHooks returns cache hooks backed by the global meter.
func NewOTelCacheHooks() OTelCacheHooks { return OTelCacheHooks{} }

func (OTelCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	recordCache(ctx, keyType, "hit")
}

func (OTelCacheHooks) OnCacheMiss(ctx context.Context, keyType string) {
	recordCache(ctx, keyType, "miss")
}

func (OTelCacheHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	if initMetrics() != nil {
		return
	}
	cacheBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String("key_type", keyType)))
}

func recordCache(ctx context.Context, keyType, result string) {
	if initMetrics() != nil {
		return
	}
	cacheRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key_type", keyType),
		attribute.String("result", result),
	))
}

var (
	_ PipelineHooks = OTelPipelineHooks{}
	_ CacheHooks    = OTelCacheHooks{}
)
