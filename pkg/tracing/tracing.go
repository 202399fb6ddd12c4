// Package tracing 初始化 OpenTelemetry 并提供创建 span 的入口.
//
//	if err := tracing.InitTracer(cfg.Tracing); err != nil {
//		return err
//	}
//	defer tracing.ShutdownTracer(ctx)
//
//	ctx, span := tracing.StartSpan(ctx, "upload.Upload")
//	defer span.End()
//
// 未启用时使用 otel 的空实现，StartSpan 仍可调用.
package tracing

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// TracerName 应用内 span 使用的 tracer 名称.
const TracerName = "smittan"

var tracerProvider *sdktrace.TracerProvider

type exporterFactory func(ctx context.Context, cfg configs.TracingConfig) (sdktrace.SpanExporter, error)

var exporters = map[string]exporterFactory{
	configs.TracingExporterOTLPHTTP: func(ctx context.Context, cfg configs.TracingConfig) (sdktrace.SpanExporter, error) {
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	},
	configs.TracingExporterOTLPGRPC: func(ctx context.Context, cfg configs.TracingConfig) (sdktrace.SpanExporter, error) {
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(strings.TrimPrefix(cfg.Endpoint, "http://"))}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}

		return otlptracegrpc.New(ctx, opts...)
	},
	configs.TracingExporterZipkin: func(_ context.Context, cfg configs.TracingConfig) (sdktrace.SpanExporter, error) {
		return zipkin.New(cfg.Endpoint)
	},
}

// InitTracer 注册 W3C traceparent 传播器，启用时再创建导出器与 TracerProvider.
func InitTracer(cfg configs.TracingConfig) error {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		return nil
	}

	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
		resource.WithAttributes(resourceLabels(cfg.ResourceLabels)...),
	)
	if err != nil {
		return fmt.Errorf("create trace resource: %w", err)
	}

	factory, ok := exporters[cfg.ExporterType]
	if !ok {
		return fmt.Errorf("unsupported exporter type %q (want one of %v)", cfg.ExporterType, slices.Sorted(maps.Keys(exporters)))
	}

	exporter, err := factory(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create %s exporter: %w", cfg.ExporterType, err)
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(cfg.BatchTimeout),
			sdktrace.WithMaxExportBatchSize(cfg.MaxBatchSize),
			sdktrace.WithMaxQueueSize(cfg.MaxQueueSize),
		),
		sdktrace.WithResource(res),
		// 上游已采样的请求保持采样
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	)

	otel.SetTracerProvider(tracerProvider)

	return nil
}

// ShutdownTracer 刷新并关闭导出器.
func ShutdownTracer(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}

	return tracerProvider.Shutdown(ctx)
}

// StartSpan 开始一个 span，调用方负责 span.End().
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, spanName, opts...)
}

func resourceLabels(labels map[string]string) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(labels))
	for _, k := range slices.Sorted(maps.Keys(labels)) {
		kvs = append(kvs, attribute.String(k, labels[k]))
	}

	return kvs
}
