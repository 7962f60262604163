package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"warehouse/internal/pkg/logger"
)

// Config 控制链路追踪的上报目标与采样策略。
type Config struct {
	ServiceName string
	Endpoint    string
	// SampleRatio 取 (0,1) 时按比例采样，其余值一律全采
	SampleRatio float64
	Environment string
}

// InitTracerProvider 注册全局的 Jaeger TracerProvider 和 W3C 传播器。
func InitTracerProvider(cfg Config) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.Endpoint)))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(samplerFor(cfg.SampleRatio)),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
			attribute.String("deployment.environment", cfg.Environment),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Logger().Info().
		Str("jaeger_endpoint", cfg.Endpoint).
		Float64("sample_ratio", cfg.SampleRatio).
		Str("environment", cfg.Environment).
		Msgf("Tracing initialized for service '%s'", cfg.ServiceName)
	return tp, nil
}

// samplerFor 把配置里的采样比例转成 SDK 采样器。
// 子 Span 始终跟随父 Span 的采样决定，避免链路被采成碎片。
func samplerFor(ratio float64) sdktrace.Sampler {
	if ratio > 0 && ratio < 1 {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
	return sdktrace.AlwaysSample()
}
