package ioc

import (
	"time"

	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/core/elog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// InitZipkinTracer 全局tracer, db/mq的打点都挂在它下面
func InitZipkinTracer() *trace.TracerProvider {
	type Config struct {
		ServiceName string `yaml:"serviceName"`
		Endpoint    string `yaml:"endpoint"`
	}
	var cfg Config
	if err := econf.UnmarshalKey("trace.zipkin", &cfg); err != nil {
		elog.Panic("读取trace配置失败", elog.FieldErr(err))
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		elog.Panic("构建trace资源失败", elog.FieldErr(err))
	}

	exporter, err := zipkin.New(cfg.Endpoint)
	if err != nil {
		elog.Panic("初始化zipkin导出器失败", elog.FieldErr(err))
	}
	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter, trace.WithBatchTimeout(time.Second)),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp
}
