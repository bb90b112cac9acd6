package mqx

import (
	"context"

	"github.com/ecodeclub/mq-api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "internal/pkg/mqx/tracing"

// TraceMQ 给发送消息打点
type TraceMQ struct {
	mq.MQ
	tracer trace.Tracer
}

func NewTraceMQ(q mq.MQ) *TraceMQ {
	return &TraceMQ{MQ: q, tracer: otel.GetTracerProvider().Tracer(instrumentationName)}
}

func (t *TraceMQ) Producer(topic string) (mq.Producer, error) {
	pro, err := t.MQ.Producer(topic)
	if err != nil {
		return nil, err
	}
	return &traceProducer{Producer: pro, topic: topic, tracer: t.tracer}, nil
}

type traceProducer struct {
	mq.Producer
	topic  string
	tracer trace.Tracer
}

func (t *traceProducer) Produce(ctx context.Context, m *mq.Message) (*mq.ProducerResult, error) {
	ctx, span := t.tracer.Start(ctx, "mq.produce", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(attribute.String("mq.topic", t.topic))
	res, err := t.Producer.Produce(ctx, m)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}
	span.SetStatus(codes.Ok, "")
	return res, nil
}
