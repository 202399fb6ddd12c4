// Package queue 定义领域事件的主题、负载与消息信封.
//
// 上传成功或失败、收到求职申请、收到联系表单时各发布一条事件，
// 消息体是 JSON 编码的 Message[T]：
//
//	{"header": {"topic": "smt.upload.stored", "producer": "smittan", "occurred_at": "...", "version": "v1"},
//	 "payload": {...}}
//
// W3C traceparent 同时写入 watermill 元数据，消费者可用 Extract 续接链路.
package queue

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// PayloadVersionV1 当前负载版本.
const PayloadVersionV1 = "v1"

// HeaderOption 修改事件头.
type HeaderOption func(*EventHeader)

// WithTraceID 设置关联 ID.
func WithTraceID(id string) HeaderOption { return func(h *EventHeader) { h.TraceID = id } }

// WithProducer 设置生产者名称.
func WithProducer(p string) HeaderOption { return func(h *EventHeader) { h.Producer = p } }

// NewEventHeader 创建事件头，OccurredAt 为当前 UTC 时间.
func NewEventHeader(topic string, opts ...HeaderOption) EventHeader {
	h := EventHeader{Topic: topic, OccurredAt: time.Now().UTC(), Version: PayloadVersionV1}
	for _, opt := range opts {
		opt(&h)
	}

	return h
}

// NewWatermillMessage 编码信封并把头部字段与追踪上下文复制到元数据.
func NewWatermillMessage[T any](ctx context.Context, topic string, payload T, opts ...HeaderOption) (*message.Message, error) {
	env := Message[T]{Header: NewEventHeader(topic, opts...), Payload: payload}

	data, err := sonic.Marshal(env)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewULID(), data)

	meta := map[string]string{
		"topic":       topic,
		"producer":    env.Header.Producer,
		"trace_id":    env.Header.TraceID,
		"occurred_at": env.Header.OccurredAt.Format(time.RFC3339Nano),
		"version":     env.Header.Version,
	}
	for k, v := range meta {
		if v != "" {
			msg.Metadata.Set(k, v)
		}
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))

	return msg, nil
}

// ParseWatermillMessage 解码信封.
func ParseWatermillMessage[T any](msg *message.Message) (Message[T], error) {
	var m Message[T]

	err := sonic.Unmarshal(msg.Payload, &m)

	return m, err
}

// Extract 从消息元数据中恢复追踪上下文.
func Extract(ctx context.Context, msg *message.Message) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
}
