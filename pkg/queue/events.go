package queue

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// Producer 事件生产者名称.
const Producer = "smittan"

// Publisher 发布消息，mq.Client 满足该接口.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// Events 按事件开关发布领域事件，pub 为 nil 时所有发布都是空操作.
type Events struct {
	pub Publisher
	cfg configs.EventsConfig
}

// NewEvents 创建事件发布器.
func NewEvents(pub Publisher, cfg configs.EventsConfig) *Events {
	return &Events{pub: pub, cfg: cfg}
}

func publish[T any](ctx context.Context, e *Events, enabled bool, topic string, payload T) error {
	if e == nil || e.pub == nil || !e.cfg.Enabled || !enabled {
		return nil
	}

	opts := []HeaderOption{WithProducer(Producer)}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		opts = append(opts, WithTraceID(sc.TraceID().String()))
	}

	msg, err := NewWatermillMessage(ctx, topic, payload, opts...)
	if err != nil {
		return err
	}

	return e.pub.Publish(ctx, topic, msg)
}

// UploadStored 发布 smt.upload.stored.
func (e *Events) UploadStored(ctx context.Context, p UploadStoredPayload) error {
	return publish(ctx, e, e != nil && e.cfg.Upload.Stored, TopicUploadStored, p)
}

// UploadFailed 发布 smt.upload.failed.
func (e *Events) UploadFailed(ctx context.Context, p UploadFailedPayload) error {
	return publish(ctx, e, e != nil && e.cfg.Upload.Failed, TopicUploadFailed, p)
}

// ApplicationReceived 发布 smt.careers.application.received.
func (e *Events) ApplicationReceived(ctx context.Context, p ApplicationReceivedPayload) error {
	return publish(ctx, e, e != nil && e.cfg.Records.ApplicationReceived, TopicApplicationReceived, p)
}

// LeadSubmitted 发布 smt.leads.submitted.
func (e *Events) LeadSubmitted(ctx context.Context, p LeadSubmittedPayload) error {
	return publish(ctx, e, e != nil && e.cfg.Records.LeadSubmitted, TopicLeadSubmitted, p)
}

// ParseUploadStored 将 Watermill 消息解析为强类型 Envelope.
func ParseUploadStored(msg *message.Message) (Message[UploadStoredPayload], error) {
	return ParseWatermillMessage[UploadStoredPayload](msg)
}
