package queue_test

import (
	"context"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/queue"
)

type recorder struct {
	topics []string
	msgs   []*message.Message
}

func (r *recorder) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	for _, m := range msgs {
		r.topics = append(r.topics, topic)
		r.msgs = append(r.msgs, m)
	}

	return nil
}

// TestUploadStoredEnvelope 发布后能解析出相同负载.
func TestUploadStoredEnvelope(t *testing.T) {
	rec := &recorder{}
	ev := queue.NewEvents(rec, configs.EventsConfig{Enabled: true, Upload: configs.UploadEventsConfig{Stored: true}})

	payload := queue.UploadStoredPayload{
		Backend:   "object_store",
		Path:      "1700000000000-abcdefghij-a.png",
		PublicURL: "http://cdn/gallery/1700000000000-abcdefghij-a.png",
		UserID:    "u1",
		Size:      3,
	}
	require.NoError(t, ev.UploadStored(context.Background(), payload))
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, queue.TopicUploadStored, rec.topics[0])

	env, err := queue.ParseUploadStored(rec.msgs[0])
	require.NoError(t, err)
	assert.Equal(t, payload, env.Payload)
	assert.Equal(t, queue.TopicUploadStored, env.Header.Topic)
	assert.Equal(t, queue.Producer, env.Header.Producer)
	assert.Equal(t, queue.PayloadVersionV1, env.Header.Version)
}

// TestEventsSwitches 关闭的事件不会发布.
func TestEventsSwitches(t *testing.T) {
	rec := &recorder{}
	ev := queue.NewEvents(rec, configs.EventsConfig{Enabled: true})

	require.NoError(t, ev.UploadFailed(context.Background(), queue.UploadFailedPayload{Kind: "transport"}))
	require.NoError(t, ev.LeadSubmitted(context.Background(), queue.LeadSubmittedPayload{LeadID: "l1"}))
	assert.Empty(t, rec.msgs)

	var nilEvents *queue.Events
	require.NoError(t, nilEvents.UploadStored(context.Background(), queue.UploadStoredPayload{}))
}

// TestTraceContextPropagated 发布时的追踪上下文写入元数据并可恢复.
func TestTraceContextPropagated(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03},
		SpanID:     trace.SpanID{0x04, 0x05},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	rec := &recorder{}
	ev := queue.NewEvents(rec, configs.EventsConfig{Enabled: true, Records: configs.RecordEventsConfig{LeadSubmitted: true}})
	require.NoError(t, ev.LeadSubmitted(ctx, queue.LeadSubmittedPayload{LeadID: "l1", Name: "A", Email: "a@b.co"}))
	require.Len(t, rec.msgs, 1)

	msg := rec.msgs[0]
	assert.NotEmpty(t, msg.Metadata.Get("traceparent"))
	assert.Equal(t, sc.TraceID().String(), msg.Metadata.Get("trace_id"))

	got := trace.SpanContextFromContext(queue.Extract(context.Background(), msg))
	assert.Equal(t, sc.TraceID(), got.TraceID())
}
