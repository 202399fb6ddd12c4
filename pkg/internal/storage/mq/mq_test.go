package mq_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	mq "github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/mq"
)

// TestMemoryRoundTrip 内存后端发布后订阅端收到同一条消息.
func TestMemoryRoundTrip(t *testing.T) {
	ctx := t.Context()

	client, err := mq.New(ctx, &configs.MQConfig{Type: configs.MQTypeMemory})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, client.Close()) })

	msgs, err := client.Subscribe(ctx, "smt.leads.submitted")
	require.NoError(t, err)

	sent := message.NewMessage(watermill.NewULID(), []byte(`{"name":"Wanjiru"}`))
	sent.Metadata.Set("producer", "test")
	require.NoError(t, client.Publish(ctx, "smt.leads.submitted", sent))

	select {
	case got := <-msgs:
		assert.Equal(t, sent.UUID, got.UUID)
		assert.Equal(t, "test", got.Metadata.Get("producer"))
		assert.JSONEq(t, `{"name":"Wanjiru"}`, string(got.Payload))
		got.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

// TestUnsupportedType 未注册的后端返回错误.
func TestUnsupportedType(t *testing.T) {
	_, err := mq.New(t.Context(), &configs.MQConfig{Type: "kafka"})
	require.ErrorContains(t, err, "unsupported mq type")
}

// TestNilClient 未初始化的客户端返回 ErrNotInitialized.
func TestNilClient(t *testing.T) {
	var c *mq.Client

	require.ErrorIs(t, c.Publish(t.Context(), "x"), mq.ErrNotInitialized)
	require.ErrorIs(t, c.HealthCheck(t.Context()), mq.ErrNotInitialized)
	require.NoError(t, c.Close())
}

// TestLoggerAdapter watermill 的 Info 降为 Debug，字段保留.
func TestLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer

	l := mq.NewLoggerAdapter(zerolog.New(&buf).Level(zerolog.InfoLevel))
	l.Info("subscribing", watermill.LogFields{"topic": "a"})
	assert.Zero(t, buf.Len())

	l.With(watermill.LogFields{"topic": "b"}).Error("publish failed", assert.AnError, nil)
	assert.Contains(t, buf.String(), `"topic":"b"`)
	assert.Contains(t, buf.String(), `"level":"error"`)
}
