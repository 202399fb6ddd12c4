// Package mq 在 Watermill 之上提供按配置选择后端的发布订阅客户端.
//
// 后端：
//   - NATS（支持 JetStream）
//   - Redis Pub/Sub
//   - memory（进程内 gochannel，用于单实例部署与测试）
//
// 使用示例：
//
//	client, err := mq.New(ctx, &configs.GetConfig().MQ)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	msg, _ := queue.NewWatermillMessage(ctx, queue.TopicUploadStored, payload)
//	err = client.Publish(ctx, queue.TopicUploadStored, msg)
package mq

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	watermill "github.com/ThreeDotsLabs/watermill"
	wmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	nlog "github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/metrics"
)

// ErrNotInitialized 客户端未初始化.
var ErrNotInitialized = errors.New("mq client not initialized")

// Factory 定义创建 Publisher + Subscriber 的工厂函数.
type Factory func(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error)

var factories = map[configs.MQType]Factory{}

// RegisterFactory 注册指定 MQType 的工厂.
func RegisterFactory(t configs.MQType, f Factory) {
	factories[t] = f
}

// RegisteredTypes 返回已注册的 MQ 类型，按名称排序.
func RegisteredTypes() []configs.MQType {
	return slices.Sorted(maps.Keys(factories))
}

func init() {
	RegisterFactory(configs.MQTypeMemory, memoryFactory)
}

// memoryFactory 创建进程内的 gochannel Pub/Sub，发布与订阅共用同一实例.
func memoryFactory(_ context.Context, _ *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)

	return ps, ps, nil
}

// Client 封装 watermill Publisher 与 Subscriber.
type Client struct {
	Type       configs.MQType
	publisher  message.Publisher
	subscriber message.Subscriber
	// shared 发布与订阅是同一个实例（memory、redis）.
	shared      bool
	stopMetrics func()
}

// Publish 发布消息，消息 context 设为 ctx.
func (c *Client) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	if c == nil || c.publisher == nil {
		return ErrNotInitialized
	}

	for _, m := range msgs {
		m.SetContext(ctx)
	}

	if err := c.publisher.Publish(topic, msgs...); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	return nil
}

// Subscribe 订阅主题，ctx 取消后输出通道关闭.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if c == nil || c.subscriber == nil {
		return nil, ErrNotInitialized
	}

	ch, err := c.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	return ch, nil
}

// HealthCheck 检查客户端是否已初始化.
func (c *Client) HealthCheck(_ context.Context) error {
	if c == nil || c.publisher == nil {
		return ErrNotInitialized
	}

	return nil
}

// Close 关闭发布端、订阅端与独立的指标服务.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	var errs []error

	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}

	if c.subscriber != nil && !c.shared {
		errs = append(errs, c.subscriber.Close())
	}

	if c.stopMetrics != nil {
		c.stopMetrics()
	}

	return errors.Join(errs...)
}

// New 按配置初始化消息队列客户端.
func New(ctx context.Context, cfg *configs.MQConfig) (*Client, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported mq type %q (built with %v)", cfg.Type, RegisteredTypes())
	}

	l := nlog.Component("mq")
	logger := NewLoggerAdapter(l)

	pub, sub, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init mq (%s): %w", cfg.Type, err)
	}

	client := &Client{
		Type:       cfg.Type,
		publisher:  pub,
		subscriber: sub,
		shared:     any(pub) == any(sub),
	}

	if configs.GetConfig().Metrics.Enabled && cfg.Common.EnableMetrics {
		if err := client.instrument(cfg.Common.Endpoint); err != nil {
			_ = client.Close()
			return nil, err
		}
	}

	l.Info().Str("type", string(cfg.Type)).Msg("mq client ready")

	return client, nil
}

// instrument 为发布端与订阅端装饰 watermill prometheus 指标.
// endpoint 为空时注册到应用的指标注册表，否则在 endpoint 上单独暴露.
func (c *Client) instrument(endpoint string) error {
	var reg prometheus.Registerer = metrics.Registry()

	if endpoint != "" {
		r, stop := wmetrics.CreateRegistryAndServeHTTP(endpoint)
		reg, c.stopMetrics = r, stop
	}

	builder := wmetrics.NewPrometheusMetricsBuilder(reg, "smittan", "mq")

	pub, err := builder.DecoratePublisher(c.publisher)
	if err != nil {
		return fmt.Errorf("decorate publisher: %w", err)
	}

	sub, err := builder.DecorateSubscriber(c.subscriber)
	if err != nil {
		return fmt.Errorf("decorate subscriber: %w", err)
	}

	c.publisher, c.subscriber = pub, sub

	l := nlog.Component("mq")
	l.Info().Str("endpoint", endpoint).Msg("mq metrics enabled")

	return nil
}
