package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

var errRedisClosed = errors.New("redis pubsub closed")

// redisEnvelope 在 Redis 频道上传输的消息，保留 UUID 与元数据.
type redisEnvelope struct {
	UUID     string            `json:"uuid"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Payload  []byte            `json:"payload"`
}

// redisPubSub 基于 Redis Pub/Sub 的发布订阅，消息不持久化，离线的订阅者会丢失事件.
type redisPubSub struct {
	client *redis.Client
	buffer int
	logger watermill.LoggerAdapter

	mu     sync.Mutex
	subs   []*redis.PubSub
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

func init() {
	RegisterFactory(configs.MQTypeRedis, redisFactory)
}

func redisFactory(
	ctx context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter,
) (message.Publisher, message.Subscriber, error) {
	opts := &redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}

	if cfg.Redis.URL != "" {
		parsed, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}

		opts = parsed
	}

	opts.ClientName = cfg.Common.ClientID

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	ps := &redisPubSub{
		client: rdb,
		buffer: max(cfg.Common.BufferSize, 1),
		logger: logger,
		done:   make(chan struct{}),
	}

	return ps, ps, nil
}

func (r *redisPubSub) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		data, err := sonic.Marshal(redisEnvelope{UUID: msg.UUID, Metadata: msg.Metadata, Payload: msg.Payload})
		if err != nil {
			return fmt.Errorf("encode message %s: %w", msg.UUID, err)
		}

		if err := r.client.Publish(msg.Context(), topic, data).Err(); err != nil {
			return fmt.Errorf("redis publish %s: %w", topic, err)
		}
	}

	return nil
}

// Subscribe 订阅频道，每条消息等待 Ack 或 Nack 后才投递下一条.
func (r *redisPubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errRedisClosed
	}

	sub := r.client.Subscribe(ctx, topic)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", topic, err)
	}

	r.subs = append(r.subs, sub)
	out := make(chan *message.Message, r.buffer)

	r.wg.Add(1)

	go r.consume(ctx, topic, sub, out)

	return out, nil
}

func (r *redisPubSub) consume(ctx context.Context, topic string, sub *redis.PubSub, out chan<- *message.Message) {
	defer r.wg.Done()
	defer close(out)

	in := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case raw, ok := <-in:
			if !ok {
				return
			}

			var env redisEnvelope
			if err := sonic.UnmarshalString(raw.Payload, &env); err != nil {
				r.logger.Error("drop undecodable message", err, watermill.LogFields{"topic": topic})
				continue
			}

			msg := message.NewMessage(env.UUID, env.Payload)
			for k, v := range env.Metadata {
				msg.Metadata.Set(k, v)
			}

			msg.SetContext(ctx)

			select {
			case out <- msg:
			case <-ctx.Done():
				return
			case <-r.done:
				return
			}

			// Pub/Sub 不支持重投，Nack 只记录日志
			select {
			case <-msg.Acked():
			case <-msg.Nacked():
				r.logger.Info("message nacked", watermill.LogFields{"topic": topic, "uuid": env.UUID})
			case <-ctx.Done():
				return
			case <-r.done:
				return
			}
		}
	}
}

func (r *redisPubSub) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}

	r.closed = true
	close(r.done)

	errs := make([]error, 0, len(r.subs)+1)
	for _, s := range r.subs {
		errs = append(errs, s.Close())
	}
	r.mu.Unlock()

	r.wg.Wait()

	errs = append(errs, r.client.Close())

	return errors.Join(errs...)
}
