package mq

import (
	"context"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats.go"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

const (
	natsDrainTimeout   = 30 * time.Second
	natsFlusherTimeout = 10 * time.Second
)

func init() {
	RegisterFactory(configs.MQTypeNATS, natsFactory)
}

// natsFactory 创建 watermill NATS 发布端与订阅端，启用 JetStream 时事件持久化.
func natsFactory(
	_ context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter,
) (message.Publisher, message.Subscriber, error) {
	url := cfg.Common.URL
	if len(cfg.NATS.ClusterURLs) > 0 {
		url = strings.Join(cfg.NATS.ClusterURLs, ",")
	}

	opts := natsOptions(cfg)
	js := jetStreamConfig(cfg)
	marshaler := &wmnats.JSONMarshaler{}

	pub, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:         url,
		NatsOptions: opts,
		JetStream:   js,
		Marshaler:   marshaler,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	sub, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL:              url,
		NatsOptions:      opts,
		JetStream:        js,
		Unmarshaler:      marshaler,
		QueueGroupPrefix: cfg.NATS.QueueGroup,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     natsDrainTimeout,
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, nil, err
	}

	logger.Info("nats transport ready", watermill.LogFields{
		"url":       url,
		"jetstream": cfg.NATS.JetStream,
	})

	return pub, sub, nil
}

func natsOptions(cfg *configs.MQConfig) []nats.Option {
	opts := []nats.Option{
		nats.Name(cfg.Common.ClientID),
		nats.MaxReconnects(cfg.Common.MaxReconnects),
		nats.ReconnectWait(cfg.Common.ReconnectWait),
		nats.PingInterval(cfg.Common.PingInterval),
		nats.DrainTimeout(natsDrainTimeout),
		nats.FlusherTimeout(natsFlusherTimeout),
		nats.RetryOnFailedConnect(true),
	}

	switch {
	case cfg.NATS.JWT != "":
		opts = append(opts, nats.UserJWTAndSeed(cfg.NATS.JWT, cfg.NATS.NKey))
	case cfg.Common.User != "":
		opts = append(opts, nats.UserInfo(cfg.Common.User, cfg.Common.Password))
	}

	return opts
}

func jetStreamConfig(cfg *configs.MQConfig) wmnats.JetStreamConfig {
	if !cfg.NATS.JetStream {
		return wmnats.JetStreamConfig{Disabled: true}
	}

	return wmnats.JetStreamConfig{
		AutoProvision: cfg.NATS.AutoProvision,
		TrackMsgId:    cfg.NATS.TrackMsgID,
		AckAsync:      cfg.NATS.AckAsync,
		DurablePrefix: cfg.NATS.DurablePrefix,
	}
}
