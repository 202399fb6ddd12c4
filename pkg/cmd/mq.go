package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	mq "github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/mq"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/queue"
)

// tailLine mq tail 每条消息输出的一行 JSON.
type tailLine struct {
	Topic    string            `json:"topic"`
	UUID     string            `json:"uuid"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Payload  json.RawMessage   `json:"payload"`
}

var (
	mqCmd = &cobra.Command{
		Use:     "mq",
		Short:   "message bus commands",
		Aliases: []string{"bus"},
	}

	mqListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list compiled-in mq backends",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range mq.RegisteredTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}

	mqTopicsCmd = &cobra.Command{
		Use:   "topics",
		Short: "list the event topics published by the site",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range queue.AllTopics() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}

	// 订阅事件并逐行打印，Ctrl-C 退出；不带参数时订阅全部主题.
	mqTailCmd = &cobra.Command{
		Use:   "tail [topic...]",
		Short: "print events from the configured bus as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client, err := mq.New(ctx, &cfg.MQ)
			if err != nil {
				return err
			}
			defer client.Close()

			topics := args
			if len(topics) == 0 {
				topics = queue.AllTopics()
			}

			lines := make(chan tailLine)
			g, gctx := errgroup.WithContext(ctx)

			for _, topic := range topics {
				msgs, err := client.Subscribe(gctx, topic)
				if err != nil {
					return err
				}

				g.Go(func() error { return forward(gctx, topic, msgs, lines) })
			}

			go func() {
				_ = g.Wait()
				close(lines)
			}()

			out := cmd.OutOrStdout()
			for line := range lines {
				b, err := sonic.Marshal(line)
				if err != nil {
					return err
				}

				fmt.Fprintln(out, string(b))
			}

			if err := g.Wait(); err != nil && ctx.Err() == nil {
				return err
			}

			return nil
		},
	}
)

// forward 把订阅到的消息转成输出行并确认.
func forward(ctx context.Context, topic string, msgs <-chan *message.Message, out chan<- tailLine) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}

			line := tailLine{Topic: topic, UUID: msg.UUID, Metadata: msg.Metadata, Payload: json.RawMessage(msg.Payload)}
			if !json.Valid(msg.Payload) {
				line.Payload, _ = sonic.Marshal(string(msg.Payload))
			}

			select {
			case out <- line:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return nil
			}
		}
	}
}

func registerMQCommands() {
	rootCmd.AddCommand(mqCmd)
	mqCmd.AddCommand(mqListCmd, mqTopicsCmd, mqTailCmd)
}
