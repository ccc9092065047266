package realtime

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisBroker shares change notifications across service instances through a
// Redis pub/sub channel.
type RedisBroker struct {
	client  *redis.Client
	channel string
}

func NewRedisBroker(client *redis.Client, channel string) *RedisBroker {
	return &RedisBroker{client: client, channel: channel}
}

func (v *RedisBroker) Publish(ctx context.Context, topic string) error {
	if err := v.client.Publish(ctx, v.channel, topic).Err(); err != nil {
		return fmt.Errorf("unable to publish change of %s: %v", topic, err)
	}
	return nil
}

func (v *RedisBroker) Listen(ctx context.Context, fn func(topic string)) error {
	pubsub := v.client.Subscribe(ctx, v.channel)
	defer pubsub.Close()

	// Wait for the confirmation so nothing published after Listen returns
	// control to the caller is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("unable to subscribe to %s: %v", v.channel, err)
	}
	log.Info().Str("channel", v.channel).Msg("Listening realtime changes from redis...")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("redis channel %s closed", v.channel)
			}
			fn(msg.Payload)
		}
	}
}
