package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const complaintChannel = "complaints.events"

// bridgeEnvelope wraps an event with the publishing instance id so a bridge
// can skip messages it published itself.
type bridgeEnvelope struct {
	Instance string `json:"instance"`
	Event    Event  `json:"event"`
}

// RedisBridge fans complaint events out across service instances over a Redis
// pub/sub channel. Local events are forwarded to Redis; inbound messages from
// other instances are re-published into the wrapped dispatcher so snapshot
// subscriptions refresh on every change, wherever it originated.
type RedisBridge struct {
	inner    Dispatcher
	client   *redis.Client
	logger   *zap.Logger
	instance string
}

// NewRedisBridge wraps a dispatcher with Redis fan-out.
func NewRedisBridge(inner Dispatcher, client *redis.Client, logger *zap.Logger) *RedisBridge {
	return &RedisBridge{
		inner:    inner,
		client:   client,
		logger:   logger,
		instance: uuid.NewString(),
	}
}

// Publish dispatches locally, then forwards to the Redis channel. A publish
// failure is logged once and not retried.
func (b *RedisBridge) Publish(ctx context.Context, event Event) error {
	if err := b.inner.Publish(ctx, event); err != nil {
		return err
	}
	payload, err := json.Marshal(bridgeEnvelope{Instance: b.instance, Event: event})
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, complaintChannel, payload).Err(); err != nil {
		b.logger.Warn("publish complaint event to redis failed", zap.Error(err))
	}
	return nil
}

// Subscribe registers a handler on the wrapped dispatcher.
func (b *RedisBridge) Subscribe(eventType EventType, handler EventHandler) {
	b.inner.Subscribe(eventType, handler)
}

// Listen consumes the Redis channel until ctx is cancelled, re-dispatching
// events that originate from other instances.
func (b *RedisBridge) Listen(ctx context.Context) {
	sub := b.client.Subscribe(ctx, complaintChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var envelope bridgeEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				b.logger.Warn("decode complaint event failed", zap.Error(err))
				continue
			}
			if envelope.Instance == b.instance {
				continue
			}
			if err := b.inner.Publish(ctx, envelope.Event); err != nil {
				b.logger.Warn("re-dispatch complaint event failed", zap.Error(err))
			}
		}
	}
}
