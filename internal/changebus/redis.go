package changebus

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisBus fans change signals out over Redis Pub/Sub. Pub/Sub gives the
// exact contract the bus promises: unordered, at-least-once-per-connected-
// subscriber delivery with no replay for disconnected subscribers.
type redisBus struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisBus creates a Bus backed by the given Redis client. The client
// is owned by the caller and not closed by the bus.
func NewRedisBus(client *redis.Client, logger *zap.Logger) Bus {
	return &redisBus{client: client, logger: logger}
}

func (b *redisBus) Publish(ctx context.Context, change Change) error {
	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	for _, channel := range channelsFor(change) {
		if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
			b.logger.Warn("change publish failed",
				zap.String("channel", channel),
				zap.Error(err))
			return err
		}
	}
	return nil
}

func (b *redisBus) SubscribeWorkspace(ctx context.Context, workspaceID string) (Subscription, error) {
	return b.subscribe(ctx, workspaceChannel(workspaceID))
}

func (b *redisBus) SubscribeTicket(ctx context.Context, ticketID string) (Subscription, error) {
	return b.subscribe(ctx, ticketChannel(ticketID))
}

func (b *redisBus) subscribe(ctx context.Context, channel string) (Subscription, error) {
	pubsub := b.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		ch:     make(chan Change, subscriberBuffer),
	}
	go sub.pump(b.logger)
	return sub, nil
}

func (b *redisBus) Close() error {
	return nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	ch     chan Change
	once   sync.Once
}

func (s *redisSubscription) pump(logger *zap.Logger) {
	defer close(s.ch)
	for msg := range s.pubsub.Channel() {
		var change Change
		if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
			logger.Warn("malformed change payload", zap.Error(err))
			continue
		}
		select {
		case s.ch <- change:
		default:
		}
	}
}

func (s *redisSubscription) Signals() <-chan Change {
	return s.ch
}

func (s *redisSubscription) Unsubscribe() {
	s.once.Do(func() {
		_ = s.pubsub.Close()
	})
}
