package changebus

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryBus is a process-local Bus for tests and single-node deployments.
type memoryBus struct {
	mu     sync.RWMutex
	subs   map[string]map[*memorySubscription]struct{}
	closed bool
}

// NewMemoryBus creates an in-process bus instance.
func NewMemoryBus() Bus {
	return &memoryBus{
		subs: make(map[string]map[*memorySubscription]struct{}),
	}
}

func (b *memoryBus) Publish(_ context.Context, change Change) error {
	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, channel := range channelsFor(change) {
		for sub := range b.subs[channel] {
			select {
			case sub.ch <- change:
			default:
			}
		}
	}
	return nil
}

func (b *memoryBus) SubscribeWorkspace(_ context.Context, workspaceID string) (Subscription, error) {
	return b.subscribe(workspaceChannel(workspaceID)), nil
}

func (b *memoryBus) SubscribeTicket(_ context.Context, ticketID string) (Subscription, error) {
	return b.subscribe(ticketChannel(ticketID)), nil
}

func (b *memoryBus) subscribe(channel string) *memorySubscription {
	sub := &memorySubscription{
		bus:     b,
		channel: channel,
		ch:      make(chan Change, subscriberBuffer),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[*memorySubscription]struct{})
	}
	b.subs[channel][sub] = struct{}{}
	return sub
}

func (b *memoryBus) remove(sub *memorySubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[sub.channel]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subs, sub.channel)
		}
	}
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for channel, set := range b.subs {
		for sub := range set {
			sub.once.Do(func() { close(sub.ch) })
		}
		delete(b.subs, channel)
	}
	return nil
}

type memorySubscription struct {
	bus     *memoryBus
	channel string
	ch      chan Change
	once    sync.Once
}

func (s *memorySubscription) Signals() <-chan Change {
	return s.ch
}

func (s *memorySubscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.remove(s)
		close(s.ch)
	})
}
