package changebus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryBus_WorkspaceScope(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus()
	defer bus.Close() //nolint:errcheck

	sub, err := bus.SubscribeWorkspace(ctx, "ws-1")
	assert.NoError(t, err)
	defer sub.Unsubscribe()

	other, err := bus.SubscribeWorkspace(ctx, "ws-2")
	assert.NoError(t, err)
	defer other.Unsubscribe()

	assert.NoError(t, bus.Publish(ctx, Change{Kind: KindTicket, WorkspaceID: "ws-1", TicketID: "t-1", EntityID: "t-1"}))

	select {
	case change := <-sub.Signals():
		assert.Equal(t, KindTicket, change.Kind)
		assert.Equal(t, "ws-1", change.WorkspaceID)
		assert.NotEmpty(t, change.ID)
		assert.False(t, change.OccurredAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("workspace subscriber did not receive signal")
	}

	select {
	case change := <-other.Signals():
		t.Fatalf("subscriber of another workspace received %+v", change)
	default:
	}
}

func TestMemoryBus_TicketScope(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus()
	defer bus.Close() //nolint:errcheck

	ticketSub, err := bus.SubscribeTicket(ctx, "t-1")
	assert.NoError(t, err)
	defer ticketSub.Unsubscribe()

	otherTicket, err := bus.SubscribeTicket(ctx, "t-2")
	assert.NoError(t, err)
	defer otherTicket.Unsubscribe()

	assert.NoError(t, bus.Publish(ctx, Change{Kind: KindComment, WorkspaceID: "ws-1", TicketID: "t-1", EntityID: "c-1"}))

	select {
	case change := <-ticketSub.Signals():
		assert.Equal(t, "c-1", change.EntityID)
	case <-time.After(time.Second):
		t.Fatal("ticket subscriber did not receive signal")
	}

	select {
	case <-otherTicket.Signals():
		t.Fatal("subscriber of another ticket received signal")
	default:
	}
}

func TestMemoryBus_WorkspaceChangeWithoutTicketSkipsTicketChannels(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus()
	defer bus.Close() //nolint:errcheck

	wsSub, err := bus.SubscribeWorkspace(ctx, "ws-1")
	assert.NoError(t, err)
	defer wsSub.Unsubscribe()

	assert.NoError(t, bus.Publish(ctx, Change{Kind: KindTeam, WorkspaceID: "ws-1", EntityID: "team-1"}))

	select {
	case change := <-wsSub.Signals():
		assert.Equal(t, KindTeam, change.Kind)
		assert.Empty(t, change.TicketID)
	case <-time.After(time.Second):
		t.Fatal("workspace subscriber did not receive signal")
	}
}

func TestMemoryBus_UnsubscribeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus()
	defer bus.Close() //nolint:errcheck

	sub, err := bus.SubscribeWorkspace(ctx, "ws-1")
	assert.NoError(t, err)

	sub.Unsubscribe()
	sub.Unsubscribe()

	// Channel is closed after unsubscribe.
	_, open := <-sub.Signals()
	assert.False(t, open)

	// Publishing after unsubscribe must not panic or block.
	assert.NoError(t, bus.Publish(ctx, Change{Kind: KindTicket, WorkspaceID: "ws-1"}))
}

func TestMemoryBus_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus()
	defer bus.Close() //nolint:errcheck

	sub, err := bus.SubscribeWorkspace(ctx, "ws-1")
	assert.NoError(t, err)
	defer sub.Unsubscribe()

	// Overflow the buffer without draining. Signals are refetch triggers,
	// so dropping beyond the buffer loses nothing a refetch would miss.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*3; i++ {
			_ = bus.Publish(ctx, Change{Kind: KindTicket, WorkspaceID: "ws-1"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	received := 0
	for {
		select {
		case <-sub.Signals():
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, received)
}

func TestMemoryBus_CloseClosesSubscribers(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus()

	sub, err := bus.SubscribeWorkspace(ctx, "ws-1")
	assert.NoError(t, err)

	assert.NoError(t, bus.Close())

	_, open := <-sub.Signals()
	assert.False(t, open)

	// Unsubscribe after Close must stay safe.
	sub.Unsubscribe()
}
