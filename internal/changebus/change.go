package changebus

import (
	"context"
	"time"
)

// Kind identifies which entity collection changed.
type Kind string

const (
	KindTicket     Kind = "tickets"
	KindComment    Kind = "comments"
	KindTeam       Kind = "teams"
	KindTeamMember Kind = "team_members"
	KindRoute      Kind = "team_categories"
	KindInvitation Kind = "invitations"
)

// Change is a refetch signal, never a delta. Subscribers must respond by
// refetching the scoped state; duplicates and reordering carry no meaning.
type Change struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	WorkspaceID string    `json:"workspace_id"`
	TicketID    string    `json:"ticket_id,omitempty"`
	EntityID    string    `json:"entity_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Subscription yields change signals for one scope until unsubscribed.
type Subscription interface {
	// Signals delivers at-least-once, unordered refetch signals. The channel
	// is closed after Unsubscribe.
	Signals() <-chan Change
	// Unsubscribe releases the subscription. Safe to call more than once.
	Unsubscribe()
}

// Bus fans out change notifications scoped by workspace and by ticket.
// Notifications delivered while a subscriber is disconnected are not
// replayed; subscribers must refetch on (re)subscribe.
type Bus interface {
	Publish(ctx context.Context, change Change) error
	SubscribeWorkspace(ctx context.Context, workspaceID string) (Subscription, error)
	SubscribeTicket(ctx context.Context, ticketID string) (Subscription, error)
	Close() error
}

func workspaceChannel(workspaceID string) string {
	return "helpdesk:ws:" + workspaceID
}

func ticketChannel(ticketID string) string {
	return "helpdesk:ticket:" + ticketID
}

// channelsFor lists the channels a change fans out to.
func channelsFor(change Change) []string {
	channels := []string{workspaceChannel(change.WorkspaceID)}
	if change.TicketID != "" {
		channels = append(channels, ticketChannel(change.TicketID))
	}
	return channels
}

// subscriberBuffer bounds per-subscriber queues. Signals beyond the buffer
// are dropped: a refetching subscriber cannot distinguish two queued
// signals from one.
const subscriberBuffer = 16
