package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew     TicketStatus = "new"
	TicketStatusOpen    TicketStatus = "open"
	TicketStatusPending TicketStatus = "pending"
	TicketStatusSolved  TicketStatus = "solved"
	TicketStatusClosed  TicketStatus = "closed"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Field limits enforced on create and update.
const (
	TitleMaxLen       = 80
	DescriptionMaxLen = 2000
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	WorkspaceID string
	CreatedByID string
	AssigneeID  *string
	TeamID      *string
	Title       string
	Description string
	Category    string
	Status      TicketStatus
	Priority    TicketPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketStats aggregates workspace ticket counts for the dashboard.
type TicketStats struct {
	Total          int
	New            int
	Open           int
	Pending        int
	Solved         int
	Closed         int
	HighPriority   int
	MediumPriority int
	LowPriority    int
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusNew, TicketStatusOpen, TicketStatusPending, TicketStatusSolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// allowedTransitions declares the status graph. Every pair is currently
// permitted; narrowing a transition is a one-line removal here.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusNew:     {TicketStatusNew, TicketStatusOpen, TicketStatusPending, TicketStatusSolved, TicketStatusClosed},
	TicketStatusOpen:    {TicketStatusNew, TicketStatusOpen, TicketStatusPending, TicketStatusSolved, TicketStatusClosed},
	TicketStatusPending: {TicketStatusNew, TicketStatusOpen, TicketStatusPending, TicketStatusSolved, TicketStatusClosed},
	TicketStatusSolved:  {TicketStatusNew, TicketStatusOpen, TicketStatusPending, TicketStatusSolved, TicketStatusClosed},
	TicketStatusClosed:  {TicketStatusNew, TicketStatusOpen, TicketStatusPending, TicketStatusSolved, TicketStatusClosed},
}

// ValidTransition reports whether a ticket may move from current to next.
func ValidTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
