package domain

import "time"

// CommentType differentiates customer replies, internal notes and
// system-generated audit entries.
type CommentType string

const (
	CommentTypeReply        CommentType = "reply"
	CommentTypeNote         CommentType = "note"
	CommentTypeStatusChange CommentType = "status_change"
	CommentTypeAssignment   CommentType = "assignment"
	CommentTypeSystem       CommentType = "system"
)

// Comment is a message attached to a ticket. Audit entries (status_change,
// system) are written in the same transaction as the mutation they record.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Content   string
	Type      CommentType
	CreatedAt time.Time

	// Joined on listing.
	AuthorEmail string
}
