package domain

import "time"

// Workspace is the tenant boundary. Every other entity belongs to exactly
// one workspace; cross-workspace references are rejected at the service layer.
type Workspace struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}
