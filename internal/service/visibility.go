package service

import "github.com/deskwise/helpdesk-service/internal/domain"

// VisibilityFilter projects comment threads for a viewer's role. End users
// never see internal notes; the note is removed from the thread entirely,
// with no placeholder left behind, so nothing leaks through counts or gaps.
type VisibilityFilter struct{}

// NewVisibilityFilter constructs the filter.
func NewVisibilityFilter() *VisibilityFilter {
	return &VisibilityFilter{}
}

// VisibleComments returns the comments the role may see, preserving order.
func (f *VisibilityFilter) VisibleComments(role domain.UserRole, comments []domain.Comment) []domain.Comment {
	if role != domain.RoleEndUser {
		return comments
	}
	visible := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Type == domain.CommentTypeNote {
			continue
		}
		visible = append(visible, c)
	}
	return visible
}

// CanSeeComment reports whether the role may see a single comment.
func (f *VisibilityFilter) CanSeeComment(role domain.UserRole, comment domain.Comment) bool {
	return role != domain.RoleEndUser || comment.Type != domain.CommentTypeNote
}

// IncludeNotes reports whether search and thread queries for the role may
// match against internal note content.
func (f *VisibilityFilter) IncludeNotes(role domain.UserRole) bool {
	return role != domain.RoleEndUser
}
