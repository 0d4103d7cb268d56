package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

func TestVisibilityFilter_VisibleComments(t *testing.T) {
	filter := NewVisibilityFilter()
	thread := []domain.Comment{
		{ID: "c-1", Type: domain.CommentTypeReply},
		{ID: "c-2", Type: domain.CommentTypeNote},
		{ID: "c-3", Type: domain.CommentTypeStatusChange},
		{ID: "c-4", Type: domain.CommentTypeNote},
		{ID: "c-5", Type: domain.CommentTypeSystem},
	}

	t.Run("end user never sees notes", func(t *testing.T) {
		visible := filter.VisibleComments(domain.RoleEndUser, thread)
		assert.Len(t, visible, 3)
		ids := make([]string, 0, len(visible))
		for _, c := range visible {
			ids = append(ids, c.ID)
		}
		// Order preserved, notes removed with no placeholder.
		assert.Equal(t, []string{"c-1", "c-3", "c-5"}, ids)
	})

	t.Run("agent sees everything", func(t *testing.T) {
		assert.Len(t, filter.VisibleComments(domain.RoleAgent, thread), 5)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		assert.Len(t, filter.VisibleComments(domain.RoleAdmin, thread), 5)
	})

	t.Run("empty thread", func(t *testing.T) {
		assert.Empty(t, filter.VisibleComments(domain.RoleEndUser, nil))
	})
}

func TestVisibilityFilter_CanSeeComment(t *testing.T) {
	filter := NewVisibilityFilter()
	note := domain.Comment{Type: domain.CommentTypeNote}
	reply := domain.Comment{Type: domain.CommentTypeReply}

	assert.False(t, filter.CanSeeComment(domain.RoleEndUser, note))
	assert.True(t, filter.CanSeeComment(domain.RoleEndUser, reply))
	assert.True(t, filter.CanSeeComment(domain.RoleAgent, note))
	assert.True(t, filter.CanSeeComment(domain.RoleAdmin, note))
}

func TestVisibilityFilter_IncludeNotes(t *testing.T) {
	filter := NewVisibilityFilter()
	assert.False(t, filter.IncludeNotes(domain.RoleEndUser))
	assert.True(t, filter.IncludeNotes(domain.RoleAgent))
	assert.True(t, filter.IncludeNotes(domain.RoleAdmin))
}
