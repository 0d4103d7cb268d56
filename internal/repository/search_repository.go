package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

// SearchRepository ranks tickets and comments against a free-text query.
type SearchRepository interface {
	// SearchTickets returns matches ordered by rank, then recency. When
	// includeNotes is false, internal notes are excluded from comment
	// matching entirely.
	SearchTickets(ctx context.Context, workspaceID, query string, includeNotes bool, limit int) ([]domain.SearchResult, error)
}

type searchRepository struct {
	pool *pgxpool.Pool
}

// NewSearchRepository constructs repository.
func NewSearchRepository(pool *pgxpool.Pool) SearchRepository {
	return &searchRepository{pool: pool}
}

// searchQuery unions title/description matches with comment-content
// matches. Ties on rank break on ticket recency.
const searchQuery = `
    SELECT * FROM (
        SELECT t.id, t.workspace_id, t.created_by_user_id, t.assigned_to_user_id, t.team_id,
               t.title, t.description, t.category, t.status, t.priority, t.created_at, t.updated_at,
               ts_rank(to_tsvector('english', t.title || ' ' || t.description),
                       websearch_to_tsquery('english', $2)) AS rank,
               NULL::text AS matched_comment_id,
               NULL::text AS matched_comment_content,
               NULL::text AS matched_comment_type
        FROM tickets t
        WHERE t.workspace_id=$1
          AND to_tsvector('english', t.title || ' ' || t.description) @@ websearch_to_tsquery('english', $2)
        UNION ALL
        SELECT t.id, t.workspace_id, t.created_by_user_id, t.assigned_to_user_id, t.team_id,
               t.title, t.description, t.category, t.status, t.priority, t.created_at, t.updated_at,
               ts_rank(to_tsvector('english', c.content),
                       websearch_to_tsquery('english', $2)) AS rank,
               c.id::text, c.content, c.type::text
        FROM comments c
        JOIN tickets t ON t.id = c.ticket_id
        WHERE t.workspace_id=$1
          AND to_tsvector('english', c.content) @@ websearch_to_tsquery('english', $2)
          AND ($3 OR c.type <> 'note')
    ) AS hits
    ORDER BY rank DESC, updated_at DESC
    LIMIT $4`

func (r *searchRepository) SearchTickets(ctx context.Context, workspaceID, query string, includeNotes bool, limit int) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, searchQuery, workspaceID, query, includeNotes, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SearchResult
	for rows.Next() {
		var hit domain.SearchResult
		var matchedType *string
		if err := rows.Scan(
			&hit.Ticket.ID,
			&hit.Ticket.WorkspaceID,
			&hit.Ticket.CreatedByID,
			&hit.Ticket.AssigneeID,
			&hit.Ticket.TeamID,
			&hit.Ticket.Title,
			&hit.Ticket.Description,
			&hit.Ticket.Category,
			&hit.Ticket.Status,
			&hit.Ticket.Priority,
			&hit.Ticket.CreatedAt,
			&hit.Ticket.UpdatedAt,
			&hit.Rank,
			&hit.MatchedCommentID,
			&hit.MatchedCommentContent,
			&matchedType,
		); err != nil {
			return nil, err
		}
		if matchedType != nil {
			commentType := domain.CommentType(*matchedType)
			hit.MatchedCommentType = &commentType
		}
		result = append(result, hit)
	}
	return result, rows.Err()
}
