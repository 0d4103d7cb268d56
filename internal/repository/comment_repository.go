package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

// CommentRepository manages ticket thread comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, workspaceID, ticketID string) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, author_id, content, type)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorID,
		comment.Content,
		comment.Type,
	).Scan(&comment.ID, &comment.CreatedAt)
}

// ListByTicket returns the full thread, oldest first. The join on tickets
// keeps the read workspace-scoped.
func (r *commentRepository) ListByTicket(ctx context.Context, workspaceID, ticketID string) ([]domain.Comment, error) {
	const query = `
        SELECT c.id, c.ticket_id, c.author_id, c.content, c.type, c.created_at, u.email
        FROM comments c
        JOIN tickets t ON t.id = c.ticket_id
        JOIN users u ON u.id = c.author_id
        WHERE c.ticket_id=$1 AND t.workspace_id=$2
        ORDER BY c.created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.AuthorID,
			&comment.Content,
			&comment.Type,
			&comment.CreatedAt,
			&comment.AuthorEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
