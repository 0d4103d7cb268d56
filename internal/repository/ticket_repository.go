package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

// TicketFilter captures ticket listing parameters. WorkspaceID is
// mandatory; every query is tenant-scoped.
type TicketFilter struct {
	WorkspaceID string
	CreatedByID *string
	AssigneeIDs []string
	TeamIDs     []string
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, workspaceID, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// UpdateWithAudit persists the ticket mutation and its audit comment in
	// one transaction: both writes land or neither does.
	UpdateWithAudit(ctx context.Context, ticket *domain.Ticket, audit *domain.Comment) error
	Stats(ctx context.Context, workspaceID string) (*domain.TicketStats, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, workspace_id, created_by_user_id, assigned_to_user_id, team_id,
               title, description, category, status, priority, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (workspace_id, created_by_user_id, assigned_to_user_id, team_id, title, description, category, status, priority)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.WorkspaceID,
		ticket.CreatedByID,
		ticket.AssigneeID,
		ticket.TeamID,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Status,
		ticket.Priority,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets WHERE id=$1 AND workspace_id=$2`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id, workspaceID).Scan(
		&ticket.ID,
		&ticket.WorkspaceID,
		&ticket.CreatedByID,
		&ticket.AssigneeID,
		&ticket.TeamID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	args := []any{filter.WorkspaceID}
	clauses := []string{"workspace_id=$1"}

	if filter.CreatedByID != nil {
		args = append(args, *filter.CreatedByID)
		clauses = append(clauses, fmt.Sprintf("created_by_user_id=$%d", len(args)))
	}
	if len(filter.AssigneeIDs) > 0 {
		placeholders := make([]string, len(filter.AssigneeIDs))
		for i, id := range filter.AssigneeIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("assigned_to_user_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.TeamIDs) > 0 {
		placeholders := make([]string, len(filter.TeamIDs))
		for i, id := range filter.TeamIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("team_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, priority := range filter.Priorities {
			args = append(args, priority)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateWithAudit(ctx context.Context, ticket *domain.Ticket, audit *domain.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const update = `
        UPDATE tickets SET assigned_to_user_id=$1, team_id=$2, title=$3, description=$4,
            category=$5, status=$6, priority=$7, updated_at=NOW()
        WHERE id=$8 AND workspace_id=$9`
	cmd, err := tx.Exec(ctx, update,
		ticket.AssigneeID,
		ticket.TeamID,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Status,
		ticket.Priority,
		ticket.ID,
		ticket.WorkspaceID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const insertAudit = `
        INSERT INTO comments (ticket_id, author_id, content, type)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertAudit,
		audit.TicketID,
		audit.AuthorID,
		audit.Content,
		audit.Type,
	).Scan(&audit.ID, &audit.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) Stats(ctx context.Context, workspaceID string) (*domain.TicketStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='new'),
               COUNT(*) FILTER (WHERE status='open'),
               COUNT(*) FILTER (WHERE status='pending'),
               COUNT(*) FILTER (WHERE status='solved'),
               COUNT(*) FILTER (WHERE status='closed'),
               COUNT(*) FILTER (WHERE priority='high'),
               COUNT(*) FILTER (WHERE priority='medium'),
               COUNT(*) FILTER (WHERE priority='low')
        FROM tickets WHERE workspace_id=$1`
	var stats domain.TicketStats
	if err := r.pool.QueryRow(ctx, query, workspaceID).Scan(
		&stats.Total,
		&stats.New,
		&stats.Open,
		&stats.Pending,
		&stats.Solved,
		&stats.Closed,
		&stats.HighPriority,
		&stats.MediumPriority,
		&stats.LowPriority,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.WorkspaceID,
			&ticket.CreatedByID,
			&ticket.AssigneeID,
			&ticket.TeamID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Category,
			&ticket.Status,
			&ticket.Priority,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
