package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

// TeamRepository manages persistence for teams and their memberships.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	Delete(ctx context.Context, workspaceID, id string) error
	GetByID(ctx context.Context, workspaceID, id string) (*domain.Team, error)
	List(ctx context.Context, workspaceID string) ([]domain.Team, error)
	AddMember(ctx context.Context, member *domain.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	ListMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error)
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (workspace_id, name, description)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		team.WorkspaceID,
		team.Name,
		team.Description,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

func (r *teamRepository) Delete(ctx context.Context, workspaceID, id string) error {
	const query = `DELETE FROM teams WHERE id=$1 AND workspace_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Team, error) {
	const query = `
        SELECT id, workspace_id, name, description, created_at, updated_at
        FROM teams WHERE id=$1 AND workspace_id=$2`
	var team domain.Team
	if err := r.pool.QueryRow(ctx, query, id, workspaceID).Scan(
		&team.ID,
		&team.WorkspaceID,
		&team.Name,
		&team.Description,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) List(ctx context.Context, workspaceID string) ([]domain.Team, error) {
	const query = `
        SELECT id, workspace_id, name, description, created_at, updated_at
        FROM teams WHERE workspace_id=$1 ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.WorkspaceID, &team.Name, &team.Description, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	return result, rows.Err()
}

// AddMember inserts a membership row; re-adding an existing member is a no-op.
func (r *teamRepository) AddMember(ctx context.Context, member *domain.TeamMember) error {
	const query = `
        INSERT INTO team_members (team_id, user_id, role)
        VALUES ($1,$2,$3)
        ON CONFLICT (team_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, member.TeamID, member.UserID, member.Role)
	return err
}

// RemoveMember deletes a membership row; removing a non-member is a no-op.
func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	const query = `DELETE FROM team_members WHERE team_id=$1 AND user_id=$2`
	_, err := r.pool.Exec(ctx, query, teamID, userID)
	return err
}

func (r *teamRepository) ListMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	const query = `
        SELECT m.team_id, m.user_id, m.role, m.created_at, u.email, u.role
        FROM team_members m
        JOIN users u ON u.id = m.user_id
        WHERE m.team_id=$1
        ORDER BY u.email ASC`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TeamMember
	for rows.Next() {
		var member domain.TeamMember
		if err := rows.Scan(
			&member.TeamID,
			&member.UserID,
			&member.Role,
			&member.CreatedAt,
			&member.UserEmail,
			&member.UserRole,
		); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}
