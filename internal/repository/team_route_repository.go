package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

// TeamRouteRepository manages the category-to-team routing mapping.
type TeamRouteRepository interface {
	Add(ctx context.Context, route *domain.TeamCategoryRoute) error
	Remove(ctx context.Context, teamID, category string) error
	ListTeamsForCategory(ctx context.Context, workspaceID, category string) ([]domain.Team, error)
	ListCategoriesForTeam(ctx context.Context, teamID string) ([]string, error)
}

type teamRouteRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRouteRepository constructs repository.
func NewTeamRouteRepository(pool *pgxpool.Pool) TeamRouteRepository {
	return &teamRouteRepository{pool: pool}
}

// Add declares a route; adding an existing route is a no-op.
func (r *teamRouteRepository) Add(ctx context.Context, route *domain.TeamCategoryRoute) error {
	const query = `
        INSERT INTO team_categories (team_id, category)
        VALUES ($1,$2)
        ON CONFLICT (team_id, category) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, route.TeamID, route.Category)
	return err
}

// Remove deletes a route; removing a non-existent route is a no-op.
func (r *teamRouteRepository) Remove(ctx context.Context, teamID, category string) error {
	const query = `DELETE FROM team_categories WHERE team_id=$1 AND category=$2`
	_, err := r.pool.Exec(ctx, query, teamID, category)
	return err
}

// ListTeamsForCategory resolves every team a category maps to. A category
// may map to more than one team.
func (r *teamRouteRepository) ListTeamsForCategory(ctx context.Context, workspaceID, category string) ([]domain.Team, error) {
	const query = `
        SELECT t.id, t.workspace_id, t.name, t.description, t.created_at, t.updated_at
        FROM team_categories tc
        JOIN teams t ON t.id = tc.team_id
        WHERE t.workspace_id=$1 AND tc.category=$2
        ORDER BY t.name ASC`
	rows, err := r.pool.Query(ctx, query, workspaceID, category)
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

func (r *teamRouteRepository) ListCategoriesForTeam(ctx context.Context, teamID string) ([]string, error) {
	const query = `SELECT category FROM team_categories WHERE team_id=$1 ORDER BY category ASC`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
