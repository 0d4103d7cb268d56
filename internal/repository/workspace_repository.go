package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

// WorkspaceRepository manages tenant records.
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *domain.Workspace) error
	GetByID(ctx context.Context, id string) (*domain.Workspace, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error)
}

type workspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository returns a Postgres-backed implementation.
func NewWorkspaceRepository(pool *pgxpool.Pool) WorkspaceRepository {
	return &workspaceRepository{pool: pool}
}

func (r *workspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	const query = `
        INSERT INTO workspaces (name, slug)
        VALUES ($1, $2)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		workspace.Name,
		workspace.Slug,
	).Scan(&workspace.ID, &workspace.CreatedAt)
}

func (r *workspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	const query = `
        SELECT id, name, slug, created_at
        FROM workspaces WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *workspaceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	const query = `
        SELECT id, name, slug, created_at
        FROM workspaces WHERE slug=$1`
	return r.fetchSingle(ctx, query, slug)
}

func (r *workspaceRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Workspace, error) {
	var workspace domain.Workspace
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.Slug,
		&workspace.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &workspace, nil
}
