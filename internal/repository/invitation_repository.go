package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

// ErrAlreadyRedeemed is returned by Redeem when the invitation left the
// pending state between the read and the conditional update.
var ErrAlreadyRedeemed = errors.New("invitation already redeemed")

// InvitationRepository manages single-use invitation tokens.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.Invitation) error
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	ListPending(ctx context.Context, workspaceID string) ([]domain.Invitation, error)
	// Delete removes an invitation; deleting an unknown id is a no-op.
	Delete(ctx context.Context, workspaceID, id string) error
	// Redeem creates the user and marks the invitation accepted in one
	// transaction. A user created without the invitation flipping to
	// accepted would allow token reuse.
	Redeem(ctx context.Context, invitation *domain.Invitation, user *domain.User) error
	// ExpireOverdue ages out pending invitations whose expiry has passed.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type invitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository constructs repository.
func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &invitationRepository{pool: pool}
}

const invitationColumns = `id, workspace_id, invited_by_user_id, email, role, token, status, created_at, expires_at`

func (r *invitationRepository) Create(ctx context.Context, invitation *domain.Invitation) error {
	const query = `
        INSERT INTO invitations (workspace_id, invited_by_user_id, email, role, token, status, expires_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		invitation.WorkspaceID,
		invitation.InvitedByID,
		invitation.Email,
		invitation.Role,
		invitation.Token,
		invitation.Status,
		invitation.ExpiresAt,
	).Scan(&invitation.ID, &invitation.CreatedAt)
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	const query = `SELECT ` + invitationColumns + ` FROM invitations WHERE token=$1`
	var invitation domain.Invitation
	if err := r.pool.QueryRow(ctx, query, token).Scan(
		&invitation.ID,
		&invitation.WorkspaceID,
		&invitation.InvitedByID,
		&invitation.Email,
		&invitation.Role,
		&invitation.Token,
		&invitation.Status,
		&invitation.CreatedAt,
		&invitation.ExpiresAt,
	); err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) ListPending(ctx context.Context, workspaceID string) ([]domain.Invitation, error) {
	const query = `
        SELECT ` + invitationColumns + `
        FROM invitations WHERE workspace_id=$1 AND status='pending'
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Invitation
	for rows.Next() {
		var invitation domain.Invitation
		if err := rows.Scan(
			&invitation.ID,
			&invitation.WorkspaceID,
			&invitation.InvitedByID,
			&invitation.Email,
			&invitation.Role,
			&invitation.Token,
			&invitation.Status,
			&invitation.CreatedAt,
			&invitation.ExpiresAt,
		); err != nil {
			return nil, err
		}
		result = append(result, invitation)
	}
	return result, rows.Err()
}

func (r *invitationRepository) Delete(ctx context.Context, workspaceID, id string) error {
	const query = `DELETE FROM invitations WHERE id=$1 AND workspace_id=$2`
	_, err := r.pool.Exec(ctx, query, id, workspaceID)
	return err
}

func (r *invitationRepository) Redeem(ctx context.Context, invitation *domain.Invitation, user *domain.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const accept = `
        UPDATE invitations SET status='accepted'
        WHERE id=$1 AND status='pending'`
	cmd, err := tx.Exec(ctx, accept, invitation.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAlreadyRedeemed
	}

	const insertUser = `
        INSERT INTO users (workspace_id, email, password_hash, role)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertUser,
		user.WorkspaceID,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	invitation.Status = domain.InvitationAccepted
	return nil
}

func (r *invitationRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	const query = `
        UPDATE invitations SET status='expired'
        WHERE status='pending' AND expires_at <= $1`
	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
