package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/deskwise/helpdesk-service/internal/auth"
	"github.com/deskwise/helpdesk-service/internal/changebus"
	"github.com/deskwise/helpdesk-service/internal/domain"
	"github.com/deskwise/helpdesk-service/internal/repository"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

// Mailer delivers invitation emails. Delivery failure aborts the invitation
// it belongs to.
type Mailer interface {
	SendInvitation(ctx context.Context, email, acceptURL string) error
}

// LogMailer writes invitation links to the log instead of sending mail.
// Used in development and in environments without an SMTP relay.
type LogMailer struct {
	Logger *zap.Logger
}

func (m *LogMailer) SendInvitation(_ context.Context, email, acceptURL string) error {
	m.Logger.Info("invitation mail",
		zap.String("email", email),
		zap.String("accept_url", acceptURL),
	)
	return nil
}

// InvitationService manages workspace onboarding: creating single-use
// invitations, expiring them, and redeeming them into member accounts.
type InvitationService struct {
	invitations repository.InvitationRepository
	users       repository.UserRepository
	mailer      Mailer
	bus         changebus.Bus
	logger      *zap.Logger

	ttl           time.Duration
	publicBaseURL string
	bcryptCost    int
	now           func() time.Time
}

// InvitationDependencies bundles collaborators for the invitation service.
type InvitationDependencies struct {
	InvitationRepo repository.InvitationRepository
	UserRepo       repository.UserRepository
	Mailer         Mailer
	Bus            changebus.Bus
	Logger         *zap.Logger
	TTL            time.Duration
	PublicBaseURL  string
	BcryptCost     int
}

// BulkResult reports the outcome of a bulk invitation request.
type BulkResult struct {
	Created      []domain.Invitation
	FailedEmails []string
}

// NewInvitationService constructs the service.
func NewInvitationService(deps InvitationDependencies) *InvitationService {
	ttl := deps.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	cost := deps.BcryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &InvitationService{
		invitations:   deps.InvitationRepo,
		users:         deps.UserRepo,
		mailer:        deps.Mailer,
		bus:           deps.Bus,
		logger:        deps.Logger,
		ttl:           ttl,
		publicBaseURL: strings.TrimRight(deps.PublicBaseURL, "/"),
		bcryptCost:    cost,
		now:           time.Now,
	}
}

// Create issues a pending invitation and sends the invite email. If the
// email cannot be sent the invitation is deleted again so no orphaned
// pending record survives, and the caller sees the failure.
func (s *InvitationService) Create(ctx context.Context, actor *domain.User, email string, role domain.UserRole) (*domain.Invitation, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("valid email required", map[string]any{"email": email})
	}
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing.WorkspaceID == actor.WorkspaceID {
		return nil, apperrors.NewConflict("user already belongs to workspace", map[string]any{"email": email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	invitation := &domain.Invitation{
		WorkspaceID: actor.WorkspaceID,
		Email:       email,
		Role:        role,
		Token:       token,
		Status:      domain.InvitationPending,
		InvitedByID: actor.ID,
		ExpiresAt:   s.now().Add(s.ttl),
	}
	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.mailer.SendInvitation(ctx, email, s.acceptURL(token)); err != nil {
		// Compensate: the pending record must not outlive the mail it was
		// supposed to ride on.
		if delErr := s.invitations.Delete(ctx, invitation.WorkspaceID, invitation.ID); delErr != nil {
			s.logger.Error("invitation cleanup failed",
				zap.String("invitation_id", invitation.ID),
				zap.Error(delErr),
			)
		}
		return nil, apperrors.NewUnavailable("invitation email delivery failed", err)
	}

	s.publishInvitation(ctx, actor.WorkspaceID, invitation.ID)
	return invitation, nil
}

// CreateBulk issues invitations for each email independently. One failure
// never rolls back the others; the result names exactly which emails failed.
func (s *InvitationService) CreateBulk(ctx context.Context, actor *domain.User, emails []string, role domain.UserRole) (*BulkResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result BulkResult
	)
	for _, email := range emails {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			invitation, err := s.Create(ctx, actor, email, role)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.FailedEmails = append(result.FailedEmails, email)
				return
			}
			result.Created = append(result.Created, *invitation)
		}(email)
	}
	wg.Wait()
	return &result, nil
}

// Accept redeems a token into a member account. Expiry wins over status:
// an overdue token reports expired even if the sweeper has not flipped it
// yet. Redemption is single-use; a concurrent second accept loses.
func (s *InvitationService) Accept(ctx context.Context, token, password string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.NewValidationError("token required", nil)
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	invitation, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("invitation", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !s.now().Before(invitation.ExpiresAt) {
		return nil, apperrors.NewConflict("invitation expired", map[string]any{"email": invitation.Email})
	}
	if invitation.Status != domain.InvitationPending {
		return nil, apperrors.NewConflict("invitation already used", map[string]any{"status": invitation.Status})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		WorkspaceID:  invitation.WorkspaceID,
		Email:        invitation.Email,
		PasswordHash: hash,
		Role:         invitation.Role,
	}
	if err := s.invitations.Redeem(ctx, invitation, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyRedeemed) {
			return nil, apperrors.NewConflict("invitation already used", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishInvitation(ctx, invitation.WorkspaceID, invitation.ID)
	return user, nil
}

// List returns the workspace's pending invitations.
func (s *InvitationService) List(ctx context.Context, actor *domain.User) ([]domain.Invitation, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	invitations, err := s.invitations.ListPending(ctx, actor.WorkspaceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return invitations, nil
}

// Remove revokes a pending invitation. Removing an absent one is a no-op.
func (s *InvitationService) Remove(ctx context.Context, actor *domain.User, invitationID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.invitations.Delete(ctx, actor.WorkspaceID, invitationID); err != nil {
		return apperrors.MapError(err)
	}
	s.publishInvitation(ctx, actor.WorkspaceID, invitationID)
	return nil
}

// ExpireOverdue flips overdue pending invitations to expired. Called by the
// background sweeper.
func (s *InvitationService) ExpireOverdue(ctx context.Context) (int64, error) {
	expired, err := s.invitations.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return expired, nil
}

func (s *InvitationService) acceptURL(token string) string {
	return fmt.Sprintf("%s/invitations/accept?token=%s", s.publicBaseURL, token)
}

func (s *InvitationService) publishInvitation(ctx context.Context, workspaceID, invitationID string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, changebus.Change{
		Kind:        changebus.KindInvitation,
		WorkspaceID: workspaceID,
		EntityID:    invitationID,
	}); err != nil && s.logger != nil {
		s.logger.Warn("change fan-out failed", zap.Error(err))
	}
}

// newInviteToken returns 32 bytes of hex-encoded randomness. Tokens are
// unguessable and unique for practical purposes; the unique index on the
// column backstops collisions.
func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
