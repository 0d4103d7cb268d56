package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/deskwise/helpdesk-service/internal/service"
)

// InvitationSweeper periodically expires overdue pending invitations.
// Acceptance also checks expiry directly, so the sweep only keeps the
// stored state tidy; its interval is not a correctness knob.
type InvitationSweeper struct {
	invitations *service.InvitationService
	interval    time.Duration
	logger      *zap.Logger
}

// NewInvitationSweeper builds the sweeper.
func NewInvitationSweeper(invitations *service.InvitationService, interval time.Duration, logger *zap.Logger) *InvitationSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &InvitationSweeper{invitations: invitations, interval: interval, logger: logger}
}

// Run sweeps until the context is cancelled. One sweep runs immediately on
// start so a restart never leaves overdue rows waiting a full interval.
func (w *InvitationSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *InvitationSweeper) sweep(ctx context.Context) {
	expired, err := w.invitations.ExpireOverdue(ctx)
	if err != nil {
		w.logger.Warn("invitation sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		w.logger.Info("invitations expired", zap.Int64("count", expired))
	}
}
