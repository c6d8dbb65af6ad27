package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/metrics"
)

// AuditService persists session events to the audit trail.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Process validates and stores a single session event.
func (s *AuditService) Process(ctx context.Context, event domain.SessionEvent) error {
	if event.SessionID == "" || event.Kind == "" {
		return fmt.Errorf("process session event: missing session id or kind")
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditErrorsTotal.Inc()
		return fmt.Errorf("process session event: %w", err)
	}

	s.log.Debug().
		Str("session_id", event.SessionID).
		Str("kind", string(event.Kind)).
		Str("email", event.Email).
		Msg("session event recorded")
	return nil
}
