package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService writing to repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single authentication event.
func (s *auditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if event.Kind == "" {
		return fmt.Errorf("process audit event: %w", domain.ErrInvalidInput)
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("process audit event: %w", err)
	}

	s.log.Debug().
		Str("username", event.Username).
		Str("kind", string(event.Kind)).
		Msg("audit event stored")

	return nil
}
