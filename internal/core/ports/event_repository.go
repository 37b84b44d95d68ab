package ports

import (
	"context"

	"github.com/99minutos/account-service/internal/core/domain"
)

// AuditRepository persists the authentication audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}
