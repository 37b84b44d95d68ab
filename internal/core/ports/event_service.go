package ports

import (
	"context"

	"github.com/99minutos/account-service/internal/core/domain"
)

// AuditSink accepts authentication events. Record must not block the caller.
type AuditSink interface {
	Record(event domain.AuthEvent)
}

// AuditService writes a single dequeued event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// RegistrationGuard holds short-lived claims on usernames and emails while a
// registration is in flight.
type RegistrationGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
