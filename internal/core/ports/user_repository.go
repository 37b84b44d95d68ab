package ports

import (
	"context"

	"github.com/99minutos/account-service/internal/core/domain"
)

// UserRepository is the credential store. Lookups return domain.ErrUserNotFound
// when no record matches; Save reports unique-constraint violations as
// domain.ErrDuplicateUsername or domain.ErrDuplicateEmail.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
