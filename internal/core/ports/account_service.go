package ports

import (
	"context"

	"github.com/99minutos/account-service/internal/core/domain"
)

// RegisterInput carries a registration candidate from the transport layer.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token    string
	UserID   string
	Username string
	Email    string
}

// UserProfile is the public view of the authenticated user.
type UserProfile struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// AccountService orchestrates registration, login and current-user lookup.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	CurrentUser(ctx context.Context, identity domain.Identity) (*UserProfile, error)
}
