package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

// AccountService implements registration, login and current-user lookup.
type AccountService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	guard  ports.RegistrationGuard
	audit  ports.AuditSink
	log    zerolog.Logger
	now    func() time.Time
}

// Option customises an AccountService.
type Option func(*AccountService)

// WithRegistrationGuard serialises concurrent registrations of the same
// username or email through guard.
func WithRegistrationGuard(guard ports.RegistrationGuard) Option {
	return func(s *AccountService) { s.guard = guard }
}

// WithAuditSink records authentication outcomes on sink.
func WithAuditSink(sink ports.AuditSink) Option {
	return func(s *AccountService) { s.audit = sink }
}

func NewAccountService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	log zerolog.Logger,
	opts ...Option,
) *AccountService {
	s := &AccountService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new account. The username is checked before the email,
// so a candidate colliding on both reports ErrDuplicateUsername.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) > domain.MaxPasswordBytes {
		return nil, fmt.Errorf("password exceeds %d bytes: %w", domain.MaxPasswordBytes, domain.ErrInvalidInput)
	}

	release, err := s.claim(ctx, username, email)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("hash password: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = domain.DefaultRole
	}

	now := s.now().UTC()
	created, err := s.repo.Save(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrDuplicateEmail) {
			s.log.Info().Str("username", username).Err(err).Msg("registration lost uniqueness race")
			return nil, err
		}
		s.log.Error().Err(err).Str("username", username).Msg("failed to save user")
		return nil, err
	}

	s.record(username, domain.EventRegistered)
	s.log.Info().Str("user_id", created.ID).Str("username", username).Str("role", role).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a token. Unknown usernames and wrong
// passwords are indistinguishable to the caller. The username is trimmed the
// same way Register stores it.
func (s *AccountService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.record(username, domain.EventLoginFailed)
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(username, domain.EventLoginFailed)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		s.record(username, domain.EventLoginFailed)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.record(user.Username, domain.EventLoginSucceeded)
	s.log.Debug().Str("username", user.Username).Msg("login succeeded")

	return &ports.LoginResult{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// CurrentUser resolves the profile behind an already-authenticated identity.
func (s *AccountService) CurrentUser(ctx context.Context, identity domain.Identity) (*ports.UserProfile, error) {
	if identity.Username == "" {
		return nil, domain.ErrUserNotFound
	}

	user, err := s.repo.FindByUsername(ctx, identity.Username)
	if err != nil {
		return nil, err
	}

	return &ports.UserProfile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.DisplayRole(),
	}, nil
}

func (s *AccountService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("check username: %w", err)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// claim acquires guard keys for username and email. Guard failures are logged
// and ignored; the store's unique constraints remain authoritative.
func (s *AccountService) claim(ctx context.Context, username, email string) (func(), error) {
	if s.guard == nil {
		return func() {}, nil
	}

	keys := []struct {
		key string
		err error
	}{
		{"username:" + username, domain.ErrDuplicateUsername},
		{"email:" + email, domain.ErrDuplicateEmail},
	}

	held := make([]string, 0, len(keys))
	release := func() {
		for _, k := range held {
			if err := s.guard.Release(context.WithoutCancel(ctx), k); err != nil {
				s.log.Warn().Err(err).Str("key", k).Msg("failed to release registration claim")
			}
		}
	}

	for _, k := range keys {
		ok, err := s.guard.Acquire(ctx, k.key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", k.key).Msg("registration guard unavailable, relying on store constraints")
			continue
		}
		if !ok {
			release()
			return nil, k.err
		}
		held = append(held, k.key)
	}
	return release, nil
}

func (s *AccountService) record(username string, kind domain.AuthEventKind) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Username:   username,
		Kind:       kind,
		OccurredAt: s.now().UTC(),
	})
}
