// Package memory provides in-process credential and audit stores for local
// development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/99minutos/account-service/internal/core/domain"
)

// UserRepository keeps users in maps guarded by a mutex and enforces the same
// uniqueness rules as the database adapters.
type UserRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*domain.User
	byEmail    map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byUsername: make(map[string]*domain.User),
		byEmail:    make(map[string]*domain.User),
	}
}

func (r *UserRepository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return nil, domain.ErrDuplicateUsername
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrDuplicateEmail
	}

	stored := *user
	stored.ID = uuid.NewString()
	r.byUsername[stored.Username] = &stored
	r.byEmail[stored.Email] = &stored

	out := stored
	return &out, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.byUsername[username])
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.byEmail[email])
}

// Delete removes the user with username, if any.
func (r *UserRepository) Delete(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byUsername[username]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byUsername, username)
	}
}

// Ping always succeeds.
func (r *UserRepository) Ping(context.Context) error {
	return nil
}

func clone(u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// AuditRepository keeps audit events in memory.
type AuditRepository struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) InsertEvent(_ context.Context, event *domain.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

// Events returns a copy of the recorded events.
func (r *AuditRepository) Events() []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuthEvent, len(r.events))
	copy(out, r.events)
	return out
}
