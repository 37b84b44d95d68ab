package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

const pgUniqueViolation = "23505"

// UserRepository implements ports.UserRepository on PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const selectUser = `SELECT id, username, email, password_hash, first_name, last_name, role, created_at, updated_at
	FROM users`

// Save inserts user under a freshly generated identifier.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `INSERT INTO users (id, username, email, password_hash, first_name, last_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	created := *user
	created.ID = uuid.NewString()

	_, err := r.pool.Exec(ctx, query,
		created.ID, created.Username, created.Email, created.PasswordHash,
		created.FirstName, created.LastName, created.Role, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		if mapped := uniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, selectUser+` WHERE username = $1`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// uniqueViolation maps a 23505 error to the domain error of the violated
// constraint, or returns nil for any other error.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return domain.ErrDuplicateEmail
	}
	return domain.ErrDuplicateUsername
}
