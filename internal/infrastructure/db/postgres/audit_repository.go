package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/account-service/internal/core/domain"
)

// AuditRepository implements ports.AuditRepository on PostgreSQL.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	const query = `INSERT INTO auth_events (username, kind, occurred_at) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, query, event.Username, string(event.Kind), event.OccurredAt.UTC()); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
