package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const claimTTL = 30 * time.Second

// RegistrationGuard holds short-lived SET NX claims on usernames and emails
// while a registration is in flight.
// Key format: register:<kind>:<value>
type RegistrationGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRegistrationGuard creates a RegistrationGuard wrapping the given Redis client.
func NewRegistrationGuard(client *redis.Client) *RegistrationGuard {
	return &RegistrationGuard{client: client, ttl: claimTTL}
}

// Acquire reports whether the claim on key was obtained. A claim expires after
// claimTTL even if Release is never called.
func (g *RegistrationGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(key), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("registration claim: %w", err)
	}
	return ok, nil
}

// Release drops the claim on key.
func (g *RegistrationGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, g.key(key)).Err()
}

// Ping reports Redis reachability for the readiness probe.
func (g *RegistrationGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *RegistrationGuard) key(key string) string {
	return "register:" + key
}
