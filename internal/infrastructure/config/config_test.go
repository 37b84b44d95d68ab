package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour || cfg.Auth.JWTIssuer != "account-service" || cfg.Auth.BcryptCost != 10 {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.StoreDriver != DriverMongo || cfg.Mongo.Database != "accounts" {
		t.Fatalf("unexpected store defaults: %s %+v", cfg.StoreDriver, cfg.Mongo)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis should be disabled by default")
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "s3cret",
		"TOKEN_TTL":    "15m",
		"STORE_DRIVER": "postgres",
		"REDIS_ADDR":   "redis:6379",
		"ENV":          "production",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.TokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m ttl, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.StoreDriver != DriverPostgres || cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("expected production env")
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "s3cret",
		"STORE_DRIVER": "sqlite",
	}))
	if err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
