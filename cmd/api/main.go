// @title        Account Service API
// @version      1.0
// @description  User registration, password login and JWT-authenticated profile lookup.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/account-service/internal/api"
	"github.com/99minutos/account-service/internal/api/handler"
	"github.com/99minutos/account-service/internal/core/service"
	"github.com/99minutos/account-service/internal/infrastructure/config"
	"github.com/99minutos/account-service/internal/infrastructure/db/redis"
	"github.com/99minutos/account-service/internal/infrastructure/queue"
	"github.com/99minutos/account-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "account-service"})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "account-service",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("account service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	checks := map[string]handler.Checker{"store": st.check}

	// --- Audit trail ---
	auditCtx, cancelAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(st.audit, log), log)
	dispatcher.Start(auditCtx)

	opts := []service.Option{service.WithAuditSink(dispatcher)}

	// --- Registration guard (optional) ---
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			cancelAudit()
			dispatcher.Wait()
			return err
		}
		defer rdb.Close()

		guard := redis.NewRegistrationGuard(rdb)
		opts = append(opts, service.WithRegistrationGuard(guard))
		checks["redis"] = guard
		log.Info().Str("addr", cfg.Redis.Addr).Msg("registration guard enabled")
	}

	// --- Services ---
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	accounts := service.NewAccountService(
		st.users,
		service.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		log,
		opts...,
	)

	e := api.NewRouter(api.Dependencies{
		Accounts: accounts,
		Tokens:   tokens,
		Checks:   checks,
		Log:      log,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	cancelAudit()
	dispatcher.Wait()
	log.Info().Msg("audit workers drained")

	return nil
}
