// @title                       SenBank back office API
// @version                     1.0
// @description                 Authentication, user directory and transaction ledger for banking agents.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/senbank/backoffice/docs"
	"github.com/senbank/backoffice/internal/api"
	"github.com/senbank/backoffice/internal/core/ports"
	"github.com/senbank/backoffice/internal/core/service"
	"github.com/senbank/backoffice/internal/infrastructure/config"
	"github.com/senbank/backoffice/internal/infrastructure/db/mongo"
	"github.com/senbank/backoffice/internal/infrastructure/db/redis"
	"github.com/senbank/backoffice/internal/infrastructure/queue"
	"github.com/senbank/backoffice/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "senbank: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "senbank-backoffice",
	})

	// --- MongoDB ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	users := mongo.NewUserRepository(db)
	transactions := mongo.NewTransactionRepository(db)
	auditRepo := mongo.NewAuditRepository(db)

	// --- Redis (optional) ---
	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
	}

	var revocations ports.RevocationStore
	ensurers := []mongo.IndexEnsurer{users, transactions, auditRepo}
	if cfg.RevocationBackend == config.BackendRedis {
		revocations = redis.NewRevocationStore(rdb)
	} else {
		store := mongo.NewRevocationStore(db)
		revocations = store
		ensurers = append(ensurers, store)
	}
	log.Info().Str("backend", cfg.RevocationBackend).Msg("token revocation store ready")

	for _, ie := range ensurers {
		if err := ie.EnsureIndexes(ctx); err != nil {
			log.Error().Err(err).Msgf("%T: index creation failed", ie)
		}
	}

	// --- Audit trail ---
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, logger.Component("audit"))
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	// --- Services ---
	tokens, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	hasher := service.NewPasswordHasher(cfg.BcryptCost)

	authService := service.NewAuthService(users, revocations, tokens, hasher, dispatcher, logger.Component("auth"))
	userService := service.NewUserService(users, hasher, dispatcher, logger.Component("users"))
	txService := service.NewTransactionService(transactions, dispatcher, logger.Component("ledger"))

	e := api.NewRouter(api.Dependencies{
		Auth:         authService,
		Users:        userService,
		Transactions: txService,
		Mongo:        db,
		Redis:        rdb,
		Log:          logger.Component("http"),
		FrontendURL:  cfg.FrontendURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	return shutdown(srv, log)
}

func shutdown(srv *http.Server, log zerolog.Logger) error {
	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
