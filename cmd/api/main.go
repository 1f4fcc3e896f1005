// Command api runs the Traymate care-facility backend.
//
// @title                       Traymate API
// @version                     1.0
// @description                 Staff authentication, role-based access and resident administration for the Traymate care-facility backend.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
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

	"github.com/traymate/backend/internal/api"
	"github.com/traymate/backend/internal/api/handler"
	"github.com/traymate/backend/internal/core/service"
	mongodb "github.com/traymate/backend/internal/infrastructure/db/mongo"
	redisdb "github.com/traymate/backend/internal/infrastructure/db/redis"
	"github.com/traymate/backend/internal/infrastructure/queue"
	"github.com/traymate/backend/internal/infrastructure/security"
	"github.com/traymate/backend/internal/pkg/config"
	"github.com/traymate/backend/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the service and blocks until ctx is cancelled or the server fails.
func run(ctx context.Context) error {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "traymate-api",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting Traymate API")

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	codec, err := security.NewJWTCodec(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	users := mongodb.NewUserRepository(db)
	residents := mongodb.NewResidentRepository(db)

	// --- Audit trail ---
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, 0, mongodb.NewAuditRepository(db), logger.Component("audit"))
	dispatcher.Start(dispatchCtx)
	defer func() {
		stopDispatch()
		dispatcher.Wait()
	}()

	// --- Services ---
	if cfg.Auth.SeedUsers {
		if _, err := service.SeedUsers(ctx, users, hasher, service.DefaultSeedAccounts, logger.Component("seed")); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	authService := service.NewAuthService(users, hasher, codec, dispatcher, cfg.Auth.EmailDomain, logger.Component("auth"))
	residentService := service.NewResidentService(
		residents,
		users,
		redisdb.NewIdempotencyStore(rdb, "residents"),
		cfg.Redis.IdempotencyTTL,
		logger.Component("residents"),
	)
	staffService := service.NewStaffService(users, residents, dispatcher, logger.Component("staff"))

	// --- HTTP ---
	e := api.NewRouter(api.RouterDeps{
		Logger:         logger.Component("http"),
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		Codec:          codec,
		Users:          users,
		Auth:           authService,
		Residents:      residentService,
		Staff:          staffService,
		HealthChecks: map[string]handler.HealthCheck{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, draining requests")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	log.Info().Msg("Traymate API stopped")
	return nil
}
