// Command provisioning-api serves the server request workflow over HTTP.
//
// @title                       Server Provisioning API
// @version                     1.0
// @description                 Students request server accounts; administrators approve, reject and terminate them.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/polstat/server-provisioning/internal/api"
	"github.com/polstat/server-provisioning/internal/core/ports"
	"github.com/polstat/server-provisioning/internal/core/service"
	"github.com/polstat/server-provisioning/internal/infrastructure/config"
	mongostore "github.com/polstat/server-provisioning/internal/infrastructure/db/mongo"
	redisdb "github.com/polstat/server-provisioning/internal/infrastructure/db/redis"
	"github.com/polstat/server-provisioning/internal/infrastructure/db/sqldb"
	"github.com/polstat/server-provisioning/internal/infrastructure/http/handlers"
	"github.com/polstat/server-provisioning/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(start(os.Stdout))
}

// start runs the service and returns the process exit code, so deferred
// cleanup finishes before main exits.
func start(out io.Writer) int {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(ctx)
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat(),
		Output:  out,
		Service: "provisioning-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return 1
	}
	return 0
}

// backend is the selected store with its readiness checks.
type backend struct {
	users    ports.UserRepository
	requests ports.ServerRequestRepository
	accounts ports.ServerAccountRepository
	checks   map[string]handlers.Check
	close    func(context.Context) error
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()
	log.Info().Str("driver", cfg.Store.Driver).Msg("store ready")

	var locker ports.TransitionLocker
	if cfg.Redis.Enabled {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()
		locker = redisdb.NewTransitionLock(client, cfg.Redis.LockTTL, log)
		store.checks["redis"] = redisdb.Ping(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis transition lock enabled")
	}

	authService := service.NewAuthService(store.users, service.AuthConfig{
		Secret:      cfg.Auth.JWTSecret,
		Issuer:      cfg.Auth.Issuer,
		TokenTTL:    cfg.Auth.TokenTTL,
		EmailDomain: cfg.Auth.EmailDomain,
	}, log)
	userService := service.NewUserService(store.users, store.accounts, cfg.Auth.EmailDomain, log)
	requestService := service.NewRequestService(store.requests, store.accounts, store.users, locker, log)

	if err := userService.EnsureAdministrator(ctx, ports.RegisterInput{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}); err != nil {
		return fmt.Errorf("seed administrator: %w", err)
	}

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Users:    userService,
		Requests: requestService,
		Checks:   store.checks,
		Logger:   log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s := mongostore.NewStore(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &backend{
			users:    s.Users,
			requests: s.Requests,
			accounts: s.Accounts,
			checks:   map[string]handlers.Check{"mongodb": s.Ping},
			close:    client.Disconnect,
		}, nil

	case config.DriverSQLite, config.DriverPostgres:
		driver := sqldb.DriverSQLite
		if cfg.Store.Driver == config.DriverPostgres {
			driver = sqldb.DriverPostgres
		}
		s, err := sqldb.Open(ctx, driver, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		return &backend{
			users:    s.Users,
			requests: s.Requests,
			accounts: s.Accounts,
			checks:   map[string]handlers.Check{cfg.Store.Driver: s.Ping},
			close:    func(context.Context) error { return s.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
}
