package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sony/gobreaker"
	"github.com/spf13/cobra"

	"github.com/hoardly/dashboard/internal/api"
	"github.com/hoardly/dashboard/internal/api/handler"
	"github.com/hoardly/dashboard/internal/app"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/core/service"
	"github.com/hoardly/dashboard/internal/infrastructure/credmem"
	mongodb "github.com/hoardly/dashboard/internal/infrastructure/db/mongo"
	redisdb "github.com/hoardly/dashboard/internal/infrastructure/db/redis"
	"github.com/hoardly/dashboard/internal/infrastructure/queue"
	"github.com/hoardly/dashboard/internal/infrastructure/restclient"
	"github.com/hoardly/dashboard/internal/infrastructure/sealer"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
	pingTimeout     = 2 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the BFF HTTP server",
	Long: `Run the backend-for-frontend that holds one session per browser.

Credentials are kept in Redis when REDIS_ADDR is set, otherwise in memory.
Session events are written to MongoDB unless AUDIT_DISABLED is true.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seal, err := sealer.New(cfg.CredentialKey, "bff-credentials")
	if err != nil {
		return err
	}

	var checks []handler.Check

	// --- Credential store ---
	var creds app.CredentialProvider = credmem.New()
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

		creds = redisdb.NewCredentialStore(rdb, seal, cfg.SessionTTL)
		checks = append(checks, handler.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return redisdb.Ping(ctx, rdb, pingTimeout)
		}})
	} else {
		log.Warn().Msg("REDIS_ADDR not set, credentials are kept in memory")
	}

	// --- Audit trail ---
	var audit ports.AuditSink
	var dispatcher *queue.Dispatcher
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if !cfg.Mongo.DisableAuditLog {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

		repo := mongodb.NewAuditRepository(db, cfg.Mongo.AuditRetention)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		dispatcher = queue.NewDispatcher(cfg.Mongo.AuditWorkers, service.NewAuditService(repo, log), log)
		dispatcher.Start(workerCtx)
		audit = dispatcher

		checks = append(checks, handler.Check{Name: "mongodb", Ping: func(ctx context.Context) error {
			return mongodb.Ping(ctx, client, pingTimeout)
		}})
	}

	// --- Backend ---
	breaker := restclient.NewBreaker("backend", restclient.BreakerSettings{
		FailureThreshold: cfg.Backend.BreakerFailures,
		OpenTimeout:      cfg.Backend.BreakerOpenTimeout,
	})
	checks = append(checks, handler.Check{Name: "backend", Optional: true, Ping: func(context.Context) error {
		if breaker.State() == gobreaker.StateOpen {
			return gobreaker.ErrOpenState
		}
		return nil
	}})

	tokens := service.NewTokenService(cfg.SessionSecret, cfg.SessionTTL)
	factory := app.NewWorkspaceFactory(app.WorkspaceDeps{
		BackendURL:  cfg.Backend.URL,
		HTTPClient:  &http.Client{Timeout: cfg.Backend.Timeout},
		Breaker:     breaker,
		Credentials: creds,
		Tokens:      tokens,
		Audit:       audit,
		Session: service.SessionOptions{
			DemoMode:            cfg.DemoMode,
			OfflineRegistration: cfg.OfflineRegistration,
		},
		SearchMinChars: cfg.SearchMinChars,
		Logger:         log,
	})
	sessions := service.NewSessionManager(factory, cfg.IdleTTL, log)
	go sessions.Run(workerCtx, sweepInterval)

	e := api.NewRouter(api.Deps{
		Sessions:      sessions,
		Tokens:        tokens,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: !cfg.IsDevelopment(),
		Checks:        checks,
		Logger:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.URL).Bool("demo_mode", cfg.DemoMode).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Int("sessions", sessions.Len()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	sessions.Shutdown()
	cancelWorkers()
	if dispatcher != nil {
		dispatcher.Wait()
	}
	log.Info().Msg("stopped")
	return nil
}
