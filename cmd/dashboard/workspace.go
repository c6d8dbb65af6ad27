package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/hoardly/dashboard/internal/app"
	"github.com/hoardly/dashboard/internal/core/service"
	"github.com/hoardly/dashboard/internal/infrastructure/credfile"
	"github.com/hoardly/dashboard/internal/infrastructure/notify"
	"github.com/hoardly/dashboard/internal/infrastructure/restclient"
	"github.com/hoardly/dashboard/internal/infrastructure/sealer"
)

const cliSessionID = "cli"

// openWorkspace builds the one workspace of a CLI invocation over the
// credential file and resolves the stored credential.
func openWorkspace(ctx context.Context) (*service.Workspace, error) {
	var seal *sealer.Sealer
	if cfg.CredentialKey != "" {
		s, err := sealer.New(cfg.CredentialKey, "cli-credentials")
		if err != nil {
			return nil, err
		}
		seal = s
	}
	store := credfile.New(cfg.CLI.CredentialsFile, seal)

	// Locally minted tokens are never verified by the CLI, only carried.
	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
	}

	factory := app.NewWorkspaceFactory(app.WorkspaceDeps{
		BackendURL: cfg.Backend.URL,
		HTTPClient: &http.Client{Timeout: cfg.Backend.Timeout},
		Breaker: restclient.NewBreaker("backend", restclient.BreakerSettings{
			FailureThreshold: cfg.Backend.BreakerFailures,
			OpenTimeout:      cfg.Backend.BreakerOpenTimeout,
		}),
		Credentials: app.Single{Store: store},
		Tokens:      service.NewTokenService(secret, cfg.SessionTTL),
		Session: service.SessionOptions{
			DemoMode:            cfg.DemoMode,
			OfflineRegistration: cfg.OfflineRegistration,
		},
		SearchMinChars: cfg.SearchMinChars,
		Logger:         log,
	})

	ws := factory(cliSessionID)
	ws.Session.Bootstrap(ctx)
	log.Debug().Str("credentials", store.Path()).Msg("session bootstrapped")
	return ws, nil
}

// closeWorkspace waits for background calls and prints what the session
// wants the user to know.
func closeWorkspace(ws *service.Workspace) {
	ws.Search.Close()
	ws.Session.Close()
	flushNotifications(ws)
}

func flushNotifications(ws *service.Workspace) {
	console := notify.NewConsole(os.Stderr)
	for _, n := range ws.Notifications.Drain() {
		console.Notify(n)
	}
}

// requireLogin fails when no user is logged in.
func requireLogin(ws *service.Workspace) error {
	if !ws.Session.Snapshot().IsAuthenticated {
		return fmt.Errorf("not logged in, run 'dashboard login' first")
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
