// Package app assembles per-session workspaces from the backend modules, the
// session service and the search flow. The BFF and the CLI share it.
package app

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/core/service"
	"github.com/hoardly/dashboard/internal/infrastructure/backend"
	"github.com/hoardly/dashboard/internal/infrastructure/notify"
	"github.com/hoardly/dashboard/internal/infrastructure/restclient"
)

// CredentialProvider hands out the credential slot of a session.
type CredentialProvider interface {
	For(sessionID string) ports.CredentialStore
}

// Single serves one credential store to every session, as the CLI has only
// one user.
type Single struct {
	Store ports.CredentialStore
}

func (s Single) For(string) ports.CredentialStore { return s.Store }

// WorkspaceDeps are shared by every workspace the factory builds.
type WorkspaceDeps struct {
	BackendURL string
	// HTTPClient and Breaker are shared so sessions pool connections and
	// trip together when the backend goes down.
	HTTPClient     *http.Client
	Breaker        *gobreaker.CircuitBreaker
	Credentials    CredentialProvider
	Tokens         *service.TokenService
	Audit          ports.AuditSink
	Session        service.SessionOptions
	SearchMinChars int
	Logger         zerolog.Logger
}

// NewWorkspaceFactory returns a factory that gives every session its own
// REST client, and with it its own bearer token and notification queue.
func NewWorkspaceFactory(d WorkspaceDeps) service.WorkspaceFactory {
	return func(id string) *service.Workspace {
		queue := notify.NewQueue(0)
		log := d.Logger.With().Str("session_id", id).Logger()

		client := restclient.New(restclient.Config{
			BaseURL:    d.BackendURL,
			HTTPClient: d.HTTPClient,
			Breaker:    d.Breaker,
			Notifier:   queue,
			Logger:     log,
		})
		svcs := backend.NewServices(client, queue, log)

		session := service.NewSessionService(id, service.SessionDeps{
			Auth:        svcs.Auth,
			Tokens:      client,
			Credentials: d.Credentials.For(id),
			Issuer:      d.Tokens,
			Notifier:    queue,
			Audit:       d.Audit,
			Logger:      d.Logger,
		}, d.Session)

		return &service.Workspace{
			ID:      id,
			Session: session,
			Search:  service.NewSearchFlow(svcs.Search, backend.SampleSearchResults, queue, d.SearchMinChars, log),
			Dashboard: service.NewDashboardService(service.DashboardAPIs{
				Hoardings:   svcs.Hoardings,
				Contracts:   svcs.Contracts,
				Billings:    svcs.Billings,
				Photos:      svcs.Photos,
				Assignments: svcs.Assignments,
			}),
			Resources: service.Resources{
				Users:       svcs.Users,
				Clients:     svcs.Clients,
				Hoardings:   svcs.Hoardings,
				Contracts:   svcs.Contracts,
				Billings:    svcs.Billings,
				Photos:      svcs.Photos,
				Assignments: svcs.Assignments,
				Search:      svcs.Search,
			},
			Notifications: queue,
		}
	}
}
