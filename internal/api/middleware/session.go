package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hoardly/dashboard/internal/core/service"
)

const (
	// CookieName holds the signed session id.
	CookieName = "sid"

	workspaceKey = "workspace"

	defaultBootstrapWait = 2 * time.Second
)

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	Manager *service.SessionManager
	Tokens  *service.TokenService
	// TTL is the cookie lifetime.
	TTL time.Duration
	// Secure marks the cookie HTTPS-only.
	Secure bool
	// BootstrapWait bounds how long a request waits for the session to
	// resolve its persisted credential before it is served as loading.
	BootstrapWait time.Duration
}

// Session resolves the sid cookie to a workspace and injects it into the
// context. A missing, forged or expired cookie starts a fresh session and
// sets a new cookie.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	wait := cfg.BootstrapWait
	if wait <= 0 {
		wait = defaultBootstrapWait
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var ws *service.Workspace
			if ck, err := c.Cookie(CookieName); err == nil {
				if sid, err := cfg.Tokens.ParseSession(ck.Value); err == nil {
					ws = cfg.Manager.Acquire(sid)
				}
			}
			if ws == nil {
				ws = cfg.Manager.Create()
				token, err := cfg.Tokens.IssueSession(ws.ID)
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(cfg.TTL.Seconds()),
				})
			}

			bootstrap(c.Request().Context(), ws, wait)
			WithWorkspace(c, ws)
			return next(c)
		}
	}
}

// bootstrap waits up to wait for the session's first credential check. The
// check itself outlives the request so an impatient client cannot abort it
// half way and lose the credential.
func bootstrap(ctx context.Context, ws *service.Workspace, wait time.Duration) {
	done := make(chan struct{})
	go func() {
		ws.Session.Bootstrap(context.WithoutCancel(ctx))
		close(done)
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	case <-ctx.Done():
	}
}

// WithWorkspace injects ws into the request context.
func WithWorkspace(c echo.Context, ws *service.Workspace) {
	c.Set(workspaceKey, ws)
}

// WorkspaceFrom returns the workspace injected by Session.
func WorkspaceFrom(c echo.Context) (*service.Workspace, bool) {
	ws, ok := c.Get(workspaceKey).(*service.Workspace)
	return ws, ok && ws != nil
}
