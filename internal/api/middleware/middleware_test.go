package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hoardly/dashboard/internal/app"
	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/core/service"
	"github.com/hoardly/dashboard/internal/infrastructure/credmem"
)

// blockingStore holds Load until release is closed.
type blockingStore struct {
	release chan struct{}
	cred    domain.Credential
}

func (s *blockingStore) Load(ctx context.Context) (domain.Credential, error) {
	<-s.release
	return s.cred, nil
}

func (s *blockingStore) Save(context.Context, domain.Credential) error { return nil }
func (s *blockingStore) Clear(context.Context) error                   { return nil }

type fixture struct {
	e        *echo.Echo
	manager  *service.SessionManager
	tokens   *service.TokenService
	sessions SessionConfig
}

func newFixture(t *testing.T, creds app.CredentialProvider) *fixture {
	t.Helper()
	tokens := service.NewTokenService("test-secret", time.Hour)
	factory := app.NewWorkspaceFactory(app.WorkspaceDeps{
		BackendURL:  "http://127.0.0.1:1",
		HTTPClient:  &http.Client{Timeout: time.Second},
		Credentials: creds,
		Tokens:      tokens,
		Session:     service.SessionOptions{DemoMode: true},
		Logger:      zerolog.Nop(),
	})
	manager := service.NewSessionManager(factory, time.Hour, zerolog.Nop())
	t.Cleanup(manager.Shutdown)

	return &fixture{
		e:       echo.New(),
		manager: manager,
		tokens:  tokens,
		sessions: SessionConfig{
			Manager:       manager,
			Tokens:        tokens,
			TTL:           time.Hour,
			BootstrapWait: 500 * time.Millisecond,
		},
	}
}

// serve runs next behind Session and then the given guard.
func (f *fixture) serve(req *http.Request, guard echo.MiddlewareFunc) (*httptest.ResponseRecorder, *service.Workspace) {
	var seen *service.Workspace
	next := func(c echo.Context) error {
		seen, _ = WorkspaceFrom(c)
		return c.NoContent(http.StatusNoContent)
	}
	h := Session(f.sessions)(guard(next))

	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	if err := h(c); err != nil {
		f.e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func sidCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	return nil
}

func redirectOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return body.Redirect
}

func TestSession_IssuesAndReusesCookie(t *testing.T) {
	f := newFixture(t, credmem.New())

	rec, first := f.serve(httptest.NewRequest(http.MethodGet, "/api/session", nil), passThrough)
	ck := sidCookie(rec)
	if ck == nil || !ck.HttpOnly || ck.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected HttpOnly lax sid cookie, got %+v", ck)
	}
	if first == nil {
		t.Fatalf("expected workspace in context")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(ck)
	rec, second := f.serve(req, passThrough)
	if second != first {
		t.Fatalf("expected the same workspace for a valid cookie")
	}
	if sidCookie(rec) != nil {
		t.Fatalf("expected no new cookie for a known session")
	}
	if n := f.manager.Len(); n != 1 {
		t.Fatalf("expected 1 session, got %d", n)
	}
}

func TestSession_ForgedCookieStartsFresh(t *testing.T) {
	f := newFixture(t, credmem.New())

	other := service.NewTokenService("other-secret", time.Hour)
	forged, err := other.IssueSession("someone-else")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: forged})
	rec, ws := f.serve(req, passThrough)

	if ws == nil || ws.ID == "someone-else" {
		t.Fatalf("expected a fresh workspace, got %+v", ws)
	}
	if sidCookie(rec) == nil {
		t.Fatalf("expected a replacement cookie")
	}
}

func TestSession_BootstrapsBeforeHandler(t *testing.T) {
	store := credmem.New()
	f := newFixture(t, store)

	_, ws := f.serve(httptest.NewRequest(http.MethodGet, "/", nil), passThrough)
	if snap := ws.Session.Snapshot(); snap.IsLoading {
		t.Fatalf("expected bootstrap finished, got %+v", snap)
	}
}

func TestGuard_LoadingWhileBootstrapPending(t *testing.T) {
	store := &blockingStore{release: make(chan struct{})}
	f := newFixture(t, app.Single{Store: store})
	t.Cleanup(func() { close(store.release) })
	f.sessions.BootstrapWait = 20 * time.Millisecond

	rec, _ := f.serve(httptest.NewRequest(http.MethodGet, "/api/dashboard", nil), Guard())
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var body loadingResponse
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Status != "loading" {
		t.Fatalf("expected loading status, got %+v", body)
	}
}

func TestGuard_Anonymous(t *testing.T) {
	f := newFixture(t, credmem.New())

	rec, _ := f.serve(httptest.NewRequest(http.MethodGet, "/api/dashboard", nil), Guard())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := redirectOf(t, rec); got != domain.LoginRoute {
		t.Fatalf("expected redirect to %s, got %q", domain.LoginRoute, got)
	}
}

func TestGuard_Roles(t *testing.T) {
	store := &blockingStore{release: make(chan struct{}), cred: domain.Credential{Token: "t", Email: "owner@demo.com"}}
	close(store.release)
	f := newFixture(t, app.Single{Store: store})

	// The backend is unreachable, so the demo credential resolves locally.
	rec, _ := f.serve(httptest.NewRequest(http.MethodGet, "/api/hoardings", nil), Guard(domain.RoleOwner))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected owner allowed, got %d", rec.Code)
	}

	rec, _ = f.serve(httptest.NewRequest(http.MethodGet, "/api/client/contracts", nil), Guard(domain.RoleClient))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := redirectOf(t, rec); got != "/unauthorized" {
		t.Fatalf("expected redirect to /unauthorized, got %q", got)
	}
}

func TestGuard_NoWorkspace(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	h := Guard()(func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

var _ ports.CredentialStore = (*blockingStore)(nil)
