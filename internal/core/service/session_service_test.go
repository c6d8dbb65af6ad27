package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

type sessionFixture struct {
	svc      *SessionService
	auth     *stubAuthAPI
	tokens   *stubTokens
	creds    *memCredentials
	notifier *recordingNotifier
	audit    *recordingAudit
}

func newSessionFixture(opts SessionOptions) *sessionFixture {
	f := &sessionFixture{
		auth:     &stubAuthAPI{},
		tokens:   &stubTokens{},
		creds:    &memCredentials{},
		notifier: &recordingNotifier{},
		audit:    &recordingAudit{},
	}
	f.svc = NewSessionService("sid-test", SessionDeps{
		Auth:        f.auth,
		Tokens:      f.tokens,
		Credentials: f.creds,
		Issuer:      NewTokenService("secret", time.Hour),
		Notifier:    f.notifier,
		Audit:       f.audit,
		Logger:      zerolog.Nop(),
	}, opts)
	return f
}

func demoOpts() SessionOptions { return SessionOptions{DemoMode: true} }

func alice() *domain.User {
	return &domain.User{ID: "u-1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleOwner, Phone: "+1 555"}
}

// ---------------------------------------------------------------------------
// Bootstrap
// ---------------------------------------------------------------------------

func TestSession_StartsLoading(t *testing.T) {
	f := newSessionFixture(demoOpts())

	s := f.svc.Snapshot()
	if !s.IsLoading {
		t.Fatalf("expected a new session to be loading")
	}
	if got := f.svc.Authorize(); got != domain.AccessLoading {
		t.Fatalf("expected AccessLoading before bootstrap, got %s", got)
	}
}

func TestBootstrap_NoCredential(t *testing.T) {
	f := newSessionFixture(demoOpts())

	s := f.svc.Bootstrap(context.Background())
	if s.IsLoading || s.IsAuthenticated {
		t.Fatalf("expected loaded and unauthenticated, got %+v", s)
	}
	if f.auth.profileCalls != 0 {
		t.Fatalf("expected no profile fetch, got %d", f.auth.profileCalls)
	}
	if got := f.svc.Authorize(); got != domain.AccessRedirectLogin {
		t.Fatalf("expected redirect to login, got %s", got)
	}
}

func TestBootstrap_ProfileSuccess(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.creds.cred = domain.Credential{Token: "tok-1", Email: "alice@example.com"}
	f.auth.profileFn = func() (*domain.User, error) { return alice(), nil }

	s := f.svc.Bootstrap(context.Background())
	if s.IsLoading || !s.IsAuthenticated {
		t.Fatalf("expected authenticated session, got %+v", s)
	}
	if s.Provenance != domain.ProvenanceLive {
		t.Fatalf("expected live provenance, got %s", s.Provenance)
	}
	if s.Token != "tok-1" || f.tokens.get() != "tok-1" {
		t.Fatalf("expected token installed, got session=%q client=%q", s.Token, f.tokens.get())
	}
	if s.User.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", s.User)
	}
}

func TestBootstrap_ProfileServerError_DemoClientFallback(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.creds.cred = domain.Credential{Token: "tok-demo", Email: "client@demo.com"}
	f.auth.profileFn = func() (*domain.User, error) {
		return nil, statusError{status: 500, message: "internal server error"}
	}

	s := f.svc.Bootstrap(context.Background())
	if s.IsLoading {
		t.Fatalf("expected isLoading=false")
	}
	if !s.IsAuthenticated {
		t.Fatalf("expected authenticated fallback session")
	}
	want, _ := domain.DemoAccount("client@demo.com")
	if !reflect.DeepEqual(s.User, want) {
		t.Fatalf("expected demo client record %+v, got %+v", want, s.User)
	}
	if s.Provenance != domain.ProvenanceFallback {
		t.Fatalf("expected fallback provenance, got %s", s.Provenance)
	}
}

func TestBootstrap_ProfileFailure_UnknownEmailLogsOut(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.creds.cred = domain.Credential{Token: "tok-old", Email: "someone@example.com"}
	f.auth.profileFn = func() (*domain.User, error) {
		return nil, statusError{status: 401, message: "token expired"}
	}

	s := f.svc.Bootstrap(context.Background())
	if s.IsLoading || s.IsAuthenticated {
		t.Fatalf("expected loaded and unauthenticated, got %+v", s)
	}
	if !f.creds.cred.Empty() || f.creds.cred.Email != "" {
		t.Fatalf("expected credential cleared, got %+v", f.creds.cred)
	}
	if f.tokens.get() != "" {
		t.Fatalf("expected client token cleared, got %q", f.tokens.get())
	}
}

func TestBootstrap_DemoModeOff_NoFallback(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	f.creds.cred = domain.Credential{Token: "tok-demo", Email: "client@demo.com"}

	s := f.svc.Bootstrap(context.Background())
	if s.IsAuthenticated {
		t.Fatalf("expected demo fallback disabled outside demo mode")
	}
	if s.IsLoading {
		t.Fatalf("expected isLoading=false")
	}
}

func TestBootstrap_RunsOnce(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.creds.cred = domain.Credential{Token: "tok-1", Email: "alice@example.com"}
	f.auth.profileFn = func() (*domain.User, error) { return alice(), nil }

	f.svc.Bootstrap(context.Background())
	f.svc.Bootstrap(context.Background())
	if f.auth.profileCalls != 1 {
		t.Fatalf("expected a single profile fetch, got %d", f.auth.profileCalls)
	}
}

func TestBootstrap_AlwaysEndsLoaded(t *testing.T) {
	cases := []struct {
		name    string
		cred    domain.Credential
		profile func() (*domain.User, error)
	}{
		{"no token", domain.Credential{}, nil},
		{"profile success", domain.Credential{Token: "t", Email: "alice@example.com"}, func() (*domain.User, error) { return alice(), nil }},
		{"fallback", domain.Credential{Token: "t", Email: "owner@demo.com"}, nil},
		{"total failure", domain.Credential{Token: "t", Email: "x@example.com"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSessionFixture(demoOpts())
			f.creds.cred = tc.cred
			f.auth.profileFn = tc.profile

			if s := f.svc.Bootstrap(context.Background()); s.IsLoading {
				t.Fatalf("expected isLoading=false")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestLogin_DemoAccountsSkipNetwork(t *testing.T) {
	for _, email := range []string{"owner@demo.com", "photographer@demo.com", "client@demo.com"} {
		t.Run(email, func(t *testing.T) {
			f := newSessionFixture(demoOpts())
			f.svc.Bootstrap(context.Background())

			s, err := f.svc.Login(context.Background(), email, "anything")
			if err != nil {
				t.Fatalf("Login returned error: %v", err)
			}
			if f.auth.loginCalls != 0 {
				t.Fatalf("expected no network call, got %d", f.auth.loginCalls)
			}
			want, _ := domain.DemoAccount(email)
			if !s.IsAuthenticated || !reflect.DeepEqual(s.User, want) {
				t.Fatalf("expected demo record %+v, got %+v", want, s)
			}
			if s.Token == "" || f.tokens.get() != s.Token {
				t.Fatalf("expected synthesized token installed on the client")
			}
			if f.creds.cred.Email != email || f.creds.cred.Token != s.Token {
				t.Fatalf("expected credential persisted, got %+v", f.creds.cred)
			}
			if got := f.notifier.last().Level; got != domain.LevelSuccess {
				t.Fatalf("expected success notification, got %s", got)
			}
		})
	}
}

func TestLogin_DemoEmailOutsideDemoModeUsesNetwork(t *testing.T) {
	f := newSessionFixture(SessionOptions{})

	if _, err := f.svc.Login(context.Background(), "owner@demo.com", "pw"); err == nil {
		t.Fatalf("expected network failure")
	}
	if f.auth.loginCalls != 1 {
		t.Fatalf("expected one network call, got %d", f.auth.loginCalls)
	}
}

func TestLogin_UnreachableBackend(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.svc.Bootstrap(context.Background())

	_, err := f.svc.Login(context.Background(), "unknown@x.com", "pw")
	if err == nil {
		t.Fatalf("expected error")
	}

	s := f.svc.Snapshot()
	if !strings.Contains(s.LastError, "Login failed") {
		t.Fatalf("expected lastError to contain %q, got %q", "Login failed", s.LastError)
	}
	if s.IsAuthenticated || s.User != nil || s.Token != "" {
		t.Fatalf("expected no identity installed, got %+v", s)
	}
	if got := f.notifier.last(); got.Level != domain.LevelError || !strings.Contains(got.Message, "Network error") {
		t.Fatalf("expected error notification with transport message, got %+v", got)
	}
	if !f.creds.cred.Empty() {
		t.Fatalf("expected nothing persisted, got %+v", f.creds.cred)
	}
}

func TestLogin_ServerMessagePreferred(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.auth.loginFn = func(string, string) (string, *domain.User, error) {
		return "", nil, statusError{status: 401, message: "Invalid email or password"}
	}

	f.svc.Login(context.Background(), "alice@example.com", "bad")
	if got := f.svc.Snapshot().LastError; got != "Login failed: Invalid email or password" {
		t.Fatalf("unexpected lastError: %q", got)
	}
}

func TestLogin_Success(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.svc.Bootstrap(context.Background())
	f.auth.loginFn = func(email, password string) (string, *domain.User, error) {
		if email != "alice@example.com" || password != "pw" {
			t.Fatalf("unexpected credentials %q %q", email, password)
		}
		return "tok-live", alice(), nil
	}

	s, err := f.svc.Login(context.Background(), "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !s.IsAuthenticated || s.Provenance != domain.ProvenanceLive {
		t.Fatalf("expected live authenticated session, got %+v", s)
	}
	if f.tokens.get() != "tok-live" {
		t.Fatalf("expected client token set, got %q", f.tokens.get())
	}
	want := domain.Credential{Token: "tok-live", Email: "alice@example.com"}
	if f.creds.cred != want {
		t.Fatalf("expected %+v persisted, got %+v", want, f.creds.cred)
	}
	if got := f.svc.Authorize(domain.RoleClient); got != domain.AccessRedirectUnauthorized {
		t.Fatalf("expected owner to be refused a client view, got %s", got)
	}
	if got := f.svc.Authorize(domain.RoleOwner); got != domain.AccessAllow {
		t.Fatalf("expected owner allowed, got %s", got)
	}
}

func TestLogin_BeforeBootstrapEndsLoading(t *testing.T) {
	f := newSessionFixture(demoOpts())

	f.svc.Login(context.Background(), "owner@demo.com", "")
	f.svc.Bootstrap(context.Background())

	s := f.svc.Snapshot()
	if s.IsLoading || !s.IsAuthenticated {
		t.Fatalf("expected login to stand after a late bootstrap, got %+v", s)
	}
	if f.auth.profileCalls != 0 {
		t.Fatalf("expected bootstrap skipped, got %d profile calls", f.auth.profileCalls)
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func validRegistration() ports.RegisterInput {
	return ports.RegisterInput{
		Name:        "Ravi",
		Email:       "Ravi@Example.com",
		Password:    "secret1",
		Role:        "client",
		CompanyName: "Ravi Foods",
	}
}

func TestRegister_Success(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	f.auth.registerFn = func(in ports.RegisterInput) (string, *domain.User, error) {
		return "tok-new", &domain.User{ID: "u-9", Name: in.Name, Email: "ravi@example.com", Role: domain.RoleClient}, nil
	}

	s, err := f.svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !s.IsAuthenticated || s.Provenance != domain.ProvenanceLive {
		t.Fatalf("expected live session, got %+v", s)
	}
	if f.creds.cred.Token != "tok-new" || f.creds.cred.Email != "ravi@example.com" {
		t.Fatalf("unexpected credential: %+v", f.creds.cred)
	}
}

func TestRegister_OfflineFallback(t *testing.T) {
	f := newSessionFixture(SessionOptions{OfflineRegistration: true})

	s, err := f.svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !s.IsAuthenticated || s.Provenance != domain.ProvenanceFallback {
		t.Fatalf("expected local fallback session, got %+v", s)
	}
	if !strings.HasPrefix(s.User.ID, "local-") || s.User.Role != domain.RoleClient || s.User.CompanyName != "Ravi Foods" {
		t.Fatalf("expected local account built from the form, got %+v", s.User)
	}
	if got := f.notifier.last(); got.Level != domain.LevelSuccess || !strings.Contains(got.Message, "locally") {
		t.Fatalf("expected success notification about the local account, got %+v", got)
	}
	kinds := f.audit.kinds()
	if kinds[len(kinds)-1] != domain.EventRegisterOffline {
		t.Fatalf("expected register_offline audit event, got %v", kinds)
	}
}

func TestRegister_OfflineDisabled(t *testing.T) {
	f := newSessionFixture(SessionOptions{})

	_, err := f.svc.Register(context.Background(), validRegistration())
	if err == nil {
		t.Fatalf("expected error")
	}
	s := f.svc.Snapshot()
	if s.IsAuthenticated || !strings.Contains(s.LastError, "Registration failed") {
		t.Fatalf("expected failed registration, got %+v", s)
	}
}

func TestRegister_RejectionIsNotMaskedOffline(t *testing.T) {
	f := newSessionFixture(SessionOptions{OfflineRegistration: true})
	f.auth.registerFn = func(ports.RegisterInput) (string, *domain.User, error) {
		return "", nil, statusError{status: 409, message: "Email already registered"}
	}

	if _, err := f.svc.Register(context.Background(), validRegistration()); err == nil {
		t.Fatalf("expected conflict to be returned")
	}
	if got := f.svc.Snapshot().LastError; got != "Registration failed: Email already registered" {
		t.Fatalf("unexpected lastError: %q", got)
	}
}

func TestRegister_InvalidInputSkipsNetwork(t *testing.T) {
	f := newSessionFixture(SessionOptions{OfflineRegistration: true})
	in := validRegistration()
	in.Email = "not-an-email"

	if _, err := f.svc.Register(context.Background(), in); err == nil {
		t.Fatalf("expected validation error")
	}
	if f.auth.registerCalls != 0 {
		t.Fatalf("expected no network call, got %d", f.auth.registerCalls)
	}
	if got := f.svc.Snapshot().LastError; !strings.Contains(got, "email must be a valid email") {
		t.Fatalf("unexpected lastError: %q", got)
	}
}

// ---------------------------------------------------------------------------
// Logout / UpdateUser
// ---------------------------------------------------------------------------

func TestLogout_ClearsEverything(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.auth.loginFn = func(string, string) (string, *domain.User, error) { return "tok-live", alice(), nil }
	f.svc.Login(context.Background(), "alice@example.com", "pw")

	f.svc.Logout(context.Background())
	f.svc.Close()

	s := f.svc.Snapshot()
	if s.IsAuthenticated || s.User != nil || s.Token != "" {
		t.Fatalf("expected empty session, got %+v", s)
	}
	if f.creds.cred.Token != "" || f.creds.cred.Email != "" {
		t.Fatalf("expected storage cleared, got %+v", f.creds.cred)
	}
	if f.tokens.get() != "" {
		t.Fatalf("expected client token cleared")
	}
	if len(f.auth.loggedOut) != 1 || f.auth.loggedOut[0] != "tok-live" {
		t.Fatalf("expected backend logout with the old token, got %v", f.auth.loggedOut)
	}
}

func TestLogout_DemoSessionSkipsBackend(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.svc.Login(context.Background(), "owner@demo.com", "")

	f.svc.Logout(context.Background())
	f.svc.Close()

	if len(f.auth.loggedOut) != 0 {
		t.Fatalf("expected no backend logout for a local token, got %v", f.auth.loggedOut)
	}
}

func TestUpdateUser_RoundTrip(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.svc.Login(context.Background(), "client@demo.com", "")

	updated := domain.User{
		ID:          "demo-client",
		Name:        "Chitra C.",
		Email:       "client@demo.com",
		Role:        domain.RoleClient,
		Avatar:      "https://cdn.example.com/a.png",
		Phone:       "+91 1",
		Location:    "Chennai",
		CompanyName: "Brightside",
		Website:     "https://brightside.example.com",
		Address:     "1 Beach Road",
	}
	if _, err := f.svc.UpdateUser(updated); err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}

	got := f.svc.Snapshot().User
	if !reflect.DeepEqual(*got, updated) {
		t.Fatalf("expected %+v, got %+v", updated, *got)
	}
}

func TestUpdateUser_KeepsRole(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.svc.Login(context.Background(), "client@demo.com", "")

	f.svc.UpdateUser(domain.User{ID: "demo-client", Name: "X", Role: domain.RoleOwner})
	if got := f.svc.Snapshot().Role(); got != domain.RoleClient {
		t.Fatalf("expected role to stay client, got %s", got)
	}
}

func TestUpdateUser_Unauthenticated(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.svc.Bootstrap(context.Background())

	if _, err := f.svc.UpdateUser(*alice()); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	f := newSessionFixture(demoOpts())
	f.svc.Login(context.Background(), "owner@demo.com", "")

	s := f.svc.Snapshot()
	s.User.Name = "mutated"
	if f.svc.Snapshot().User.Name == "mutated" {
		t.Fatalf("expected snapshot to be detached from session state")
	}
}
