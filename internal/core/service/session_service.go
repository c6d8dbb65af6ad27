package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/metrics"
	"github.com/hoardly/dashboard/internal/pkg/validation"
)

const backgroundLogoutTimeout = 5 * time.Second

// SessionOptions toggles the offline shortcuts of a session.
type SessionOptions struct {
	// DemoMode makes the fixed demo emails resolve locally. Their password is
	// never checked, so it must stay off outside demos.
	DemoMode bool
	// OfflineRegistration lets a registration that could not reach the
	// backend continue with a local, non-durable account.
	OfflineRegistration bool
}

// SessionDeps are the collaborators of a SessionService.
type SessionDeps struct {
	Auth        ports.AuthAPI
	Tokens      ports.TokenHolder
	Credentials ports.CredentialStore
	Issuer      *TokenService
	Notifier    ports.Notifier
	Audit       ports.AuditSink
	Logger      zerolog.Logger
}

// SessionService owns "who is logged in" for one browser or CLI user. It is
// the only writer of the session state and of the client's bearer token;
// everything else reads snapshots.
type SessionService struct {
	id        string
	auth      ports.AuthAPI
	tokens    ports.TokenHolder
	creds     ports.CredentialStore
	issuer    *TokenService
	notifier  ports.Notifier
	audit     ports.AuditSink
	validator *validation.Validator
	opts      SessionOptions
	log       zerolog.Logger

	boot sync.Once
	bg   sync.WaitGroup

	mu    sync.RWMutex
	state domain.Session
}

// NewSessionService returns a session in its initial loading state.
func NewSessionService(id string, deps SessionDeps, opts SessionOptions) *SessionService {
	return &SessionService{
		id:        id,
		auth:      deps.Auth,
		tokens:    deps.Tokens,
		creds:     deps.Credentials,
		issuer:    deps.Issuer,
		notifier:  deps.Notifier,
		audit:     deps.Audit,
		validator: validation.New(),
		opts:      opts,
		log:       deps.Logger.With().Str("session_id", id).Logger(),
		state:     domain.Session{IsLoading: true},
	}
}

func (s *SessionService) ID() string { return s.id }

// Bootstrap resolves the persisted credential into a session. Only the first
// call does any work; concurrent callers wait for it to finish. It always
// leaves the session out of the loading state.
func (s *SessionService) Bootstrap(ctx context.Context) domain.Session {
	s.boot.Do(func() { s.bootstrap(ctx) })
	return s.Snapshot()
}

func (s *SessionService) bootstrap(ctx context.Context) {
	defer s.finishLoading()

	cred, err := s.creds.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load persisted credential")
		cred = domain.Credential{}
	}
	if cred.Empty() {
		s.record(domain.EventBootstrapEmpty, "", "", "no persisted credential")
		return
	}

	s.tokens.SetToken(cred.Token)
	user, err := s.auth.Profile(ctx)
	if err == nil {
		s.install(user, cred.Token, domain.ProvenanceLive)
		s.record(domain.EventBootstrapLive, user.Email, user.Role, "")
		return
	}

	if demo, ok := s.fallbackAccount(cred.Email); ok {
		s.log.Warn().Err(err).Str("email", demo.Email).Msg("profile fetch failed, using demo account")
		s.install(demo, cred.Token, domain.ProvenanceFallback)
		s.record(domain.EventBootstrapFallback, demo.Email, demo.Role, domain.MessageOf(err))
		return
	}

	s.log.Info().Err(err).Msg("persisted credential rejected, logging out")
	s.logout(ctx)
}

// settle ends the loading state for callers that act before Bootstrap ran:
// an explicit login supersedes whatever the persisted credential held.
func (s *SessionService) settle() {
	s.boot.Do(s.finishLoading)
}

// Login exchanges credentials for a session. Demo emails resolve locally
// without a network call when demo mode is on. On failure the previous state
// is kept, LastError is set and the error is returned.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	s.settle()
	email = strings.TrimSpace(email)
	if email == "" {
		return s.fail(domain.EventLoginFailed, "Login failed", email, domain.ErrInvalidCredentials)
	}

	if demo, ok := s.fallbackAccount(email); ok {
		token, err := s.issuer.IssueFallback(demo)
		if err != nil {
			return s.fail(domain.EventLoginFailed, "Login failed", email, err)
		}
		s.establish(ctx, token, demo, email, domain.ProvenanceFallback)
		s.notify(domain.LevelSuccess, fmt.Sprintf("Welcome, %s (demo account)", demo.Name))
		s.record(domain.EventLoginFallback, demo.Email, demo.Role, "")
		return s.Snapshot(), nil
	}

	token, user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return s.fail(domain.EventLoginFailed, "Login failed", email, err)
	}
	s.establish(ctx, token, user, email, domain.ProvenanceLive)
	s.notify(domain.LevelSuccess, "Welcome back, "+user.Name)
	s.record(domain.EventLogin, user.Email, user.Role, "")
	return s.Snapshot(), nil
}

// Register creates an account and logs into it. When the backend is
// unreachable and offline registration is enabled, a local account built from
// the form is installed instead and tagged as fallback.
func (s *SessionService) Register(ctx context.Context, in ports.RegisterInput) (domain.Session, error) {
	s.settle()
	if err := s.validator.Validate(in); err != nil {
		return s.failWith(domain.EventRegisterFailed, "Registration failed: "+validation.Message(err), in.Email, err)
	}

	token, user, err := s.auth.Register(ctx, in)
	if err == nil {
		s.establish(ctx, token, user, in.Email, domain.ProvenanceLive)
		s.notify(domain.LevelSuccess, "Account created. Welcome, "+user.Name)
		s.record(domain.EventRegister, user.Email, user.Role, "")
		return s.Snapshot(), nil
	}

	if !s.opts.OfflineRegistration || !domain.IsUnavailable(err) {
		return s.fail(domain.EventRegisterFailed, "Registration failed", in.Email, err)
	}

	local := localAccount(in)
	token, ierr := s.issuer.IssueFallback(local)
	if ierr != nil {
		return s.fail(domain.EventRegisterFailed, "Registration failed", in.Email, ierr)
	}
	s.log.Warn().Err(err).Str("email", local.Email).Msg("backend unreachable, registered local account")
	s.establish(ctx, token, local, in.Email, domain.ProvenanceFallback)
	s.notify(domain.LevelSuccess, "Account created locally. It will not be saved until the server is reachable")
	s.record(domain.EventRegisterOffline, local.Email, local.Role, domain.MessageOf(err))
	return s.Snapshot(), nil
}

// Logout forgets the credential and the in-memory identity, then revokes the
// token on the backend in the background.
func (s *SessionService) Logout(ctx context.Context) {
	s.settle()
	s.logout(ctx)
}

func (s *SessionService) logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.state
	s.state = domain.Session{}
	s.mu.Unlock()

	s.tokens.ClearToken()
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted credential")
	}

	var email string
	var role domain.Role
	if prev.User != nil {
		email, role = prev.User.Email, prev.User.Role
	}
	s.record(domain.EventLogout, email, role, "")

	if prev.Token == "" || prev.Provenance == domain.ProvenanceFallback {
		return
	}
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundLogoutTimeout)
		defer cancel()
		if err := s.auth.Logout(bgCtx, prev.Token); err != nil {
			s.log.Debug().Err(err).Msg("backend logout failed")
		}
	}()
}

// UpdateUser replaces the in-memory user record without re-validating the
// token. The installed role is kept.
func (s *SessionService) UpdateUser(user domain.User) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.IsAuthenticated || s.state.User == nil {
		return s.state, domain.ErrUnauthenticated
	}
	user.Role = s.state.User.Role
	s.state.User = &user
	return s.snapshotLocked(), nil
}

// Snapshot returns a copy of the session that shares no memory with it.
func (s *SessionService) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Authorize applies the route guard to the current session.
func (s *SessionService) Authorize(roles ...domain.Role) domain.Access {
	return domain.Authorize(s.Snapshot(), roles...)
}

// Close waits for background backend calls started by Logout.
func (s *SessionService) Close() {
	s.bg.Wait()
}

func (s *SessionService) snapshotLocked() domain.Session {
	snap := s.state
	snap.User = s.state.User.Clone()
	return snap
}

// establish installs token and user together, then persists the credential.
func (s *SessionService) establish(ctx context.Context, token string, user *domain.User, email string, prov domain.Provenance) {
	s.tokens.SetToken(token)
	s.install(user, token, prov)

	cred := domain.Credential{Token: token, Email: strings.ToLower(strings.TrimSpace(email))}
	if err := s.creds.Save(ctx, cred); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist credential")
	}
}

func (s *SessionService) install(user *domain.User, token string, prov domain.Provenance) {
	s.mu.Lock()
	s.state = domain.Session{
		User:            user.Clone(),
		Token:           token,
		IsAuthenticated: true,
		Provenance:      prov,
	}
	s.mu.Unlock()
}

func (s *SessionService) finishLoading() {
	s.mu.Lock()
	s.state.IsLoading = false
	s.mu.Unlock()
}

func (s *SessionService) fail(kind domain.SessionEventKind, prefix, email string, err error) (domain.Session, error) {
	return s.failWith(kind, prefix+": "+domain.MessageOf(err), email, err)
}

func (s *SessionService) failWith(kind domain.SessionEventKind, msg, email string, err error) (domain.Session, error) {
	s.mu.Lock()
	s.state.LastError = msg
	s.mu.Unlock()

	s.notify(domain.LevelError, msg)
	s.record(kind, email, "", msg)
	s.log.Info().Err(err).Str("email", email).Str("kind", string(kind)).Msg("authentication failed")

	if errors.Is(err, domain.ErrInvalidCredentials) {
		return s.Snapshot(), err
	}
	return s.Snapshot(), fmt.Errorf("%s: %w", msg, err)
}

func (s *SessionService) fallbackAccount(email string) (*domain.User, bool) {
	if !s.opts.DemoMode {
		return nil, false
	}
	return domain.DemoAccount(email)
}

func (s *SessionService) notify(level domain.Level, msg string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(domain.Notification{Level: level, Message: msg, At: time.Now()})
}

func (s *SessionService) record(kind domain.SessionEventKind, email string, role domain.Role, detail string) {
	metrics.SessionEventsTotal.WithLabelValues(string(kind)).Inc()
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.SessionEvent{
		SessionID: s.id,
		Kind:      kind,
		Email:     email,
		Role:      role,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}

// localAccount builds the non-durable account installed by an offline
// registration. Its role was validated with the rest of the form.
func localAccount(in ports.RegisterInput) *domain.User {
	role, _ := domain.ParseRole(in.Role)
	return &domain.User{
		ID:          "local-" + uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Role:        role,
		Phone:       in.Phone,
		Location:    in.Location,
		CompanyName: in.CompanyName,
		Website:     in.Website,
		Address:     in.Address,
	}
}
