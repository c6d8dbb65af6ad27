package service

import (
	"context"
	"sync"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubAuthAPI struct {
	mu sync.Mutex

	loginFn    func(email, password string) (string, *domain.User, error)
	registerFn func(in ports.RegisterInput) (string, *domain.User, error)
	profileFn  func() (*domain.User, error)

	loginCalls    int
	registerCalls int
	profileCalls  int
	loggedOut     []string
}

func (a *stubAuthAPI) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	a.mu.Lock()
	a.loginCalls++
	a.mu.Unlock()
	if a.loginFn == nil {
		return "", nil, unavailableError{}
	}
	return a.loginFn(email, password)
}

func (a *stubAuthAPI) Register(_ context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	a.mu.Lock()
	a.registerCalls++
	a.mu.Unlock()
	if a.registerFn == nil {
		return "", nil, unavailableError{}
	}
	return a.registerFn(in)
}

func (a *stubAuthAPI) Profile(_ context.Context) (*domain.User, error) {
	a.mu.Lock()
	a.profileCalls++
	a.mu.Unlock()
	if a.profileFn == nil {
		return nil, unavailableError{}
	}
	return a.profileFn()
}

func (a *stubAuthAPI) Logout(_ context.Context, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedOut = append(a.loggedOut, token)
	return nil
}

type stubTokens struct {
	mu    sync.Mutex
	token string
}

func (t *stubTokens) SetToken(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

func (t *stubTokens) ClearToken() { t.SetToken("") }

func (t *stubTokens) get() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

type memCredentials struct {
	mu   sync.Mutex
	cred domain.Credential
}

func (m *memCredentials) Load(_ context.Context) (domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred, nil
}

func (m *memCredentials) Save(_ context.Context, cred domain.Credential) error {
	m.mu.Lock()
	m.cred = cred
	m.mu.Unlock()
	return nil
}

func (m *memCredentials) Clear(_ context.Context) error {
	m.mu.Lock()
	m.cred = domain.Credential{}
	m.mu.Unlock()
	return nil
}

type recordingNotifier struct {
	mu  sync.Mutex
	got []domain.Notification
}

func (n *recordingNotifier) Notify(note domain.Notification) {
	n.mu.Lock()
	n.got = append(n.got, note)
	n.mu.Unlock()
}

func (n *recordingNotifier) levels() []domain.Level {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Level, 0, len(n.got))
	for _, note := range n.got {
		out = append(out, note.Level)
	}
	return out
}

func (n *recordingNotifier) last() domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.got) == 0 {
		return domain.Notification{}
	}
	return n.got[len(n.got)-1]
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.SessionEvent
}

func (a *recordingAudit) Record(e domain.SessionEvent) {
	a.mu.Lock()
	a.events = append(a.events, e)
	a.mu.Unlock()
}

func (a *recordingAudit) kinds() []domain.SessionEventKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.SessionEventKind, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Kind)
	}
	return out
}

// unavailableError looks like a transport failure from the REST client.
type unavailableError struct{}

func (unavailableError) Error() string       { return "dial tcp 127.0.0.1:1: connect: connection refused" }
func (unavailableError) UserMessage() string { return "Network error: unable to reach the server" }
func (unavailableError) Unavailable() bool   { return true }

// statusError looks like an APIError from the REST client.
type statusError struct {
	status  int
	message string
}

func (e statusError) Error() string       { return e.message }
func (e statusError) UserMessage() string { return e.message }
func (e statusError) Unavailable() bool   { return e.status >= 500 }
