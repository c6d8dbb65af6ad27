package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/metrics"
)

const defaultIdleTTL = 30 * time.Minute

// Resources are the per-resource backend modules bound to one session's
// token.
type Resources struct {
	Users       ports.UserAPI
	Clients     ports.ClientAPI
	Hoardings   ports.HoardingAPI
	Contracts   ports.ContractAPI
	Billings    ports.BillingAPI
	Photos      ports.PhotoAPI
	Assignments ports.AssignmentAPI
	Search      ports.SearchAPI
}

// Workspace is everything one browser session owns: its session state, its
// search panel, its backend modules and its pending notifications.
type Workspace struct {
	ID            string
	Session       *SessionService
	Search        *SearchFlow
	Dashboard     *DashboardService
	Resources     Resources
	Notifications ports.NotificationQueue

	lastSeen time.Time
}

func (w *Workspace) close() {
	w.Search.Close()
	w.Session.Close()
}

// WorkspaceFactory builds the workspace for session id.
type WorkspaceFactory func(id string) *Workspace

// SessionManager maps opaque session ids to workspaces and evicts the ones
// left idle longer than the TTL.
type SessionManager struct {
	factory WorkspaceFactory
	idleTTL time.Duration
	log     zerolog.Logger
	now     func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewSessionManager(factory WorkspaceFactory, idleTTL time.Duration, log zerolog.Logger) *SessionManager {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &SessionManager{
		factory:    factory,
		idleTTL:    idleTTL,
		log:        log,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Create starts a workspace under a fresh random id.
func (m *SessionManager) Create() *Workspace {
	return m.Acquire(uuid.NewString())
}

// Acquire returns the workspace for id, creating it if this process has not
// seen id or has evicted it. A recreated workspace bootstraps again from the
// credential store, so an eviction does not log the user out.
func (m *SessionManager) Acquire(id string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ws, ok := m.workspaces[id]; ok {
		ws.lastSeen = m.now()
		return ws
	}
	ws := m.factory(id)
	ws.ID = id
	ws.lastSeen = m.now()
	m.workspaces[id] = ws
	metrics.ActiveSessions.Set(float64(len(m.workspaces)))
	m.log.Debug().Str("session_id", id).Msg("session created")
	return ws
}

// Len is the number of live workspaces.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

// Sweep evicts workspaces idle for longer than the TTL and returns how many
// were removed.
func (m *SessionManager) Sweep() int {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	var evicted []*Workspace
	for id, ws := range m.workspaces {
		if ws.lastSeen.Before(cutoff) {
			evicted = append(evicted, ws)
			delete(m.workspaces, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.workspaces)))
	m.mu.Unlock()

	for _, ws := range evicted {
		ws.close()
		m.log.Debug().Str("session_id", ws.ID).Msg("idle session evicted")
	}
	return len(evicted)
}

// Run sweeps every interval until ctx is cancelled.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.idleTTL / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.log.Info().Int("evicted", n).Msg("idle sessions evicted")
			}
		}
	}
}

// Shutdown closes every workspace.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	all := make([]*Workspace, 0, len(m.workspaces))
	for id, ws := range m.workspaces {
		all = append(all, ws)
		delete(m.workspaces, id)
	}
	metrics.ActiveSessions.Set(0)
	m.mu.Unlock()

	for _, ws := range all {
		ws.close()
	}
}
