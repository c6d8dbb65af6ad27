// Package credmem keeps persisted credentials in process memory. The BFF
// uses it when no Redis is configured; credentials then last until restart.
package credmem

import (
	"context"
	"sync"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

type Store struct {
	mu    sync.Mutex
	creds map[string]domain.Credential
}

func New() *Store {
	return &Store{creds: make(map[string]domain.Credential)}
}

// For returns the credential slot of one session.
func (s *Store) For(sessionID string) ports.CredentialStore {
	return slot{store: s, id: sessionID}
}

type slot struct {
	store *Store
	id    string
}

func (c slot) Load(_ context.Context) (domain.Credential, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.store.creds[c.id], nil
}

func (c slot) Save(_ context.Context, cred domain.Credential) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.creds[c.id] = cred
	return nil
}

func (c slot) Clear(_ context.Context) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	delete(c.store.creds, c.id)
	return nil
}
