package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/infrastructure/sealer"
)

const defaultCredentialTTL = 7 * 24 * time.Hour

// CredentialStore keeps each browser session's persisted credential in Redis.
// Key format: session:<session_id>:credential
// Values are sealed JSON when a sealer is configured; keys expire after ttl.
type CredentialStore struct {
	client *redis.Client
	sealer *sealer.Sealer
	ttl    time.Duration
}

// NewCredentialStore creates a CredentialStore wrapping the given Redis client.
// sealer may be nil, in which case values are stored as plain JSON.
func NewCredentialStore(client *redis.Client, s *sealer.Sealer, ttl time.Duration) *CredentialStore {
	if ttl <= 0 {
		ttl = defaultCredentialTTL
	}
	return &CredentialStore{client: client, sealer: s, ttl: ttl}
}

// For returns the credential slot of one session.
func (s *CredentialStore) For(sessionID string) ports.CredentialStore {
	return &sessionCredential{store: s, key: s.key(sessionID)}
}

func (s *CredentialStore) key(sessionID string) string {
	return fmt.Sprintf("session:%s:credential", sessionID)
}

func (s *CredentialStore) encode(cred domain.Credential) ([]byte, error) {
	b, err := json.Marshal(cred)
	if err != nil {
		return nil, err
	}
	if s.sealer == nil {
		return b, nil
	}
	return s.sealer.Seal(b)
}

func (s *CredentialStore) decode(raw []byte) (domain.Credential, error) {
	if s.sealer != nil {
		plain, err := s.sealer.Open(raw)
		if err != nil {
			return domain.Credential{}, err
		}
		raw = plain
	}
	var cred domain.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return domain.Credential{}, err
	}
	return cred, nil
}

type sessionCredential struct {
	store *CredentialStore
	key   string
}

// Load returns the stored credential, or an empty one when the key is absent.
// A value that cannot be opened is treated as absent and removed.
func (c *sessionCredential) Load(ctx context.Context) (domain.Credential, error) {
	raw, err := c.store.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Credential{}, nil
	}
	if err != nil {
		return domain.Credential{}, fmt.Errorf("load credential: %w", err)
	}
	cred, err := c.store.decode(raw)
	if err != nil {
		_ = c.store.client.Del(ctx, c.key).Err()
		return domain.Credential{}, nil
	}
	return cred, nil
}

// Save stores cred and refreshes its expiry.
func (c *sessionCredential) Save(ctx context.Context, cred domain.Credential) error {
	b, err := c.store.encode(cred)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return c.store.client.Set(ctx, c.key, b, c.store.ttl).Err()
}

// Clear removes the credential.
func (c *sessionCredential) Clear(ctx context.Context) error {
	return c.store.client.Del(ctx, c.key).Err()
}
