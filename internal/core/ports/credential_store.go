package ports

import (
	"context"

	"github.com/hoardly/dashboard/internal/core/domain"
)

// CredentialStore is the durable home of the persisted credential.
// Load returns an empty Credential, not an error, when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (domain.Credential, error)
	Save(ctx context.Context, cred domain.Credential) error
	Clear(ctx context.Context) error
}
