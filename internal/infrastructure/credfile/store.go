// Package credfile persists the CLI's credential as a YAML file in the user's
// config directory.
package credfile

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/infrastructure/sealer"
)

// document is the on-disk layout. With a sealer configured only Sealed is
// written; it holds the base64 sealed YAML of the credential.
type document struct {
	Token  string `yaml:"token,omitempty"`
	Email  string `yaml:"email,omitempty"`
	Sealed string `yaml:"sealed,omitempty"`
}

// Store reads and writes a single credential file.
type Store struct {
	path   string
	sealer *sealer.Sealer
}

var _ ports.CredentialStore = (*Store)(nil)

// New returns a store at path. s may be nil to keep the file in plain text.
func New(path string, s *sealer.Sealer) *Store {
	return &Store{path: path, sealer: s}
}

func (s *Store) Path() string { return s.path }

// Load returns an empty credential when the file is missing or unreadable as
// a credential.
func (s *Store) Load(_ context.Context) (domain.Credential, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Credential{}, nil
	}
	if err != nil {
		return domain.Credential{}, fmt.Errorf("read credential file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return domain.Credential{}, nil
	}
	if doc.Sealed == "" {
		return domain.Credential{Token: doc.Token, Email: doc.Email}, nil
	}
	if s.sealer == nil {
		return domain.Credential{}, nil
	}

	box, err := base64.StdEncoding.DecodeString(doc.Sealed)
	if err != nil {
		return domain.Credential{}, nil
	}
	plain, err := s.sealer.Open(box)
	if err != nil {
		return domain.Credential{}, nil
	}
	var cred domain.Credential
	if err := yaml.Unmarshal(plain, &cred); err != nil {
		return domain.Credential{}, nil
	}
	return cred, nil
}

// Save writes cred with owner-only permissions, creating the directory if
// needed.
func (s *Store) Save(_ context.Context, cred domain.Credential) error {
	doc := document{Token: cred.Token, Email: cred.Email}
	if s.sealer != nil {
		plain, err := yaml.Marshal(cred)
		if err != nil {
			return err
		}
		box, err := s.sealer.Seal(plain)
		if err != nil {
			return fmt.Errorf("seal credential: %w", err)
		}
		doc = document{Sealed: base64.StdEncoding.EncodeToString(box)}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the file. A missing file is not an error.
func (s *Store) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}
