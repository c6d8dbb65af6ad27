package backend

import (
	"context"
	"net/url"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

var _ ports.ContractAPI = (*Contracts)(nil)

// Contracts wraps /api/contracts.
type Contracts struct {
	base
}

func contractID(c domain.Contract) string { return c.ID }

func (s *Contracts) List(ctx context.Context, f ports.ContractFilter) (domain.Result[[]domain.Contract], error) {
	return readThrough(ctx, s.base, "contracts",
		func(ctx context.Context) ([]domain.Contract, error) {
			var out []domain.Contract
			err := s.client.Get(ctx, "/api/contracts", f, &out)
			return out, err
		},
		all(sampleContracts()),
	)
}

// ListForClient returns the contracts of the logged-in client.
func (s *Contracts) ListForClient(ctx context.Context) (domain.Result[[]domain.Contract], error) {
	return readThrough(ctx, s.base, "contracts",
		func(ctx context.Context) ([]domain.Contract, error) {
			var out []domain.Contract
			err := s.client.Get(ctx, "/api/contracts/client", nil, &out)
			return out, err
		},
		all(sampleContracts()[:1]),
	)
}

func (s *Contracts) Get(ctx context.Context, id string) (domain.Result[domain.Contract], error) {
	return readThrough(ctx, s.base, "contract",
		func(ctx context.Context) (domain.Contract, error) {
			var out domain.Contract
			err := s.client.Get(ctx, "/api/contracts/"+url.PathEscape(id), nil, &out)
			return out, err
		},
		one(sampleContracts(), id, contractID),
	)
}

func (s *Contracts) Create(ctx context.Context, in ports.ContractInput) (*domain.Contract, error) {
	var out domain.Contract
	if err := s.client.Post(ctx, "/api/contracts", in, &out); err != nil {
		return nil, mutate("create contract", err)
	}
	return &out, nil
}

func (s *Contracts) Update(ctx context.Context, id string, in ports.ContractInput) (*domain.Contract, error) {
	var out domain.Contract
	if err := s.client.Put(ctx, "/api/contracts/"+url.PathEscape(id), in, &out); err != nil {
		return nil, mutate("update contract", err)
	}
	return &out, nil
}

func (s *Contracts) Delete(ctx context.Context, id string) error {
	return mutate("delete contract", s.client.Delete(ctx, "/api/contracts/"+url.PathEscape(id)))
}
