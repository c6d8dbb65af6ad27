package backend

import (
	"context"
	"net/url"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

var _ ports.ClientAPI = (*Clients)(nil)

// Clients wraps /api/clients.
type Clients struct {
	base
}

func clientID(c domain.Client) string { return c.ID }

func (s *Clients) List(ctx context.Context, p ports.Page) (domain.Result[[]domain.Client], error) {
	return readThrough(ctx, s.base, "clients",
		func(ctx context.Context) ([]domain.Client, error) {
			var out []domain.Client
			err := s.client.Get(ctx, "/api/clients", p, &out)
			return out, err
		},
		all(sampleClients()),
	)
}

func (s *Clients) Get(ctx context.Context, id string) (domain.Result[domain.Client], error) {
	return readThrough(ctx, s.base, "client",
		func(ctx context.Context) (domain.Client, error) {
			var out domain.Client
			err := s.client.Get(ctx, "/api/clients/"+url.PathEscape(id), nil, &out)
			return out, err
		},
		one(sampleClients(), id, clientID),
	)
}

func (s *Clients) Create(ctx context.Context, in ports.ClientInput) (*domain.Client, error) {
	var out domain.Client
	if err := s.client.Post(ctx, "/api/clients", in, &out); err != nil {
		return nil, mutate("create client", err)
	}
	return &out, nil
}

func (s *Clients) Update(ctx context.Context, id string, in ports.ClientInput) (*domain.Client, error) {
	var out domain.Client
	if err := s.client.Put(ctx, "/api/clients/"+url.PathEscape(id), in, &out); err != nil {
		return nil, mutate("update client", err)
	}
	return &out, nil
}

func (s *Clients) Delete(ctx context.Context, id string) error {
	return mutate("delete client", s.client.Delete(ctx, "/api/clients/"+url.PathEscape(id)))
}
