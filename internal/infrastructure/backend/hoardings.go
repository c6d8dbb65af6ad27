package backend

import (
	"context"
	"net/url"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

var _ ports.HoardingAPI = (*Hoardings)(nil)

// Hoardings wraps /api/hoardings.
type Hoardings struct {
	base
}

func hoardingID(h domain.Hoarding) string { return h.ID }

func (s *Hoardings) List(ctx context.Context, f ports.HoardingFilter) (domain.Result[[]domain.Hoarding], error) {
	return readThrough(ctx, s.base, "hoardings",
		func(ctx context.Context) ([]domain.Hoarding, error) {
			var out []domain.Hoarding
			err := s.client.Get(ctx, "/api/hoardings", f, &out)
			return out, err
		},
		all(sampleHoardings()),
	)
}

func (s *Hoardings) Get(ctx context.Context, id string) (domain.Result[domain.Hoarding], error) {
	return readThrough(ctx, s.base, "hoarding",
		func(ctx context.Context) (domain.Hoarding, error) {
			var out domain.Hoarding
			err := s.client.Get(ctx, "/api/hoardings/"+url.PathEscape(id), nil, &out)
			return out, err
		},
		one(sampleHoardings(), id, hoardingID),
	)
}

func (s *Hoardings) Create(ctx context.Context, in ports.HoardingInput) (*domain.Hoarding, error) {
	var out domain.Hoarding
	if err := s.client.Post(ctx, "/api/hoardings", in, &out); err != nil {
		return nil, mutate("create hoarding", err)
	}
	return &out, nil
}

func (s *Hoardings) Update(ctx context.Context, id string, in ports.HoardingInput) (*domain.Hoarding, error) {
	var out domain.Hoarding
	if err := s.client.Put(ctx, "/api/hoardings/"+url.PathEscape(id), in, &out); err != nil {
		return nil, mutate("update hoarding", err)
	}
	return &out, nil
}

func (s *Hoardings) Delete(ctx context.Context, id string) error {
	return mutate("delete hoarding", s.client.Delete(ctx, "/api/hoardings/"+url.PathEscape(id)))
}
