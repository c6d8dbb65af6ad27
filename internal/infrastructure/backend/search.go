package backend

import (
	"context"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

var _ ports.SearchAPI = (*Search)(nil)

// Search wraps the grouped /api/search endpoint.
type Search struct {
	base
}

func (s *Search) Search(ctx context.Context, p ports.SearchParams) (domain.Result[domain.SearchResultSet], error) {
	b := s.base
	if p.Quiet {
		b.notifier = nil
	}
	return readThrough(ctx, b, "search results",
		func(ctx context.Context) (domain.SearchResultSet, error) {
			var out domain.SearchResultSet
			err := s.client.Get(ctx, "/api/search", p, &out)
			return out, err
		},
		func() (domain.SearchResultSet, bool) { return SampleSearchResults(), true },
	)
}
