package backend

import (
	"context"
	"net/url"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

var _ ports.PhotoAPI = (*Photos)(nil)

// Photos wraps /api/photos. Uploading is handled by the backend directly.
type Photos struct {
	base
}

func photoID(p domain.Photo) string { return p.ID }

func (s *Photos) List(ctx context.Context, f ports.PhotoFilter) (domain.Result[[]domain.Photo], error) {
	return readThrough(ctx, s.base, "photos",
		func(ctx context.Context) ([]domain.Photo, error) {
			var out []domain.Photo
			err := s.client.Get(ctx, "/api/photos", f, &out)
			return out, err
		},
		all(samplePhotos()),
	)
}

// ListForClient returns photos of hoardings leased by the logged-in client.
func (s *Photos) ListForClient(ctx context.Context) (domain.Result[[]domain.Photo], error) {
	return s.listAt(ctx, "/api/photos/client")
}

// ListForPhotographer returns photos uploaded by the logged-in photographer.
func (s *Photos) ListForPhotographer(ctx context.Context) (domain.Result[[]domain.Photo], error) {
	return s.listAt(ctx, "/api/photos/photographer")
}

func (s *Photos) listAt(ctx context.Context, path string) (domain.Result[[]domain.Photo], error) {
	return readThrough(ctx, s.base, "photos",
		func(ctx context.Context) ([]domain.Photo, error) {
			var out []domain.Photo
			err := s.client.Get(ctx, path, nil, &out)
			return out, err
		},
		all(samplePhotos()),
	)
}

func (s *Photos) Get(ctx context.Context, id string) (domain.Result[domain.Photo], error) {
	return readThrough(ctx, s.base, "photo",
		func(ctx context.Context) (domain.Photo, error) {
			var out domain.Photo
			err := s.client.Get(ctx, "/api/photos/"+url.PathEscape(id), nil, &out)
			return out, err
		},
		one(samplePhotos(), id, photoID),
	)
}

func (s *Photos) Delete(ctx context.Context, id string) error {
	return mutate("delete photo", s.client.Delete(ctx, "/api/photos/"+url.PathEscape(id)))
}
