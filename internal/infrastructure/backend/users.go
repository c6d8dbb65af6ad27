package backend

import (
	"context"
	"net/url"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

var _ ports.UserAPI = (*Users)(nil)

// Users wraps /api/users for accounts other than the session's own.
type Users struct {
	base
}

type roleQuery struct {
	Role string `url:"role,omitempty"`
}

func userID(u domain.User) string { return u.ID }

// List returns accounts, optionally only those with role (photographers,
// clients).
func (s *Users) List(ctx context.Context, role domain.Role) (domain.Result[[]domain.User], error) {
	return readThrough(ctx, s.base, "users",
		func(ctx context.Context) ([]domain.User, error) {
			var out []domain.User
			err := s.client.Get(ctx, "/api/users", roleQuery{Role: string(role)}, &out)
			return out, err
		},
		all(usersWithRole(role)),
	)
}

func (s *Users) Get(ctx context.Context, id string) (domain.Result[domain.User], error) {
	return readThrough(ctx, s.base, "user",
		func(ctx context.Context) (domain.User, error) {
			var out domain.User
			err := s.client.Get(ctx, "/api/users/"+url.PathEscape(id), nil, &out)
			return out, err
		},
		one(sampleUsers(), id, userID),
	)
}

// UpdateProfile saves the editable profile fields of user.
func (s *Users) UpdateProfile(ctx context.Context, user domain.User) (*domain.User, error) {
	var out domain.User
	if err := s.client.Put(ctx, "/api/users/profile", user, &out); err != nil {
		return nil, mutate("update profile", err)
	}
	return &out, nil
}

func (s *Users) Delete(ctx context.Context, id string) error {
	return mutate("delete user", s.client.Delete(ctx, "/api/users/"+url.PathEscape(id)))
}
