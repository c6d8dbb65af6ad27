package backend

import (
	"context"
	"fmt"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/infrastructure/restclient"
)

var _ ports.AuthAPI = (*Auth)(nil)

// Auth wraps the /api/users account endpoints. Its calls are quiet: the
// session reports auth outcomes itself.
type Auth struct {
	base
}

type authPayload struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (p authPayload) validate() error {
	if p.Token == "" || p.User == nil {
		return fmt.Errorf("auth response without token or user: %w", restclient.ErrMalformedResponse)
	}
	return nil
}

// Login exchanges credentials for a token and the account record.
func (a *Auth) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	body := map[string]string{"email": email, "password": password}

	var out authPayload
	if err := a.client.Post(restclient.Quiet(ctx), "/api/users/login", body, &out); err != nil {
		return "", nil, err
	}
	if err := out.validate(); err != nil {
		return "", nil, err
	}
	return out.Token, out.User, nil
}

// Register creates an account, uploading the avatar when one is attached.
func (a *Auth) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	fields := map[string]string{
		"name":        in.Name,
		"email":       in.Email,
		"password":    in.Password,
		"role":        in.Role,
		"phone":       in.Phone,
		"location":    in.Location,
		"companyName": in.CompanyName,
		"website":     in.Website,
		"address":     in.Address,
	}
	var file *restclient.FilePart
	if in.Avatar != nil {
		file = &restclient.FilePart{
			Field:       "avatar",
			Filename:    in.Avatar.Filename,
			ContentType: in.Avatar.ContentType,
			Data:        in.Avatar.Data,
		}
	}

	var out authPayload
	if err := a.client.PostMultipart(restclient.Quiet(ctx), "/api/users/register", fields, file, &out); err != nil {
		return "", nil, err
	}
	if err := out.validate(); err != nil {
		return "", nil, err
	}
	return out.Token, out.User, nil
}

// Profile returns the account behind the currently installed token.
func (a *Auth) Profile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := a.client.Get(restclient.Quiet(ctx), "/api/users/profile", nil, &u); err != nil {
		return nil, err
	}
	if u.ID == "" || u.Email == "" {
		return nil, fmt.Errorf("profile without id or email: %w", restclient.ErrMalformedResponse)
	}
	return &u, nil
}

// Logout tells the backend token is no longer in use. The token is passed
// explicitly because the session uninstalls it before revoking.
func (a *Auth) Logout(ctx context.Context, token string) error {
	ctx = restclient.WithBearer(restclient.Quiet(ctx), token)
	return a.client.Post(ctx, "/api/users/logout", nil, nil)
}
