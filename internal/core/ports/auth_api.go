package ports

import (
	"context"

	"github.com/hoardly/dashboard/internal/core/domain"
)

// Avatar is an optional profile image attached to a registration.
type Avatar struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RegisterInput carries the account-creation form fields.
type RegisterInput struct {
	Name        string `json:"name" form:"name" validate:"required,min=2"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Password    string `json:"password" form:"password" validate:"required,min=6"`
	Role        string `json:"role" form:"role" validate:"required,oneof=owner photographer client"`
	Phone       string `json:"phone,omitempty" form:"phone"`
	Location    string `json:"location,omitempty" form:"location"`
	CompanyName string `json:"companyName,omitempty" form:"companyName"`
	Website     string `json:"website,omitempty" form:"website" validate:"omitempty,url"`
	Address     string `json:"address,omitempty" form:"address"`

	Avatar *Avatar `json:"-" form:"-"`
}

// LoginInput carries the credential-exchange form fields.
type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// AuthAPI is the backend's account surface.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	Register(ctx context.Context, in RegisterInput) (token string, user *domain.User, err error)
	Profile(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}

// TokenHolder is the outgoing-request authorization slot. Only the session
// writes it.
type TokenHolder interface {
	SetToken(token string)
	ClearToken()
}
