package handler

import (
	"github.com/hoardly/dashboard/internal/api/respond"
	"github.com/hoardly/dashboard/internal/core/domain"
)

// errorResponse documents the envelope returned on all 4xx/5xx responses.
type errorResponse = respond.Envelope

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type sessionResponse struct {
	Success    bool              `json:"success"`
	Data       domain.Session    `json:"data"`
	Provenance domain.Provenance `json:"provenance,omitempty"`
	Redirect   string            `json:"redirect,omitempty"`
}

type searchInputRequest struct {
	Query string `json:"query"`
}

type searchSelectRequest struct {
	Category string `json:"category" validate:"required,oneof=hoardings contracts photos users assignments billings"`
	ID       string `json:"id" validate:"required"`
}

type searchQuery struct {
	Query  string `query:"query" validate:"required"`
	Type   string `query:"type" validate:"omitempty,oneof=hoardings contracts photos users assignments billings"`
	Status string `query:"status"`
	From   string `query:"from"`
	To     string `query:"to"`
	Limit  int    `query:"limit" validate:"gte=0"`
}

type routeResponse struct {
	Route string `json:"route"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type profileRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	Address     string `json:"address,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

func (r profileRequest) apply(u domain.User) domain.User {
	u.Name = r.Name
	u.Phone = r.Phone
	u.Location = r.Location
	u.CompanyName = r.CompanyName
	u.Website = r.Website
	u.Address = r.Address
	if r.Avatar != "" {
		u.Avatar = r.Avatar
	}
	return u
}
