package domain

import (
	"errors"
	"strings"
)

// Role decides which navigation set and route guards apply to a user.
type Role string

const (
	RoleOwner        Role = "owner"
	RolePhotographer Role = "photographer"
	RoleClient       Role = "client"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole normalises s and rejects anything outside the three known roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleOwner, RolePhotographer, RoleClient:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// User models an authenticated dashboard account.
type User struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	Role        Role   `json:"role" bson:"role"`
	Avatar      string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Phone       string `json:"phone,omitempty" bson:"phone,omitempty"`
	Location    string `json:"location,omitempty" bson:"location,omitempty"`
	CompanyName string `json:"companyName,omitempty" bson:"company_name,omitempty"`
	Website     string `json:"website,omitempty" bson:"website,omitempty"`
	Address     string `json:"address,omitempty" bson:"address,omitempty"`
}

// Clone returns a copy that shares no memory with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// UserSummary is the lightweight view used in search results.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
