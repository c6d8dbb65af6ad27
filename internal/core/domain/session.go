package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("resource not found")
)

// Provenance tells whether data came from the backend or was substituted locally.
type Provenance string

const (
	ProvenanceLive     Provenance = "live"
	ProvenanceFallback Provenance = "fallback"
)

// Result wraps read-path data with its provenance, so callers can tell
// degraded responses from real ones.
type Result[T any] struct {
	Data       T          `json:"data"`
	Provenance Provenance `json:"provenance"`
	Message    string     `json:"message,omitempty"`
}

func Live[T any](data T) Result[T] {
	return Result[T]{Data: data, Provenance: ProvenanceLive}
}

func Fallback[T any](data T, message string) Result[T] {
	return Result[T]{Data: data, Provenance: ProvenanceFallback, Message: message}
}

// Degraded reports whether the data is a local substitute.
func (r Result[T]) Degraded() bool { return r.Provenance == ProvenanceFallback }

// Credential is the durable (token, account email) pair kept across reloads.
type Credential struct {
	Token string `json:"token" yaml:"token"`
	Email string `json:"email" yaml:"email"`
}

func (c Credential) Empty() bool { return c.Token == "" }

// Session is a point-in-time view of who is logged in.
//
// IsAuthenticated is true only when User and Token are both present.
type Session struct {
	User            *User      `json:"user,omitempty"`
	Token           string     `json:"-"`
	IsLoading       bool       `json:"isLoading"`
	IsAuthenticated bool       `json:"isAuthenticated"`
	LastError       string     `json:"lastError,omitempty"`
	Provenance      Provenance `json:"provenance,omitempty"`
}

// Role returns the role of the installed user, or "" when nobody is logged in.
func (s Session) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Access is the outcome of a route-guard check.
type Access int

const (
	AccessAllow Access = iota
	AccessLoading
	AccessRedirectLogin
	AccessRedirectUnauthorized
)

const (
	LoginRoute        = "/login"
	UnauthorizedRoute = "/unauthorized"
)

func (a Access) String() string {
	switch a {
	case AccessAllow:
		return "allow"
	case AccessLoading:
		return "loading"
	case AccessRedirectLogin:
		return "redirect_login"
	case AccessRedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "unknown"
	}
}

// Redirect returns the route a guarded view should navigate to, if any.
func (a Access) Redirect() string {
	switch a {
	case AccessRedirectLogin:
		return LoginRoute
	case AccessRedirectUnauthorized:
		return UnauthorizedRoute
	default:
		return ""
	}
}

// Authorize applies the route-guard contract to a session snapshot. While the
// session is loading nothing is decided; when roles is empty any authenticated
// user is allowed.
func Authorize(s Session, roles ...Role) Access {
	if s.IsLoading {
		return AccessLoading
	}
	if !s.IsAuthenticated || s.User == nil {
		return AccessRedirectLogin
	}
	if len(roles) == 0 {
		return AccessAllow
	}
	for _, r := range roles {
		if r == s.User.Role {
			return AccessAllow
		}
	}
	return AccessRedirectUnauthorized
}
