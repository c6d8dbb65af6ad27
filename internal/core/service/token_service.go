package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hoardly/dashboard/internal/core/domain"
)

// ErrInvalidToken is returned when a session token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// TokenService signs the two kinds of HS256 tokens the dashboard mints
// itself: the opaque session cookie of the BFF and the local stand-in token
// installed when a demo account logs in without the backend.
type TokenService struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewTokenService(secret string, tokenTTL time.Duration) *TokenService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), tokenTTL: tokenTTL, now: time.Now}
}

// IssueFallback synthesizes a token for a locally resolved account. The
// backend never accepted it; the fallback claim says so.
func (s *TokenService) IssueFallback(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"role":     string(user.Role),
		"fallback": true,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}
	return s.sign(claims)
}

// IssueSession returns a cookie token naming session id sid.
func (s *TokenService) IssueSession(sid string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	return s.sign(claims)
}

// ParseSession verifies a cookie token and returns its session id.
func (s *TokenService) ParseSession(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", fmt.Errorf("%w: missing sid", ErrInvalidToken)
	}
	return sid, nil
}

func (s *TokenService) sign(claims jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}
