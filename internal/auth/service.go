package auth

import (
	"time"

	"github.com/textscan/textscan/internal/identity"
)

// Service issues access tokens for authenticated users.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService builds a token service.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Token describes an issued access token.
type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Issue signs an access token carrying the user identity and role.
func (s *Service) Issue(user identity.User) (Token, error) {
	now := time.Now()
	claims := map[string]any{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	signed, err := SignHS256(claims, s.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, ExpiresIn: int64(s.ttl.Seconds())}, nil
}

// Verify checks the token signature and expiry and returns its claims.
func (s *Service) Verify(token string) (map[string]any, error) {
	claims, err := ParseAndVerifyHS256(token, s.secret)
	if err != nil {
		return nil, err
	}
	if exp, ok := claims["exp"].(float64); !ok || time.Now().Unix() >= int64(exp) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}
