// Package auth issues and validates the signed session tokens that gate
// every protected operation. Tokens are HS256 JWTs carrying the subject's
// email plus the standard iat/exp claims.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skycover/skycover/internal/common"
)

// Claims is the signed payload of a session token: the standard registered
// claims plus the subject's email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenService signs and validates session tokens. It is stateless apart
// from the secret and token lifetime fixed at construction; the secret is
// never re-read from the environment.
type TokenService struct {
	secret   []byte
	validity time.Duration
}

// NewTokenService builds a TokenService. An empty secret is a configuration
// fault and fails immediately with common.ErrMissingSecret so the process
// can refuse to start.
func NewTokenService(secret string, validity time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, common.ErrMissingSecret
	}
	return &TokenService{secret: []byte(secret), validity: validity}, nil
}

// Issue creates a token for the given email with iat=now and
// exp=now+validity.
func (s *TokenService) Issue(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate checks the signature and temporal validity of a token and
// returns its claims. Expired tokens yield common.ErrTokenExpired; any
// other defect yields common.ErrInvalidToken.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
