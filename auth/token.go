package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jameslahm/conduit-server-rest/config"
)

// ErrInvalidCredential is returned by Verify for any credential that cannot
// be accepted: bad signature, malformed payload, expiry, or a missing user
// id claim. Callers never learn which; an invalid credential is just invalid.
var ErrInvalidCredential = errors.New("invalid credential")

// Claims is the credential payload: the user identifier under the "id" key
// plus the registered claims (exp, iat).
type Claims struct {
	UserID int `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bounded identity credentials.
// Tokens are HMAC-signed (HS256) with a process-wide secret.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService from the auth configuration.
func NewTokenService(cfg *config.AuthConfig) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.JWTSecret),
		lifetime: cfg.TokenDuration,
	}
}

// Issue produces a signed credential embedding the user identifier and an
// expiry of now plus the configured lifetime (31 days by default).
func (s *TokenService) Issue(userID int) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign credential: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a credential and returns the
// embedded user identifier. It returns ErrInvalidCredential for anything it
// cannot accept and never panics on malformed input.
func (s *TokenService) Verify(credential string) (int, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredential
	}
	if claims.UserID == 0 {
		return 0, ErrInvalidCredential
	}
	return claims.UserID, nil
}
