// Package auth provides password hashing, JWT access tokens, and the HTTP
// middleware that turns a token back into a user id.
//
// AUTHENTICATION FLOW:
//  1. POST /api/signup or /api/login checks credentials and returns a token
//  2. The client sends it back as "Authorization: Bearer <token>"
//     (or in the "token" cookie)
//  3. RequireAuth validates the token and puts the user id in the context
//
// Tokens are stateless: HMAC-SHA256 over {sub, jti, iat, exp, iss}. The
// server verifies them with the secret alone, without a DB lookup.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	// Issuer is stamped into every token and required on validation.
	Issuer = "pet-adoption"

	// DefaultTokenTTL matches how long a login stays valid in the web client.
	DefaultTokenTTL = 24 * time.Hour

	minSecretLength = 16
)

// ErrTokenExpired lets callers tell an expired session from a forged one.
var ErrTokenExpired = errors.New("auth: token expired")

// TokenService handles JWT creation and validation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. A ttl of 0 means DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d characters", minSecretLength)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("auth: token TTL must not be negative, got %s", ttl)
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL is how long issued tokens stay valid.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Generate issues a token for userID valid for the service TTL.
func (s *TokenService) Generate(userID int64) (string, error) {
	return s.GenerateWithDuration(userID, s.ttl)
}

// GenerateWithDuration issues a token with an explicit lifetime. A negative
// d yields an already-expired token, which tests use.
func (s *TokenService) GenerateWithDuration(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        xid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		Issuer:    Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies tokenStr and returns the user id in its subject.
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	var c jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&c,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid {
		return 0, errors.New("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("auth: token subject %q is not a user id", c.Subject)
	}
	return userID, nil
}
