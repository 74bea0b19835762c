// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session lifetimes. A login token lives for a day; every authenticated
// request reissues a shorter token, so an idle client loses its session
// after RefreshTTL.
const (
	LoginTTL   = 24 * time.Hour
	RefreshTTL = 30 * time.Minute
)

// TokenIssuer is the iss claim of every session token.
const TokenIssuer = "ocms-api"

var (
	// ErrMissingToken means the request carried no bearer token.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken covers bad signatures, foreign algorithms, malformed
	// and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the user data carried in a session token.
type Identity struct {
	UserID int64
	Email  string
	Name   string
	Role   string
}

// Claims is the signed claim set. ID duplicates UserID for clients that
// read either field.
type Claims struct {
	UserID int64  `json:"userId"`
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the user part of the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Name: c.Name, Role: c.Role}
}

// SessionIssuer signs and validates HS256 session tokens.
type SessionIssuer struct {
	secret []byte
	now    func() time.Time
}

// IssuerOption configures a SessionIssuer.
type IssuerOption func(*SessionIssuer)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) IssuerOption {
	return func(s *SessionIssuer) {
		s.now = now
	}
}

// NewSessionIssuer creates an issuer signing with secret.
func NewSessionIssuer(secret []byte, opts ...IssuerOption) (*SessionIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	s := &SessionIssuer{
		secret: secret,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates the login token for id.
func (s *SessionIssuer) Issue(id Identity) (string, error) {
	return s.sign(id, LoginTTL)
}

// Refresh re-signs the identity in claims with a fresh RefreshTTL expiry.
func (s *SessionIssuer) Refresh(claims *Claims) (string, error) {
	return s.sign(claims.Identity(), RefreshTTL)
}

// Validate verifies token and returns its claims together with a freshly
// signed RefreshTTL token carrying the same identity. Callers must relay
// the new token to the client.
func (s *SessionIssuer) Validate(token string) (*Claims, string, error) {
	if token == "" {
		return nil, "", ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID == 0 {
		return nil, "", ErrInvalidToken
	}

	refreshed, err := s.Refresh(claims)
	if err != nil {
		return nil, "", err
	}
	return claims, refreshed, nil
}

func (s *SessionIssuer) sign(id Identity, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: id.UserID,
		ID:     id.UserID,
		Email:  id.Email,
		Name:   id.Name,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   fmt.Sprintf("%d", id.UserID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
