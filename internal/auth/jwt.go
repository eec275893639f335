// Package auth issues, validates and revokes signed session credentials.
// Revocation is recorded by JTI on a database denylist checked on every
// protected call; the denylist is pruned by age by a weekly background job.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"parking-reservation-backend/config"
	"parking-reservation-backend/internal/store"
)

// Validation errors. Both map to 401 at the API boundary.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Claims carries the user identity and role inside a session credential.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies session credentials.
type Service struct {
	secret []byte
	issuer string
	expiry time.Duration
	store  store.Store
}

// NewService creates a credential service backed by the given store's
// revocation list.
func NewService(cfg config.AuthConfig, s store.Store) *Service {
	return &Service{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		expiry: time.Duration(cfg.ExpiryMinutes) * time.Minute,
		store:  s,
	}
}

// Issue creates a signed credential for the given user.
func (s *Service) Issue(userID, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses a credential, verifies its signature and expiry, and
// checks the revocation denylist.
func (s *Service) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", ErrInvalidToken)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	revoked, err := s.store.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// Revoke records a credential's JTI on the denylist. The credential must
// still be valid; revoking an already-revoked credential is a no-op error.
func (s *Service) Revoke(ctx context.Context, tokenString string) error {
	claims, err := s.Validate(ctx, tokenString)
	if err != nil {
		return err
	}
	return s.store.RevokeToken(ctx, claims.ID)
}
