package services

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionTokens issues and verifies RS256 session tokens.
type SessionTokens struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
	store      ports.SessionStore
	now        func() time.Time
}

var _ ports.SessionVerifier = (*SessionTokens)(nil)

// NewSessionTokens creates the token issuer. store may be nil, in which case
// revocation is not checked.
func NewSessionTokens(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, ttl time.Duration, store ports.SessionStore) *SessionTokens {
	return &SessionTokens{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        ttl,
		store:      store,
		now:        time.Now,
	}
}

func (t *SessionTokens) Issue(user *domain.User) (string, domain.Session, error) {
	now := t.now()
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: now.Add(t.ttl),
	}

	claims := SessionClaims{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(t.privateKey)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, session, nil
}

// Verify parses a session token. Every parse, signature, expiry or revocation
// failure is reported as domain.ErrInvalidToken; store failures are returned as is.
func (t *SessionTokens) Verify(ctx context.Context, raw string) (*domain.Session, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.publicKey, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.ID == "" || claims.Username == "" {
		return nil, domain.ErrInvalidToken
	}

	if t.store != nil && claims.RegisteredClaims.ID != "" {
		revoked, err := t.store.IsRevoked(ctx, claims.RegisteredClaims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check session revocation: %w", err)
		}
		if revoked {
			return nil, domain.ErrInvalidToken
		}
	}

	return &domain.Session{
		ID:        claims.RegisteredClaims.ID,
		UserID:    claims.ID,
		Username:  claims.Username,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
