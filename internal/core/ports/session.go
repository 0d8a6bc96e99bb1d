package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
)

// SessionVerifier validates a raw session token and returns its session.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Session, error)
}

// SessionStore remembers revoked sessions until their natural expiry.
type SessionStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// RateLimiter reports whether another attempt for key fits in the current window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
