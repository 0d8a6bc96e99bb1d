package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

const revokedNamespace = "revoked"

// SessionStore records logged out sessions until their token would expire.
type SessionStore struct {
	client RedisClient
	now    func() time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client RedisClient) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

func (s *SessionStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		// Already expired, nothing left to revoke.
		return nil
	}
	if err := s.client.Set(ctx, key(revokedNamespace, sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *SessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, key(revokedNamespace, sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}
