package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

// MockSessionStore implements ports.SessionStore in memory.
type MockSessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	RevokeError    error
	IsRevokedError error
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{revoked: make(map[string]time.Time)}
}

func (m *MockSessionStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RevokeError != nil {
		return m.RevokeError
	}
	m.revoked[sessionID] = until
	return nil
}

func (m *MockSessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsRevokedError != nil {
		return false, m.IsRevokedError
	}
	_, ok := m.revoked[sessionID]
	return ok, nil
}

// MockRateLimiter allows the first Limit attempts per key.
type MockRateLimiter struct {
	mu       sync.Mutex
	Limit    int
	attempts map[string]int
	Error    error
}

var _ ports.RateLimiter = (*MockRateLimiter)(nil)

func NewMockRateLimiter(limit int) *MockRateLimiter {
	return &MockRateLimiter{Limit: limit, attempts: make(map[string]int)}
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Error != nil {
		return false, m.Error
	}
	m.attempts[key]++
	return m.attempts[key] <= m.Limit, nil
}
