package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient provides a minimal in-memory stand-in for the Redis
// commands used by the cache adapters.
type MockRedisClient struct {
	mu   sync.RWMutex
	data map[string]mockRedisValue
	now  func() time.Time

	// Error injection
	SetError    error
	GetError    error
	ExistsError error
	IncrError   error
	ExpireError error
}

type mockRedisValue struct {
	value     string
	expiresAt time.Time
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data: make(map[string]mockRedisValue),
		now:  time.Now,
	}
}

// Advance moves the mock clock forward, expiring keys accordingly.
func (m *MockRedisClient) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.now()
	m.now = func() time.Time { return current.Add(d) }
}

func (m *MockRedisClient) live(key string) (mockRedisValue, bool) {
	val, ok := m.data[key]
	if !ok {
		return val, false
	}
	if !val.expiresAt.IsZero() && !m.now().Before(val.expiresAt) {
		return val, false
	}
	return val, true
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewStatusCmd(ctx)
	if m.SetError != nil {
		cmd.SetErr(m.SetError)
		return cmd
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		str = fmt.Sprint(v)
	}

	expiresAt := time.Time{}
	if expiration > 0 {
		expiresAt = m.now().Add(expiration)
	}
	m.data[key] = mockRedisValue{value: str, expiresAt: expiresAt}

	cmd.SetVal("OK")
	return cmd
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cmd := redis.NewStringCmd(ctx)
	if m.GetError != nil {
		cmd.SetErr(m.GetError)
		return cmd
	}

	val, ok := m.live(key)
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val.value)
	return cmd
}

func (m *MockRedisClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cmd := redis.NewIntCmd(ctx)
	if m.ExistsError != nil {
		cmd.SetErr(m.ExistsError)
		return cmd
	}

	var count int64
	for _, key := range keys {
		if _, ok := m.live(key); ok {
			count++
		}
	}
	cmd.SetVal(count)
	return cmd
}

func (m *MockRedisClient) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)
	if m.IncrError != nil {
		cmd.SetErr(m.IncrError)
		return cmd
	}

	val, ok := m.live(key)
	if !ok {
		val = mockRedisValue{value: "0"}
	}
	n, err := strconv.ParseInt(val.value, 10, 64)
	if err != nil {
		cmd.SetErr(err)
		return cmd
	}
	n++
	val.value = strconv.FormatInt(n, 10)
	m.data[key] = val

	cmd.SetVal(n)
	return cmd
}

// ExpireNX sets a TTL only on a live key that has none.
func (m *MockRedisClient) ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewBoolCmd(ctx)
	if m.ExpireError != nil {
		cmd.SetErr(m.ExpireError)
		return cmd
	}
	val, ok := m.live(key)
	if !ok || !val.expiresAt.IsZero() {
		cmd.SetVal(false)
		return cmd
	}
	val.expiresAt = m.now().Add(expiration)
	m.data[key] = val
	cmd.SetVal(true)
	return cmd
}

func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

// HasKey checks if a key exists (for test assertions).
func (m *MockRedisClient) HasKey(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.live(key)
	return ok
}

// TTLOf returns the remaining lifetime of key, or zero when it has none.
func (m *MockRedisClient) TTLOf(key string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.live(key)
	if !ok || val.expiresAt.IsZero() {
		return 0
	}
	return val.expiresAt.Sub(m.now())
}
