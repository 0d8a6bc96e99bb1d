// Package mocks provides mock implementations of port interfaces for testing.
// Ports define the contracts between the core and external adapters; mocks
// implement them in memory with call tracking and error injection.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

// RecordedEvent is an outbox event written through a committed transaction.
type RecordedEvent struct {
	Type    string
	Payload []byte
}

// MockUserRepository implements ports.UserRepository in memory.
//
// Transactions are emulated: writes made through the UserTx handle are staged
// and only become visible to Find* calls when the WithinTx callback returns nil.
type MockUserRepository struct {
	mu sync.RWMutex

	users  map[string]*domain.User
	events []RecordedEvent

	// Call tracking for verification
	CreateUserCalls          []domain.User
	SetVerificationCodeCalls []string
	ResetPasswordCalls       []string
	Commits                  int
	Rollbacks                int

	// Error injection for testing error scenarios
	FindError                error
	CreateUserError          error
	EnqueueEventError        error
	CommitError              error
	SetVerificationCodeError error
	ResetPasswordError       error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// SeedUser adds a committed user for test setup.
func (m *MockUserRepository) SeedUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
}

// User returns a copy of the committed user with id, if any.
func (m *MockUserRepository) User(id string) (*domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, false
	}
	copied := *u
	return &copied, true
}

// Count returns the number of committed users.
func (m *MockUserRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// Events returns the committed outbox events.
func (m *MockUserRepository) Events() []RecordedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]RecordedEvent, len(m.events))
	copy(events, m.events)
	return events
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.ID == id })
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email })
}

func (m *MockUserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, u := range m.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) SetVerificationCode(ctx context.Context, userID, code string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetVerificationCodeCalls = append(m.SetVerificationCodeCalls, userID)
	if m.SetVerificationCodeError != nil {
		return m.SetVerificationCodeError
	}

	u, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.VerificationCode = code
	u.VerificationCodeExpires = &expires
	return nil
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ResetPasswordCalls = append(m.ResetPasswordCalls, userID)
	if m.ResetPasswordError != nil {
		return m.ResetPasswordError
	}

	u, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.VerificationCode = ""
	u.VerificationCodeExpires = nil
	return nil
}

func (m *MockUserRepository) WithinTx(ctx context.Context, fn func(tx ports.UserTx) error) error {
	tx := &mockTx{repo: m}

	if err := fn(tx); err != nil {
		m.mu.Lock()
		m.Rollbacks++
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CommitError != nil {
		m.Rollbacks++
		return m.CommitError
	}
	for _, u := range tx.users {
		m.users[u.ID] = u
	}
	m.events = append(m.events, tx.events...)
	m.Commits++
	return nil
}

// Reset clears all stored data, call tracking and injected errors.
func (m *MockUserRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[string]*domain.User)
	m.events = nil
	m.CreateUserCalls = nil
	m.SetVerificationCodeCalls = nil
	m.ResetPasswordCalls = nil
	m.Commits = 0
	m.Rollbacks = 0
	m.FindError = nil
	m.CreateUserError = nil
	m.EnqueueEventError = nil
	m.CommitError = nil
	m.SetVerificationCodeError = nil
	m.ResetPasswordError = nil
}

type mockTx struct {
	repo   *MockUserRepository
	users  []*domain.User
	events []RecordedEvent
}

func (tx *mockTx) CreateUser(ctx context.Context, user *domain.User) error {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()

	tx.repo.CreateUserCalls = append(tx.repo.CreateUserCalls, *user)
	if tx.repo.CreateUserError != nil {
		return tx.repo.CreateUserError
	}
	copied := *user
	tx.users = append(tx.users, &copied)
	return nil
}

func (tx *mockTx) EnqueueEvent(ctx context.Context, eventType string, payload []byte) error {
	tx.repo.mu.RLock()
	injected := tx.repo.EnqueueEventError
	tx.repo.mu.RUnlock()

	if injected != nil {
		return injected
	}
	tx.events = append(tx.events, RecordedEvent{Type: eventType, Payload: payload})
	return nil
}
