package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

// MockUserEventPublisher implements ports.UserEventPublisher for testing the
// outbox relay without a real RabbitMQ connection.
type MockUserEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []ports.UserRegisteredEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.UserEventPublisher = (*MockUserEventPublisher)(nil)

func NewMockUserEventPublisher() *MockUserEventPublisher {
	return &MockUserEventPublisher{
		PublishedEvents: make([]ports.UserRegisteredEvent, 0),
	}
}

func (m *MockUserEventPublisher) PublishUserRegistered(ctx context.Context, evt ports.UserRegisteredEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}

	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of all events that were published.
func (m *MockUserEventPublisher) GetPublishedEvents() []ports.UserRegisteredEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.UserRegisteredEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockUserEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}
