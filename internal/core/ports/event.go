package ports

import (
	"context"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
)

const EventUserRegistered = "user.registered"

type UserRegisteredEvent struct {
	UserID      string      `json:"userId"`
	Username    string      `json:"username"`
	Type        domain.Role `json:"type"`
	Schools     []string    `json:"schools,omitempty"`
	Departments []string    `json:"departments,omitempty"`
}

type UserEventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
}
