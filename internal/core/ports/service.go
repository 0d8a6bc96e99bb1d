package ports

import (
	"context"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
)

type LoginResult struct {
	Token   string
	Session domain.Session
	User    *domain.User
	// Linked is the resolved relative: the child of a parent or the parent of a student.
	Linked *domain.User
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	SkipLogin(ctx context.Context, username string) (*domain.User, error)
	Logout(ctx context.Context, session domain.Session) error
}

type RegistrationRequest struct {
	IsAdminRegistration bool
	User                domain.User
}

type RegistrationResult struct {
	UserID string
	Ack    Ack
}

type RegistrationService interface {
	Register(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error)
}

type VerificationService interface {
	GenerateCode(ctx context.Context, email string) (Ack, error)
	ValidateCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, password string) error
}
