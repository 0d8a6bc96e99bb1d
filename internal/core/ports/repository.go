package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
)

// UserRepository is the credential store. Lookups return domain.ErrUserNotFound
// when no record matches.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	SetVerificationCode(ctx context.Context, userID, code string, expires time.Time) error
	ResetPassword(ctx context.Context, userID, passwordHash string) error

	// WithinTx runs fn inside a single transaction. The transaction commits
	// only when fn returns nil and is rolled back on every other exit path.
	WithinTx(ctx context.Context, fn func(tx UserTx) error) error
}

// UserTx is the transaction handle passed to every step of a transactional
// workflow. Writes made through it are invisible to other readers until commit.
type UserTx interface {
	CreateUser(ctx context.Context, user *domain.User) error
	EnqueueEvent(ctx context.Context, eventType string, payload []byte) error
}
