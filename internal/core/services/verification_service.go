package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

// VerificationService issues and checks the 6-digit email verification codes
// and resets passwords once a code has been confirmed. Codes are stored on the
// user record as plain strings.
type VerificationService struct {
	users    ports.UserRepository
	notifier ports.NotificationService
	limiter  ports.RateLimiter
	hasher   *PasswordHasher
	codeTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

var _ ports.VerificationService = (*VerificationService)(nil)

func NewVerificationService(
	users ports.UserRepository,
	notifier ports.NotificationService,
	limiter ports.RateLimiter,
	hasher *PasswordHasher,
	codeTTL time.Duration,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		users:    users,
		notifier: notifier,
		limiter:  limiter,
		hasher:   hasher,
		codeTTL:  codeTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateCode overwrites any previous code for the user and mails the new one.
func (s *VerificationService) GenerateCode(ctx context.Context, email string) (ports.Ack, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			s.logger.Warn("verification code throttle unavailable", zap.Error(err))
		} else if !allowed {
			return ports.Ack{}, domain.ErrTooManyRequests
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return ports.Ack{}, fmt.Errorf("find user by email: %w", err)
	}

	code, err := newVerificationCode()
	if err != nil {
		return ports.Ack{}, err
	}

	expires := s.now().Add(s.codeTTL).UTC()
	if err := s.users.SetVerificationCode(ctx, user.ID, code, expires); err != nil {
		return ports.Ack{}, fmt.Errorf("store verification code: %w", err)
	}

	ack, err := s.notifier.SendVerificationCodeMail(ctx, ports.VerificationCodeMail{
		Email:            email,
		Username:         user.Username,
		VerificationCode: code,
	})
	if err != nil {
		return ports.Ack{}, fmt.Errorf("send verification code: %w", err)
	}
	return ack, nil
}

// ValidateCode returns nil when code matches the user's unexpired code.
func (s *VerificationService) ValidateCode(ctx context.Context, email, code string) error {
	_, err := s.checkCode(ctx, email, code)
	return err
}

// ResetPassword replaces the password of the user holding a valid code and
// consumes the code.
func (s *VerificationService) ResetPassword(ctx context.Context, email, code, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrInvalidRequest)
	}

	user, err := s.checkCode(ctx, email, code)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := s.users.ResetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.logger.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

func (s *VerificationService) checkCode(ctx context.Context, email, code string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrVerificationCodeInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	stored, ok := user.ActiveVerificationCode(s.now())
	if !ok || code == "" {
		return nil, domain.ErrVerificationCodeInvalid
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return nil, domain.ErrVerificationCodeInvalid
	}
	return user, nil
}

// newVerificationCode returns a uniformly random code in [100000, 999999].
func newVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", 100000+n.Int64()), nil
}
