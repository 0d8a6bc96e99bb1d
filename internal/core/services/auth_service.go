package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

type AuthService struct {
	users    ports.UserRepository
	hasher   *PasswordHasher
	tokens   *SessionTokens
	sessions ports.SessionStore
	logger   *zap.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	users ports.UserRepository,
	hasher *PasswordHasher,
	tokens *SessionTokens,
	sessions ports.SessionStore,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// Login checks the credential, then verification, then approval, and issues
// a session token. Unknown usernames and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.CompareDummy(password)
		return nil, domain.ErrInvalidCredential
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredential
	}
	if !user.IsVerified {
		return nil, domain.ErrUserNotVerified
	}
	if !user.IsApproved {
		return nil, domain.ErrUserNotApproved
	}

	linked, err := s.resolveLinked(ctx, user)
	if err != nil {
		return nil, err
	}

	token, session, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{
		Token:   token,
		Session: session,
		User:    user,
		Linked:  linked,
	}, nil
}

// resolveLinked looks up the account referenced by parent/children. A dangling
// reference resolves to nil.
func (s *AuthService) resolveLinked(ctx context.Context, user *domain.User) (*domain.User, error) {
	var linkedID string
	switch user.Role {
	case domain.RoleParent:
		linkedID = user.Children
	case domain.RoleStudent:
		linkedID = user.Parent
	}
	if linkedID == "" {
		return nil, nil
	}

	linked, err := s.users.FindByID(ctx, linkedID)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Warn("linked user not found",
			zap.String("user_id", user.ID),
			zap.String("linked_id", linkedID),
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve linked user: %w", err)
	}
	return linked, nil
}

// SkipLogin returns the user for an already established session.
func (s *AuthService) SkipLogin(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthorizedUser
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.CanLogin() {
		return nil, domain.ErrUnauthorizedUser
	}
	return user, nil
}

// Logout revokes the session until its token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, session domain.Session) error {
	if session.ID == "" {
		return domain.ErrInvalidToken
	}
	if err := s.sessions.Revoke(ctx, session.ID, session.ExpiresAt); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
