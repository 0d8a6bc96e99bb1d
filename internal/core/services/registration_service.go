package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

// PostCommitError reports a side effect that failed after the user record was
// committed. The record stays in place; callers still treat it as a failure.
type PostCommitError struct {
	UserID string
	Step   string
	Err    error
}

func (e *PostCommitError) Error() string {
	return fmt.Sprintf("user %s committed but %s failed: %v", e.UserID, e.Step, e.Err)
}

func (e *PostCommitError) Unwrap() error { return e.Err }

type RegistrationService struct {
	users      ports.UserRepository
	directory  ports.DirectoryService
	notifier   ports.NotificationService
	linkage    ports.LinkageService
	hasher     *PasswordHasher
	dispatcher *Dispatcher
	logger     *zap.Logger

	generatePassword func() (string, error)
	now              func() time.Time
}

var _ ports.RegistrationService = (*RegistrationService)(nil)

func NewRegistrationService(
	users ports.UserRepository,
	directory ports.DirectoryService,
	notifier ports.NotificationService,
	linkage ports.LinkageService,
	hasher *PasswordHasher,
	dispatcher *Dispatcher,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		users:            users,
		directory:        directory,
		notifier:         notifier,
		linkage:          linkage,
		hasher:           hasher,
		dispatcher:       dispatcher,
		logger:           logger,
		generatePassword: GenerateTemporaryPassword,
		now:              time.Now,
	}
}

// Register creates a user, runs the role specific enrichment and linkage, and
// mails the temporary password.
//
// Ordering:
//  1. id, password and approval are decided before any external call
//  2. role enrichment (STUDENT: grade book, parent notice)
//  3. one transaction: insert user, role linkage (PARENT), outbox event
//  4. after commit: school enrollment, temporary password mail
//
// A failure in 1-3 leaves nothing behind. A failure in 4 returns a
// *PostCommitError and the user stays committed.
func (s *RegistrationService) Register(ctx context.Context, req ports.RegistrationRequest) (*ports.RegistrationResult, error) {
	user := req.User

	flow, err := flowFor(user.Role)
	if err != nil {
		return nil, err
	}
	if user.Username == "" || user.Email == "" {
		return nil, fmt.Errorf("%w: username and email are required", domain.ErrInvalidRegistration)
	}
	if err := flow.validate(&user); err != nil {
		return nil, err
	}

	user.ID = uuid.NewString()

	plainPassword, err := s.generatePassword()
	if err != nil {
		return nil, fmt.Errorf("generate temporary password: %w", err)
	}
	user.PasswordHash, err = s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	user.IsVerified = true
	user.IsApproved = req.IsAdminRegistration || user.Children != ""
	user.CreatedAt = s.now().UTC()
	user.VerificationCode = ""
	user.VerificationCodeExpires = nil

	if err := flow.beforeCreate(ctx, s, &user); err != nil {
		return nil, fmt.Errorf("%s enrichment: %w", user.Role, err)
	}

	event, err := json.Marshal(ports.UserRegisteredEvent{
		UserID:      user.ID,
		Username:    user.Username,
		Type:        user.Role,
		Schools:     user.Schools,
		Departments: user.Departments,
	})
	if err != nil {
		return nil, fmt.Errorf("encode registration event: %w", err)
	}

	err = s.users.WithinTx(ctx, func(tx ports.UserTx) error {
		if err := tx.CreateUser(ctx, &user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if err := flow.afterCreate(ctx, s, &user); err != nil {
			return fmt.Errorf("%s linkage: %w", user.Role, err)
		}
		return tx.EnqueueEvent(ctx, ports.EventUserRegistered, event)
	})
	if err != nil {
		s.logger.Error("registration rolled back",
			zap.String("user_id", user.ID),
			zap.String("role", string(user.Role)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("registration aborted: %w", err)
	}

	if len(user.Schools) > 0 {
		err := s.directory.AddUser(ctx, ports.Enrollment{
			Schools:     user.Schools,
			Departments: user.Departments,
			UserType:    user.Role,
			UserID:      user.ID,
		})
		if err != nil {
			return nil, &PostCommitError{UserID: user.ID, Step: "school enrollment", Err: err}
		}
	}

	ack, err := s.notifier.SendTemporaryPasswordMail(ctx, ports.TemporaryPasswordMail{
		Email:    user.Email,
		Username: user.Username,
		Password: plainPassword,
	})
	if err != nil {
		return nil, &PostCommitError{UserID: user.ID, Step: "temporary password mail", Err: err}
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Bool("approved", user.IsApproved),
	)

	return &ports.RegistrationResult{UserID: user.ID, Ack: ack}, nil
}

// roleFlow is the set of registration steps that differ per role. Every role
// in domain.Roles must have an implementation returned by flowFor.
type roleFlow interface {
	validate(user *domain.User) error
	beforeCreate(ctx context.Context, s *RegistrationService, user *domain.User) error
	afterCreate(ctx context.Context, s *RegistrationService, user *domain.User) error
}

func flowFor(role domain.Role) (roleFlow, error) {
	switch role {
	case domain.RoleStudent:
		return studentFlow{}, nil
	case domain.RoleParent:
		return parentFlow{}, nil
	case domain.RoleTeacher, domain.RoleAdmin:
		return staffFlow{}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRole, role)
}

type studentFlow struct{}

func (studentFlow) validate(user *domain.User) error {
	if _, ok := user.PrimaryDepartment(); !ok {
		return fmt.Errorf("%w: student requires a department", domain.ErrInvalidRegistration)
	}
	return nil
}

func (studentFlow) beforeCreate(ctx context.Context, s *RegistrationService, user *domain.User) error {
	department, _ := user.PrimaryDepartment()

	subjects, err := s.directory.DepartmentSubjects(ctx, department)
	if err != nil {
		return fmt.Errorf("fetch subjects for department %s: %w", department, err)
	}

	names := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		names = append(names, subject.SubjectName)
	}
	user.GradeBook = domain.NewGradeBook(names)

	// Sent before the record exists. If the transaction later aborts the
	// notice may reference a user that was never created.
	mail := ports.ParentRegistrationMail{
		Email:    user.Email,
		Username: user.Username,
		UserID:   user.ID,
	}
	s.dispatcher.Go(ctx, "parent registration mail", func(ctx context.Context) error {
		_, err := s.notifier.SendParentRegistrationMail(ctx, mail)
		return err
	})
	return nil
}

func (studentFlow) afterCreate(context.Context, *RegistrationService, *domain.User) error {
	return nil
}

type parentFlow struct{}

func (parentFlow) validate(*domain.User) error { return nil }

func (parentFlow) beforeCreate(context.Context, *RegistrationService, *domain.User) error {
	return nil
}

func (parentFlow) afterCreate(ctx context.Context, s *RegistrationService, user *domain.User) error {
	if user.Children == "" {
		return nil
	}
	return s.linkage.LinkParent(ctx, user.Children, user.ID)
}

type staffFlow struct{}

func (staffFlow) validate(*domain.User) error { return nil }

func (staffFlow) beforeCreate(context.Context, *RegistrationService, *domain.User) error {
	return nil
}

func (staffFlow) afterCreate(context.Context, *RegistrationService, *domain.User) error {
	return nil
}

// IsPostCommit reports whether err came from a side effect after commit.
func IsPostCommit(err error) bool {
	var pc *PostCommitError
	return errors.As(err, &pc)
}
