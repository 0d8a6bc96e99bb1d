package ports

import (
	"context"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
)

type Subject struct {
	SubjectName string `json:"subjectName"`
}

// Enrollment registers a user with its schools and departments.
type Enrollment struct {
	Schools     []string    `json:"schools"`
	Departments []string    `json:"departments"`
	UserType    domain.Role `json:"userType"`
	UserID      string      `json:"userId"`
}

// Ack is the notification service's acknowledgment of a sent mail.
type Ack struct {
	Message string `json:"message"`
}

type ParentRegistrationMail struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	UserID   string `json:"userId"`
}

type TemporaryPasswordMail struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type VerificationCodeMail struct {
	Email            string `json:"email"`
	Username         string `json:"username"`
	VerificationCode string `json:"verificationCode"`
}

// DirectoryService supplies department metadata and records school enrollment.
type DirectoryService interface {
	DepartmentSubjects(ctx context.Context, departmentID string) ([]Subject, error)
	AddUser(ctx context.Context, enrollment Enrollment) error
}

type NotificationService interface {
	SendParentRegistrationMail(ctx context.Context, mail ParentRegistrationMail) (Ack, error)
	SendTemporaryPasswordMail(ctx context.Context, mail TemporaryPasswordMail) (Ack, error)
	SendVerificationCodeMail(ctx context.Context, mail VerificationCodeMail) (Ack, error)
}

// LinkageService updates the child's record to point at its parent.
type LinkageService interface {
	LinkParent(ctx context.Context, childID, parentID string) error
}
