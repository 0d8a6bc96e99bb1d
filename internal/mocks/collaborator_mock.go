package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

// MockDirectoryService implements ports.DirectoryService.
type MockDirectoryService struct {
	mu sync.Mutex

	// Subjects returned per department id.
	Subjects map[string][]ports.Subject

	SubjectCalls []string
	AddUserCalls []ports.Enrollment

	SubjectsError error
	AddUserError  error
}

var _ ports.DirectoryService = (*MockDirectoryService)(nil)

func NewMockDirectoryService() *MockDirectoryService {
	return &MockDirectoryService{Subjects: make(map[string][]ports.Subject)}
}

func (m *MockDirectoryService) DepartmentSubjects(ctx context.Context, departmentID string) ([]ports.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SubjectCalls = append(m.SubjectCalls, departmentID)
	if m.SubjectsError != nil {
		return nil, m.SubjectsError
	}
	return m.Subjects[departmentID], nil
}

func (m *MockDirectoryService) AddUser(ctx context.Context, enrollment ports.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AddUserCalls = append(m.AddUserCalls, enrollment)
	return m.AddUserError
}

// MockNotificationService implements ports.NotificationService.
type MockNotificationService struct {
	mu sync.Mutex

	ParentMails   []ports.ParentRegistrationMail
	PasswordMails []ports.TemporaryPasswordMail
	CodeMails     []ports.VerificationCodeMail

	ParentMailError   error
	PasswordMailError error
	CodeMailError     error

	// Ack returned for every successful mail.
	Ack ports.Ack
}

var _ ports.NotificationService = (*MockNotificationService)(nil)

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{Ack: ports.Ack{Message: "MAIL_SENT"}}
}

func (m *MockNotificationService) SendParentRegistrationMail(ctx context.Context, mail ports.ParentRegistrationMail) (ports.Ack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ParentMails = append(m.ParentMails, mail)
	if m.ParentMailError != nil {
		return ports.Ack{}, m.ParentMailError
	}
	return m.Ack, nil
}

func (m *MockNotificationService) SendTemporaryPasswordMail(ctx context.Context, mail ports.TemporaryPasswordMail) (ports.Ack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PasswordMails = append(m.PasswordMails, mail)
	if m.PasswordMailError != nil {
		return ports.Ack{}, m.PasswordMailError
	}
	return m.Ack, nil
}

func (m *MockNotificationService) SendVerificationCodeMail(ctx context.Context, mail ports.VerificationCodeMail) (ports.Ack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CodeMails = append(m.CodeMails, mail)
	if m.CodeMailError != nil {
		return ports.Ack{}, m.CodeMailError
	}
	return m.Ack, nil
}

// GetParentMails returns a copy of the parent registration mails sent so far.
func (m *MockNotificationService) GetParentMails() []ports.ParentRegistrationMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	mails := make([]ports.ParentRegistrationMail, len(m.ParentMails))
	copy(mails, m.ParentMails)
	return mails
}

type LinkCall struct {
	ChildID  string
	ParentID string
}

// MockLinkageService implements ports.LinkageService.
type MockLinkageService struct {
	mu sync.Mutex

	Calls []LinkCall
	Error error
}

var _ ports.LinkageService = (*MockLinkageService)(nil)

func NewMockLinkageService() *MockLinkageService {
	return &MockLinkageService{}
}

func (m *MockLinkageService) LinkParent(ctx context.Context, childID, parentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, LinkCall{ChildID: childID, ParentID: parentID})
	return m.Error
}
