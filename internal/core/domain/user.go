package domain

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleParent  Role = "PARENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// Roles lists every role the platform can register.
var Roles = []Role{RoleStudent, RoleParent, RoleTeacher, RoleAdmin}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// TermsPerGradeBook is the number of per-term grade containers a student starts with.
const TermsPerGradeBook = 2

// SubjectGrades tracks the grades of one subject within a term.
type SubjectGrades struct {
	Name   string            `json:"name"`
	Grades []json.RawMessage `json:"grades"`
}

type TermGrades []SubjectGrades

// GradeBook holds one TermGrades entry per term.
type GradeBook []TermGrades

// NewGradeBook builds an empty grade book with one entry per subject in every term.
// Terms never share backing arrays.
func NewGradeBook(subjects []string) GradeBook {
	book := make(GradeBook, TermsPerGradeBook)
	for term := range book {
		grades := make(TermGrades, 0, len(subjects))
		for _, subject := range subjects {
			grades = append(grades, SubjectGrades{
				Name:   subject,
				Grades: []json.RawMessage{},
			})
		}
		book[term] = grades
	}
	return book
}

type User struct {
	ID                  string          `json:"_id"`
	FirstName           string          `json:"firstName,omitempty"`
	LastName            string          `json:"lastName,omitempty"`
	Username            string          `json:"username"`
	PasswordHash        string          `json:"-"`
	Email               string          `json:"email"`
	UniqueCitizenNumber string          `json:"uniqueCitizenNumber,omitempty"`
	ProfilePhoto        string          `json:"profilePhoto,omitempty"`
	PlaceOfBirth        json.RawMessage `json:"placeOfBirth,omitempty"`
	PlaceOfResidence    json.RawMessage `json:"placeOfResidence,omitempty"`
	Schools             []string        `json:"schools,omitempty"`
	Departments         []string        `json:"departments,omitempty"`
	Role                Role            `json:"type"`
	IsVerified          bool            `json:"isVerified"`
	IsApproved          bool            `json:"isApproved"`
	Status              bool            `json:"status"`
	Calendar            json.RawMessage `json:"calendar,omitempty"`
	GradeBook           GradeBook       `json:"gradeBook,omitempty"`
	HomeroomDepartment  string          `json:"homeroomDepartment,omitempty"`

	// Parent and Children hold the identifier of the linked account, never the account itself.
	Parent   string `json:"parent,omitempty"`
	Children string `json:"children,omitempty"`

	VerificationCode        string     `json:"-"`
	VerificationCodeExpires *time.Time `json:"-"`
	CreatedAt               time.Time  `json:"createdAt"`
}

// CanLogin reports whether the account passed both verification and approval.
func (u *User) CanLogin() bool {
	return u.IsVerified && u.IsApproved
}

// ActiveVerificationCode returns the stored code while it has not expired.
func (u *User) ActiveVerificationCode(now time.Time) (string, bool) {
	if u.VerificationCode == "" || u.VerificationCodeExpires == nil {
		return "", false
	}
	if !now.Before(*u.VerificationCodeExpires) {
		return "", false
	}
	return u.VerificationCode, true
}

// PrimaryDepartment is the department a student's grade book is built from.
func (u *User) PrimaryDepartment() (string, bool) {
	if len(u.Departments) == 0 || u.Departments[0] == "" {
		return "", false
	}
	return u.Departments[0], true
}
