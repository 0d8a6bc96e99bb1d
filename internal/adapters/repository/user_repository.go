package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

const userColumns = `id, first_name, last_name, username, password_hash, email,
	unique_citizen_number, profile_photo, place_of_birth, place_of_residence, calendar,
	schools, departments, role, is_verified, is_approved, status, grade_book,
	homeroom_department, parent, children, verification_code, verification_code_expires, created_at`

type SQLRepository struct {
	db *sql.DB
}

// Ensure SQLRepository implements ports.UserRepository
var _ ports.UserRepository = (*SQLRepository)(nil)

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *SQLRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email)
}

// column is always one of the literals above, never caller input.
func (r *SQLRepository) findOne(ctx context.Context, column, value string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+" = $1",
		value,
	)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by %s: %w", column, err)
	}
	return user, nil
}

func (r *SQLRepository) SetVerificationCode(ctx context.Context, userID, code string, expires time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET verification_code = $1, verification_code_expires = $2 WHERE id = $3",
		code, expires, userID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *SQLRepository) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET password_hash = $1, verification_code = NULL, verification_code_expires = NULL
		 WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// WithinTx runs fn in a database transaction. The transaction commits only
// when fn returns nil; any error or panic rolls it back.
func (r *SQLRepository) WithinTx(ctx context.Context, fn func(tx ports.UserTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) CreateUser(ctx context.Context, user *domain.User) error {
	gradeBook, err := nullableJSON(user.GradeBook)
	if err != nil {
		return fmt.Errorf("encode grade book: %w", err)
	}

	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.UniqueCitizenNumber,
		user.ProfilePhoto,
		rawJSON(user.PlaceOfBirth),
		rawJSON(user.PlaceOfResidence),
		rawJSON(user.Calendar),
		pq.Array(nonNil(user.Schools)),
		pq.Array(nonNil(user.Departments)),
		string(user.Role),
		user.IsVerified,
		user.IsApproved,
		user.Status,
		gradeBook,
		user.HomeroomDepartment,
		user.Parent,
		user.Children,
		sql.NullString{String: user.VerificationCode, Valid: user.VerificationCode != ""},
		user.VerificationCodeExpires,
		user.CreatedAt,
	)
	return err
}

func (t *sqlTx) EnqueueEvent(ctx context.Context, eventType string, payload []byte) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO outbox_events (event_type, payload) VALUES ($1, $2)",
		eventType, payload,
	)
	if err != nil {
		return fmt.Errorf("enqueue %s event: %w", eventType, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user             domain.User
		role             string
		placeOfBirth     []byte
		placeOfResidence []byte
		calendar         []byte
		gradeBook        []byte
		code             sql.NullString
		expires          sql.NullTime
	)

	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.UniqueCitizenNumber,
		&user.ProfilePhoto,
		&placeOfBirth,
		&placeOfResidence,
		&calendar,
		pq.Array(&user.Schools),
		pq.Array(&user.Departments),
		&role,
		&user.IsVerified,
		&user.IsApproved,
		&user.Status,
		&gradeBook,
		&user.HomeroomDepartment,
		&user.Parent,
		&user.Children,
		&code,
		&expires,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = domain.Role(role)
	user.PlaceOfBirth = placeOfBirth
	user.PlaceOfResidence = placeOfResidence
	user.Calendar = calendar
	user.VerificationCode = code.String
	if expires.Valid {
		t := expires.Time
		user.VerificationCodeExpires = &t
	}
	if len(gradeBook) > 0 {
		if err := json.Unmarshal(gradeBook, &user.GradeBook); err != nil {
			return nil, fmt.Errorf("decode grade book: %w", err)
		}
	}
	return &user, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// rawJSON maps an empty document to NULL.
func rawJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func nullableJSON(book domain.GradeBook) (any, error) {
	if book == nil {
		return nil, nil
	}
	b, err := json.Marshal(book)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
