package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/handler"
	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/middleware"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/services"
	"github.com/AchilleasB/school-portal/auth-service/internal/metrics"
	"github.com/AchilleasB/school-portal/auth-service/internal/mocks"
)

type stubAuthService struct {
	loginResult *ports.LoginResult
	loginErr    error
	skipUser    *domain.User
	skipErr     error
	logoutErr   error
	loggedOut   []domain.Session
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) SkipLogin(ctx context.Context, username string) (*domain.User, error) {
	return s.skipUser, s.skipErr
}

func (s *stubAuthService) Logout(ctx context.Context, session domain.Session) error {
	s.loggedOut = append(s.loggedOut, session)
	return s.logoutErr
}

type stubRegistrationService struct {
	result   *ports.RegistrationResult
	err      error
	requests []ports.RegistrationRequest
}

func (s *stubRegistrationService) Register(ctx context.Context, req ports.RegistrationRequest) (*ports.RegistrationResult, error) {
	s.requests = append(s.requests, req)
	return s.result, s.err
}

type stubVerificationService struct {
	ack        ports.Ack
	err        error
	validated  []string
	resetCalls int
}

func (s *stubVerificationService) GenerateCode(ctx context.Context, email string) (ports.Ack, error) {
	return s.ack, s.err
}

func (s *stubVerificationService) ValidateCode(ctx context.Context, email, code string) error {
	s.validated = append(s.validated, code)
	return s.err
}

func (s *stubVerificationService) ResetPassword(ctx context.Context, email, code, password string) error {
	s.resetCalls++
	return s.err
}

func post(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withSession(req *http.Request, username string, role domain.Role) *http.Request {
	session := &domain.Session{ID: "sess-1", UserID: "u1", Username: username, Role: role, ExpiresAt: time.Now().Add(time.Hour)}
	return req.WithContext(middleware.WithSession(req.Context(), session))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestAuthHandler_Login(t *testing.T) {
	parent := mocks.NewTestUser("p1", "parent", domain.RoleParent)
	parent.Children = "s1"
	child := mocks.NewTestUser("s1", "child", domain.RoleStudent)
	teacher := mocks.NewTestUser("t1", "teacher", domain.RoleTeacher)
	orphan := mocks.NewTestUser("s2", "orphan", domain.RoleStudent)
	orphan.Parent = "missing"

	tests := []struct {
		name          string
		result        *ports.LoginResult
		err           error
		body          string
		expectStatus  int
		expectMessage string
		expectCookie  bool
		checkUser     func(t *testing.T, user map[string]any)
	}{
		{
			name:          "parent_gets_child_object",
			result:        &ports.LoginResult{Token: "jwt", User: parent, Linked: child, Session: domain.Session{ExpiresAt: time.Now().Add(time.Hour)}},
			body:          `{"username":"parent","password":"pw"}`,
			expectStatus:  http.StatusOK,
			expectMessage: domain.MsgLoginSuccess,
			expectCookie:  true,
			checkUser: func(t *testing.T, user map[string]any) {
				children, ok := user["children"].(map[string]any)
				if !ok || children["_id"] != "s1" {
					t.Errorf("expected embedded child, got %v", user["children"])
				}
				if _, ok := user["password"]; ok {
					t.Error("password hash must not be serialized")
				}
			},
		},
		{
			name:          "dangling_parent_is_null",
			result:        &ports.LoginResult{Token: "jwt", User: orphan},
			body:          `{"username":"orphan","password":"pw"}`,
			expectStatus:  http.StatusOK,
			expectMessage: domain.MsgLoginSuccess,
			expectCookie:  true,
			checkUser: func(t *testing.T, user map[string]any) {
				parent, present := user["parent"]
				if !present || parent != nil {
					t.Errorf("expected parent null, got %v (present=%v)", parent, present)
				}
			},
		},
		{
			name:          "teacher_has_no_relative",
			result:        &ports.LoginResult{Token: "jwt", User: teacher},
			body:          `{"username":"teacher","password":"pw"}`,
			expectStatus:  http.StatusOK,
			expectMessage: domain.MsgLoginSuccess,
			expectCookie:  true,
			checkUser: func(t *testing.T, user map[string]any) {
				if _, ok := user["children"]; ok {
					t.Error("teacher should not carry children")
				}
				if user["type"] != string(domain.RoleTeacher) {
					t.Errorf("expected role in type field, got %v", user["type"])
				}
			},
		},
		{
			name:          "invalid_credential_is_200",
			err:           domain.ErrInvalidCredential,
			body:          `{"username":"x","password":"y"}`,
			expectStatus:  http.StatusOK,
			expectMessage: domain.MsgInvalidCredential,
		},
		{
			name:          "not_approved_is_200",
			err:           domain.ErrUserNotApproved,
			body:          `{"username":"x","password":"y"}`,
			expectStatus:  http.StatusOK,
			expectMessage: domain.MsgUserNotApproved,
		},
		{
			name:          "malformed_body",
			body:          `{`,
			expectStatus:  http.StatusBadRequest,
			expectMessage: domain.MsgInvalidRequest,
		},
		{
			name:          "repository_failure",
			err:           errors.New("db down"),
			body:          `{"username":"x","password":"y"}`,
			expectStatus:  http.StatusInternalServerError,
			expectMessage: domain.MsgServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAuthService{loginResult: tt.result, loginErr: tt.err}
			h := handler.NewAuthHandler(svc, true, zap.NewNop())
			rec := httptest.NewRecorder()

			h.Login(rec, post("/login", tt.body))

			if rec.Code != tt.expectStatus {
				t.Fatalf("expected status %d, got %d", tt.expectStatus, rec.Code)
			}
			body := decodeBody(t, rec)
			if body["message"] != tt.expectMessage {
				t.Errorf("expected message %q, got %v", tt.expectMessage, body["message"])
			}

			cookies := rec.Result().Cookies()
			if tt.expectCookie {
				if len(cookies) != 1 || cookies[0].Name != "token" || cookies[0].Value != "jwt" {
					t.Fatalf("expected token cookie, got %v", cookies)
				}
				if !cookies[0].HttpOnly || !cookies[0].Secure {
					t.Error("expected HttpOnly secure cookie")
				}
			} else if len(cookies) != 0 {
				t.Errorf("expected no cookie, got %v", cookies)
			}

			if tt.checkUser != nil {
				user, ok := body["user"].(map[string]any)
				if !ok {
					t.Fatalf("expected user object, got %v", body["user"])
				}
				tt.checkUser(t, user)
			}
		})
	}
}

func TestAuthHandler_SkipLogin(t *testing.T) {
	user := mocks.NewTestUser("u1", "alice", domain.RoleTeacher)

	tests := []struct {
		name          string
		session       bool
		sessionUser   string
		skipErr       error
		expectStatus  int
		expectMessage string
	}{
		{name: "matching_session", session: true, sessionUser: "alice", expectStatus: http.StatusOK, expectMessage: domain.MsgLoginSuccess},
		{name: "other_users_session", session: true, sessionUser: "mallory", expectStatus: http.StatusUnauthorized, expectMessage: domain.MsgUnauthorizedUser},
		{name: "no_session", expectStatus: http.StatusUnauthorized, expectMessage: domain.MsgUnauthorizedUser},
		{name: "user_no_longer_approved", session: true, sessionUser: "alice", skipErr: domain.ErrUnauthorizedUser, expectStatus: http.StatusUnauthorized, expectMessage: domain.MsgUnauthorizedUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewAuthHandler(&stubAuthService{skipUser: user, skipErr: tt.skipErr}, false, zap.NewNop())
			req := post("/skipLogin", `{"username":"alice"}`)
			if tt.session {
				req = withSession(req, tt.sessionUser, domain.RoleTeacher)
			}
			rec := httptest.NewRecorder()

			h.SkipLogin(rec, req)

			if rec.Code != tt.expectStatus {
				t.Fatalf("expected status %d, got %d", tt.expectStatus, rec.Code)
			}
			if msg := decodeBody(t, rec)["message"]; msg != tt.expectMessage {
				t.Errorf("expected message %q, got %v", tt.expectMessage, msg)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &stubAuthService{}
	h := handler.NewAuthHandler(svc, false, zap.NewNop())
	rec := httptest.NewRecorder()

	h.Logout(rec, withSession(post("/logout", ""), "alice", domain.RoleParent))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0].ID != "sess-1" {
		t.Fatalf("expected session sess-1 to be revoked, got %v", svc.loggedOut)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Errorf("expected cleared token cookie, got %v", cookies)
	}

	t.Run("revoke_failure", func(t *testing.T) {
		h := handler.NewAuthHandler(&stubAuthService{logoutErr: errors.New("redis down")}, false, zap.NewNop())
		rec := httptest.NewRecorder()
		h.Logout(rec, withSession(post("/logout", ""), "alice", domain.RoleParent))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestRegistrationHandler_Register(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		sessionRole   domain.Role
		err           error
		expectStatus  int
		expectMessage string
		expectCalls   int
		expectOutcome string
	}{
		{
			name:          "self_registration",
			body:          `{"isAdminRegistration":false,"user":{"username":"bob","email":"bob@example.com","type":"TEACHER"}}`,
			expectStatus:  http.StatusCreated,
			expectMessage: "MAIL_SENT",
			expectCalls:   1,
			expectOutcome: "created",
		},
		{
			name:          "admin_registration_with_admin_session",
			body:          `{"isAdminRegistration":true,"user":{"username":"bob","email":"bob@example.com","type":"TEACHER"}}`,
			sessionRole:   domain.RoleAdmin,
			expectStatus:  http.StatusCreated,
			expectMessage: "MAIL_SENT",
			expectCalls:   1,
			expectOutcome: "created",
		},
		{
			name:          "admin_registration_without_session",
			body:          `{"isAdminRegistration":true,"user":{"username":"bob","type":"TEACHER"}}`,
			expectStatus:  http.StatusUnauthorized,
			expectMessage: domain.MsgUnauthorizedUser,
			expectOutcome: "unauthorized",
		},
		{
			name:          "admin_registration_by_teacher",
			body:          `{"isAdminRegistration":true,"user":{"username":"bob","type":"TEACHER"}}`,
			sessionRole:   domain.RoleTeacher,
			expectStatus:  http.StatusUnauthorized,
			expectMessage: domain.MsgUnauthorizedUser,
			expectOutcome: "unauthorized",
		},
		{
			name:          "student_without_department",
			body:          `{"user":{"username":"kid","type":"STUDENT"}}`,
			err:           fmt.Errorf("%w: department required", domain.ErrInvalidRegistration),
			expectStatus:  http.StatusBadRequest,
			expectMessage: domain.MsgInvalidRequest,
			expectCalls:   1,
			expectOutcome: "rejected",
		},
		{
			name:          "collaborator_failure",
			body:          `{"user":{"username":"kid","type":"STUDENT","departments":["d1"]}}`,
			err:           errors.New("directory unavailable"),
			expectStatus:  http.StatusInternalServerError,
			expectMessage: domain.MsgInternalServerError,
			expectCalls:   1,
			expectOutcome: "failed",
		},
		{
			name:          "post_commit_failure",
			body:          `{"user":{"username":"kid","type":"STUDENT","departments":["d1"]}}`,
			err:           &services.PostCommitError{UserID: "u1", Step: "enrollment", Err: errors.New("boom")},
			expectStatus:  http.StatusInternalServerError,
			expectMessage: domain.MsgInternalServerError,
			expectCalls:   1,
			expectOutcome: "post_commit_failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())
			svc := &stubRegistrationService{
				result: &ports.RegistrationResult{UserID: "u1", Ack: ports.Ack{Message: "MAIL_SENT"}},
				err:    tt.err,
			}
			h := handler.NewRegistrationHandler(svc, m, zap.NewNop())
			req := post("/createUser", tt.body)
			if tt.sessionRole != "" {
				req = withSession(req, "admin", tt.sessionRole)
			}
			rec := httptest.NewRecorder()

			h.Register(rec, req)

			if rec.Code != tt.expectStatus {
				t.Fatalf("expected status %d, got %d", tt.expectStatus, rec.Code)
			}
			if msg := decodeBody(t, rec)["message"]; msg != tt.expectMessage {
				t.Errorf("expected message %q, got %v", tt.expectMessage, msg)
			}
			if len(svc.requests) != tt.expectCalls {
				t.Fatalf("expected %d service calls, got %d", tt.expectCalls, len(svc.requests))
			}
			if testutil.CollectAndCount(m.Registrations) != 1 {
				t.Fatalf("expected one registration series")
			}
			var total float64
			for _, role := range []string{"TEACHER", "STUDENT"} {
				total += testutil.ToFloat64(m.Registrations.WithLabelValues(role, tt.expectOutcome))
			}
			if total != 1 {
				t.Errorf("expected outcome %q to be counted once", tt.expectOutcome)
			}
		})
	}
}

func TestRegistrationHandler_MapsPayload(t *testing.T) {
	svc := &stubRegistrationService{result: &ports.RegistrationResult{UserID: "u1"}}
	h := handler.NewRegistrationHandler(svc, nil, zap.NewNop())
	body := `{"isAdminRegistration":false,"user":{"username":"kid","email":"kid@example.com","type":"STUDENT",
		"firstName":"Ada","schools":["s1"],"departments":["d1"],"parent":"p1","placeOfBirth":{"city":"Athens"},"password":"ignored"}}`

	rec := httptest.NewRecorder()
	h.Register(rec, post("/createUser", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	got := svc.requests[0].User
	if got.Role != domain.RoleStudent || got.FirstName != "Ada" || got.Parent != "p1" {
		t.Errorf("unexpected user: %+v", got)
	}
	if len(got.Departments) != 1 || got.Departments[0] != "d1" {
		t.Errorf("unexpected departments: %v", got.Departments)
	}
	if string(got.PlaceOfBirth) != `{"city":"Athens"}` {
		t.Errorf("unexpected place of birth: %s", got.PlaceOfBirth)
	}
	if got.PasswordHash != "" {
		t.Error("client supplied password must be ignored")
	}
}

func TestVerificationHandler(t *testing.T) {
	tests := []struct {
		name          string
		call          func(h *handler.VerificationHandler) http.HandlerFunc
		path          string
		body          string
		err           error
		expectStatus  int
		expectMessage string
	}{
		{
			name:          "generate_returns_ack",
			call:          func(h *handler.VerificationHandler) http.HandlerFunc { return h.GenerateCode },
			path:          "/generateVerificationCode",
			body:          `{"email":"a@example.com"}`,
			expectStatus:  http.StatusOK,
			expectMessage: "MAIL_SENT",
		},
		{
			name:          "generate_unknown_email",
			call:          func(h *handler.VerificationHandler) http.HandlerFunc { return h.GenerateCode },
			path:          "/generateVerificationCode",
			body:          `{"email":"nobody@example.com"}`,
			err:           fmt.Errorf("find user by email: %w", domain.ErrUserNotFound),
			expectStatus:  http.StatusInternalServerError,
			expectMessage: domain.MsgServerError,
		},
		{
			name:          "generate_throttled",
			call:          func(h *handler.VerificationHandler) http.HandlerFunc { return h.GenerateCode },
			path:          "/generateVerificationCode",
			body:          `{"email":"a@example.com"}`,
			err:           domain.ErrTooManyRequests,
			expectStatus:  http.StatusOK,
			expectMessage: domain.MsgTooManyRequests,
		},
		{
			name:          "validate_valid",
			call:          func(h *handler.VerificationHandler) http.HandlerFunc { return h.ValidateCode },
			path:          "/validateVerificationCode",
			body:          `{"email":"a@example.com","code":"123456"}`,
			expectStatus:  http.StatusOK,
			expectMessage: domain.MsgVerificationCodeValid,
		},
		{
			name:          "validate_numeric_code",
			call:          func(h *handler.VerificationHandler) http.HandlerFunc { return h.ValidateCode },
			path:          "/validateVerificationCode",
			body:          `{"email":"a@example.com","code":123456}`,
			expectStatus:  http.StatusOK,
			expectMessage: domain.MsgVerificationCodeValid,
		},
		{
			name:          "validate_invalid",
			call:          func(h *handler.VerificationHandler) http.HandlerFunc { return h.ValidateCode },
			path:          "/validateVerificationCode",
			body:          `{"email":"a@example.com","code":"000000"}`,
			err:           domain.ErrVerificationCodeInvalid,
			expectStatus:  http.StatusOK,
			expectMessage: domain.MsgVerificationCodeInvalid,
		},
		{
			name:          "reset_success",
			call:          func(h *handler.VerificationHandler) http.HandlerFunc { return h.ResetPassword },
			path:          "/resetPassword",
			body:          `{"email":"a@example.com","code":"123456","password":"n3w-Secret!"}`,
			expectStatus:  http.StatusOK,
			expectMessage: domain.MsgPasswordReset,
		},
		{
			name:          "reset_storage_failure",
			call:          func(h *handler.VerificationHandler) http.HandlerFunc { return h.ResetPassword },
			path:          "/resetPassword",
			body:          `{"email":"a@example.com","code":"123456","password":"x"}`,
			err:           errors.New("db down"),
			expectStatus:  http.StatusInternalServerError,
			expectMessage: domain.MsgServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubVerificationService{ack: ports.Ack{Message: "MAIL_SENT"}, err: tt.err}
			h := handler.NewVerificationHandler(svc, zap.NewNop())
			rec := httptest.NewRecorder()

			tt.call(h)(rec, post(tt.path, tt.body))

			if rec.Code != tt.expectStatus {
				t.Fatalf("expected status %d, got %d", tt.expectStatus, rec.Code)
			}
			if msg := decodeBody(t, rec)["message"]; msg != tt.expectMessage {
				t.Errorf("expected message %q, got %v", tt.expectMessage, msg)
			}
		})
	}
}

func TestVerificationHandler_CodeIsPassedAsString(t *testing.T) {
	svc := &stubVerificationService{}
	h := handler.NewVerificationHandler(svc, zap.NewNop())

	h.ValidateCode(httptest.NewRecorder(), post("/validateVerificationCode", `{"email":"a@example.com","code":654321}`))

	if len(svc.validated) != 1 || svc.validated[0] != "654321" {
		t.Errorf("expected code 654321, got %v", svc.validated)
	}
}

func TestHealthHandler(t *testing.T) {
	up := handler.PingerFunc(func(ctx context.Context) error { return nil })
	down := handler.PingerFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name         string
		db           handler.Pinger
		redis        handler.Pinger
		expectStatus int
		expectBody   string
	}{
		{name: "all_up", db: up, redis: up, expectStatus: http.StatusOK, expectBody: "UP"},
		{name: "database_down", db: down, redis: up, expectStatus: http.StatusServiceUnavailable, expectBody: "DOWN"},
		{name: "redis_down", db: up, redis: down, expectStatus: http.StatusServiceUnavailable, expectBody: "DOWN"},
		{name: "redis_missing", db: up, expectStatus: http.StatusServiceUnavailable, expectBody: "DOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tt.db, tt.redis, zap.NewNop())
			rec := httptest.NewRecorder()

			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.expectStatus {
				t.Fatalf("expected status %d, got %d", tt.expectStatus, rec.Code)
			}
			var resp handler.HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.expectBody {
				t.Errorf("expected status %s, got %s", tt.expectBody, resp.Status)
			}
			if len(resp.Checks) != 2 {
				t.Errorf("expected 2 checks, got %d", len(resp.Checks))
			}
		})
	}

	t.Run("liveness_ignores_dependencies", func(t *testing.T) {
		h := handler.NewHealthHandler(down, down, zap.NewNop())
		rec := httptest.NewRecorder()
		h.Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}

func TestRouter(t *testing.T) {
	privateKey, publicKey := mocks.GenerateTestKeys(t)
	tokens := services.NewSessionTokens(privateKey, publicKey, time.Hour, mocks.NewMockSessionStore())
	admin, _, err := tokens.Issue(mocks.NewTestUser("a1", "admin", domain.RoleAdmin))
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	registration := &stubRegistrationService{result: &ports.RegistrationResult{UserID: "u1", Ack: ports.Ack{Message: "MAIL_SENT"}}}
	up := handler.PingerFunc(func(ctx context.Context) error { return nil })
	logger := zap.NewNop()

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(&stubAuthService{}, false, logger),
		Registration:   handler.NewRegistrationHandler(registration, m, logger),
		Verification:   handler.NewVerificationHandler(&stubVerificationService{}, logger),
		Health:         handler.NewHealthHandler(up, up, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(tokens, logger),
		Metrics:        m,
		Gatherer:       reg,
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         logger,
	})

	tests := []struct {
		name         string
		method       string
		path         string
		body         string
		cookie       string
		expectStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/health", expectStatus: http.StatusOK},
		{name: "ready", method: http.MethodGet, path: "/health/ready", expectStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", expectStatus: http.StatusOK},
		{name: "logout_requires_session", method: http.MethodPost, path: "/logout", expectStatus: http.StatusUnauthorized},
		{name: "skip_login_rejects_bad_token", method: http.MethodPost, path: "/skipLogin", body: `{"username":"admin"}`, cookie: "bad", expectStatus: http.StatusUnauthorized},
		{name: "skip_login_with_session", method: http.MethodPost, path: "/skipLogin", body: `{"username":"admin"}`, cookie: admin, expectStatus: http.StatusOK},
		{name: "admin_registration_with_cookie", method: http.MethodPost, path: "/createUser", body: `{"isAdminRegistration":true,"user":{"type":"TEACHER"}}`, cookie: admin, expectStatus: http.StatusCreated},
		{name: "admin_registration_anonymous", method: http.MethodPost, path: "/createUser", body: `{"isAdminRegistration":true,"user":{"type":"TEACHER"}}`, expectStatus: http.StatusUnauthorized},
		{name: "login_is_post_only", method: http.MethodGet, path: "/login", expectStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.expectStatus {
				t.Errorf("expected status %d, got %d", tt.expectStatus, rec.Code)
			}
		})
	}
}
