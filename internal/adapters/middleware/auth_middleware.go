package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

// SessionCookie is the cookie that carries the session token.
const SessionCookie = "token"

type AuthMiddleware struct {
	verifier ports.SessionVerifier
	logger   *zap.Logger
}

func NewAuthMiddleware(verifier ports.SessionVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

type contextKey string

const sessionKey contextKey = "session"

// SessionFrom returns the session placed on ctx by Authenticate or OptionalAuth.
func SessionFrom(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*domain.Session)
	return session, ok && session != nil
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// Authenticate rejects requests without a valid, unrevoked session token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, domain.MsgUnauthorizedUser)
			return
		}

		session, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			m.reject(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// OptionalAuth attaches the session when a valid token is present and lets
// every request through. Handlers decide what an anonymous caller may do.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidToken) {
				m.logger.Warn("session verification failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireRole authenticates the request and checks the session role.
func (m *AuthMiddleware) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, _ := SessionFrom(r.Context())
			for _, role := range roles {
				if session.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			m.logger.Info("role not allowed",
				zap.String("user_id", session.UserID),
				zap.String("role", string(session.Role)),
			)
			writeMessage(w, http.StatusForbidden, domain.MsgUnauthorizedUser)
		}))
	}
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidToken) {
		writeMessage(w, http.StatusUnauthorized, domain.MsgInvalidToken)
		return
	}
	m.logger.Error("session verification failed", zap.Error(err))
	writeMessage(w, http.StatusInternalServerError, domain.MsgServerError)
}

// tokenFromRequest reads the session cookie, falling back to a raw "token="
// Cookie header and then to a Bearer Authorization header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	if raw := r.Header.Get("Cookie"); strings.HasPrefix(raw, SessionCookie+"=") {
		value, _, _ := strings.Cut(strings.TrimPrefix(raw, SessionCookie+"="), ";")
		return strings.TrimSpace(value)
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && scheme == "Bearer" {
		return token
	}
	return ""
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
