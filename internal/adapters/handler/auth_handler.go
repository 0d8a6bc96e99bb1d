package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/middleware"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	cookieSecure bool
	logger       *zap.Logger
}

func NewAuthHandler(auth ports.AuthService, cookieSecure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  auth,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SkipLoginRequest struct {
	Username string `json:"username"`
}

type LoginResponse struct {
	Message string `json:"message"`
	User    any    `json:"user"`
}

// loginUser embeds the user and shadows its parent/children identifiers with
// the resolved relative.
type loginUser struct {
	*domain.User
	Parent   any `json:"parent,omitempty"`
	Children any `json:"children,omitempty"`
}

var jsonNull = json.RawMessage("null")

func presentLoginUser(user, linked *domain.User) loginUser {
	view := loginUser{User: user}
	if user.Parent != "" {
		view.Parent = user.Parent
	}
	if user.Children != "" {
		view.Children = user.Children
	}

	var relative any = jsonNull
	if linked != nil {
		relative = linked
	}
	switch user.Role {
	case domain.RoleParent:
		view.Children = relative
	case domain.RoleStudent:
		view.Parent = relative
	}
	return view
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err, domain.MsgServerError)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err, domain.MsgServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, h.logger, http.StatusOK, LoginResponse{
		Message: domain.MsgLoginSuccess,
		User:    presentLoginUser(result.User, result.Linked),
	})
}

// SkipLogin returns the user of an existing session. The session must belong
// to the username in the body.
func (h *AuthHandler) SkipLogin(w http.ResponseWriter, r *http.Request) {
	var req SkipLoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err, domain.MsgServerError)
		return
	}

	session, ok := middleware.SessionFrom(r.Context())
	if !ok || session.Username != req.Username {
		writeMessage(w, h.logger, http.StatusUnauthorized, domain.MsgUnauthorizedUser)
		return
	}

	user, err := h.authService.SkipLogin(r.Context(), req.Username)
	if err != nil {
		writeError(w, h.logger, err, domain.MsgServerError)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, LoginResponse{
		Message: domain.MsgLoginSuccess,
		User:    user,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		writeMessage(w, h.logger, http.StatusUnauthorized, domain.MsgUnauthorizedUser)
		return
	}

	if err := h.authService.Logout(r.Context(), *session); err != nil {
		writeError(w, h.logger, err, domain.MsgServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeMessage(w, h.logger, http.StatusOK, domain.MsgLogoutSuccess)
}
