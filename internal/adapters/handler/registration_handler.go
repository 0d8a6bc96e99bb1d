package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/middleware"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/services"
	"github.com/AchilleasB/school-portal/auth-service/internal/metrics"
)

type RegistrationHandler struct {
	registrationService ports.RegistrationService
	metrics             *metrics.Metrics
	logger              *zap.Logger
}

func NewRegistrationHandler(registration ports.RegistrationService, m *metrics.Metrics, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registration,
		metrics:             m,
		logger:              logger,
	}
}

type RegistrationRequest struct {
	IsAdminRegistration bool        `json:"isAdminRegistration"`
	User                domain.User `json:"user"`
}

// Register creates a user. Admin registrations need an ADMIN session; anyone
// may self-register.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err, domain.MsgInternalServerError)
		return
	}

	if req.IsAdminRegistration {
		session, ok := middleware.SessionFrom(r.Context())
		if !ok || session.Role != domain.RoleAdmin {
			h.observe(req.User.Role, "unauthorized")
			writeMessage(w, h.logger, http.StatusUnauthorized, domain.MsgUnauthorizedUser)
			return
		}
	}

	result, err := h.registrationService.Register(r.Context(), ports.RegistrationRequest{
		IsAdminRegistration: req.IsAdminRegistration,
		User:                req.User,
	})
	if err != nil {
		h.observe(req.User.Role, outcome(err))
		writeError(w, h.logger, err, domain.MsgInternalServerError)
		return
	}

	h.observe(req.User.Role, "created")
	writeJSON(w, h.logger, http.StatusCreated, result.Ack)
}

func (h *RegistrationHandler) observe(role domain.Role, outcome string) {
	if h.metrics == nil {
		return
	}
	label := string(role)
	if !role.Valid() {
		label = "unknown"
	}
	h.metrics.Registrations.WithLabelValues(label, outcome).Inc()
}

func outcome(err error) string {
	switch {
	case services.IsPostCommit(err):
		return "post_commit_failure"
	case domain.IsRejection(err):
		return "rejected"
	default:
		return "failed"
	}
}
