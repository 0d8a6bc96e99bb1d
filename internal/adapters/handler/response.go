package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
)

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

func writeMessage(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	writeJSON(w, logger, status, MessageResponse{Message: message})
}

// writeError maps err onto the wire. Business rejections are answered with
// 200 and their code, except malformed input (400) and missing authorization
// (401). Everything else is logged and reported as fallback with a 500.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	if !domain.IsRejection(err) {
		logger.Error("request failed", zap.Error(err))
		writeMessage(w, logger, http.StatusInternalServerError, fallback)
		return
	}

	status := http.StatusOK
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidRegistration),
		errors.Is(err, domain.ErrUnknownRole):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorizedUser),
		errors.Is(err, domain.ErrInvalidToken):
		status = http.StatusUnauthorized
	}
	writeMessage(w, logger, status, domain.MessageCode(err, fallback))
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrInvalidRequest
	}
	return nil
}
