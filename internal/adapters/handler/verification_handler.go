package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

type VerificationHandler struct {
	verificationService ports.VerificationService
	logger              *zap.Logger
}

func NewVerificationHandler(verification ports.VerificationService, logger *zap.Logger) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verification,
		logger:              logger,
	}
}

type GenerateCodeRequest struct {
	Email string `json:"email"`
}

// verificationCode accepts the code as a JSON string or number.
type verificationCode string

func (c *verificationCode) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = verificationCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = verificationCode(n.String())
	return nil
}

type ValidateCodeRequest struct {
	Email string           `json:"email"`
	Code  verificationCode `json:"code"`
}

type ResetPasswordRequest struct {
	Email    string           `json:"email"`
	Code     verificationCode `json:"code"`
	Password string           `json:"password"`
}

// GenerateCode mails a fresh code and answers with the mail acknowledgment.
// Unknown emails are server errors.
func (h *VerificationHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	var req GenerateCodeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err, domain.MsgServerError)
		return
	}

	ack, err := h.verificationService.GenerateCode(r.Context(), req.Email)
	if err != nil {
		writeError(w, h.logger, err, domain.MsgServerError)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, ack)
}

func (h *VerificationHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	var req ValidateCodeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err, domain.MsgServerError)
		return
	}

	if err := h.verificationService.ValidateCode(r.Context(), req.Email, string(req.Code)); err != nil {
		writeError(w, h.logger, err, domain.MsgServerError)
		return
	}
	writeMessage(w, h.logger, http.StatusOK, domain.MsgVerificationCodeValid)
}

func (h *VerificationHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err, domain.MsgServerError)
		return
	}

	if err := h.verificationService.ResetPassword(r.Context(), req.Email, string(req.Code), req.Password); err != nil {
		writeError(w, h.logger, err, domain.MsgServerError)
		return
	}
	writeMessage(w, h.logger, http.StatusOK, domain.MsgPasswordReset)
}
