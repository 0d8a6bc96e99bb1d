package domain

import "errors"

// Message codes returned in the "message" field of every response.
const (
	MsgLoginSuccess            = "LOGIN_SUCCESS"
	MsgLogoutSuccess           = "LOGOUT_SUCCESS"
	MsgInvalidCredential       = "INVALID_CREDENTIAL"
	MsgUserNotVerified         = "USER_NOT_VERIFIED"
	MsgUserNotApproved         = "USER_NOT_APPROVED"
	MsgUnauthorizedUser        = "UNAUTHORIZED_USER"
	MsgInvalidToken            = "INVALID_TOKEN"
	MsgVerificationCodeValid   = "VERIFICATION_CODE_VALID"
	MsgVerificationCodeInvalid = "VERIFICATION_CODE_INVALID"
	MsgPasswordReset           = "PASSWORD_RESET_SUCCESSFULLY"
	MsgTooManyRequests         = "TOO_MANY_REQUESTS"
	MsgInvalidRequest          = "INVALID_REQUEST"
	MsgServerError             = "SERVER_ERROR"
	MsgInternalServerError     = "INTERNAL_SERVER_ERROR"
)

var (
	ErrInvalidCredential       = errors.New("invalid credential")
	ErrUserNotVerified         = errors.New("user not verified")
	ErrUserNotApproved         = errors.New("user not approved")
	ErrUnauthorizedUser        = errors.New("unauthorized user")
	ErrInvalidToken            = errors.New("invalid token")
	ErrVerificationCodeInvalid = errors.New("verification code invalid")
	ErrTooManyRequests         = errors.New("too many verification codes requested")
	ErrUserNotFound            = errors.New("user not found")
	ErrInvalidRequest          = errors.New("invalid request")
	ErrInvalidRegistration     = errors.New("invalid registration")
	ErrUnknownRole             = errors.New("unknown role")
)

// IsRejection reports whether err is an expected business-rule rejection
// rather than a system failure.
func IsRejection(err error) bool {
	_, ok := rejectionCode(err)
	return ok
}

// MessageCode maps err to the wire message code. Anything that is not a known
// rejection is reported as fallback.
func MessageCode(err error, fallback string) string {
	if code, ok := rejectionCode(err); ok {
		return code
	}
	return fallback
}

func rejectionCode(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrInvalidCredential):
		return MsgInvalidCredential, true
	case errors.Is(err, ErrUserNotVerified):
		return MsgUserNotVerified, true
	case errors.Is(err, ErrUserNotApproved):
		return MsgUserNotApproved, true
	case errors.Is(err, ErrUnauthorizedUser):
		return MsgUnauthorizedUser, true
	case errors.Is(err, ErrInvalidToken):
		return MsgInvalidToken, true
	case errors.Is(err, ErrVerificationCodeInvalid):
		return MsgVerificationCodeInvalid, true
	case errors.Is(err, ErrTooManyRequests):
		return MsgTooManyRequests, true
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidRegistration), errors.Is(err, ErrUnknownRole):
		return MsgInvalidRequest, true
	}
	return "", false
}
