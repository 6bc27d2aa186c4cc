package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/accounts-service/internal/service"
	"github.com/iliyamo/accounts-service/internal/utils"
)

// Error codes returned in the "error" field of failure bodies.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeTokenExpired       = "token_expired"
	CodeAccountDeactivated = "account_deactivated"
	CodeAccountNotEnabled  = "account_not_enabled"
	CodeEmailExists        = "email_exists"
	CodePasswordTooLong    = "password_too_long"
	CodeInternal           = "internal_error"
)

type errorResp struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func fail(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, errorResp{Error: code, Message: msg})
}

// mapError translates service, token and store errors into a status and a
// failure body. ok is false for errors nothing here knows about.
func mapError(err error) (status int, body errorResp, ok bool) {
	var uce *service.UniqueConstraintError
	switch {
	case errors.As(err, &uce):
		return http.StatusConflict, errorResp{CodeEmailExists, uce.Message}, true
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResp{CodeInvalidCredentials, "invalid email or password"}, true
	case errors.Is(err, service.ErrAccountDeactivated):
		return http.StatusForbidden, errorResp{CodeAccountDeactivated, "account is deactivated"}, true
	case errors.Is(err, service.ErrAccountNotEnabled):
		return http.StatusForbidden, errorResp{CodeAccountNotEnabled, "account is not enabled yet"}, true
	case errors.Is(err, utils.ErrExpiredToken):
		return http.StatusUnauthorized, errorResp{CodeTokenExpired, "token has expired"}, true
	case errors.Is(err, utils.ErrInvalidToken):
		return http.StatusUnauthorized, errorResp{CodeInvalidToken, "token is invalid"}, true
	case errors.Is(err, utils.ErrPasswordTooLong):
		return http.StatusBadRequest, errorResp{CodePasswordTooLong, "password must be at most 72 bytes"}, true
	}
	return http.StatusInternalServerError, errorResp{CodeInternal, "internal server error"}, false
}

// errorCode is the audit reason recorded for err.
func errorCode(err error) string {
	_, body, _ := mapError(err)
	return body.Error
}

// respondError writes the mapped failure. Unknown errors are logged and
// answered with a generic 500.
func (h *AuthHandler) respondError(c echo.Context, op string, err error) error {
	status, body, ok := mapError(err)
	if !ok {
		h.Log.Error(c.Request().Context(), op+" failed", "err", err)
	}
	return c.JSON(status, body)
}
