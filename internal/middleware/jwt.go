package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/accounts-service/internal/model"
	"github.com/iliyamo/accounts-service/internal/utils"
)

// BearerVerifier validates bearer tokens. *utils.JWTService implements it.
type BearerVerifier interface {
	VerifyBearerToken(token string) (model.TokenPayload, error)
}

// JWTAuth validates the "Authorization: Bearer <token>" header and stores the
// token's email in the context, readable through Email. Refresh tokens are
// rejected here because they are signed with a different secret and type.
func JWTAuth(v BearerVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_token", "message": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			p, err := v.VerifyBearerToken(raw)
			if err != nil {
				if errors.Is(err, utils.ErrExpiredToken) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token_expired", "message": "token has expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_token", "message": "token is invalid"})
			}

			c.Set(ctxEmailKey, p.Email)
			return next(c)
		}
	}
}
