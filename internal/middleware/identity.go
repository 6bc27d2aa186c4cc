package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth and RequireRole.
const (
	ctxEmailKey = "email"
	ctxRoleKey  = "role"
)

// Email returns the authenticated caller's email, or "" when the request
// did not pass JWTAuth.
func Email(c echo.Context) string {
	if s, ok := c.Get(ctxEmailKey).(string); ok {
		return s
	}
	return ""
}

// Role returns the caller's role resolved by RequireRole, or "".
func Role(c echo.Context) string {
	if s, ok := c.Get(ctxRoleKey).(string); ok {
		return s
	}
	return ""
}

// rateSubject identifies the caller for the user-based rate-limit keys: the
// authenticated email, else the email submitted in the JSON body, else the
// client IP. Credential routes carry no bearer token, so without the
// fallbacks every anonymous client would share one bucket.
func rateSubject(c echo.Context, ip string) string {
	if e := Email(c); e != "" {
		return e
	}
	if e := submittedEmail(c); e != "" {
		return e
	}
	return "ip:" + ip
}
