package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports liveness for load balancers. It always answers 200 "ok".
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready answers 503 while the database cannot be reached.
func Ready(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return fail(c, http.StatusServiceUnavailable, "not_ready", "database unavailable")
		}
		return c.String(http.StatusOK, "ready")
	}
}
