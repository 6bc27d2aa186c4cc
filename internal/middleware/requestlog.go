package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/accounts-service/internal/logging"
)

// RequestLogger writes one structured line per request. 5xx answers and
// handler errors log at error level, 4xx at warn.
func RequestLogger(log logging.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"remote_ip", v.RemoteIP,
			}
			if v.RequestID != "" {
				args = append(args, "request_id", v.RequestID)
			}
			ctx := c.Request().Context()
			switch {
			case v.Error != nil:
				log.Error(ctx, "request", append(args, "err", v.Error)...)
			case v.Status >= 500:
				log.Error(ctx, "request", args...)
			case v.Status >= 400:
				log.Warn(ctx, "request", args...)
			default:
				log.Info(ctx, "request", args...)
			}
			return nil
		},
	})
}
