package loggingmw

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Skotchmaster/inventory/internal/logging"
)

func RequestLogger(base *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			l := base.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Path(),
				"url":        c.Request().URL.Path,
				"remote_ip":  c.RealIP(),
				"user_agent": c.Request().UserAgent(),
			})
			if rid != "" {
				l = l.WithField("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}

			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)
			dur := time.Since(start)

			if err != nil {
				c.Error(err)
			}
			status := c.Response().Status

			fields := logrus.Fields{"status": status, "duration_ms": dur.Milliseconds()}
			switch {
			case status >= 500:
				if err != nil {
					l = l.WithError(err)
				}
				l.WithFields(fields).Error("request completed")
			case status >= 400:
				l.WithFields(fields).Warn("request completed")
			default:
				fields["bytes"] = c.Response().Size
				l.WithFields(fields).Info("request completed")
			}
			return nil
		}
	}
}
