package middleware

import (
	"time"

	"marketplace/internal/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxLoggerKey    = "logger" // *logger.Logger（request id付き）
)

// アクセスログ（request idが無ければ発行して返す）
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(HeaderRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, reqID)

			reqLog := log.With("requestId", reqID)
			c.Set(CtxLoggerKey, reqLog)

			err := next(c)
			if err != nil {
				//echoのエラーハンドラに書かせてからステータスを読む
				c.Error(err)
			}

			reqLog.Info("http request",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latencyMs", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}
