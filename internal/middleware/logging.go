package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request and recovers from handler panics.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic while handling request",
					zap.Any("panic", rec),
					zap.String("method", c.Request.Method),
					zap.String("path", path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					apierrors.NewAPIError(apierrors.ErrCodeInternalError, "Internal server error"))
			}

			fields := []zap.Field{
				zap.Int("status", c.Writer.Status()),
				zap.String("method", c.Request.Method),
				zap.String("path", path),
				zap.String("client_ip", c.ClientIP()),
				zap.Duration("latency", time.Since(start)),
			}
			if user, ok := GetUser(c); ok {
				fields = append(fields, zap.String("user_id", user.ID))
			}

			switch status := c.Writer.Status(); {
			case status >= 500:
				log.Error("request", fields...)
			case status >= 400:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
		}()

		c.Next()
	}
}
