package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every request, recovers from panics and flags slow
// requests. Errors attached with c.Error are logged, never sent to clients.
func RequestLogger(log *zap.SugaredLogger, slow time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				log.Errorw("request_panic", append(requestFields(c, start), "error", err.Error(), "stack", string(debug.Stack()))...)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "Internal server error",
				})
				return
			}

			fields := requestFields(c, start)
			latency := time.Since(start)

			for _, err := range c.Errors {
				log.Errorw("request_error", append(fields, "error", err.Error())...)
			}

			switch {
			case c.Writer.Status() >= http.StatusInternalServerError:
				log.Errorw("request", fields...)
			case latency > slow:
				log.Warnw("slow_request", fields...)
			default:
				log.Infow("request", fields...)
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, start time.Time) []interface{} {
	return []interface{}{
		"status", c.Writer.Status(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"query", c.Request.URL.RawQuery,
		"client_ip", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
		"latency", time.Since(start),
	}
}
