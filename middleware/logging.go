package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/ginadmin/logger"
)

// RequestLogger logs one line per request. Requests that left errors on the
// context are logged at error level.
func RequestLogger(log *logger.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"size", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			log.Error("request failed", append(fields, "errors", c.Errors.String())...)
			return
		}
		log.Info("request", fields...)
	}
}
