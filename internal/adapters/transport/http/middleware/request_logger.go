package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request. Credential-bearing headers are
// scrubbed before they reach the log.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Debug("incoming request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Bool("has_authorization", hasCredentialHeader(c.Request.Header)),
		)

		ts := time.Now()
		c.Next()

		log.Info("completed",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(ts)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}
}

func hasCredentialHeader(h http.Header) bool {
	for k := range h {
		if strings.Contains(strings.ToLower(k), "authorization") ||
			strings.Contains(strings.ToLower(k), "cookie") {
			return true
		}
	}
	return false
}
