package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhle/studyhub/internal/logging"
	"github.com/nhle/studyhub/internal/metrics"
)

func recoveryMiddleware(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					logging.String("path", c.Request.URL.Path),
					logging.String("panic", fmtPanic(r)),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}

func loggerMiddleware(log logging.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.RecordRequest(route, status)
		log.Debug("request",
			logging.String("method", c.Request.Method),
			logging.String("route", route),
			logging.Int("status", status),
			logging.Duration("elapsed", time.Since(start)),
		)
	}
}

func fmtPanic(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	if s, ok := r.(string); ok {
		return s
	}
	return "unknown panic"
}
