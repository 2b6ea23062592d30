package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/presupuesto/budget_backend/utils"
	"github.com/sirupsen/logrus"
)

// RequestLogger emits one structured line per request after the
// handler chain finishes.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		fields := logrus.Fields{
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"duration_ms":    time.Since(start).Milliseconds(),
			"correlation_id": correlationId,
		}
		if c.Writer.Status() >= 500 {
			logger.WithFields(fields).Error("request failed")
			return
		}
		logger.WithFields(fields).Info("request completed")
	}
}
