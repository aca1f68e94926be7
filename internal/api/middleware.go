package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	traceIDHeader = "X-Trace-ID"
	loggerKey     = "logger"
)

// RequestLogger tags every request with a trace id and logs its outcome.
// A valid uuid in X-Trace-ID is reused, anything else is replaced.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}

		entry := logger.WithField("trace_id", traceID)
		c.Set(loggerKey, entry)
		c.Header(traceIDHeader, traceID)

		start := time.Now()
		c.Next()

		entry.WithFields(logrus.Fields{
			"http_method": c.Request.Method,
			"http_path":   c.Request.URL.Path,
			"status_code": c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Request finished")
	}
}

// log returns the request scoped logger set by RequestLogger.
func (h *Handler) log(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(loggerKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(h.logger)
}
