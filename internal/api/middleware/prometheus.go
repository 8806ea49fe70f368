package middleware

import (
	"strconv"
	"time"

	"github.com/Yasin777-6/Avourist-v1/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware middleware для сбора метрик HTTP запросов
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}
