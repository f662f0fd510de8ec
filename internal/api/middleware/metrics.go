package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"talleres-api/internal/metrics"
)

// Metrics HTTP 请求指标中间件
// path 标签取路由模板（如 /api/talleres/:id），避免按 ID 产生高基数
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
