package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"talleres-api/pkg/response"
)

// RateLimiter 滑动窗口限流（由 redis.Client 实现）
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration, err error)
}

// RateLimit 按路由限流
// 已认证请求按 user_id 计数，未认证请求按客户端 IP 计数
// limiter 为 nil 或 limit<=0 时放行
func RateLimit(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		allowed, retryAfter, err := limiter.CheckRateLimit(c.Request.Context(), rateLimitKey(c), limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retrySeconds(retryAfter, window)))
			response.Error(c, http.StatusTooManyRequests, "Demasiadas solicitudes", "Has realizado demasiadas solicitudes, intenta más tarde")
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	subject := "ip:" + c.ClientIP()
	if uid := c.GetString("user_id"); uid != "" {
		subject = "user:" + uid
	}
	return c.FullPath() + "|" + subject
}

// retrySeconds 向上取整；limiter 未给出时按整个窗口
func retrySeconds(retryAfter, window time.Duration) int {
	if retryAfter <= 0 {
		retryAfter = window
	}
	return int(math.Ceil(retryAfter.Seconds()))
}
