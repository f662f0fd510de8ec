package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker 健康检查依赖（由 repository.Repository 实现）
type HealthChecker interface {
	Ping(ctx context.Context) error
	Stats() sql.DBStats
}

// HealthHandler 健康检查
type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check 数据库连通性与连接池状态；数据库不可用时返回 503
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	s := h.db.Stats()
	pool := gin.H{
		"open":       s.OpenConnections,
		"in_use":     s.InUse,
		"idle":       s.Idle,
		"wait_count": s.WaitCount,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "database": "unreachable", "pool": pool})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok", "pool": pool})
}
