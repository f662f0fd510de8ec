package handler

import (
	"github.com/gin-gonic/gin"

	"talleres-api/internal/service"
	"talleres-api/pkg/jwt"
	"talleres-api/pkg/response"
)

func unauthenticated(c *gin.Context) {
	response.Unauthorized(c, "No autorizado", "Token de acceso requerido")
}

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString("user_id")
	if s == "" {
		unauthenticated(c)
		return "", false
	}
	return s, true
}

// MustGetCaller 提取已认证的调用方（user_id / email / role）
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	role := service.ParseRole(c.GetString("role"))
	if role == service.RoleUnknown {
		unauthenticated(c)
		return service.Caller{}, false
	}
	return service.Caller{UserID: userID, Email: c.GetString("email"), Role: role}, true
}

// MustGetClaims 提取当前 Access Token 的声明（登出时需要 jti 与过期时间）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		unauthenticated(c)
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		unauthenticated(c)
		return nil, false
	}
	return claims, true
}
