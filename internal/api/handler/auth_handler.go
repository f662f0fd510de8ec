package handler

import (
	"github.com/gin-gonic/gin"

	"talleres-api/internal/dto"
	"talleres-api/internal/service"
	"talleres-api/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Error al iniciar sesión")
		return
	}

	response.OK(c, "Inicio de sesión exitoso", result)
}

// Register 学生自助注册
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Error al registrar el usuario")
		return
	}

	response.Created(c, "Registro exitoso. Completa tu perfil desde el dashboard.", result)
}

// Verify 校验 Token 并返回当前账号
// GET /api/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Verify(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Error al verificar el token")
		return
	}

	response.OK(c, "Token válido", user)
}

// RefreshToken 刷新 Token
// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "Error al renovar el token")
		return
	}

	response.OK(c, "Token renovado exitosamente", result)
}

// Logout 用户登出，当前 Access Token 加入黑名单
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err, "Error al cerrar sesión")
		return
	}

	response.OK(c, "Sesión cerrada exitosamente", nil)
}

// ChangePassword 修改密码
// PUT /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondError(c, err, "Error al cambiar la contraseña")
		return
	}

	response.OK(c, "Contraseña actualizada exitosamente", nil)
}
