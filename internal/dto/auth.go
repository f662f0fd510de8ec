package dto

import "time"

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 自助注册请求（仅创建 alumno 账号）
type RegisterRequest struct {
	Email    string `json:"email"    binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword"     binding:"required,min=8,max=72"`
}

// UserResponse 账号信息（脱敏）
type UserResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	TipoUsuario    string    `json:"tipo_usuario"`
	Activo         bool      `json:"activo"`
	FechaRegistro  time.Time `json:"fecha_registro"`
	PerfilCompleto *bool     `json:"perfilCompleto,omitempty"`
}

// AuthResponse 登录 / 注册 / 刷新响应
type AuthResponse struct {
	Token        string             `json:"token"`
	RefreshToken string             `json:"refresh_token"`
	ExpiresIn    int                `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse       `json:"user"`
	Profile      *RegisteredProfile `json:"profile,omitempty"`
}

// RegisteredProfile 注册时生成的临时档案
type RegisteredProfile struct {
	ID             string `json:"id"`
	PerfilCompleto bool   `json:"perfilCompleto"`
	Mensaje        string `json:"mensaje"`
}
