package dto

import "time"

// ── 公告模块 DTO ──

// CreateAnnouncementRequest 创建公告
type CreateAnnouncementRequest struct {
	TallerID        string     `json:"taller_id"        binding:"required,uuid"`
	Titulo          string     `json:"titulo"           binding:"required,max=200"`
	Contenido       string     `json:"contenido"        binding:"required"`
	Importante      bool       `json:"importante"`
	FechaExpiracion *time.Time `json:"fecha_expiracion"`
}

// UpdateAnnouncementRequest 更新公告
type UpdateAnnouncementRequest struct {
	Titulo          *string    `json:"titulo"     binding:"omitempty,min=1,max=200"`
	Contenido       *string    `json:"contenido"  binding:"omitempty,min=1"`
	Importante      *bool      `json:"importante"`
	FechaExpiracion *time.Time `json:"fecha_expiracion"`
	Activo          *bool      `json:"activo"`
}

// AnnouncementListQuery 按工作坊列出公告
type AnnouncementListQuery struct {
	IncludeExpired bool `form:"includeExpired"`
	PageQuery
}

// MyAnnouncementsQuery 讲师公告列表
type MyAnnouncementsQuery struct {
	Activo string `form:"activo"`
	PageQuery
}

// AnnouncementSearchQuery 搜索公告
type AnnouncementSearchQuery struct {
	Q        string `form:"q"`
	TallerID string `form:"tallerId" binding:"omitempty,uuid"`
	PageQuery
}

// AnnouncementResponse 公告信息
type AnnouncementResponse struct {
	ID               string     `json:"id"`
	TallerID         string     `json:"taller_id"`
	TallerNombre     string     `json:"taller_nombre,omitempty"`
	InstructorID     string     `json:"instructor_id"`
	InstructorNombre string     `json:"instructor_nombre,omitempty"`
	Titulo           string     `json:"titulo"`
	Contenido        string     `json:"contenido"`
	Importante       bool       `json:"importante"`
	FechaExpiracion  *time.Time `json:"fecha_expiracion"`
	Activo           bool       `json:"activo"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ExpiringQuery 即将过期公告查询
type ExpiringQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}
