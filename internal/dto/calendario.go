package dto

import "time"

// ── 日历模块 DTO ──

// CreateEventRequest 创建日历事件
type CreateEventRequest struct {
	TallerID    string    `json:"taller_id"    binding:"required,uuid"`
	Titulo      string    `json:"titulo"       binding:"required,max=200"`
	Descripcion *string   `json:"descripcion"`
	FechaEvento time.Time `json:"fecha_evento" binding:"required"`
	TipoEvento  string    `json:"tipo_evento"  binding:"omitempty,tipo_evento"`
}

// UpdateEventRequest 更新日历事件
type UpdateEventRequest struct {
	Titulo      *string    `json:"titulo"       binding:"omitempty,min=1,max=200"`
	Descripcion *string    `json:"descripcion"`
	FechaEvento *time.Time `json:"fecha_evento"`
	TipoEvento  *string    `json:"tipo_evento"  binding:"omitempty,tipo_evento"`
	Activo      *bool      `json:"activo"`
}

// EventRangeQuery 日期区间与类型过滤（fechaInicio / fechaFin 为 "2006-01-02"）
type EventRangeQuery struct {
	FechaInicio string `form:"fechaInicio"`
	FechaFin    string `form:"fechaFin"`
	TipoEvento  string `form:"tipoEvento" binding:"omitempty,tipo_evento"`
	TallerID    string `form:"tallerId"   binding:"omitempty,uuid"`
	Activo      string `form:"activo"`
	Q           string `form:"q"`
	PageQuery
}

// MonthlyQuery 月历查询
type MonthlyQuery struct {
	TallerID string `form:"tallerId"`
	Year     int    `form:"year"`
	Month    int    `form:"month"`
}

// EventResponse 日历事件
type EventResponse struct {
	ID           string    `json:"id"`
	TallerID     string    `json:"taller_id"`
	TallerNombre string    `json:"taller_nombre,omitempty"`
	InstructorID string    `json:"instructor_id"`
	Titulo       string    `json:"titulo"`
	Descripcion  *string   `json:"descripcion"`
	FechaEvento  time.Time `json:"fecha_evento"`
	TipoEvento   string    `json:"tipo_evento"`
	Activo       bool      `json:"activo"`
	CreatedAt    time.Time `json:"created_at"`
}

// DayEvents 按日分组的事件
type DayEvents struct {
	Fecha   string          `json:"fecha"`
	Eventos []EventResponse `json:"eventos"`
}

// UpcomingQuery 学生近期事件查询
type UpcomingQuery struct {
	Dias int `form:"dias" binding:"omitempty,min=1,max=365"`
}
