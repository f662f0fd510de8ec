package model

import "time"

// BaseModel 通用时间戳字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── 用户类型 ──

const (
	TipoAdmin      = "admin"
	TipoInstructor = "instructor"
	TipoAlumno     = "alumno"
)

// ── 报名状态 ──

const (
	EstadoActiva     = "activa"
	EstadoCancelada  = "cancelada"
	EstadoCompletada = "completada"
)
