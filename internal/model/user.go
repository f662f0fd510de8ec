package model

import "time"

// User 用户表 对应 usuarios
type User struct {
	ID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email         string    `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"                     json:"-"`
	TipoUsuario   string    `gorm:"type:varchar(20);not null"                      json:"tipo_usuario"` // admin | instructor | alumno
	Activo        bool      `gorm:"not null;default:true"                          json:"activo"`
	FechaRegistro time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"fecha_registro"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string { return "usuarios" }
