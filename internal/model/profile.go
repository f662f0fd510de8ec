package model

import "time"

// StudentProfile 学生档案 对应 perfiles_alumno，与 usuarios 一对一
type StudentProfile struct {
	ID                 string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UsuarioID          string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"usuario_id"`
	Nombre             string     `gorm:"type:varchar(100);not null"                     json:"nombre"`
	ApellidoPaterno    string     `gorm:"type:varchar(100);not null"                     json:"apellido_paterno"`
	ApellidoMaterno    *string    `gorm:"type:varchar(100)"                              json:"apellido_materno"`
	NumeroControl      string     `gorm:"type:varchar(30);not null;uniqueIndex"          json:"numero_control"`
	Grupo              *string    `gorm:"type:varchar(20)"                               json:"grupo"`
	Semestre           *int       `                                                      json:"semestre"`
	Telefono           *string    `gorm:"type:varchar(20)"                               json:"telefono"`
	FechaNacimiento    *time.Time `gorm:"type:date"                                      json:"fecha_nacimiento"`
	ContactoEmergencia *string    `gorm:"type:varchar(150)"                              json:"contacto_emergencia"`
	TelefonoEmergencia *string    `gorm:"type:varchar(20)"                               json:"telefono_emergencia"`
	Direccion          *string    `gorm:"type:text"                                      json:"direccion"`
	BaseModel

	Usuario *User `gorm:"foreignKey:UsuarioID" json:"-"`
}

// TableName 指定表名
func (StudentProfile) TableName() string { return "perfiles_alumno" }

// FullName 姓名
func (p *StudentProfile) FullName() string {
	name := p.Nombre + " " + p.ApellidoPaterno
	if p.ApellidoMaterno != nil && *p.ApellidoMaterno != "" {
		name += " " + *p.ApellidoMaterno
	}
	return name
}

// InstructorProfile 讲师档案 对应 perfiles_instructor
type InstructorProfile struct {
	ID                 string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UsuarioID          string  `gorm:"type:uuid;not null;uniqueIndex"                 json:"usuario_id"`
	Nombre             string  `gorm:"type:varchar(100);not null"                     json:"nombre"`
	ApellidoPaterno    string  `gorm:"type:varchar(100);not null"                     json:"apellido_paterno"`
	ApellidoMaterno    *string `gorm:"type:varchar(100)"                              json:"apellido_materno"`
	Especialidad       *string `gorm:"type:varchar(150)"                              json:"especialidad"`
	Telefono           *string `gorm:"type:varchar(20)"                               json:"telefono"`
	Descripcion        *string `gorm:"type:text"                                      json:"descripcion"`
	ContactoEmergencia *string `gorm:"type:varchar(150)"                              json:"contacto_emergencia"`
	TelefonoEmergencia *string `gorm:"type:varchar(20)"                               json:"telefono_emergencia"`
	Direccion          *string `gorm:"type:text"                                      json:"direccion"`
	BaseModel

	Usuario *User `gorm:"foreignKey:UsuarioID" json:"-"`
}

// TableName 指定表名
func (InstructorProfile) TableName() string { return "perfiles_instructor" }

// FullName 姓名
func (p *InstructorProfile) FullName() string {
	name := p.Nombre + " " + p.ApellidoPaterno
	if p.ApellidoMaterno != nil && *p.ApellidoMaterno != "" {
		name += " " + *p.ApellidoMaterno
	}
	return name
}
