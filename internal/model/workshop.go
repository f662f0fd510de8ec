package model

import "time"

// Workshop 工作坊 对应 talleres
// CupoMaximo 创建后仅管理员可修改；活跃报名数不得超过该值
type Workshop struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Nombre       string     `gorm:"type:varchar(150);not null"                     json:"nombre"`
	Descripcion  *string    `gorm:"type:text"                                      json:"descripcion"`
	Categoria    string     `gorm:"type:varchar(50);not null;index"                json:"categoria"`
	InstructorID *string    `gorm:"type:uuid;index"                                json:"instructor_id"`
	CupoMaximo   int        `gorm:"not null"                                       json:"cupo_maximo"`
	Horario      *string    `gorm:"type:varchar(150)"                              json:"horario"`
	Ubicacion    *string    `gorm:"type:varchar(150)"                              json:"ubicacion"`
	Requisitos   *string    `gorm:"type:text"                                      json:"requisitos"`
	FechaInicio  *time.Time `gorm:"type:date"                                      json:"fecha_inicio"`
	FechaFin     *time.Time `gorm:"type:date"                                      json:"fecha_fin"`
	Activo       bool       `gorm:"not null;default:true"                          json:"activo"`
	BaseModel

	Instructor *InstructorProfile `gorm:"foreignKey:InstructorID" json:"-"`
}

// TableName 指定表名
func (Workshop) TableName() string { return "talleres" }

// OwnerID 返回负责讲师档案 ID，未分配时为空串
func (w *Workshop) OwnerID() string {
	if w.InstructorID == nil {
		return ""
	}
	return *w.InstructorID
}

// Enrollment 报名 对应 inscripciones
// (alumno_id, taller_id) 在 estado='activa' 下唯一（部分唯一索引）
type Enrollment struct {
	ID               string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AlumnoID         string    `gorm:"type:uuid;not null"                             json:"alumno_id"`
	TallerID         string    `gorm:"type:uuid;not null"                             json:"taller_id"`
	Estado           string    `gorm:"type:varchar(20);not null;default:'activa'"     json:"estado"`
	Comentarios      *string   `gorm:"type:text"                                      json:"comentarios"`
	FechaInscripcion time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"fecha_inscripcion"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	Alumno *StudentProfile `gorm:"foreignKey:AlumnoID" json:"-"`
	Taller *Workshop       `gorm:"foreignKey:TallerID" json:"-"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "inscripciones" }
