package model

import "time"

// Announcement 公告 对应 avisos，归属一个讲师与一个工作坊
type Announcement struct {
	ID              string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TallerID        string     `gorm:"type:uuid;not null;index"                       json:"taller_id"`
	InstructorID    string     `gorm:"type:uuid;not null;index"                       json:"instructor_id"`
	Titulo          string     `gorm:"type:varchar(200);not null"                     json:"titulo"`
	Contenido       string     `gorm:"type:text;not null"                             json:"contenido"`
	Importante      bool       `gorm:"not null;default:false"                         json:"importante"`
	FechaExpiracion *time.Time `                                                      json:"fecha_expiracion"`
	Activo          bool       `gorm:"not null;default:true"                          json:"activo"`
	BaseModel

	Taller     *Workshop          `gorm:"foreignKey:TallerID"     json:"-"`
	Instructor *InstructorProfile `gorm:"foreignKey:InstructorID" json:"-"`
}

// TableName 指定表名
func (Announcement) TableName() string { return "avisos" }

// CalendarEvent 日历事件 对应 fechas_importantes
type CalendarEvent struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TallerID     string    `gorm:"type:uuid;not null"                             json:"taller_id"`
	InstructorID string    `gorm:"type:uuid;not null"                             json:"instructor_id"`
	Titulo       string    `gorm:"type:varchar(200);not null"                     json:"titulo"`
	Descripcion  *string   `gorm:"type:text"                                      json:"descripcion"`
	FechaEvento  time.Time `gorm:"not null"                                       json:"fecha_evento"`
	TipoEvento   string    `gorm:"type:varchar(30);not null;default:'evento'"     json:"tipo_evento"`
	Activo       bool      `gorm:"not null;default:true"                          json:"activo"`
	BaseModel

	Taller     *Workshop          `gorm:"foreignKey:TallerID"     json:"-"`
	Instructor *InstructorProfile `gorm:"foreignKey:InstructorID" json:"-"`
}

// TableName 指定表名
func (CalendarEvent) TableName() string { return "fechas_importantes" }

// EmergencyInfo 紧急联系信息 对应 informacion_emergencia，与学生档案一对一
type EmergencyInfo struct {
	ID                         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AlumnoID                   string  `gorm:"type:uuid;not null;uniqueIndex"                 json:"alumno_id"`
	ContactoEmergenciaNombre   string  `gorm:"type:varchar(150);not null"                     json:"contacto_emergencia_nombre"`
	ContactoEmergenciaTelefono string  `gorm:"type:varchar(20);not null"                      json:"contacto_emergencia_telefono"`
	ContactoEmergenciaRelacion string  `gorm:"type:varchar(50);not null"                      json:"contacto_emergencia_relacion"`
	TipoSangre                 *string `gorm:"type:varchar(5)"                                json:"tipo_sangre"`
	Alergias                   *string `gorm:"type:text"                                      json:"alergias"`
	Medicamentos               *string `gorm:"type:text"                                      json:"medicamentos"`
	CondicionesMedicas         *string `gorm:"type:text"                                      json:"condiciones_medicas"`
	SeguroMedico               *string `gorm:"type:varchar(100)"                              json:"seguro_medico"`
	NumeroSeguro               *string `gorm:"type:varchar(50)"                               json:"numero_seguro"`
	BaseModel
}

// TableName 指定表名
func (EmergencyInfo) TableName() string { return "informacion_emergencia" }
