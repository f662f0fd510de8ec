package dto

import "time"

// ── 报名模块 DTO ──

// EnrollRequest POST /talleres/:id/inscribirse
type EnrollRequest struct {
	Comentarios *string `json:"comentarios" binding:"omitempty,max=500"`
}

// MyEnrollmentsQuery 学生报名列表查询
type MyEnrollmentsQuery struct {
	Estado string `form:"estado" binding:"omitempty,oneof=activa cancelada completada"`
	PageQuery
}

// EnrollmentResponse 报名信息（联结工作坊与学生展示字段）
// alumno_email 只出现在管理员 / 讲师视图中
type EnrollmentResponse struct {
	ID               string    `json:"id"`
	AlumnoID         string    `json:"alumno_id"`
	TallerID         string    `json:"taller_id"`
	Estado           string    `json:"estado"`
	Comentarios      *string   `json:"comentarios"`
	FechaInscripcion time.Time `json:"fecha_inscripcion"`
	TallerNombre     string    `json:"taller_nombre"`
	TallerCategoria  string    `json:"taller_categoria"`
	TallerHorario    *string   `json:"taller_horario"`
	TallerUbicacion  *string   `json:"taller_ubicacion"`
	InstructorNombre string    `json:"instructor_nombre,omitempty"`
	AlumnoNombre     string    `json:"alumno_nombre,omitempty"`
	NumeroControl    string    `json:"numero_control,omitempty"`
	AlumnoEmail      string    `json:"alumno_email,omitempty"`
}

// EligibilityResponse 报名资格检查结果
type EligibilityResponse struct {
	Puede  bool   `json:"puede"`
	Motivo string `json:"motivo,omitempty"` // 稳定的原因标识
	Razon  string `json:"razon,omitempty"`  // 可读说明
}
