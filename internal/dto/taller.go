package dto

import "time"

// ── 工作坊模块 DTO ──

// WorkshopListQuery 工作坊列表查询
type WorkshopListQuery struct {
	Categoria string `form:"categoria"`
	Activo    string `form:"activo"` // "true"(默认) | "false" | 其他=不过滤
	Search    string `form:"search"`
	PageQuery
}

// CreateWorkshopRequest 创建工作坊请求
type CreateWorkshopRequest struct {
	Nombre       string  `json:"nombre"        binding:"required,max=150"`
	Descripcion  *string `json:"descripcion"`
	Categoria    string  `json:"categoria"     binding:"required,max=50"`
	InstructorID *string `json:"instructor_id" binding:"omitempty,uuid"`
	CupoMaximo   int     `json:"cupo_maximo"   binding:"required,gt=0"`
	Horario      *string `json:"horario"       binding:"omitempty,max=150"`
	Ubicacion    *string `json:"ubicacion"     binding:"omitempty,max=150"`
	Requisitos   *string `json:"requisitos"`
	FechaInicio  *string `json:"fecha_inicio"` // "2006-01-02"
	FechaFin     *string `json:"fecha_fin"`
	Activo       *bool   `json:"activo"`
}

// UpdateWorkshopRequest 更新工作坊请求；讲师提交的 categoria / cupo_maximo / instructor_id 被忽略
type UpdateWorkshopRequest struct {
	Nombre       *string `json:"nombre"        binding:"omitempty,min=1,max=150"`
	Descripcion  *string `json:"descripcion"`
	Categoria    *string `json:"categoria"     binding:"omitempty,min=1,max=50"`
	InstructorID *string `json:"instructor_id" binding:"omitempty,uuid"`
	CupoMaximo   *int    `json:"cupo_maximo"   binding:"omitempty,gt=0"`
	Horario      *string `json:"horario"       binding:"omitempty,max=150"`
	Ubicacion    *string `json:"ubicacion"     binding:"omitempty,max=150"`
	Requisitos   *string `json:"requisitos"`
	FechaInicio  *string `json:"fecha_inicio"`
	FechaFin     *string `json:"fecha_fin"`
	Activo       *bool   `json:"activo"`
}

// WorkshopResponse 工作坊信息
// instructor_email 仅管理员可见
type WorkshopResponse struct {
	ID               string     `json:"id"`
	Nombre           string     `json:"nombre"`
	Descripcion      *string    `json:"descripcion"`
	Categoria        string     `json:"categoria"`
	InstructorID     *string    `json:"instructor_id"`
	InstructorNombre string     `json:"instructor_nombre,omitempty"`
	InstructorEmail  string     `json:"instructor_email,omitempty"`
	CupoMaximo       int        `json:"cupo_maximo"`
	Inscritos        int64      `json:"inscritos"`
	CuposDisponibles int        `json:"cupos_disponibles"`
	Horario          *string    `json:"horario"`
	Ubicacion        *string    `json:"ubicacion"`
	Requisitos       *string    `json:"requisitos"`
	FechaInicio      *time.Time `json:"fecha_inicio"`
	FechaFin         *time.Time `json:"fecha_fin"`
	Activo           bool       `json:"activo"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// WorkshopBrief 工作坊摘要（名单接口附带）
type WorkshopBrief struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Categoria string `json:"categoria"`
}

// SeatsResponse GET /talleres/:id/cupo
type SeatsResponse struct {
	TallerID         string `json:"taller_id"`
	CuposDisponibles int    `json:"cupos_disponibles"`
	TieneCupo        bool   `json:"tiene_cupo"`
}

// RosterQuery 名单查询
type RosterQuery struct {
	Search string `form:"search"`
	PageQuery
}

// EnrolledStudentResponse 名单条目；联系方式仅对管理员与负责讲师返回
type EnrolledStudentResponse struct {
	InscripcionID    string    `json:"inscripcion_id"`
	AlumnoID         string    `json:"alumno_id"`
	Nombre           string    `json:"nombre"`
	ApellidoPaterno  string    `json:"apellido_paterno"`
	ApellidoMaterno  *string   `json:"apellido_materno"`
	NumeroControl    string    `json:"numero_control"`
	Grupo            *string   `json:"grupo"`
	Semestre         *int      `json:"semestre"`
	Email            string    `json:"email,omitempty"`
	Telefono         *string   `json:"telefono,omitempty"`
	FechaInscripcion time.Time `json:"fecha_inscripcion"`
	Comentarios      *string   `json:"comentarios"`
}

// Roster 名单结果
type Roster struct {
	Taller  WorkshopBrief             `json:"taller"`
	Alumnos []EnrolledStudentResponse `json:"alumnos"`
}
