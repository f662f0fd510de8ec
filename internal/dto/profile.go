package dto

import "time"

// ── 个人档案 DTO ──

// ProfileResponse GET /auth/profile，perfil 按角色返回不同字段
type ProfileResponse struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	TipoUsuario   string      `json:"tipo_usuario"`
	Activo        bool        `json:"activo"`
	FechaRegistro time.Time   `json:"fecha_registro"`
	Perfil        interface{} `json:"perfil,omitempty"`
}

// StudentProfileView 学生档案视图
type StudentProfileView struct {
	ID                 string     `json:"id"`
	Nombre             string     `json:"nombre"`
	ApellidoPaterno    string     `json:"apellido_paterno"`
	ApellidoMaterno    *string    `json:"apellido_materno"`
	NumeroControl      string     `json:"numero_control"`
	Grupo              *string    `json:"grupo"`
	Semestre           *int       `json:"semestre"`
	Telefono           *string    `json:"telefono"`
	FechaNacimiento    *time.Time `json:"fecha_nacimiento"`
	ContactoEmergencia *string    `json:"contacto_emergencia"`
	TelefonoEmergencia *string    `json:"telefono_emergencia"`
	Direccion          *string    `json:"direccion"`
	PerfilCompleto     bool       `json:"perfilCompleto"`
}

// InstructorProfileView 讲师档案视图
type InstructorProfileView struct {
	ID                 string  `json:"id"`
	Nombre             string  `json:"nombre"`
	ApellidoPaterno    string  `json:"apellido_paterno"`
	ApellidoMaterno    *string `json:"apellido_materno"`
	Especialidad       *string `json:"especialidad"`
	Telefono           *string `json:"telefono"`
	Descripcion        *string `json:"descripcion"`
	ContactoEmergencia *string `json:"contacto_emergencia"`
	TelefonoEmergencia *string `json:"telefono_emergencia"`
	Direccion          *string `json:"direccion"`
}

// CompleteProfileRequest 学生注册后补全档案
// apellidos 为完整姓氏，首个词作为父姓，其余作为母姓
type CompleteProfileRequest struct {
	Nombre          string  `json:"nombre"           binding:"required,max=100"`
	Apellidos       string  `json:"apellidos"        binding:"required,max=200"`
	NumeroControl   string  `json:"numero_control"   binding:"required,numero_control"`
	Grupo           *string `json:"grupo"            binding:"omitempty,max=20"`
	Semestre        *int    `json:"semestre"         binding:"omitempty,min=1,max=12"`
	Telefono        *string `json:"telefono"         binding:"omitempty,max=20"`
	FechaNacimiento *string `json:"fecha_nacimiento"` // "2006-01-02"
}

// CompleteProfileResponse 补全档案响应
type CompleteProfileResponse struct {
	ID              string     `json:"id"`
	Nombre          string     `json:"nombre"`
	Apellidos       string     `json:"apellidos"`
	NumeroControl   string     `json:"numero_control"`
	Grupo           *string    `json:"grupo"`
	Semestre        *int       `json:"semestre"`
	Telefono        *string    `json:"telefono"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento"`
	PerfilCompleto  bool       `json:"perfilCompleto"`
}

// UpdateProfileRequest 更新档案请求；讲师与学生共用，学生忽略讲师专属字段
type UpdateProfileRequest struct {
	Nombre             string  `json:"nombre"`
	ApellidoPaterno    string  `json:"apellido_paterno"`
	ApellidoMaterno    *string `json:"apellido_materno"`
	Especialidad       *string `json:"especialidad"`
	Telefono           *string `json:"telefono"`
	Descripcion        *string `json:"descripcion"`
	ContactoEmergencia *string `json:"contacto_emergencia"`
	TelefonoEmergencia *string `json:"telefono_emergencia"`
	Direccion          *string `json:"direccion"`
}
