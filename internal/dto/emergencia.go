package dto

import "time"

// ── 紧急联系信息 DTO ──

// UpsertEmergencyRequest 创建或更新紧急联系信息
type UpsertEmergencyRequest struct {
	ContactoEmergenciaNombre   string  `json:"contacto_emergencia_nombre"   binding:"omitempty,max=150"`
	ContactoEmergenciaTelefono string  `json:"contacto_emergencia_telefono" binding:"omitempty,max=20"`
	ContactoEmergenciaRelacion string  `json:"contacto_emergencia_relacion" binding:"omitempty,max=50"`
	TipoSangre                 *string `json:"tipo_sangre"                  binding:"omitempty,tipo_sangre"`
	Alergias                   *string `json:"alergias"`
	Medicamentos               *string `json:"medicamentos"`
	CondicionesMedicas         *string `json:"condiciones_medicas"`
	SeguroMedico               *string `json:"seguro_medico"                binding:"omitempty,max=100"`
	NumeroSeguro               *string `json:"numero_seguro"                binding:"omitempty,max=50"`
}

// EmergencyResponse 紧急联系信息
type EmergencyResponse struct {
	ID                         string    `json:"id"`
	AlumnoID                   string    `json:"alumno_id"`
	ContactoEmergenciaNombre   string    `json:"contacto_emergencia_nombre"`
	ContactoEmergenciaTelefono string    `json:"contacto_emergencia_telefono"`
	ContactoEmergenciaRelacion string    `json:"contacto_emergencia_relacion"`
	TipoSangre                 *string   `json:"tipo_sangre"`
	Alergias                   *string   `json:"alergias"`
	Medicamentos               *string   `json:"medicamentos"`
	CondicionesMedicas         *string   `json:"condiciones_medicas"`
	SeguroMedico               *string   `json:"seguro_medico"`
	NumeroSeguro               *string   `json:"numero_seguro"`
	UpdatedAt                  time.Time `json:"updated_at"`
}
