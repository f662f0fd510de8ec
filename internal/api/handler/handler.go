package handler

import "talleres-api/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Taller      *TallerHandler
	Export      *ExportHandler
	Inscripcion *InscripcionHandler
	Aviso       *AvisoHandler
	Calendario  *CalendarioHandler
	Emergencia  *EmergenciaHandler
	Health      *HealthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, health HealthChecker) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		Profile:     NewProfileHandler(svc.Profile),
		Taller:      NewTallerHandler(svc.Taller, svc.Enrollment),
		Export:      NewExportHandler(svc.Export),
		Inscripcion: NewInscripcionHandler(svc.Enrollment, svc.Access),
		Aviso:       NewAvisoHandler(svc.Aviso),
		Calendario:  NewCalendarioHandler(svc.Calendario),
		Emergencia:  NewEmergenciaHandler(svc.Emergencia),
		Health:      NewHealthHandler(health),
	}
}
