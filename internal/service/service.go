package service

import (
	"go.uber.org/zap"

	"talleres-api/config"
	"talleres-api/internal/repository"
	apperrors "talleres-api/pkg/errors"
	"talleres-api/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Access     AccessService
	Auth       AuthService
	Profile    ProfileService
	Taller     TallerService
	Enrollment EnrollmentService
	Export     ExportService
	Aviso      AvisoService
	Calendario CalendarioService
	Emergencia EmergenciaService
}

// NewService 创建 Service 聚合；blacklist 与 notifier 可为 nil
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	notifier Notifier,
	logger *zap.Logger,
) *Service {
	access := NewAccessService(repo, logger)
	talleres := NewTallerService(repo, access, logger)
	return &Service{
		Access:     access,
		Auth:       NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Profile:    NewProfileService(repo, logger),
		Taller:     talleres,
		Enrollment: NewEnrollmentService(&cfg.Enrollment, repo, access, notifier, logger),
		Export:     NewExportService(talleres, logger),
		Aviso:      NewAvisoService(repo, access, logger),
		Calendario: NewCalendarioService(repo, access, logger),
		Emergencia: NewEmergenciaService(repo, access, logger),
	}
}

// isUnexpected 业务错误之外的失败（数据库、超时等）需要记录日志
func isUnexpected(err error) bool {
	return apperrors.KindOf(err) == apperrors.KindInternal
}
