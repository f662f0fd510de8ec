package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talleres-api/internal/dto"
	"talleres-api/internal/model"
	"talleres-api/internal/repository"
	"talleres-api/pkg/database"
	apperrors "talleres-api/pkg/errors"
)

// EmergenciaService 学生紧急联系信息（每名学生至多一条）
type EmergenciaService interface {
	// GetMine 未登记时返回 nil, nil
	GetMine(ctx context.Context, caller Caller) (*dto.EmergencyResponse, error)
	// Upsert 不存在则创建，created 表示本次是否新建
	Upsert(ctx context.Context, caller Caller, req *dto.UpsertEmergencyRequest) (resp *dto.EmergencyResponse, created bool, err error)
	Delete(ctx context.Context, caller Caller, id string) error
}

type emergenciaService struct {
	repo   *repository.Repository
	access AccessService
	logger *zap.Logger
}

// NewEmergenciaService 创建 EmergenciaService 实例
func NewEmergenciaService(repo *repository.Repository, access AccessService, logger *zap.Logger) EmergenciaService {
	return &emergenciaService{repo: repo, access: access, logger: logger}
}

func (s *emergenciaService) GetMine(ctx context.Context, caller Caller) (*dto.EmergencyResponse, error) {
	alumnoID, err := s.studentID(ctx, caller)
	if err != nil {
		return nil, err
	}
	info, err := s.repo.Emergency.GetByAlumnoID(ctx, alumnoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询紧急信息失败", zap.String("alumno_id", alumnoID), zap.Error(err))
		return nil, err
	}
	resp := toEmergencyResponse(info)
	return &resp, nil
}

func (s *emergenciaService) Upsert(ctx context.Context, caller Caller, req *dto.UpsertEmergencyRequest) (*dto.EmergencyResponse, bool, error) {
	nombre := strings.TrimSpace(req.ContactoEmergenciaNombre)
	telefono := strings.TrimSpace(req.ContactoEmergenciaTelefono)
	relacion := strings.TrimSpace(req.ContactoEmergenciaRelacion)
	if nombre == "" || telefono == "" || relacion == "" {
		return nil, false, ErrEmergencyFieldsRequired
	}

	alumnoID, err := s.studentID(ctx, caller)
	if err != nil {
		return nil, false, err
	}

	created := false
	info, err := s.repo.Emergency.GetByAlumnoID(ctx, alumnoID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created = true
		info = &model.EmergencyInfo{AlumnoID: alumnoID}
	case err != nil:
		s.logger.Error("查询紧急信息失败", zap.String("alumno_id", alumnoID), zap.Error(err))
		return nil, false, err
	}

	info.ContactoEmergenciaNombre = nombre
	info.ContactoEmergenciaTelefono = telefono
	info.ContactoEmergenciaRelacion = relacion
	info.TipoSangre = trimmedOrNil(req.TipoSangre)
	info.Alergias = trimmedOrNil(req.Alergias)
	info.Medicamentos = trimmedOrNil(req.Medicamentos)
	info.CondicionesMedicas = trimmedOrNil(req.CondicionesMedicas)
	info.SeguroMedico = trimmedOrNil(req.SeguroMedico)
	info.NumeroSeguro = trimmedOrNil(req.NumeroSeguro)

	if created {
		err = s.repo.Emergency.Create(ctx, info)
		// 并发首次提交：alumno_id 唯一索引冲突时改为更新
		if apperrors.SQLState(err) == database.SQLStateUniqueViolation {
			existing, getErr := s.repo.Emergency.GetByAlumnoID(ctx, alumnoID)
			if getErr != nil {
				return nil, false, getErr
			}
			info.ID = existing.ID
			created = false
			err = s.repo.Emergency.Update(ctx, info)
		}
	} else {
		err = s.repo.Emergency.Update(ctx, info)
	}
	if err != nil {
		s.logger.Error("保存紧急信息失败", zap.String("alumno_id", alumnoID), zap.Error(err))
		return nil, false, err
	}

	s.logger.Info("紧急信息已保存", zap.String("alumno_id", alumnoID), zap.Bool("created", created))
	resp := toEmergencyResponse(info)
	return &resp, created, nil
}

func (s *emergenciaService) Delete(ctx context.Context, caller Caller, id string) error {
	alumnoID, err := s.studentID(ctx, caller)
	if err != nil {
		return err
	}
	if err := s.repo.Emergency.DeleteOwned(ctx, id, alumnoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmergencyNotFound
		}
		s.logger.Error("删除紧急信息失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("紧急信息已删除", zap.String("id", id), zap.String("alumno_id", alumnoID))
	return nil
}

// studentID 仅学生可维护紧急信息
func (s *emergenciaService) studentID(ctx context.Context, caller Caller) (string, error) {
	if caller.Role != RoleAlumno {
		return "", ErrOnlyStudents
	}
	return s.access.ResolveStudentProfile(ctx, caller.UserID)
}

func toEmergencyResponse(info *model.EmergencyInfo) dto.EmergencyResponse {
	return dto.EmergencyResponse{
		ID:                         info.ID,
		AlumnoID:                   info.AlumnoID,
		ContactoEmergenciaNombre:   info.ContactoEmergenciaNombre,
		ContactoEmergenciaTelefono: info.ContactoEmergenciaTelefono,
		ContactoEmergenciaRelacion: info.ContactoEmergenciaRelacion,
		TipoSangre:                 info.TipoSangre,
		Alergias:                   info.Alergias,
		Medicamentos:               info.Medicamentos,
		CondicionesMedicas:         info.CondicionesMedicas,
		SeguroMedico:               info.SeguroMedico,
		NumeroSeguro:               info.NumeroSeguro,
		UpdatedAt:                  info.UpdatedAt,
	}
}
