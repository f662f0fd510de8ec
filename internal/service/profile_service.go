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

// ProfileService 个人档案业务接口
type ProfileService interface {
	// GetProfile 账号信息 + 按角色返回的 perfil 块（管理员无 perfil）
	GetProfile(ctx context.Context, caller Caller) (*dto.ProfileResponse, error)
	// CompleteProfile 学生补全注册时生成的临时档案
	CompleteProfile(ctx context.Context, caller Caller, req *dto.CompleteProfileRequest) (*dto.CompleteProfileResponse, error)
	UpdateProfile(ctx context.Context, caller Caller, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

// ────── GetProfile ──────

func (s *profileService) GetProfile(ctx context.Context, caller Caller) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", caller.UserID), zap.Error(err))
		return nil, err
	}

	resp := &dto.ProfileResponse{
		ID:            user.ID,
		Email:         user.Email,
		TipoUsuario:   user.TipoUsuario,
		Activo:        user.Activo,
		FechaRegistro: user.FechaRegistro,
	}

	switch ParseRole(user.TipoUsuario) {
	case RoleAlumno:
		p, err := s.repo.Student.GetByUsuarioID(ctx, user.ID)
		if err != nil {
			return nil, s.profileErr(err, user.ID)
		}
		resp.Perfil = toStudentProfileView(p)
	case RoleInstructor:
		p, err := s.repo.Instructor.GetByUsuarioID(ctx, user.ID)
		if err != nil {
			return nil, s.profileErr(err, user.ID)
		}
		resp.Perfil = toInstructorProfileView(p)
	}
	return resp, nil
}

// ────── CompleteProfile ──────

func (s *profileService) CompleteProfile(ctx context.Context, caller Caller, req *dto.CompleteProfileRequest) (*dto.CompleteProfileResponse, error) {
	if caller.Role != RoleAlumno {
		return nil, ErrOnlyStudents
	}

	numeroControl := strings.ToUpper(strings.TrimSpace(req.NumeroControl))
	taken, err := s.repo.Student.NumeroControlTaken(ctx, numeroControl, caller.UserID)
	if err != nil {
		s.logger.Error("检查控制号失败", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, ErrNumeroControlTaken
	}

	p, err := s.repo.Student.GetByUsuarioID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentProfileNotFound
		}
		s.logger.Error("查询学生档案失败", zap.String("user_id", caller.UserID), zap.Error(err))
		return nil, err
	}

	fecha, err := parseOptionalDate(deref(req.FechaNacimiento))
	if err != nil {
		return nil, err
	}

	paterno, materno := splitApellidos(req.Apellidos)
	p.Nombre = strings.TrimSpace(req.Nombre)
	p.ApellidoPaterno = paterno
	p.ApellidoMaterno = materno
	p.NumeroControl = numeroControl
	p.Grupo = trimmedOrNil(req.Grupo)
	p.Semestre = req.Semestre
	p.Telefono = trimmedOrNil(req.Telefono)
	p.FechaNacimiento = fecha

	if err := s.repo.Student.Update(ctx, p); err != nil {
		// 并发提交同一控制号，由唯一索引兜底
		if apperrors.SQLState(err) == database.SQLStateUniqueViolation {
			return nil, ErrNumeroControlTaken
		}
		s.logger.Error("更新学生档案失败", zap.String("perfil_id", p.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学生档案已补全", zap.String("user_id", caller.UserID))
	apellidos := p.ApellidoPaterno
	if p.ApellidoMaterno != nil {
		apellidos += " " + *p.ApellidoMaterno
	}
	return &dto.CompleteProfileResponse{
		ID:              p.ID,
		Nombre:          p.Nombre,
		Apellidos:       apellidos,
		NumeroControl:   p.NumeroControl,
		Grupo:           p.Grupo,
		Semestre:        p.Semestre,
		Telefono:        p.Telefono,
		FechaNacimiento: p.FechaNacimiento,
		PerfilCompleto:  isProfileComplete(p),
	}, nil
}

// ────── UpdateProfile ──────

func (s *profileService) UpdateProfile(ctx context.Context, caller Caller, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if caller.Role == RoleAdmin {
		return nil, ErrAdminProfileReadOnly
	}
	nombre := strings.TrimSpace(req.Nombre)
	paterno := strings.TrimSpace(req.ApellidoPaterno)
	if nombre == "" || paterno == "" {
		return nil, ErrProfileIncomplete
	}

	switch caller.Role {
	case RoleInstructor:
		p, err := s.repo.Instructor.GetByUsuarioID(ctx, caller.UserID)
		if err != nil {
			return nil, s.profileErr(err, caller.UserID)
		}
		p.Nombre = nombre
		p.ApellidoPaterno = paterno
		p.ApellidoMaterno = trimmedOrNil(req.ApellidoMaterno)
		p.Especialidad = trimmedOrNil(req.Especialidad)
		p.Telefono = trimmedOrNil(req.Telefono)
		p.Descripcion = trimmedOrNil(req.Descripcion)
		p.ContactoEmergencia = trimmedOrNil(req.ContactoEmergencia)
		p.TelefonoEmergencia = trimmedOrNil(req.TelefonoEmergencia)
		p.Direccion = trimmedOrNil(req.Direccion)
		if err := s.repo.Instructor.Update(ctx, p); err != nil {
			s.logger.Error("更新讲师档案失败", zap.String("perfil_id", p.ID), zap.Error(err))
			return nil, err
		}
	case RoleAlumno:
		// 学生不能在此修改控制号、分组等学籍字段
		p, err := s.repo.Student.GetByUsuarioID(ctx, caller.UserID)
		if err != nil {
			return nil, s.profileErr(err, caller.UserID)
		}
		p.Nombre = nombre
		p.ApellidoPaterno = paterno
		p.ApellidoMaterno = trimmedOrNil(req.ApellidoMaterno)
		p.ContactoEmergencia = trimmedOrNil(req.ContactoEmergencia)
		p.TelefonoEmergencia = trimmedOrNil(req.TelefonoEmergencia)
		p.Direccion = trimmedOrNil(req.Direccion)
		if err := s.repo.Student.Update(ctx, p); err != nil {
			s.logger.Error("更新学生档案失败", zap.String("perfil_id", p.ID), zap.Error(err))
			return nil, err
		}
	default:
		return nil, ErrForbidden
	}

	s.logger.Info("档案已更新", zap.String("user_id", caller.UserID), zap.String("tipo_usuario", caller.Role.String()))
	return s.GetProfile(ctx, caller)
}

// ── 辅助函数 ──

func (s *profileService) profileErr(err error, userID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProfileNotFound
	}
	s.logger.Error("查询档案失败", zap.String("user_id", userID), zap.Error(err))
	return err
}

// splitApellidos 首个词为父姓，其余为母姓
func splitApellidos(apellidos string) (string, *string) {
	parts := strings.Fields(apellidos)
	if len(parts) == 0 {
		return "", nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	materno := strings.Join(parts[1:], " ")
	return parts[0], &materno
}

// trimmedOrNil 空白字符串视为未填写
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func toStudentProfileView(p *model.StudentProfile) *dto.StudentProfileView {
	return &dto.StudentProfileView{
		ID:                 p.ID,
		Nombre:             p.Nombre,
		ApellidoPaterno:    p.ApellidoPaterno,
		ApellidoMaterno:    p.ApellidoMaterno,
		NumeroControl:      p.NumeroControl,
		Grupo:              p.Grupo,
		Semestre:           p.Semestre,
		Telefono:           p.Telefono,
		FechaNacimiento:    p.FechaNacimiento,
		ContactoEmergencia: p.ContactoEmergencia,
		TelefonoEmergencia: p.TelefonoEmergencia,
		Direccion:          p.Direccion,
		PerfilCompleto:     isProfileComplete(p),
	}
}

func toInstructorProfileView(p *model.InstructorProfile) *dto.InstructorProfileView {
	return &dto.InstructorProfileView{
		ID:                 p.ID,
		Nombre:             p.Nombre,
		ApellidoPaterno:    p.ApellidoPaterno,
		ApellidoMaterno:    p.ApellidoMaterno,
		Especialidad:       p.Especialidad,
		Telefono:           p.Telefono,
		Descripcion:        p.Descripcion,
		ContactoEmergencia: p.ContactoEmergencia,
		TelefonoEmergencia: p.TelefonoEmergencia,
		Direccion:          p.Direccion,
	}
}
