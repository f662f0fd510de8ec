package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talleres-api/internal/model"
	"talleres-api/internal/repository"
)

// ── 调用方角色 ──

// Role 调用方角色
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleInstructor
	RoleAlumno
)

// ParseRole 由 tipo_usuario 解析角色，未知取值返回 RoleUnknown
func ParseRole(tipo string) Role {
	switch tipo {
	case model.TipoAdmin:
		return RoleAdmin
	case model.TipoInstructor:
		return RoleInstructor
	case model.TipoAlumno:
		return RoleAlumno
	}
	return RoleUnknown
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return model.TipoAdmin
	case RoleInstructor:
		return model.TipoInstructor
	case RoleAlumno:
		return model.TipoAlumno
	}
	return "unknown"
}

// Caller 已认证的调用方（来自 JWT）
type Caller struct {
	UserID string
	Email  string
	Role   Role
}

// IsAdmin 是否管理员
func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// ── 授权模型 ──

// Action 对资源的操作
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// ResourceKind 资源类型
type ResourceKind int

const (
	ResourceTaller ResourceKind = iota
	ResourceRoster
	ResourceAviso
	ResourceFecha
	ResourceInscripcion
	ResourceEmergencia
)

// Resource 授权目标
// OwnerID 为资源归属的档案 ID：工作坊 / 公告 / 日历为讲师档案，报名 / 紧急信息为学生档案
type Resource struct {
	Kind    ResourceKind
	OwnerID string
	// Denied 拒绝时返回的说明，为空时使用通用文案
	Denied string
}

// instructorOwned 讲师可通过归属关系访问的资源
func (k ResourceKind) instructorOwned() bool {
	switch k {
	case ResourceTaller, ResourceRoster, ResourceAviso, ResourceFecha:
		return true
	}
	return false
}

// studentOwned 学生可通过归属关系访问的资源
func (k ResourceKind) studentOwned() bool {
	return k == ResourceInscripcion || k == ResourceEmergencia
}

// AccessService 归属解析与授权
type AccessService interface {
	ResolveInstructorProfile(ctx context.Context, userID string) (string, error)
	ResolveStudentProfile(ctx context.Context, userID string) (string, error)
	Authorize(ctx context.Context, caller Caller, action Action, res Resource) error
}

type accessService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAccessService 创建 AccessService 实例
func NewAccessService(repo *repository.Repository, logger *zap.Logger) AccessService {
	return &accessService{repo: repo, logger: logger}
}

func (s *accessService) ResolveInstructorProfile(ctx context.Context, userID string) (string, error) {
	p, err := s.repo.Instructor.GetByUsuarioID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInstructorProfileNotFound
		}
		s.logger.Error("查询讲师档案失败", zap.String("usuario_id", userID), zap.Error(err))
		return "", err
	}
	return p.ID, nil
}

func (s *accessService) ResolveStudentProfile(ctx context.Context, userID string) (string, error) {
	p, err := s.repo.Student.GetByUsuarioID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrStudentProfileNotFound
		}
		s.logger.Error("查询学生档案失败", zap.String("usuario_id", userID), zap.Error(err))
		return "", err
	}
	return p.ID, nil
}

// Authorize 统一的能力检查
//   - admin: 全部放行
//   - instructor: 仅限归属于自身讲师档案的工作坊 / 名单 / 公告 / 日历；档案缺失视为拒绝
//   - alumno: 仅限自身的报名与紧急信息，另可读取公告与日历事件
//
// 工作坊的读取对所有已认证角色开放，创建与删除仅限管理员
func (s *accessService) Authorize(ctx context.Context, caller Caller, action Action, res Resource) error {
	if caller.Role == RoleAdmin {
		return nil
	}
	if res.Kind == ResourceTaller {
		switch action {
		case ActionRead:
			return nil
		case ActionCreate, ActionDelete:
			return deny(res)
		}
	}
	// 学生可读取公告与日历事件，但不拥有它们
	if caller.Role == RoleAlumno && action == ActionRead && (res.Kind == ResourceAviso || res.Kind == ResourceFecha) {
		return nil
	}

	var (
		profileID string
		err       error
	)
	switch {
	case caller.Role == RoleInstructor && res.Kind.instructorOwned():
		profileID, err = s.ResolveInstructorProfile(ctx, caller.UserID)
		if errors.Is(err, ErrInstructorProfileNotFound) {
			return deny(res)
		}
	case caller.Role == RoleAlumno && res.Kind.studentOwned():
		profileID, err = s.ResolveStudentProfile(ctx, caller.UserID)
		if errors.Is(err, ErrStudentProfileNotFound) {
			return deny(res)
		}
	default:
		return deny(res)
	}
	if err != nil {
		return err
	}

	if !AuthorizeOwnership(caller.Role, res.OwnerID, profileID) {
		return deny(res)
	}
	return nil
}

// AuthorizeOwnership 归属判定：管理员直接放行，其余角色要求资源归属与调用方档案一致
func AuthorizeOwnership(role Role, resourceOwnerID, callerProfileID string) bool {
	if role == RoleAdmin {
		return true
	}
	if role == RoleUnknown || resourceOwnerID == "" || callerProfileID == "" {
		return false
	}
	return resourceOwnerID == callerProfileID
}

func deny(res Resource) error {
	if res.Denied != "" {
		return ErrForbidden.WithMessage(res.Denied)
	}
	return ErrForbidden
}
