package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talleres-api/internal/dto"
	"talleres-api/internal/model"
	"talleres-api/internal/repository"
)

// AvisoService 公告业务接口
type AvisoService interface {
	ListByTaller(ctx context.Context, tallerID string, q *dto.AnnouncementListQuery) ([]dto.AnnouncementResponse, error)
	// ListForStudent 学生活跃报名工作坊的公告
	ListForStudent(ctx context.Context, caller Caller, q *dto.PageQuery) ([]dto.AnnouncementResponse, error)
	ListMine(ctx context.Context, caller Caller, q *dto.MyAnnouncementsQuery) ([]dto.AnnouncementResponse, error)
	GetByID(ctx context.Context, caller Caller, id string) (*dto.AnnouncementResponse, error)
	Create(ctx context.Context, caller Caller, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	Update(ctx context.Context, caller Caller, id string, req *dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	Delete(ctx context.Context, caller Caller, id string) error
	Important(ctx context.Context, tallerID string) ([]dto.AnnouncementResponse, error)
	Search(ctx context.Context, caller Caller, q *dto.AnnouncementSearchQuery) ([]dto.AnnouncementResponse, error)
	Stats(ctx context.Context, caller Caller) (*repository.AnnouncementStats, error)
	ExpiringSoon(ctx context.Context, caller Caller, days int) ([]dto.AnnouncementResponse, error)
}

type avisoService struct {
	repo   *repository.Repository
	access AccessService
	logger *zap.Logger
}

// NewAvisoService 创建 AvisoService 实例
func NewAvisoService(repo *repository.Repository, access AccessService, logger *zap.Logger) AvisoService {
	return &avisoService{repo: repo, access: access, logger: logger}
}

// ────── 查询 ──────

func (s *avisoService) ListByTaller(ctx context.Context, tallerID string, q *dto.AnnouncementListQuery) ([]dto.AnnouncementResponse, error) {
	return s.list(ctx, repository.AnnouncementFilter{
		TallerIDs:      []string{tallerID},
		Activo:         boolPtr(true),
		IncludeExpired: q.IncludeExpired,
		Limit:          q.GetLimit(20),
		Offset:         q.GetOffset(),
	})
}

func (s *avisoService) ListForStudent(ctx context.Context, caller Caller, q *dto.PageQuery) ([]dto.AnnouncementResponse, error) {
	if caller.Role != RoleAlumno {
		return nil, ErrOnlyStudents
	}
	alumnoID, err := s.access.ResolveStudentProfile(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	ids, err := s.repo.Enrollment.ActiveWorkshopIDs(ctx, alumnoID)
	if err != nil {
		s.logger.Error("查询学生报名工作坊失败", zap.String("alumno_id", alumnoID), zap.Error(err))
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}

	return s.list(ctx, repository.AnnouncementFilter{
		TallerIDs: ids,
		Activo:    boolPtr(true),
		Limit:     q.GetLimit(20),
		Offset:    q.GetOffset(),
	})
}

func (s *avisoService) ListMine(ctx context.Context, caller Caller, q *dto.MyAnnouncementsQuery) ([]dto.AnnouncementResponse, error) {
	if caller.Role != RoleInstructor {
		return nil, ErrOnlyInstructors
	}
	instructorID, err := s.access.ResolveInstructorProfile(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	return s.list(ctx, repository.AnnouncementFilter{
		InstructorID:   instructorID,
		Activo:         dto.ParseBoolFilter(q.Activo),
		IncludeExpired: true,
		Limit:          q.GetLimit(20),
		Offset:         q.GetOffset(),
	})
}

func (s *avisoService) GetByID(ctx context.Context, caller Caller, id string) (*dto.AnnouncementResponse, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.Authorize(ctx, caller, ActionRead, Resource{
		Kind:    ResourceAviso,
		OwnerID: a.InstructorID,
		Denied:  denyAnnouncementView,
	}); err != nil {
		return nil, err
	}
	resp := toAnnouncementResponse(a)
	return &resp, nil
}

func (s *avisoService) Important(ctx context.Context, tallerID string) ([]dto.AnnouncementResponse, error) {
	f := repository.AnnouncementFilter{
		Activo:        boolPtr(true),
		OnlyImportant: true,
	}
	if tallerID != "" {
		f.TallerIDs = []string{tallerID}
	}
	return s.list(ctx, f)
}

func (s *avisoService) Search(ctx context.Context, caller Caller, q *dto.AnnouncementSearchQuery) ([]dto.AnnouncementResponse, error) {
	term := strings.TrimSpace(q.Q)
	if term == "" {
		return nil, ErrSearchTermRequired
	}
	instructorID, err := instructorScope(ctx, s.access, caller)
	if err != nil {
		return nil, err
	}

	f := repository.AnnouncementFilter{
		InstructorID: instructorID,
		Activo:       boolPtr(true),
		Search:       term,
		Limit:        q.GetLimit(20),
		Offset:       q.GetOffset(),
	}
	if q.TallerID != "" {
		f.TallerIDs = []string{q.TallerID}
	}
	return s.list(ctx, f)
}

func (s *avisoService) Stats(ctx context.Context, caller Caller) (*repository.AnnouncementStats, error) {
	instructorID, err := instructorScope(ctx, s.access, caller)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.Announcement.Stats(ctx, instructorID)
	if err != nil {
		s.logger.Error("查询公告统计失败", zap.Error(err))
		return nil, err
	}
	return stats, nil
}

func (s *avisoService) ExpiringSoon(ctx context.Context, caller Caller, days int) ([]dto.AnnouncementResponse, error) {
	if days <= 0 {
		days = 3
	}
	instructorID, err := instructorScope(ctx, s.access, caller)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.Announcement.ExpiringWithin(ctx, time.Duration(days)*24*time.Hour, instructorID)
	if err != nil {
		s.logger.Error("查询即将过期公告失败", zap.Error(err))
		return nil, err
	}
	return toAnnouncementResponses(list), nil
}

// ────── 写操作 ──────

func (s *avisoService) Create(ctx context.Context, caller Caller, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	if caller.Role != RoleInstructor {
		return nil, ErrAnnouncementCreateRole
	}
	instructorID, err := s.access.ResolveInstructorProfile(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	w, err := s.repo.Workshop.GetByID(ctx, req.TallerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkshopNotFound
		}
		s.logger.Error("查询工作坊失败", zap.String("taller_id", req.TallerID), zap.Error(err))
		return nil, err
	}
	if err := s.access.Authorize(ctx, caller, ActionCreate, Resource{
		Kind:    ResourceAviso,
		OwnerID: w.OwnerID(),
		Denied:  denyAnnouncementNew,
	}); err != nil {
		return nil, err
	}

	a := &model.Announcement{
		TallerID:        w.ID,
		InstructorID:    instructorID,
		Titulo:          strings.TrimSpace(req.Titulo),
		Contenido:       req.Contenido,
		Importante:      req.Importante,
		FechaExpiracion: req.FechaExpiracion,
		Activo:          true,
	}
	if err := s.repo.Announcement.Create(ctx, a); err != nil {
		s.logger.Error("创建公告失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("公告已创建", zap.String("aviso_id", a.ID), zap.String("taller_id", w.ID))

	return s.GetByID(ctx, caller, a.ID)
}

func (s *avisoService) Update(ctx context.Context, caller Caller, id string, req *dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.Authorize(ctx, caller, ActionUpdate, Resource{
		Kind:    ResourceAviso,
		OwnerID: a.InstructorID,
		Denied:  denyAnnouncementEdit,
	}); err != nil {
		return nil, err
	}

	if req.Titulo != nil {
		a.Titulo = strings.TrimSpace(*req.Titulo)
	}
	if req.Contenido != nil {
		a.Contenido = *req.Contenido
	}
	if req.Importante != nil {
		a.Importante = *req.Importante
	}
	if req.FechaExpiracion != nil {
		a.FechaExpiracion = req.FechaExpiracion
	}
	if req.Activo != nil {
		a.Activo = *req.Activo
	}

	if err := s.repo.Announcement.Update(ctx, a); err != nil {
		s.logger.Error("更新公告失败", zap.String("aviso_id", id), zap.Error(err))
		return nil, err
	}
	resp := toAnnouncementResponse(a)
	return &resp, nil
}

func (s *avisoService) Delete(ctx context.Context, caller Caller, id string) error {
	a, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.Authorize(ctx, caller, ActionDelete, Resource{
		Kind:    ResourceAviso,
		OwnerID: a.InstructorID,
		Denied:  denyAnnouncementDel,
	}); err != nil {
		return err
	}

	if err := s.repo.Announcement.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		s.logger.Error("删除公告失败", zap.String("aviso_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("公告已删除", zap.String("aviso_id", id), zap.String("by", caller.UserID))
	return nil
}

// ── 辅助函数 ──

func (s *avisoService) get(ctx context.Context, id string) (*model.Announcement, error) {
	a, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		s.logger.Error("查询公告失败", zap.String("aviso_id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (s *avisoService) list(ctx context.Context, f repository.AnnouncementFilter) ([]dto.AnnouncementResponse, error) {
	list, err := s.repo.Announcement.List(ctx, f)
	if err != nil {
		s.logger.Error("查询公告列表失败", zap.Error(err))
		return nil, err
	}
	return toAnnouncementResponses(list), nil
}

func toAnnouncementResponses(list []model.Announcement) []dto.AnnouncementResponse {
	out := make([]dto.AnnouncementResponse, 0, len(list))
	for i := range list {
		out = append(out, toAnnouncementResponse(&list[i]))
	}
	return out
}

func toAnnouncementResponse(a *model.Announcement) dto.AnnouncementResponse {
	out := dto.AnnouncementResponse{
		ID:              a.ID,
		TallerID:        a.TallerID,
		InstructorID:    a.InstructorID,
		Titulo:          a.Titulo,
		Contenido:       a.Contenido,
		Importante:      a.Importante,
		FechaExpiracion: a.FechaExpiracion,
		Activo:          a.Activo,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.Taller != nil {
		out.TallerNombre = a.Taller.Nombre
	}
	if a.Instructor != nil {
		out.InstructorNombre = a.Instructor.FullName()
	}
	return out
}

// instructorScope 讲师只能看到自己的数据，其余角色不加限制
func instructorScope(ctx context.Context, access AccessService, caller Caller) (string, error) {
	if caller.Role != RoleInstructor {
		return "", nil
	}
	return access.ResolveInstructorProfile(ctx, caller.UserID)
}

func boolPtr(b bool) *bool { return &b }
