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

const dateLayout = "2006-01-02"

// TallerService 工作坊业务接口
type TallerService interface {
	List(ctx context.Context, caller Caller, q *dto.WorkshopListQuery) ([]dto.WorkshopResponse, error)
	GetByID(ctx context.Context, caller Caller, id string) (*dto.WorkshopResponse, error)
	ListByCategoria(ctx context.Context, caller Caller, categoria string) ([]dto.WorkshopResponse, error)
	Create(ctx context.Context, caller Caller, req *dto.CreateWorkshopRequest) (*dto.WorkshopResponse, error)
	// Update 讲师只能修改自己的工作坊，且 categoria / cupo_maximo / instructor_id 不可改
	Update(ctx context.Context, caller Caller, id string, req *dto.UpdateWorkshopRequest) (*dto.WorkshopResponse, error)
	Delete(ctx context.Context, caller Caller, id string) error
	ListEnrolledStudents(ctx context.Context, caller Caller, id string, q *dto.RosterQuery) (*dto.Roster, error)
	ListAvailableForStudent(ctx context.Context, caller Caller) ([]dto.WorkshopResponse, error)
	ListMine(ctx context.Context, caller Caller) ([]dto.WorkshopResponse, error)
	Stats(ctx context.Context) (*repository.WorkshopStats, error)
}

type tallerService struct {
	repo   *repository.Repository
	access AccessService
	logger *zap.Logger
}

// NewTallerService 创建 TallerService 实例
func NewTallerService(repo *repository.Repository, access AccessService, logger *zap.Logger) TallerService {
	return &tallerService{repo: repo, access: access, logger: logger}
}

// ────── 查询 ──────

func (s *tallerService) List(ctx context.Context, caller Caller, q *dto.WorkshopListQuery) ([]dto.WorkshopResponse, error) {
	activo := dto.ParseBoolFilter(q.Activo)
	if q.Activo == "" {
		t := true
		activo = &t
	}

	list, err := s.repo.Workshop.List(ctx, repository.WorkshopFilter{
		Categoria: q.Categoria,
		Activo:    activo,
		Search:    strings.TrimSpace(q.Search),
		Limit:     q.GetLimit(50),
		Offset:    q.GetOffset(),
	})
	if err != nil {
		s.logger.Error("查询工作坊列表失败", zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, caller, list)
}

func (s *tallerService) GetByID(ctx context.Context, caller Caller, id string) (*dto.WorkshopResponse, error) {
	w, err := s.getWorkshop(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.toResponses(ctx, caller, []model.Workshop{*w})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *tallerService) ListByCategoria(ctx context.Context, caller Caller, categoria string) ([]dto.WorkshopResponse, error) {
	list, err := s.repo.Workshop.ListByCategoria(ctx, categoria)
	if err != nil {
		s.logger.Error("按分类查询工作坊失败", zap.String("categoria", categoria), zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, caller, list)
}

func (s *tallerService) ListAvailableForStudent(ctx context.Context, caller Caller) ([]dto.WorkshopResponse, error) {
	if caller.Role != RoleAlumno {
		return nil, ErrOnlyStudents
	}
	alumnoID, err := s.access.ResolveStudentProfile(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.Workshop.ListAvailableForStudent(ctx, alumnoID)
	if err != nil {
		s.logger.Error("查询可报名工作坊失败", zap.String("alumno_id", alumnoID), zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, caller, list)
}

func (s *tallerService) ListMine(ctx context.Context, caller Caller) ([]dto.WorkshopResponse, error) {
	if caller.Role != RoleInstructor {
		return nil, ErrOnlyInstructors
	}
	instructorID, err := s.access.ResolveInstructorProfile(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.Workshop.ListByInstructor(ctx, instructorID)
	if err != nil {
		s.logger.Error("查询讲师工作坊失败", zap.String("instructor_id", instructorID), zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, caller, list)
}

func (s *tallerService) Stats(ctx context.Context) (*repository.WorkshopStats, error) {
	stats, err := s.repo.Workshop.Stats(ctx)
	if err != nil {
		s.logger.Error("查询工作坊统计失败", zap.Error(err))
		return nil, err
	}
	return stats, nil
}

// ────── 写操作 ──────

func (s *tallerService) Create(ctx context.Context, caller Caller, req *dto.CreateWorkshopRequest) (*dto.WorkshopResponse, error) {
	if err := s.access.Authorize(ctx, caller, ActionCreate, Resource{Kind: ResourceTaller}); err != nil {
		return nil, err
	}

	w := &model.Workshop{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Categoria:   strings.TrimSpace(req.Categoria),
		CupoMaximo:  req.CupoMaximo,
		Horario:     req.Horario,
		Ubicacion:   req.Ubicacion,
		Requisitos:  req.Requisitos,
		Activo:      true,
	}
	if req.Activo != nil {
		w.Activo = *req.Activo
	}
	if err := setInstructor(ctx, s.repo, w, req.InstructorID); err != nil {
		return nil, err
	}
	if err := setDates(w, req.FechaInicio, req.FechaFin); err != nil {
		return nil, err
	}

	if err := s.repo.Workshop.Create(ctx, w); err != nil {
		s.logger.Error("创建工作坊失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("工作坊已创建", zap.String("taller_id", w.ID), zap.String("by", caller.UserID))

	return s.GetByID(ctx, caller, w.ID)
}

func (s *tallerService) Update(ctx context.Context, caller Caller, id string, req *dto.UpdateWorkshopRequest) (*dto.WorkshopResponse, error) {
	current, err := s.getWorkshop(ctx, id)
	if err != nil {
		return nil, err
	}
	res := Resource{Kind: ResourceTaller, OwnerID: current.OwnerID(), Denied: denyWorkshopEdit}
	if err := s.access.Authorize(ctx, caller, ActionUpdate, res); err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		// 锁定行，与并发报名串行化，保证 cupo_maximo 不低于活跃报名数
		w, err := tx.Workshop.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkshopNotFound
			}
			return err
		}
		// 授权后负责讲师被改派
		if !caller.IsAdmin() && w.OwnerID() != res.OwnerID {
			return deny(res)
		}

		if req.Nombre != nil {
			w.Nombre = strings.TrimSpace(*req.Nombre)
		}
		if req.Descripcion != nil {
			w.Descripcion = req.Descripcion
		}
		if req.Horario != nil {
			w.Horario = req.Horario
		}
		if req.Ubicacion != nil {
			w.Ubicacion = req.Ubicacion
		}
		if req.Requisitos != nil {
			w.Requisitos = req.Requisitos
		}
		if req.Activo != nil {
			w.Activo = *req.Activo
		}
		if err := setDates(w, req.FechaInicio, req.FechaFin); err != nil {
			return err
		}

		// 以下字段仅管理员可修改，讲师提交时忽略
		if caller.IsAdmin() {
			if req.Categoria != nil {
				w.Categoria = strings.TrimSpace(*req.Categoria)
			}
			if req.InstructorID != nil {
				if err := setInstructor(ctx, tx, w, req.InstructorID); err != nil {
					return err
				}
			}
			if req.CupoMaximo != nil && *req.CupoMaximo != w.CupoMaximo {
				active, err := tx.Enrollment.CountActive(ctx, w.ID)
				if err != nil {
					return err
				}
				if int64(*req.CupoMaximo) < active {
					return ErrCapacityBelowActive
				}
				w.CupoMaximo = *req.CupoMaximo
			}
		}

		return tx.Workshop.Update(ctx, w)
	})
	if err != nil {
		if isUnexpected(err) {
			s.logger.Error("更新工作坊失败", zap.String("taller_id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("工作坊已更新", zap.String("taller_id", id), zap.String("by", caller.UserID))
	return s.GetByID(ctx, caller, id)
}

func (s *tallerService) Delete(ctx context.Context, caller Caller, id string) error {
	w, err := s.getWorkshop(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.Authorize(ctx, caller, ActionDelete, Resource{
		Kind:    ResourceTaller,
		OwnerID: w.OwnerID(),
	}); err != nil {
		return err
	}

	if err := s.repo.Workshop.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkshopNotFound
		}
		s.logger.Error("删除工作坊失败", zap.String("taller_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("工作坊已删除", zap.String("taller_id", id), zap.String("by", caller.UserID))
	return nil
}

// ────── 名单 ──────

func (s *tallerService) ListEnrolledStudents(ctx context.Context, caller Caller, id string, q *dto.RosterQuery) (*dto.Roster, error) {
	w, err := s.getWorkshop(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.Authorize(ctx, caller, ActionRead, Resource{
		Kind:    ResourceRoster,
		OwnerID: w.OwnerID(),
		Denied:  denyRoster,
	}); err != nil {
		return nil, err
	}

	list, err := s.repo.Enrollment.ListActiveByWorkshop(ctx, id, strings.TrimSpace(q.Search), q.GetLimit(100), q.GetOffset())
	if err != nil {
		s.logger.Error("查询报名名单失败", zap.String("taller_id", id), zap.Error(err))
		return nil, err
	}

	roster := &dto.Roster{
		Taller:  dto.WorkshopBrief{ID: w.ID, Nombre: w.Nombre, Categoria: w.Categoria},
		Alumnos: make([]dto.EnrolledStudentResponse, 0, len(list)),
	}
	// 授权通过即为管理员或负责讲师，返回联系方式
	for i := range list {
		roster.Alumnos = append(roster.Alumnos, toEnrolledStudent(&list[i]))
	}
	return roster, nil
}

// ── 辅助函数 ──

func (s *tallerService) getWorkshop(ctx context.Context, id string) (*model.Workshop, error) {
	w, err := s.repo.Workshop.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkshopNotFound
		}
		s.logger.Error("查询工作坊失败", zap.String("taller_id", id), zap.Error(err))
		return nil, err
	}
	return w, nil
}

// setInstructor 校验讲师档案存在后写入；空串表示取消分配
func setInstructor(ctx context.Context, repo *repository.Repository, w *model.Workshop, instructorID *string) error {
	if instructorID == nil || *instructorID == "" {
		w.InstructorID = nil
		return nil
	}
	if _, err := repo.Instructor.GetByID(ctx, *instructorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInstructorNotFound
		}
		return err
	}
	id := *instructorID
	w.InstructorID = &id
	return nil
}

// toResponses 批量补齐活跃报名数；instructor_email 仅管理员可见
func (s *tallerService) toResponses(ctx context.Context, caller Caller, list []model.Workshop) ([]dto.WorkshopResponse, error) {
	ids := make([]string, 0, len(list))
	for _, w := range list {
		ids = append(ids, w.ID)
	}
	counts, err := s.repo.Enrollment.CountActiveByWorkshops(ctx, ids)
	if err != nil {
		s.logger.Error("统计报名人数失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.WorkshopResponse, 0, len(list))
	for i := range list {
		out = append(out, toWorkshopResponse(&list[i], counts[list[i].ID], caller.IsAdmin()))
	}
	return out, nil
}

func toWorkshopResponse(w *model.Workshop, active int64, withInstructorEmail bool) dto.WorkshopResponse {
	out := dto.WorkshopResponse{
		ID:               w.ID,
		Nombre:           w.Nombre,
		Descripcion:      w.Descripcion,
		Categoria:        w.Categoria,
		InstructorID:     w.InstructorID,
		CupoMaximo:       w.CupoMaximo,
		Inscritos:        active,
		CuposDisponibles: seatsLeft(w.CupoMaximo, active),
		Horario:          w.Horario,
		Ubicacion:        w.Ubicacion,
		Requisitos:       w.Requisitos,
		FechaInicio:      w.FechaInicio,
		FechaFin:         w.FechaFin,
		Activo:           w.Activo,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
	if w.Instructor != nil {
		out.InstructorNombre = w.Instructor.FullName()
		if withInstructorEmail && w.Instructor.Usuario != nil {
			out.InstructorEmail = w.Instructor.Usuario.Email
		}
	}
	return out
}

func toEnrolledStudent(e *model.Enrollment) dto.EnrolledStudentResponse {
	out := dto.EnrolledStudentResponse{
		InscripcionID:    e.ID,
		AlumnoID:         e.AlumnoID,
		FechaInscripcion: e.FechaInscripcion,
		Comentarios:      e.Comentarios,
	}
	if a := e.Alumno; a != nil {
		out.Nombre = a.Nombre
		out.ApellidoPaterno = a.ApellidoPaterno
		out.ApellidoMaterno = a.ApellidoMaterno
		out.NumeroControl = a.NumeroControl
		out.Grupo = a.Grupo
		out.Semestre = a.Semestre
		out.Telefono = a.Telefono
		if a.Usuario != nil {
			out.Email = a.Usuario.Email
		}
	}
	return out
}

func setDates(w *model.Workshop, inicio, fin *string) error {
	if inicio != nil {
		t, err := parseOptionalDate(*inicio)
		if err != nil {
			return err
		}
		w.FechaInicio = t
	}
	if fin != nil {
		t, err := parseOptionalDate(*fin)
		if err != nil {
			return err
		}
		w.FechaFin = t
	}
	if w.FechaInicio != nil && w.FechaFin != nil && w.FechaFin.Before(*w.FechaInicio) {
		return ErrInvalidDateRange
	}
	return nil
}

// parseOptionalDate 空串返回 nil（清空字段）
func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}
