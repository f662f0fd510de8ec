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
	"talleres-api/pkg/validation"
)

const defaultTipoEvento = "evento"

// CalendarioService 日历事件业务接口
type CalendarioService interface {
	ListByTaller(ctx context.Context, tallerID string, q *dto.EventRangeQuery) ([]dto.EventResponse, error)
	ListMine(ctx context.Context, caller Caller, q *dto.EventRangeQuery) ([]dto.EventResponse, error)
	UpcomingForStudent(ctx context.Context, caller Caller, dias int) ([]dto.EventResponse, error)
	GetByID(ctx context.Context, caller Caller, id string) (*dto.EventResponse, error)
	Create(ctx context.Context, caller Caller, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	Update(ctx context.Context, caller Caller, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, caller Caller, id string) error
	Monthly(ctx context.Context, q *dto.MonthlyQuery) ([]dto.EventResponse, error)
	Today(ctx context.Context, tallerID string) ([]dto.EventResponse, error)
	ByType(ctx context.Context, tipo string, q *dto.EventRangeQuery) ([]dto.EventResponse, error)
	Search(ctx context.Context, caller Caller, q *dto.EventRangeQuery) ([]dto.EventResponse, error)
	Stats(ctx context.Context, caller Caller) (*repository.CalendarStats, error)
	// Range 按日分组，fechaInicio / fechaFin 均包含在内
	Range(ctx context.Context, q *dto.EventRangeQuery) ([]dto.DayEvents, error)
}

type calendarioService struct {
	repo   *repository.Repository
	access AccessService
	now    func() time.Time
	logger *zap.Logger
}

// NewCalendarioService 创建 CalendarioService 实例
func NewCalendarioService(repo *repository.Repository, access AccessService, logger *zap.Logger) CalendarioService {
	return &calendarioService{repo: repo, access: access, now: time.Now, logger: logger}
}

// ────── 查询 ──────

func (s *calendarioService) ListByTaller(ctx context.Context, tallerID string, q *dto.EventRangeQuery) ([]dto.EventResponse, error) {
	f, err := rangeFilter(q)
	if err != nil {
		return nil, err
	}
	f.TallerIDs = []string{tallerID}
	f.TipoEvento = q.TipoEvento
	f.Activo = boolPtr(true)
	f.Limit = q.GetLimit(50)
	f.Offset = q.GetOffset()
	return s.list(ctx, f)
}

func (s *calendarioService) ListMine(ctx context.Context, caller Caller, q *dto.EventRangeQuery) ([]dto.EventResponse, error) {
	if caller.Role != RoleInstructor {
		return nil, ErrOnlyInstructors
	}
	instructorID, err := s.access.ResolveInstructorProfile(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	f, err := rangeFilter(q)
	if err != nil {
		return nil, err
	}
	f.InstructorID = instructorID
	f.Activo = dto.ParseBoolFilter(q.Activo)
	if q.Activo == "" {
		f.Activo = boolPtr(true)
	}
	f.Limit = q.GetLimit(50)
	f.Offset = q.GetOffset()
	return s.list(ctx, f)
}

func (s *calendarioService) UpcomingForStudent(ctx context.Context, caller Caller, dias int) ([]dto.EventResponse, error) {
	if caller.Role != RoleAlumno {
		return nil, ErrOnlyStudents
	}
	if dias <= 0 {
		dias = 30
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

	now := s.now().UTC()
	hasta := now.AddDate(0, 0, dias)
	return s.list(ctx, repository.CalendarFilter{
		TallerIDs: ids,
		Desde:     &now,
		Hasta:     &hasta,
		Activo:    boolPtr(true),
	})
}

func (s *calendarioService) GetByID(ctx context.Context, caller Caller, id string) (*dto.EventResponse, error) {
	e, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.Authorize(ctx, caller, ActionRead, Resource{
		Kind:    ResourceFecha,
		OwnerID: e.InstructorID,
		Denied:  denyEventView,
	}); err != nil {
		return nil, err
	}
	resp := toEventResponse(e)
	return &resp, nil
}

func (s *calendarioService) Monthly(ctx context.Context, q *dto.MonthlyQuery) ([]dto.EventResponse, error) {
	if q.Year <= 0 || q.Month < 1 || q.Month > 12 {
		return nil, ErrMonthParams
	}
	if q.TallerID == "" {
		return nil, ErrTallerParamRequired
	}

	desde := time.Date(q.Year, time.Month(q.Month), 1, 0, 0, 0, 0, time.UTC)
	hasta := desde.AddDate(0, 1, 0)
	return s.list(ctx, repository.CalendarFilter{
		TallerIDs: []string{q.TallerID},
		Desde:     &desde,
		Hasta:     &hasta,
		Activo:    boolPtr(true),
	})
}

func (s *calendarioService) Today(ctx context.Context, tallerID string) ([]dto.EventResponse, error) {
	now := s.now().UTC()
	desde := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	hasta := desde.AddDate(0, 0, 1)

	f := repository.CalendarFilter{Desde: &desde, Hasta: &hasta, Activo: boolPtr(true)}
	if tallerID != "" {
		f.TallerIDs = []string{tallerID}
	}
	return s.list(ctx, f)
}

func (s *calendarioService) ByType(ctx context.Context, tipo string, q *dto.EventRangeQuery) ([]dto.EventResponse, error) {
	if !validation.IsTipoEvento(tipo) {
		return nil, ErrInvalidEventType
	}
	f, err := rangeFilter(q)
	if err != nil {
		return nil, err
	}
	f.TipoEvento = tipo
	f.Activo = boolPtr(true)
	if q.TallerID != "" {
		f.TallerIDs = []string{q.TallerID}
	}
	f.Limit = q.GetLimit(20)
	f.Offset = q.GetOffset()
	return s.list(ctx, f)
}

func (s *calendarioService) Search(ctx context.Context, caller Caller, q *dto.EventRangeQuery) ([]dto.EventResponse, error) {
	term := strings.TrimSpace(q.Q)
	if term == "" {
		return nil, ErrSearchTermRequired
	}
	instructorID, err := instructorScope(ctx, s.access, caller)
	if err != nil {
		return nil, err
	}

	f := repository.CalendarFilter{
		InstructorID: instructorID,
		TipoEvento:   q.TipoEvento,
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

func (s *calendarioService) Stats(ctx context.Context, caller Caller) (*repository.CalendarStats, error) {
	instructorID, err := instructorScope(ctx, s.access, caller)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.Calendar.Stats(ctx, instructorID)
	if err != nil {
		s.logger.Error("查询日历统计失败", zap.Error(err))
		return nil, err
	}
	return stats, nil
}

func (s *calendarioService) Range(ctx context.Context, q *dto.EventRangeQuery) ([]dto.DayEvents, error) {
	if q.FechaInicio == "" || q.FechaFin == "" {
		return nil, ErrRangeParams
	}
	f, err := rangeFilter(q)
	if err != nil {
		return nil, err
	}
	f.Activo = boolPtr(true)
	if q.TallerID != "" {
		f.TallerIDs = []string{q.TallerID}
	}

	events, err := s.list(ctx, f)
	if err != nil {
		return nil, err
	}
	return groupByDay(events), nil
}

// ────── 写操作 ──────

func (s *calendarioService) Create(ctx context.Context, caller Caller, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if caller.Role != RoleInstructor {
		return nil, ErrEventCreateRole
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
		Kind:    ResourceFecha,
		OwnerID: w.OwnerID(),
		Denied:  denyEventNew,
	}); err != nil {
		return nil, err
	}

	tipo := req.TipoEvento
	if tipo == "" {
		tipo = defaultTipoEvento
	}
	e := &model.CalendarEvent{
		TallerID:     w.ID,
		InstructorID: instructorID,
		Titulo:       strings.TrimSpace(req.Titulo),
		Descripcion:  req.Descripcion,
		FechaEvento:  req.FechaEvento,
		TipoEvento:   tipo,
		Activo:       true,
	}
	if err := s.repo.Calendar.Create(ctx, e); err != nil {
		s.logger.Error("创建日历事件失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("日历事件已创建", zap.String("fecha_id", e.ID), zap.String("taller_id", w.ID))

	e.Taller = w
	resp := toEventResponse(e)
	return &resp, nil
}

func (s *calendarioService) Update(ctx context.Context, caller Caller, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	e, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.Authorize(ctx, caller, ActionUpdate, Resource{
		Kind:    ResourceFecha,
		OwnerID: e.InstructorID,
		Denied:  denyEventEdit,
	}); err != nil {
		return nil, err
	}

	if req.Titulo != nil {
		e.Titulo = strings.TrimSpace(*req.Titulo)
	}
	if req.Descripcion != nil {
		e.Descripcion = req.Descripcion
	}
	if req.FechaEvento != nil {
		e.FechaEvento = *req.FechaEvento
	}
	if req.TipoEvento != nil {
		e.TipoEvento = *req.TipoEvento
	}
	if req.Activo != nil {
		e.Activo = *req.Activo
	}

	if err := s.repo.Calendar.Update(ctx, e); err != nil {
		s.logger.Error("更新日历事件失败", zap.String("fecha_id", id), zap.Error(err))
		return nil, err
	}
	resp := toEventResponse(e)
	return &resp, nil
}

func (s *calendarioService) Delete(ctx context.Context, caller Caller, id string) error {
	e, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.Authorize(ctx, caller, ActionDelete, Resource{
		Kind:    ResourceFecha,
		OwnerID: e.InstructorID,
		Denied:  denyEventDel,
	}); err != nil {
		return err
	}

	if err := s.repo.Calendar.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("删除日历事件失败", zap.String("fecha_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("日历事件已删除", zap.String("fecha_id", id), zap.String("by", caller.UserID))
	return nil
}

// ── 辅助函数 ──

func (s *calendarioService) get(ctx context.Context, id string) (*model.CalendarEvent, error) {
	e, err := s.repo.Calendar.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询日历事件失败", zap.String("fecha_id", id), zap.Error(err))
		return nil, err
	}
	return e, nil
}

func (s *calendarioService) list(ctx context.Context, f repository.CalendarFilter) ([]dto.EventResponse, error) {
	list, err := s.repo.Calendar.List(ctx, f)
	if err != nil {
		s.logger.Error("查询日历事件失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.EventResponse, 0, len(list))
	for i := range list {
		out = append(out, toEventResponse(&list[i]))
	}
	return out, nil
}

// rangeFilter 解析 fechaInicio / fechaFin（YYYY-MM-DD），fechaFin 当天包含在内
func rangeFilter(q *dto.EventRangeQuery) (repository.CalendarFilter, error) {
	var f repository.CalendarFilter
	desde, err := parseOptionalDate(q.FechaInicio)
	if err != nil {
		return f, err
	}
	hasta, err := parseOptionalDate(q.FechaFin)
	if err != nil {
		return f, err
	}
	if hasta != nil {
		next := hasta.AddDate(0, 0, 1)
		hasta = &next
	}
	if desde != nil && hasta != nil && !hasta.After(*desde) {
		return f, ErrInvalidDateRange
	}
	f.Desde, f.Hasta = desde, hasta
	return f, nil
}

// groupByDay 事件已按 fecha_evento 升序，按 UTC 日期聚合
func groupByDay(events []dto.EventResponse) []dto.DayEvents {
	out := []dto.DayEvents{}
	for _, e := range events {
		day := e.FechaEvento.UTC().Format(dateLayout)
		if n := len(out); n > 0 && out[n-1].Fecha == day {
			out[n-1].Eventos = append(out[n-1].Eventos, e)
			continue
		}
		out = append(out, dto.DayEvents{Fecha: day, Eventos: []dto.EventResponse{e}})
	}
	return out
}

func toEventResponse(e *model.CalendarEvent) dto.EventResponse {
	out := dto.EventResponse{
		ID:           e.ID,
		TallerID:     e.TallerID,
		InstructorID: e.InstructorID,
		Titulo:       e.Titulo,
		Descripcion:  e.Descripcion,
		FechaEvento:  e.FechaEvento,
		TipoEvento:   e.TipoEvento,
		Activo:       e.Activo,
		CreatedAt:    e.CreatedAt,
	}
	if e.Taller != nil {
		out.TallerNombre = e.Taller.Nombre
	}
	return out
}
