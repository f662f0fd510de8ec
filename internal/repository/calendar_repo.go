package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talleres-api/internal/model"
)

// CalendarFilter 日历事件查询条件，零值字段不参与过滤
type CalendarFilter struct {
	TallerIDs    []string
	InstructorID string
	TipoEvento   string
	Desde        *time.Time
	Hasta        *time.Time
	Activo       *bool
	Search       string
	Limit        int
	Offset       int
}

// TypeCount 按事件类型统计
type TypeCount struct {
	TipoEvento string `json:"tipo_evento"`
	Total      int64  `json:"total"`
}

// CalendarStats 日历事件统计
type CalendarStats struct {
	Total    int64       `json:"total_eventos"`
	Proximos int64       `json:"eventos_proximos"`
	Pasados  int64       `json:"eventos_pasados"`
	PorTipo  []TypeCount `json:"por_tipo"`
}

// CalendarEventRepository 日历事件数据访问接口
type CalendarEventRepository interface {
	Create(ctx context.Context, e *model.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*model.CalendarEvent, error)
	List(ctx context.Context, f CalendarFilter) ([]model.CalendarEvent, error)
	Update(ctx context.Context, e *model.CalendarEvent) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, instructorID string) (*CalendarStats, error)
}

type calendarEventRepo struct {
	db *gorm.DB
}

// NewCalendarEventRepo 创建 CalendarEventRepository 实例
func NewCalendarEventRepo(db *gorm.DB) CalendarEventRepository {
	return &calendarEventRepo{db: db}
}

func (r *calendarEventRepo) Create(ctx context.Context, e *model.CalendarEvent) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *calendarEventRepo) GetByID(ctx context.Context, id string) (*model.CalendarEvent, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var e model.CalendarEvent
	err := r.db.WithContext(ctx).
		Preload("Taller").
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *calendarEventRepo) List(ctx context.Context, f CalendarFilter) ([]model.CalendarEvent, error) {
	var ids []string
	if f.TallerIDs != nil {
		if ids = validIDs(f.TallerIDs); len(ids) == 0 {
			return []model.CalendarEvent{}, nil
		}
	}

	db := r.db.WithContext(ctx).Preload("Taller")
	if ids != nil {
		db = db.Where("taller_id IN ?", ids)
	}
	if f.InstructorID != "" {
		db = db.Where("instructor_id = ?", f.InstructorID)
	}
	if f.TipoEvento != "" {
		db = db.Where("tipo_evento = ?", f.TipoEvento)
	}
	if f.Desde != nil {
		db = db.Where("fecha_evento >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		db = db.Where("fecha_evento < ?", *f.Hasta)
	}
	if f.Activo != nil {
		db = db.Where("activo = ?", *f.Activo)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("(titulo ILIKE ? OR descripcion ILIKE ?)", like, like)
	}
	if f.Limit > 0 {
		db = db.Limit(f.Limit)
	}

	var list []model.CalendarEvent
	err := db.Order("fecha_evento ASC").
		Offset(f.Offset).
		Find(&list).Error
	return list, err
}

func (r *calendarEventRepo) Update(ctx context.Context, e *model.CalendarEvent) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error
}

func (r *calendarEventRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CalendarEvent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *calendarEventRepo) Stats(ctx context.Context, instructorID string) (*CalendarStats, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&model.CalendarEvent{}).Where("activo = ?", true)
		if instructorID != "" {
			db = db.Where("instructor_id = ?", instructorID)
		}
		return db
	}

	var stats CalendarStats
	err := r.db.WithContext(ctx).Scopes(scope).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE fecha_evento >= NOW()) AS proximos,
			COUNT(*) FILTER (WHERE fecha_evento < NOW()) AS pasados`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Scopes(scope).
		Select("tipo_evento, COUNT(*) AS total").
		Group("tipo_evento").
		Order("tipo_evento").
		Scan(&stats.PorTipo).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
