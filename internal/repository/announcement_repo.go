package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talleres-api/internal/model"
)

// AnnouncementFilter 公告查询条件，零值字段不参与过滤
type AnnouncementFilter struct {
	TallerIDs      []string
	InstructorID   string
	Activo         *bool
	IncludeExpired bool
	OnlyImportant  bool
	Search         string
	Limit          int
	Offset         int
}

// AnnouncementStats 公告统计
type AnnouncementStats struct {
	Total       int64 `json:"total_avisos"`
	Activos     int64 `json:"avisos_activos"`
	Importantes int64 `json:"avisos_importantes"`
	Expirados   int64 `json:"avisos_expirados"`
}

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	GetByID(ctx context.Context, id string) (*model.Announcement, error)
	List(ctx context.Context, f AnnouncementFilter) ([]model.Announcement, error)
	ExpiringWithin(ctx context.Context, within time.Duration, instructorID string) ([]model.Announcement, error)
	Update(ctx context.Context, a *model.Announcement) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, instructorID string) (*AnnouncementStats, error)
}

type announcementRepo struct {
	db *gorm.DB
}

// NewAnnouncementRepo 创建 AnnouncementRepository 实例
func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, a *model.Announcement) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *announcementRepo) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var a model.Announcement
	err := r.db.WithContext(ctx).
		Preload("Taller").
		Preload("Instructor").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepo) List(ctx context.Context, f AnnouncementFilter) ([]model.Announcement, error) {
	var ids []string
	if f.TallerIDs != nil {
		if ids = validIDs(f.TallerIDs); len(ids) == 0 {
			return []model.Announcement{}, nil
		}
	}

	db := r.db.WithContext(ctx).
		Preload("Taller").
		Preload("Instructor")
	if ids != nil {
		db = db.Where("taller_id IN ?", ids)
	}
	if f.InstructorID != "" {
		db = db.Where("instructor_id = ?", f.InstructorID)
	}
	if f.Activo != nil {
		db = db.Where("activo = ?", *f.Activo)
	}
	if !f.IncludeExpired {
		db = db.Where("(fecha_expiracion IS NULL OR fecha_expiracion > NOW())")
	}
	if f.OnlyImportant {
		db = db.Where("importante = ?", true)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("(titulo ILIKE ? OR contenido ILIKE ?)", like, like)
	}
	if f.Limit > 0 {
		db = db.Limit(f.Limit)
	}

	var list []model.Announcement
	err := db.Order("importante DESC, created_at DESC").
		Offset(f.Offset).
		Find(&list).Error
	return list, err
}

func (r *announcementRepo) ExpiringWithin(ctx context.Context, within time.Duration, instructorID string) ([]model.Announcement, error) {
	db := r.db.WithContext(ctx).
		Preload("Taller").
		Where("activo = ?", true).
		Where("fecha_expiracion > NOW() AND fecha_expiracion <= ?", time.Now().Add(within))
	if instructorID != "" {
		db = db.Where("instructor_id = ?", instructorID)
	}

	var list []model.Announcement
	err := db.Order("fecha_expiracion ASC").Find(&list).Error
	return list, err
}

func (r *announcementRepo) Update(ctx context.Context, a *model.Announcement) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *announcementRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Announcement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *announcementRepo) Stats(ctx context.Context, instructorID string) (*AnnouncementStats, error) {
	db := r.db.WithContext(ctx).Model(&model.Announcement{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE activo) AS activos,
			COUNT(*) FILTER (WHERE importante AND activo) AS importantes,
			COUNT(*) FILTER (WHERE fecha_expiracion IS NOT NULL AND fecha_expiracion <= NOW()) AS expirados`)
	if instructorID != "" {
		db = db.Where("instructor_id = ?", instructorID)
	}

	var stats AnnouncementStats
	if err := db.Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
