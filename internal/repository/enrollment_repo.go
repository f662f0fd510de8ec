package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talleres-api/internal/model"
)

// EnrollmentRepository 报名数据访问接口
// 活跃计数只统计 estado='activa' 的行
type EnrollmentRepository interface {
	Create(ctx context.Context, e *model.Enrollment) error
	// GetByID 预加载工作坊（含讲师）与学生（含账号）
	GetByID(ctx context.Context, id string) (*model.Enrollment, error)
	ExistsActive(ctx context.Context, alumnoID, tallerID string) (bool, error)
	CountActive(ctx context.Context, tallerID string) (int64, error)
	CountActiveByWorkshops(ctx context.Context, tallerIDs []string) (map[string]int64, error)
	ListByAlumno(ctx context.Context, alumnoID, estado string, limit, offset int) ([]model.Enrollment, error)
	// ListActiveByWorkshop 工作坊名单，search 匹配姓名 / 控制号 / 邮箱
	ListActiveByWorkshop(ctx context.Context, tallerID, search string, limit, offset int) ([]model.Enrollment, error)
	ActiveWorkshopIDs(ctx context.Context, alumnoID string) ([]string, error)
	// TransitionEstado 仅当当前状态为 from 时改为 to，否则返回 gorm.ErrRecordNotFound
	TransitionEstado(ctx context.Context, id, from, to string) error
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, e *model.Enrollment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var e model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Taller.Instructor").
		Preload("Alumno.Usuario").
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) ExistsActive(ctx context.Context, alumnoID, tallerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("alumno_id = ? AND taller_id = ? AND estado = ?", alumnoID, tallerID, model.EstadoActiva).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepo) CountActive(ctx context.Context, tallerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("taller_id = ? AND estado = ?", tallerID, model.EstadoActiva).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepo) CountActiveByWorkshops(ctx context.Context, tallerIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(tallerIDs))
	if len(tallerIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		TallerID string
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Select("taller_id, COUNT(*) AS total").
		Where("taller_id IN ? AND estado = ?", tallerIDs, model.EstadoActiva).
		Group("taller_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TallerID] = row.Total
	}
	return out, nil
}

func (r *enrollmentRepo) ListByAlumno(ctx context.Context, alumnoID, estado string, limit, offset int) ([]model.Enrollment, error) {
	db := r.db.WithContext(ctx).
		Preload("Taller.Instructor").
		Where("alumno_id = ?", alumnoID)
	if estado != "" {
		db = db.Where("estado = ?", estado)
	}

	var list []model.Enrollment
	err := db.Order("fecha_inscripcion DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *enrollmentRepo) ListActiveByWorkshop(ctx context.Context, tallerID, search string, limit, offset int) ([]model.Enrollment, error) {
	db := r.db.WithContext(ctx).
		Joins("JOIN perfiles_alumno pa ON pa.id = inscripciones.alumno_id").
		Joins("JOIN usuarios u ON u.id = pa.usuario_id").
		Preload("Alumno.Usuario").
		Where("inscripciones.taller_id = ? AND inscripciones.estado = ?", tallerID, model.EstadoActiva)

	if search != "" {
		like := "%" + search + "%"
		db = db.Where(`(pa.nombre ILIKE ? OR pa.apellido_paterno ILIKE ? OR pa.apellido_materno ILIKE ?
			OR pa.numero_control ILIKE ? OR u.email ILIKE ?)`, like, like, like, like, like)
	}

	var list []model.Enrollment
	err := db.Order("pa.apellido_paterno ASC, pa.nombre ASC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *enrollmentRepo) ActiveWorkshopIDs(ctx context.Context, alumnoID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("alumno_id = ? AND estado = ?", alumnoID, model.EstadoActiva).
		Pluck("taller_id", &ids).Error
	return ids, err
}

func (r *enrollmentRepo) TransitionEstado(ctx context.Context, id, from, to string) error {
	if !validID(id) {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("id = ? AND estado = ?", id, from).
		Updates(map[string]interface{}{
			"estado":     to,
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
