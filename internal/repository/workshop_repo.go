package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talleres-api/internal/model"
)

// WorkshopFilter 工作坊列表筛选条件
type WorkshopFilter struct {
	Categoria string
	Activo    *bool
	Search    string
	Limit     int
	Offset    int
}

// CategoryCount 按分类统计
type CategoryCount struct {
	Categoria string `json:"categoria"`
	Total     int64  `json:"total"`
	Inscritos int64  `json:"inscritos"`
}

// WorkshopStats 工作坊汇总统计
type WorkshopStats struct {
	Total          int64           `json:"total_talleres"`
	Activos        int64           `json:"talleres_activos"`
	CupoTotal      int64           `json:"cupo_total"`
	InscritosTotal int64           `json:"inscripciones_activas"`
	PorCategoria   []CategoryCount `json:"por_categoria"`
}

// WorkshopRepository 工作坊数据访问接口
type WorkshopRepository interface {
	Create(ctx context.Context, w *model.Workshop) error
	GetByID(ctx context.Context, id string) (*model.Workshop, error)
	// GetByIDForUpdate 对工作坊行加 FOR UPDATE 锁，必须在事务内调用
	GetByIDForUpdate(ctx context.Context, id string) (*model.Workshop, error)
	List(ctx context.Context, f WorkshopFilter) ([]model.Workshop, error)
	ListByCategoria(ctx context.Context, categoria string) ([]model.Workshop, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]model.Workshop, error)
	// ListAvailableForStudent 活跃、仍有名额且该学生尚未报名的工作坊
	ListAvailableForStudent(ctx context.Context, alumnoID string) ([]model.Workshop, error)
	Update(ctx context.Context, w *model.Workshop) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*WorkshopStats, error)
}

type workshopRepo struct {
	db *gorm.DB
}

// NewWorkshopRepo 创建 WorkshopRepository 实例
func NewWorkshopRepo(db *gorm.DB) WorkshopRepository {
	return &workshopRepo{db: db}
}

func (r *workshopRepo) Create(ctx context.Context, w *model.Workshop) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(w).Error
}

func (r *workshopRepo) GetByID(ctx context.Context, id string) (*model.Workshop, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var w model.Workshop
	err := r.db.WithContext(ctx).
		Preload("Instructor.Usuario").
		Where("id = ?", id).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workshopRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Workshop, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var w model.Workshop
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workshopRepo) List(ctx context.Context, f WorkshopFilter) ([]model.Workshop, error) {
	db := r.db.WithContext(ctx).Model(&model.Workshop{}).Preload("Instructor.Usuario")

	if f.Categoria != "" {
		db = db.Where("categoria = ?", f.Categoria)
	}
	if f.Activo != nil {
		db = db.Where("activo = ?", *f.Activo)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("(nombre ILIKE ? OR descripcion ILIKE ?)", like, like)
	}

	var list []model.Workshop
	err := db.Order("nombre ASC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&list).Error
	return list, err
}

func (r *workshopRepo) ListByCategoria(ctx context.Context, categoria string) ([]model.Workshop, error) {
	var list []model.Workshop
	err := r.db.WithContext(ctx).
		Preload("Instructor.Usuario").
		Where("categoria = ? AND activo = ?", categoria, true).
		Order("nombre ASC").
		Find(&list).Error
	return list, err
}

func (r *workshopRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.Workshop, error) {
	var list []model.Workshop
	err := r.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("activo DESC, nombre ASC").
		Find(&list).Error
	return list, err
}

func (r *workshopRepo) ListAvailableForStudent(ctx context.Context, alumnoID string) ([]model.Workshop, error) {
	var list []model.Workshop
	err := r.db.WithContext(ctx).
		Preload("Instructor.Usuario").
		Where("talleres.activo = ?", true).
		Where(`talleres.cupo_maximo > (
			SELECT COUNT(*) FROM inscripciones i
			WHERE i.taller_id = talleres.id AND i.estado = ?)`, model.EstadoActiva).
		Where(`NOT EXISTS (
			SELECT 1 FROM inscripciones i
			WHERE i.taller_id = talleres.id AND i.alumno_id = ? AND i.estado = ?)`, alumnoID, model.EstadoActiva).
		Order("talleres.nombre ASC").
		Find(&list).Error
	return list, err
}

func (r *workshopRepo) Update(ctx context.Context, w *model.Workshop) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(w).Error
}

func (r *workshopRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Workshop{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *workshopRepo) Stats(ctx context.Context) (*WorkshopStats, error) {
	var stats WorkshopStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)                                  AS total,
		       COUNT(*) FILTER (WHERE activo)            AS activos,
		       COALESCE(SUM(cupo_maximo) FILTER (WHERE activo), 0) AS cupo_total,
		       (SELECT COUNT(*) FROM inscripciones WHERE estado = ?) AS inscritos_total
		FROM talleres`, model.EstadoActiva).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT t.categoria,
		       COUNT(DISTINCT t.id) AS total,
		       COUNT(i.id)          AS inscritos
		FROM talleres t
		LEFT JOIN inscripciones i ON i.taller_id = t.id AND i.estado = ?
		WHERE t.activo
		GROUP BY t.categoria
		ORDER BY t.categoria`, model.EstadoActiva).
		Scan(&stats.PorCategoria).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
