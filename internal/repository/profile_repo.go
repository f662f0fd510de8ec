package repository

import (
	"context"

	"gorm.io/gorm"

	"talleres-api/internal/model"
)

// StudentProfileRepository 学生档案数据访问接口
type StudentProfileRepository interface {
	Create(ctx context.Context, profile *model.StudentProfile) error
	GetByID(ctx context.Context, id string) (*model.StudentProfile, error)
	GetByUsuarioID(ctx context.Context, usuarioID string) (*model.StudentProfile, error)
	// NumeroControlTaken 检查控制号是否已被其他账号占用
	NumeroControlTaken(ctx context.Context, numeroControl, excludeUsuarioID string) (bool, error)
	Update(ctx context.Context, profile *model.StudentProfile) error
}

type studentProfileRepo struct {
	db *gorm.DB
}

// NewStudentProfileRepo 创建 StudentProfileRepository 实例
func NewStudentProfileRepo(db *gorm.DB) StudentProfileRepository {
	return &studentProfileRepo{db: db}
}

func (r *studentProfileRepo) Create(ctx context.Context, profile *model.StudentProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *studentProfileRepo) GetByID(ctx context.Context, id string) (*model.StudentProfile, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var p model.StudentProfile
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *studentProfileRepo) GetByUsuarioID(ctx context.Context, usuarioID string) (*model.StudentProfile, error) {
	var p model.StudentProfile
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *studentProfileRepo) NumeroControlTaken(ctx context.Context, numeroControl, excludeUsuarioID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.StudentProfile{}).
		Where("numero_control = ? AND usuario_id <> ?", numeroControl, excludeUsuarioID).
		Count(&count).Error
	return count > 0, err
}

func (r *studentProfileRepo) Update(ctx context.Context, profile *model.StudentProfile) error {
	return r.db.WithContext(ctx).Omit("Usuario").Save(profile).Error
}

// InstructorProfileRepository 讲师档案数据访问接口
type InstructorProfileRepository interface {
	GetByID(ctx context.Context, id string) (*model.InstructorProfile, error)
	GetByUsuarioID(ctx context.Context, usuarioID string) (*model.InstructorProfile, error)
	Update(ctx context.Context, profile *model.InstructorProfile) error
}

type instructorProfileRepo struct {
	db *gorm.DB
}

// NewInstructorProfileRepo 创建 InstructorProfileRepository 实例
func NewInstructorProfileRepo(db *gorm.DB) InstructorProfileRepository {
	return &instructorProfileRepo{db: db}
}

func (r *instructorProfileRepo) GetByID(ctx context.Context, id string) (*model.InstructorProfile, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var p model.InstructorProfile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *instructorProfileRepo) GetByUsuarioID(ctx context.Context, usuarioID string) (*model.InstructorProfile, error) {
	var p model.InstructorProfile
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *instructorProfileRepo) Update(ctx context.Context, profile *model.InstructorProfile) error {
	return r.db.WithContext(ctx).Omit("Usuario").Save(profile).Error
}
