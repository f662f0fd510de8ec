package repository

import (
	"context"

	"gorm.io/gorm"

	"talleres-api/internal/model"
)

// EmergencyInfoRepository 紧急联系信息数据访问接口
type EmergencyInfoRepository interface {
	GetByAlumnoID(ctx context.Context, alumnoID string) (*model.EmergencyInfo, error)
	Create(ctx context.Context, info *model.EmergencyInfo) error
	Update(ctx context.Context, info *model.EmergencyInfo) error
	// DeleteOwned 仅删除属于 alumnoID 的记录，不存在或不属于时返回 ErrRecordNotFound
	DeleteOwned(ctx context.Context, id, alumnoID string) error
}

type emergencyInfoRepo struct {
	db *gorm.DB
}

// NewEmergencyInfoRepo 创建 EmergencyInfoRepository 实例
func NewEmergencyInfoRepo(db *gorm.DB) EmergencyInfoRepository {
	return &emergencyInfoRepo{db: db}
}

func (r *emergencyInfoRepo) GetByAlumnoID(ctx context.Context, alumnoID string) (*model.EmergencyInfo, error) {
	var info model.EmergencyInfo
	err := r.db.WithContext(ctx).
		Where("alumno_id = ?", alumnoID).
		First(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *emergencyInfoRepo) Create(ctx context.Context, info *model.EmergencyInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

func (r *emergencyInfoRepo) Update(ctx context.Context, info *model.EmergencyInfo) error {
	return r.db.WithContext(ctx).Save(info).Error
}

func (r *emergencyInfoRepo) DeleteOwned(ctx context.Context, id, alumnoID string) error {
	if !validID(id) {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).
		Where("id = ? AND alumno_id = ?", id, alumnoID).
		Delete(&model.EmergencyInfo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
