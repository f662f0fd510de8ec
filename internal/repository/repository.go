package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talleres-api/pkg/database"
)

var errNoDB = errors.New("repository: 未配置数据库连接")

// Transactor 事务边界
// 默认由 gorm 实现；不连库的场景可注入自定义实现
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context, tx *Repository) error) error
}

// validID 主键均为 UUID，格式非法的 id 不可能命中任何行
// 在发往 Postgres 之前拦截，避免 22P02 被当作内部错误
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// validIDs 过滤掉格式非法的 id
func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			out = append(out, id)
		}
	}
	return out
}

// Repository 所有 Repository 的聚合入口
// 同时承担持久化网关职责：事务边界、原始查询与连接池统计
type Repository struct {
	db           *gorm.DB
	queryTimeout time.Duration

	// Tx 非空时接管 Transaction
	Tx Transactor

	User         UserRepository
	Student      StudentProfileRepository
	Instructor   InstructorProfileRepository
	Workshop     WorkshopRepository
	Enrollment   EnrollmentRepository
	Announcement AnnouncementRepository
	Calendar     CalendarEventRepository
	Emergency    EmergencyInfoRepository
}

// NewRepository 创建 Repository 聚合
// queryTimeout 约束单次事务 / 原始查询的整体耗时
func NewRepository(db *gorm.DB, queryTimeout time.Duration) *Repository {
	return &Repository{
		db:           db,
		queryTimeout: queryTimeout,
		User:         NewUserRepo(db),
		Student:      NewStudentProfileRepo(db),
		Instructor:   NewInstructorProfileRepo(db),
		Workshop:     NewWorkshopRepo(db),
		Enrollment:   NewEnrollmentRepo(db),
		Announcement: NewAnnouncementRepo(db),
		Calendar:     NewCalendarEventRepo(db),
		Emergency:    NewEmergencyInfoRepo(db),
	}
}

// WithTx 返回绑定到事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx, r.queryTimeout)
}

// Transaction 在单个事务中执行 fn
// fn 返回 nil 时提交，返回错误或 panic 时回滚；整体受 queryTimeout 约束
func (r *Repository) Transaction(ctx context.Context, fn func(ctx context.Context, tx *Repository) error) error {
	if r.Tx != nil {
		return r.Tx.Transaction(ctx, fn)
	}
	if r.db == nil {
		return errNoDB
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, r.WithTx(tx))
	})
	return database.TranslateError(err)
}

// Execute 执行参数化 SQL 并返回结果集
func (r *Repository) Execute(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	if r.db == nil {
		return nil, errNoDB
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []map[string]interface{}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return rows, nil
}

// Ping 数据库健康检查
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return errNoDB
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Stats 连接池统计
func (r *Repository) Stats() sql.DBStats {
	if r.db == nil {
		return sql.DBStats{}
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return sql.DBStats{}
	}
	return sqlDB.Stats()
}

func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}
