package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "talleres-api/pkg/errors"
)

// PostgreSQL SQLSTATE
const (
	SQLStateUniqueViolation      = "23505"
	SQLStateForeignKeyViolation  = "23503"
	SQLStateCheckViolation       = "23514"
	SQLStateSerializationFailure = "40001"
	SQLStateDeadlockDetected     = "40P01"
	SQLStateQueryCanceled        = "57014"
)

// TranslateError 将驱动错误转换为携带 SQLSTATE 的 QueryError
//   - 57014（statement_timeout）与 context deadline 均归为 ErrQueryTimeout
//   - gorm.ErrRecordNotFound 及已转换的错误原样返回
func TranslateError(err error) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var qe *apperrors.QueryError
	if errors.As(err, &qe) || errors.Is(err, apperrors.ErrQueryTimeout) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == SQLStateQueryCanceled {
			return &apperrors.QueryError{Code: pgErr.Code, Err: errors.Join(apperrors.ErrQueryTimeout, err)}
		}
		return &apperrors.QueryError{Code: pgErr.Code, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(apperrors.ErrQueryTimeout, err)
	}

	return err
}

// IsRetryable 串行化失败与死锁可整体重试事务
func IsRetryable(err error) bool {
	switch apperrors.SQLState(err) {
	case SQLStateSerializationFailure, SQLStateDeadlockDetected:
		return true
	}
	return false
}

// registerErrorTranslation 在所有 GORM 操作后统一转换错误
func registerErrorTranslation(db *gorm.DB) error {
	translate := func(tx *gorm.DB) {
		if tx.Error != nil {
			tx.Error = TranslateError(tx.Error)
		}
	}

	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("talleres:translate_error", translate); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("talleres:translate_error", translate); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("talleres:translate_error", translate); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("talleres:translate_error", translate); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("talleres:translate_error", translate); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("talleres:translate_error", translate)
}
