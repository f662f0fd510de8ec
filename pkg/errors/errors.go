package errors

import (
	"errors"
	"fmt"
)

// Kind 业务错误分类，Handler 层据此映射 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindValidation
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// AppError 带分类的业务错误
// Code 为对外稳定的错误标识（写入响应的 error 字段），Message 为可读说明
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Details interface{}

	origin *AppError
}

func (e *AppError) Error() string { return e.Message }

// Is 以哨兵身份判等，WithDetails 派生的错误仍能 errors.Is 命中原哨兵
// 多个哨兵可共用同一 Code（如 "Acceso denegado"），彼此不相等
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.root() == t.root()
}

// WithDetails 复制错误并附加详情
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	cp.origin = e.root()
	return &cp
}

// WithMessage 复制错误并替换可读说明
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	cp.origin = e.root()
	return &cp
}

func (e *AppError) root() *AppError {
	if e.origin != nil {
		return e.origin
	}
	return e
}

// New 创建业务错误哨兵
func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// KindOf 提取错误分类；非 AppError 一律视为 Internal
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ── 数据库错误 ──

// ErrQueryTimeout 查询超时（客户端 deadline 或服务端 statement_timeout）
var ErrQueryTimeout = errors.New("query timeout")

// QueryError 携带 PostgreSQL SQLSTATE 的数据库错误
type QueryError struct {
	Code string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error [%s]: %v", e.Code, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// SQLState 返回错误链中的 SQLSTATE，不存在时返回空串
func SQLState(err error) string {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}
