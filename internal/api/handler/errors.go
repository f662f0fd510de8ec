package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"talleres-api/internal/dto"
	apperrors "talleres-api/pkg/errors"
	"talleres-api/pkg/response"
	"talleres-api/pkg/validation"
)

// statusOf 业务错误分类 -> HTTP 状态码
func statusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// respondError 将 Service 层错误写成统一错误响应
// 非业务错误只返回 internalMsg，原始错误挂到 c.Errors 由日志中间件记录
func respondError(c *gin.Context, err error, internalMsg string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Kind != apperrors.KindInternal {
		response.ErrorWithDetails(c, statusOf(appErr.Kind), appErr.Code, appErr.Message, appErr.Details)
		return
	}

	_ = c.Error(err)
	if errors.Is(err, apperrors.ErrQueryTimeout) {
		response.InternalError(c, "La operación excedió el tiempo límite")
		return
	}
	response.InternalError(c, internalMsg)
}

// bindOptionalJSON 请求体可选：空体（含长度未知的 chunked 空体）视为零值
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return false
	}
	return true
}

// bindError 请求参数校验失败
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, "Solicitud demasiado grande", "El cuerpo de la solicitud excede el tamaño permitido")
		return
	}
	if fields := validation.FieldErrors(err); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Datos inválidos", "Los datos enviados no son válidos", fields)
		return
	}
	response.BadRequest(c, "Datos inválidos", "El cuerpo de la solicitud no es válido")
}

// okPage 分页成功响应；limit 回显与 Service 层相同的默认值
func okPage(c *gin.Context, message string, data interface{}, q *dto.PageQuery, defLimit, count int) {
	response.OKPage(c, message, data, q.GetLimit(defLimit), q.GetOffset(), count)
}
