package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 成功响应结构
type Response struct {
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorBody 错误响应结构
// Error 为稳定的错误标识，Message 为面向用户的说明
type ErrorBody struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Pagination 分页元数据
// Total 为当前页返回的条数，而非全量计数
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Message: message, Data: data})
}

// Created 201 创建成功
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Message: message, Data: data})
}

// OKPage 200 分页成功
func OKPage(c *gin.Context, message string, data interface{}, limit, offset, count int) {
	c.JSON(http.StatusOK, Response{
		Message:    message,
		Data:       data,
		Pagination: &Pagination{Limit: limit, Offset: offset, Total: count},
	})
}

// OKWith 200 成功响应，附带额外的顶层字段（如 searchTerm、dias）
func OKWith(c *gin.Context, message string, data interface{}, extra gin.H) {
	body := gin.H{"message": message, "data": data}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, errCode, message string) {
	c.JSON(httpStatus, ErrorBody{Error: errCode, Message: message})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, errCode, message string, details interface{}) {
	c.JSON(httpStatus, ErrorBody{Error: errCode, Message: message, Details: details})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, errCode, message string) {
	Error(c, http.StatusBadRequest, errCode, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, errCode, message string) {
	Error(c, http.StatusUnauthorized, errCode, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, errCode, message string) {
	Error(c, http.StatusForbidden, errCode, message)
}

// NotFound 404
func NotFound(c *gin.Context, errCode, message string) {
	Error(c, http.StatusNotFound, errCode, message)
}

// InternalError 500，不向调用方暴露内部细节
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Ocurrió un error inesperado"
	}
	Error(c, http.StatusInternalServerError, "Error interno del servidor", message)
}
