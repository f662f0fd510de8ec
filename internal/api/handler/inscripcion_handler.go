package handler

import (
	"github.com/gin-gonic/gin"

	"talleres-api/internal/dto"
	"talleres-api/internal/service"
	"talleres-api/pkg/response"
)

// InscripcionHandler 报名模块 HTTP 处理器
type InscripcionHandler struct {
	enrollmentSvc service.EnrollmentService
	accessSvc     service.AccessService
}

// NewInscripcionHandler 创建 InscripcionHandler
func NewInscripcionHandler(enrollmentSvc service.EnrollmentService, accessSvc service.AccessService) *InscripcionHandler {
	return &InscripcionHandler{enrollmentSvc: enrollmentSvc, accessSvc: accessSvc}
}

// Enroll 学生报名工作坊
// POST /api/talleres/:id/inscribirse
func (h *InscripcionHandler) Enroll(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.EnrollRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	e, err := h.enrollmentSvc.Enroll(c.Request.Context(), caller, c.Param("id"), req.Comentarios)
	if err != nil {
		respondError(c, err, "Error al procesar la inscripción")
		return
	}

	response.Created(c, "Inscripción realizada exitosamente", e)
}

// CanEnroll 报名资格预检（不加锁，结果仅供展示）
// GET /api/talleres/:id/puede-inscribirse
func (h *InscripcionHandler) CanEnroll(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	if caller.Role != service.RoleAlumno {
		respondError(c, service.ErrOnlyStudents, "")
		return
	}

	ctx := c.Request.Context()
	alumnoID, err := h.accessSvc.ResolveStudentProfile(ctx, caller.UserID)
	if err != nil {
		respondError(c, err, "Error al verificar la inscripción")
		return
	}

	elig, err := h.enrollmentSvc.CanEnroll(ctx, alumnoID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Error al verificar la inscripción")
		return
	}

	response.OK(c, "Verificación realizada exitosamente", elig.DTO())
}

// Mine 学生本人的报名记录
// GET /api/talleres/mis-inscripciones?estado=&limit=&offset=
func (h *InscripcionHandler) Mine(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.MyEnrollmentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.enrollmentSvc.ListMine(c.Request.Context(), caller, q.Estado, q.GetLimit(20), q.GetOffset())
	if err != nil {
		respondError(c, err, "Error al obtener las inscripciones")
		return
	}

	okPage(c, "Inscripciones obtenidas exitosamente", list, &q.PageQuery, 20, len(list))
}

// Cancel 取消报名，释放名额
// PUT /api/inscripciones/:id/cancelar
func (h *InscripcionHandler) Cancel(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	e, err := h.enrollmentSvc.Cancel(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err, "Error al cancelar la inscripción")
		return
	}

	response.OK(c, "Inscripción cancelada exitosamente", e)
}
