package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"talleres-api/internal/dto"
	"talleres-api/internal/service"
	"talleres-api/pkg/response"
)

// TallerHandler 工作坊模块 HTTP 处理器
type TallerHandler struct {
	tallerSvc     service.TallerService
	enrollmentSvc service.EnrollmentService
}

// NewTallerHandler 创建 TallerHandler
func NewTallerHandler(tallerSvc service.TallerService, enrollmentSvc service.EnrollmentService) *TallerHandler {
	return &TallerHandler{tallerSvc: tallerSvc, enrollmentSvc: enrollmentSvc}
}

// List 工作坊列表（默认只含启用的工作坊）
// GET /api/talleres?categoria=&activo=&search=&limit=&offset=
func (h *TallerHandler) List(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.WorkshopListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.tallerSvc.List(c.Request.Context(), caller, &q)
	if err != nil {
		respondError(c, err, "Error al obtener los talleres")
		return
	}

	okPage(c, "Talleres obtenidos exitosamente", list, &q.PageQuery, 50, len(list))
}

// Get 工作坊详情
// GET /api/talleres/:id
func (h *TallerHandler) Get(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	w, err := h.tallerSvc.GetByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err, "Error al obtener el taller")
		return
	}

	response.OK(c, "Taller obtenido exitosamente", w)
}

// ListByCategoria 按分类列出启用的工作坊
// GET /api/talleres/categoria/:categoria
func (h *TallerHandler) ListByCategoria(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	categoria := c.Param("categoria")
	list, err := h.tallerSvc.ListByCategoria(c.Request.Context(), caller, categoria)
	if err != nil {
		respondError(c, err, "Error al obtener los talleres por categoría")
		return
	}

	response.OK(c, fmt.Sprintf("Talleres de %s obtenidos exitosamente", categoria), list)
}

// Create 创建工作坊（管理员）
// POST /api/talleres
func (h *TallerHandler) Create(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	w, err := h.tallerSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err, "Error al crear el taller")
		return
	}

	response.Created(c, "Taller creado exitosamente", w)
}

// Update 更新工作坊（管理员任意；讲师仅限本人负责的工作坊）
// PUT /api/talleres/:id
func (h *TallerHandler) Update(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	w, err := h.tallerSvc.Update(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Error al actualizar el taller")
		return
	}

	response.OK(c, "Taller actualizado exitosamente", w)
}

// Delete 删除工作坊（管理员）
// DELETE /api/talleres/:id
func (h *TallerHandler) Delete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.tallerSvc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondError(c, err, "Error al eliminar el taller")
		return
	}

	response.OK(c, "Taller eliminado exitosamente", nil)
}

// ListEnrolledStudents 工作坊的在册学生
// GET /api/talleres/:id/alumnos?search=&limit=&offset=
func (h *TallerHandler) ListEnrolledStudents(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.RosterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	roster, err := h.tallerSvc.ListEnrolledStudents(c.Request.Context(), caller, c.Param("id"), &q)
	if err != nil {
		respondError(c, err, "Error al obtener los alumnos inscritos")
		return
	}

	response.OKWith(c, "Alumnos inscritos obtenidos exitosamente", roster.Alumnos, gin.H{
		"taller": roster.Taller,
		"pagination": response.Pagination{
			Limit:  q.GetLimit(100),
			Offset: q.GetOffset(),
			Total:  len(roster.Alumnos),
		},
	})
}

// Available 学生可报名的工作坊（启用、有名额、未报名）
// GET /api/talleres/disponibles
func (h *TallerHandler) Available(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, err := h.tallerSvc.ListAvailableForStudent(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Error al obtener los talleres disponibles")
		return
	}

	response.OK(c, "Talleres disponibles obtenidos exitosamente", list)
}

// Mine 讲师负责的工作坊
// GET /api/talleres/mis-talleres
func (h *TallerHandler) Mine(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, err := h.tallerSvc.ListMine(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Error al obtener los talleres del instructor")
		return
	}

	response.OK(c, "Talleres del instructor obtenidos exitosamente", list)
}

// Stats 工作坊统计（管理员）
// GET /api/talleres/estadisticas
func (h *TallerHandler) Stats(c *gin.Context) {
	stats, err := h.tallerSvc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error al obtener las estadísticas")
		return
	}

	response.OK(c, "Estadísticas obtenidas exitosamente", stats)
}

// Seats 剩余名额；-1 表示工作坊不存在或未启用
// GET /api/talleres/:id/cupo
func (h *TallerHandler) Seats(c *gin.Context) {
	id := c.Param("id")
	seats, err := h.enrollmentSvc.AvailableSeats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Error al verificar el cupo")
		return
	}

	response.OK(c, "Cupo verificado exitosamente", dto.SeatsResponse{
		TallerID:         id,
		CuposDisponibles: seats,
		TieneCupo:        seats > 0,
	})
}
