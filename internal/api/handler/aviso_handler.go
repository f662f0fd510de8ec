package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"talleres-api/internal/dto"
	"talleres-api/internal/service"
	"talleres-api/pkg/response"
)

// AvisoHandler 公告模块 HTTP 处理器
type AvisoHandler struct {
	avisoSvc service.AvisoService
}

// NewAvisoHandler 创建 AvisoHandler
func NewAvisoHandler(avisoSvc service.AvisoService) *AvisoHandler {
	return &AvisoHandler{avisoSvc: avisoSvc}
}

// ListByTaller 工作坊的公告
// GET /api/avisos/taller/:tallerId?includeExpired=&limit=&offset=
func (h *AvisoHandler) ListByTaller(c *gin.Context) {
	var q dto.AnnouncementListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.avisoSvc.ListByTaller(c.Request.Context(), c.Param("tallerId"), &q)
	if err != nil {
		respondError(c, err, "Error al obtener los avisos del taller")
		return
	}

	okPage(c, "Avisos obtenidos exitosamente", list, &q.PageQuery, 20, len(list))
}

// ListForStudent 学生已报名工作坊的公告
// GET /api/avisos/alumno
func (h *AvisoHandler) ListForStudent(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.avisoSvc.ListForStudent(c.Request.Context(), caller, &q)
	if err != nil {
		respondError(c, err, "Error al obtener los avisos")
		return
	}

	okPage(c, "Avisos obtenidos exitosamente", list, &q, 20, len(list))
}

// ListMine 讲师本人发布的公告
// GET /api/avisos/mis-avisos?activo=
func (h *AvisoHandler) ListMine(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.MyAnnouncementsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.avisoSvc.ListMine(c.Request.Context(), caller, &q)
	if err != nil {
		respondError(c, err, "Error al obtener tus avisos")
		return
	}

	okPage(c, "Avisos obtenidos exitosamente", list, &q.PageQuery, 20, len(list))
}

// Get 公告详情
// GET /api/avisos/:id
func (h *AvisoHandler) Get(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	a, err := h.avisoSvc.GetByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err, "Error al obtener el aviso")
		return
	}

	response.OK(c, "Aviso obtenido exitosamente", a)
}

// Create 讲师在本人负责的工作坊发布公告
// POST /api/avisos
func (h *AvisoHandler) Create(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	a, err := h.avisoSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err, "Error al crear el aviso")
		return
	}

	response.Created(c, "Aviso creado exitosamente", a)
}

// Update 更新公告（管理员或发布者）
// PUT /api/avisos/:id
func (h *AvisoHandler) Update(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	a, err := h.avisoSvc.Update(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Error al actualizar el aviso")
		return
	}

	response.OK(c, "Aviso actualizado exitosamente", a)
}

// Delete 删除公告（管理员或发布者）
// DELETE /api/avisos/:id
func (h *AvisoHandler) Delete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.avisoSvc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondError(c, err, "Error al eliminar el aviso")
		return
	}

	response.OK(c, "Aviso eliminado exitosamente", nil)
}

// Important 未过期的重要公告
// GET /api/avisos/importantes?tallerId=
func (h *AvisoHandler) Important(c *gin.Context) {
	list, err := h.avisoSvc.Important(c.Request.Context(), c.Query("tallerId"))
	if err != nil {
		respondError(c, err, "Error al obtener los avisos importantes")
		return
	}

	response.OK(c, "Avisos importantes obtenidos exitosamente", list)
}

// Search 搜索公告；讲师只能搜到本人的公告
// GET /api/avisos/buscar?q=&tallerId=
func (h *AvisoHandler) Search(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.AnnouncementSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.avisoSvc.Search(c.Request.Context(), caller, &q)
	if err != nil {
		respondError(c, err, "Error al buscar avisos")
		return
	}

	response.OKWith(c, "Búsqueda de avisos completada", list, gin.H{
		"searchTerm": strings.TrimSpace(q.Q),
		"pagination": response.Pagination{Limit: q.GetLimit(20), Offset: q.GetOffset(), Total: len(list)},
	})
}

// Stats 公告统计；讲师只统计本人的公告
// GET /api/avisos/estadisticas
func (h *AvisoHandler) Stats(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	stats, err := h.avisoSvc.Stats(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Error al obtener las estadísticas de avisos")
		return
	}

	response.OK(c, "Estadísticas de avisos obtenidas exitosamente", stats)
}

// ExpiringSoon 即将过期的公告（默认 3 天内）
// GET /api/avisos/proximos-expirar?days=
func (h *AvisoHandler) ExpiringSoon(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.ExpiringQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	if q.Days == 0 {
		q.Days = 3
	}

	list, err := h.avisoSvc.ExpiringSoon(c.Request.Context(), caller, q.Days)
	if err != nil {
		respondError(c, err, "Error al obtener avisos próximos a expirar")
		return
	}

	response.OKWith(c, "Avisos próximos a expirar obtenidos exitosamente", list, gin.H{"days": q.Days})
}
