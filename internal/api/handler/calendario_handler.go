package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"talleres-api/internal/dto"
	"talleres-api/internal/service"
	"talleres-api/pkg/response"
)

// CalendarioHandler 日历模块 HTTP 处理器
type CalendarioHandler struct {
	calendarioSvc service.CalendarioService
	now           func() time.Time
}

// NewCalendarioHandler 创建 CalendarioHandler
func NewCalendarioHandler(calendarioSvc service.CalendarioService) *CalendarioHandler {
	return &CalendarioHandler{calendarioSvc: calendarioSvc, now: time.Now}
}

// ListByTaller 工作坊的日历事件
// GET /api/calendario/taller/:tallerId?fechaInicio=&fechaFin=&tipoEvento=
func (h *CalendarioHandler) ListByTaller(c *gin.Context) {
	var q dto.EventRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.calendarioSvc.ListByTaller(c.Request.Context(), c.Param("tallerId"), &q)
	if err != nil {
		respondError(c, err, "Error al obtener las fechas del taller")
		return
	}

	okPage(c, "Fechas importantes obtenidas exitosamente", list, &q.PageQuery, 50, len(list))
}

// ListMine 讲师本人的日历事件
// GET /api/calendario/mis-fechas
func (h *CalendarioHandler) ListMine(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.EventRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.calendarioSvc.ListMine(c.Request.Context(), caller, &q)
	if err != nil {
		respondError(c, err, "Error al obtener tus fechas importantes")
		return
	}

	okPage(c, "Fechas importantes obtenidas exitosamente", list, &q.PageQuery, 50, len(list))
}

// Upcoming 学生已报名工作坊的近期事件（默认 30 天）
// GET /api/calendario/proximos?dias=
func (h *CalendarioHandler) Upcoming(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.UpcomingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	if q.Dias == 0 {
		q.Dias = 30
	}

	list, err := h.calendarioSvc.UpcomingForStudent(c.Request.Context(), caller, q.Dias)
	if err != nil {
		respondError(c, err, "Error al obtener eventos próximos")
		return
	}

	response.OKWith(c, "Eventos próximos obtenidos exitosamente", list, gin.H{"dias": q.Dias})
}

// Get 事件详情
// GET /api/calendario/:id
func (h *CalendarioHandler) Get(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	e, err := h.calendarioSvc.GetByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err, "Error al obtener la fecha importante")
		return
	}

	response.OK(c, "Fecha importante obtenida exitosamente", e)
}

// Create 讲师在本人负责的工作坊创建事件
// POST /api/calendario
func (h *CalendarioHandler) Create(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	e, err := h.calendarioSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err, "Error al crear la fecha importante")
		return
	}

	response.Created(c, "Fecha importante creada exitosamente", e)
}

// Update 更新事件（管理员或创建者）
// PUT /api/calendario/:id
func (h *CalendarioHandler) Update(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	e, err := h.calendarioSvc.Update(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Error al actualizar la fecha importante")
		return
	}

	response.OK(c, "Fecha importante actualizada exitosamente", e)
}

// Delete 删除事件（管理员或创建者）
// DELETE /api/calendario/:id
func (h *CalendarioHandler) Delete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.calendarioSvc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondError(c, err, "Error al eliminar la fecha importante")
		return
	}

	response.OK(c, "Fecha importante eliminada exitosamente", nil)
}

// Monthly 月历
// GET /api/calendario/mensual?tallerId=&year=&month=
func (h *CalendarioHandler) Monthly(c *gin.Context) {
	var q dto.MonthlyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.calendarioSvc.Monthly(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err, "Error al obtener el calendario mensual")
		return
	}

	response.OKWith(c, "Calendario mensual obtenido exitosamente", list, gin.H{
		"year":     q.Year,
		"month":    q.Month,
		"tallerId": q.TallerID,
	})
}

// Today 今日事件
// GET /api/calendario/hoy?tallerId=
func (h *CalendarioHandler) Today(c *gin.Context) {
	list, err := h.calendarioSvc.Today(c.Request.Context(), c.Query("tallerId"))
	if err != nil {
		respondError(c, err, "Error al obtener eventos de hoy")
		return
	}

	response.OKWith(c, "Eventos de hoy obtenidos exitosamente", list, gin.H{
		"fecha": h.now().UTC().Format("2006-01-02"),
	})
}

// ByType 按事件类型列出
// GET /api/calendario/tipo/:tipo?fechaInicio=&fechaFin=&tallerId=
func (h *CalendarioHandler) ByType(c *gin.Context) {
	var q dto.EventRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	tipo := c.Param("tipo")
	list, err := h.calendarioSvc.ByType(c.Request.Context(), tipo, &q)
	if err != nil {
		respondError(c, err, "Error al obtener eventos por tipo")
		return
	}

	okPage(c, fmt.Sprintf("Eventos de tipo %q obtenidos exitosamente", tipo), list, &q.PageQuery, 20, len(list))
}

// Search 搜索事件；讲师只能搜到本人的事件
// GET /api/calendario/buscar?q=&tipoEvento=&tallerId=
func (h *CalendarioHandler) Search(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.EventRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.calendarioSvc.Search(c.Request.Context(), caller, &q)
	if err != nil {
		respondError(c, err, "Error al buscar eventos")
		return
	}

	response.OKWith(c, "Búsqueda de eventos completada", list, gin.H{
		"searchTerm": strings.TrimSpace(q.Q),
		"pagination": response.Pagination{Limit: q.GetLimit(20), Offset: q.GetOffset(), Total: len(list)},
	})
}

// Stats 事件统计；讲师只统计本人的事件
// GET /api/calendario/estadisticas
func (h *CalendarioHandler) Stats(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	stats, err := h.calendarioSvc.Stats(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Error al obtener las estadísticas de eventos")
		return
	}

	response.OK(c, "Estadísticas de eventos obtenidas exitosamente", stats)
}

// Range 日期区间内的事件，按日分组，fechaFin 当天包含在内
// GET /api/calendario/rango?fechaInicio=&fechaFin=&tallerId=
func (h *CalendarioHandler) Range(c *gin.Context) {
	var q dto.EventRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	days, err := h.calendarioSvc.Range(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err, "Error al obtener el calendario de rango")
		return
	}

	response.OKWith(c, "Calendario de rango obtenido exitosamente", days, gin.H{
		"fechaInicio": q.FechaInicio,
		"fechaFin":    q.FechaFin,
	})
}
