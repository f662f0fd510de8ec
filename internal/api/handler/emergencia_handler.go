package handler

import (
	"github.com/gin-gonic/gin"

	"talleres-api/internal/dto"
	"talleres-api/internal/service"
	"talleres-api/pkg/response"
)

// EmergenciaHandler 紧急联系信息 HTTP 处理器
type EmergenciaHandler struct {
	emergenciaSvc service.EmergenciaService
}

// NewEmergenciaHandler 创建 EmergenciaHandler
func NewEmergenciaHandler(emergenciaSvc service.EmergenciaService) *EmergenciaHandler {
	return &EmergenciaHandler{emergenciaSvc: emergenciaSvc}
}

// GetMine 学生本人的紧急联系信息，未登记时 data 为 null
// GET /api/emergencia
func (h *EmergenciaHandler) GetMine(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	info, err := h.emergenciaSvc.GetMine(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Error al obtener información de emergencia")
		return
	}

	response.OK(c, "Información de emergencia obtenida", info)
}

// Upsert 新建或更新紧急联系信息：新建 201，更新 200
// POST /api/emergencia
func (h *EmergenciaHandler) Upsert(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpsertEmergencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	info, created, err := h.emergenciaSvc.Upsert(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err, "Error al guardar información de emergencia")
		return
	}

	if created {
		response.Created(c, "Información creada correctamente", info)
		return
	}
	response.OK(c, "Información actualizada correctamente", info)
}

// Delete 删除本人的紧急联系信息
// DELETE /api/emergencia/:id
func (h *EmergenciaHandler) Delete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.emergenciaSvc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondError(c, err, "Error al eliminar información de emergencia")
		return
	}

	response.OK(c, "Información de emergencia eliminada correctamente", nil)
}
