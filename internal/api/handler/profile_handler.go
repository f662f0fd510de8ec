package handler

import (
	"github.com/gin-gonic/gin"

	"talleres-api/internal/dto"
	"talleres-api/internal/service"
	"talleres-api/pkg/response"
)

// ProfileHandler 个人档案 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// GetProfile 当前用户档案，perfil 结构随角色变化
// GET /api/auth/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	profile, err := h.profileSvc.GetProfile(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Error al obtener el perfil")
		return
	}

	response.OK(c, "Perfil obtenido exitosamente", profile)
}

// CompleteProfile 学生补全注册时生成的临时档案
// PUT /api/auth/complete-profile
func (h *ProfileHandler) CompleteProfile(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.profileSvc.CompleteProfile(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err, "Error al completar el perfil")
		return
	}

	response.OK(c, "Perfil completado exitosamente", result)
}

// UpdateProfile 更新讲师 / 学生档案
// PUT /api/auth/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.profileSvc.UpdateProfile(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err, "Error al actualizar el perfil")
		return
	}

	response.OK(c, "Perfil actualizado exitosamente", profile)
}
