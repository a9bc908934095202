package handler

import (
	"net/http"

	"github.com/wali1264/ketabestan2/internal/apierror"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settings service.SettingsService
}

func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get
// @Summary      Read store settings
// @Tags         settings
// @Produce      json
// @Success      200 {object} dto.SettingsResponse
// @Router       /v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	resp, err := h.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update
// @Summary      Update store settings (admin)
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body body dto.UpdateSettingsRequest true "Fields to change"
// @Success      200 {object} dto.SettingsResponse
// @Router       /v1/settings [patch]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
