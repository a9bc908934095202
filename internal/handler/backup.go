package handler

import (
	"fmt"
	"net/http"

	"github.com/wali1264/ketabestan2/internal/apierror"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct {
	backup service.BackupService
}

func NewBackupHandler(backup service.BackupService) *BackupHandler {
	return &BackupHandler{backup: backup}
}

// Export
// @Summary      Export the entire store state as one JSON document (admin)
// @Tags         backup
// @Produce      json
// @Success      200 {object} dto.BackupDocument
// @Router       /v1/backup/export [get]
func (h *BackupHandler) Export(c *gin.Context) {
	doc, err := h.backup.Export(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="ketabestan-backup-%s.json"`, doc.ExportedAt))
	c.JSON(http.StatusOK, doc)
}

// Import
// @Summary      Replace the entire store state from a backup document (admin)
// @Description  All-or-nothing: every table is wiped and reloaded in one
// @Description  transaction, so a failed import leaves the database untouched.
// @Tags         backup
// @Accept       json
// @Success      204
// @Failure      409 {object} apierror.APIError "version mismatch"
// @Router       /v1/backup/import [post]
func (h *BackupHandler) Import(c *gin.Context) {
	var doc dto.BackupDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid backup document: "+err.Error()))
		return
	}
	if err := h.backup.Import(c.Request.Context(), &doc); err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
