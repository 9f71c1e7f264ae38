package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
	"github.com/joseph-ayodele/ediscovery-service/internal/export"
)

// ExportHandler exposes the export job subsystem over HTTP.
type ExportHandler struct {
	svc    *export.Service
	logger *slog.Logger
}

// NewExportHandler creates an export handler.
func NewExportHandler(svc *export.Service, logger *slog.Logger) *ExportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportHandler{svc: svc, logger: logger}
}

// Submit accepts an export request, creates a pending job and schedules
// background processing. The response returns before any processing happens.
func (h *ExportHandler) Submit(c *gin.Context) {
	var req entity.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid export request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	job, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Status returns the current job record by id.
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.svc.Status(c.Param("job_id"))
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Download streams the completed export file.
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.svc.Download(c.Param("job_id"))
	if err != nil {
		httpError(c, err)
		return
	}
	c.Header("Content-Type", file.ContentType)
	c.FileAttachment(file.Path, file.Filename)
}

// Formats lists the supported export formats.
func (h *ExportHandler) Formats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": h.svc.Formats()})
}
