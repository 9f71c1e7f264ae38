package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/ediscovery-service/internal/audit"
	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
)

// AuditHandler exposes the activity log over HTTP.
type AuditHandler struct {
	svc    *audit.Service
	logger *slog.Logger
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(svc *audit.Service, logger *slog.Logger) *AuditHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditHandler{svc: svc, logger: logger}
}

type auditLogsParams struct {
	UserID       *int64     `form:"user_id"`
	Action       *string    `form:"action"`
	ResourceType *string    `form:"resource_type"`
	ResourceID   *int64     `form:"resource_id"`
	Status       *string    `form:"status"`
	DateFrom     *time.Time `form:"date_from"`
	DateTo       *time.Time `form:"date_to"`
	Limit        int        `form:"limit"`
	Offset       int        `form:"offset"`
}

// Logs returns filtered audit log entries.
func (h *AuditHandler) Logs(c *gin.Context) {
	var params auditLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Warn("invalid audit query", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	resp, err := h.svc.Logs(c.Request.Context(), entity.AuditFilter{
		UserID:       params.UserID,
		Action:       params.Action,
		ResourceType: params.ResourceType,
		ResourceID:   params.ResourceID,
		Status:       params.Status,
		DateFrom:     params.DateFrom,
		DateTo:       params.DateTo,
		Limit:        params.Limit,
		Offset:       params.Offset,
	})
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats aggregates activity over a trailing window of hours.
func (h *AuditHandler) Stats(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "24"))

	stats, err := h.svc.Stats(c.Request.Context(), hours)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Actions lists distinct audit action types.
func (h *AuditHandler) Actions(c *gin.Context) {
	actions, err := h.svc.Actions(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"actions": actions,
		"total":   len(actions),
	})
}

// ResourceTypes lists distinct audited resource types.
func (h *AuditHandler) ResourceTypes(c *gin.Context) {
	types, err := h.svc.ResourceTypes(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"resource_types": types,
		"total":          len(types),
	})
}

// Timeline returns aggregated activity buckets over a trailing window.
func (h *AuditHandler) Timeline(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "24"))
	interval := c.DefaultQuery("interval", "hour")

	timeline, err := h.svc.Timeline(c.Request.Context(), hours, interval)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, timeline)
}
