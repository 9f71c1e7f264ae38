package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ServiceName and ServiceVersion identify the running service in the info
// endpoint.
const (
	ServiceName    = "ediscovery-service"
	ServiceVersion = "1.0.0"
)

// SystemHandler serves the info and health endpoints.
type SystemHandler struct{}

// NewSystemHandler creates a system handler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Info describes the service and its endpoint groups.
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"version": ServiceVersion,
		"status":  "running",
		"endpoints": gin.H{
			"search": "/api/search",
			"export": "/api/export",
			"audit":  "/api/audit",
			"health": "/health",
		},
	})
}

// Health reports liveness.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
