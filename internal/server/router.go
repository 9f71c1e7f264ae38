package server

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/ediscovery-service/internal/common"
)

// Handlers bundles the route handlers wired into the router.
type Handlers struct {
	Export *ExportHandler
	Search *SearchHandler
	Audit  *AuditHandler
	System *SystemHandler
}

// NewRouter builds the gin engine with middleware and all routes registered.
func NewRouter(cfg common.ServerConfig, h Handlers, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.GET("/", h.System.Info)
	r.GET("/health", h.System.Health)

	api := r.Group("/api")

	searchGroup := api.Group("/search")
	searchGroup.POST("", h.Search.Search)
	searchGroup.GET("/suggest", h.Search.Suggest)
	searchGroup.GET("/stats", h.Search.Stats)

	exportGroup := api.Group("/export")
	exportGroup.POST("/documents", h.Export.Submit)
	exportGroup.GET("/job/:job_id", h.Export.Status)
	exportGroup.GET("/download/:job_id", h.Export.Download)
	exportGroup.GET("/formats", h.Export.Formats)

	auditGroup := api.Group("/audit")
	auditGroup.GET("/logs", h.Audit.Logs)
	auditGroup.GET("/stats", h.Audit.Stats)
	auditGroup.GET("/actions", h.Audit.Actions)
	auditGroup.GET("/resource-types", h.Audit.ResourceTypes)
	auditGroup.GET("/timeline", h.Audit.Timeline)

	return r
}
