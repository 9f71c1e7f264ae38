package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
	"github.com/joseph-ayodele/ediscovery-service/internal/search"
)

// SearchHandler exposes document search over HTTP.
type SearchHandler struct {
	svc    *search.Service
	logger *slog.Logger
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(svc *search.Service, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{svc: svc, logger: logger}
}

// Search runs a filtered free-text query over the document corpus.
func (h *SearchHandler) Search(c *gin.Context) {
	var q entity.SearchQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		h.logger.Warn("invalid search request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	resp, err := h.svc.Search(c.Request.Context(), q)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Suggest returns filename completions for a query prefix.
func (h *SearchHandler) Suggest(c *gin.Context) {
	prefix := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	suggestions, err := h.svc.Suggest(c.Request.Context(), prefix, limit)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":       prefix,
		"suggestions": suggestions,
	})
}

// Stats summarizes the indexed corpus.
func (h *SearchHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
