package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/ediscovery-service/internal/common"
)

// httpError maps service errors onto HTTP status codes. Not-found and
// not-ready are deliberately distinct: a known but incomplete export job is a
// client error, not a missing resource.
func httpError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrJobNotFound), errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrJobNotReady),
		errors.Is(err, common.ErrUnsupportedFormat),
		errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"detail": errorDetail(err)})
}

// errorDetail prefers the human-readable message of an AppError over the full
// wrapped chain.
func errorDetail(err error) string {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
