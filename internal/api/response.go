package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cityops-io/cityops-ce/internal/middleware"
	"github.com/cityops-io/cityops-ce/internal/repository"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func respondList(c *gin.Context, data interface{}, total int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"total":   total,
	})
}

func respondData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		RequestID: middleware.GetRequestID(c),
	})
}

// handleError maps service errors onto HTTP status codes.
func (r *Router) handleError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, notFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, "Request cancelled")
	default:
		r.logger.Printf("request %s failed: %v", middleware.GetRequestID(c), err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
