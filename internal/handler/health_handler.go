// Package handler contains HTTP request handlers.
// In Gin, a handler is any function with signature func(*gin.Context),
// grouped here by resource.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	cacheBackend string
}

// NewHealthHandler creates a new HealthHandler reporting the active cache backend.
func NewHealthHandler(cacheBackend string) *HealthHandler {
	return &HealthHandler{cacheBackend: cacheBackend}
}

// Healthz responds with service status.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "location-service",
		"cache":   h.cacheBackend,
	})
}
