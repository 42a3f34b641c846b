package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/brunca/internal/domain"
)

// LocationHandler serves the known destination locations.
type LocationHandler struct{}

// NewLocationHandler creates a new location handler.
func NewLocationHandler() *LocationHandler {
	return &LocationHandler{}
}

// List handles GET /api/v1/locations.
func (h *LocationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"locations": domain.Locations,
		"total":     len(domain.Locations),
	})
}
