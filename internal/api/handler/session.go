package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/brunca/internal/api/middleware"
	"github.com/timmy/brunca/internal/logger"
	"github.com/timmy/brunca/internal/preferences"
	"github.com/timmy/brunca/internal/session"
)

// SessionHandler creates and removes browsing sessions.
type SessionHandler struct {
	registry *session.Registry
	prefs    *preferences.Service
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(registry *session.Registry, prefs *preferences.Service) *SessionHandler {
	return &SessionHandler{registry: registry, prefs: prefs}
}

// Create handles POST /api/v1/sessions. The session loads in the stored
// language.
func (h *SessionHandler) Create(c *gin.Context) {
	locale := h.prefs.Language(c.Request.Context())
	s := h.registry.Create(locale)

	middleware.GetLogger(c).WithField(logger.FieldSessionID, s.ID).Info("Session started")

	c.JSON(http.StatusCreated, gin.H{
		"session_id": s.ID,
		"locale":     locale,
	})
}

// Delete handles DELETE /api/v1/sessions/:id.
func (h *SessionHandler) Delete(c *gin.Context) {
	if !h.registry.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Session not found",
		})
		return
	}
	c.Status(http.StatusNoContent)
}
