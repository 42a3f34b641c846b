package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/brunca/internal/api/middleware"
	"github.com/timmy/brunca/internal/preferences"
)

// PreferencesHandler reads and updates the app configuration.
type PreferencesHandler struct {
	prefs *preferences.Service
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(prefs *preferences.Service) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

// Get handles GET /api/v1/preferences.
func (h *PreferencesHandler) Get(c *gin.Context) {
	prefs, err := h.prefs.Load(c.Request.Context())
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Failed to load preferences")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load preferences",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preferences":         prefs,
		"available_languages": h.prefs.AvailableLanguages(),
	})
}

// Update handles PATCH /api/v1/preferences. A language change reloads
// every live session in the new language.
func (h *PreferencesHandler) Update(c *gin.Context) {
	var patch preferences.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	prefs, err := h.prefs.Update(c.Request.Context(), patch)
	switch {
	case errors.Is(err, preferences.ErrInvalidPreferences), errors.Is(err, preferences.ErrUnsupportedLanguage):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	case err != nil:
		middleware.GetLogger(c).WithError(err).Error("Failed to update preferences")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update preferences",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preferences": prefs,
	})
}
