// backend-go/internal/api/handlers/settings_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radiocast/backend-go/internal/api/middleware"
	"github.com/radiocast/backend-go/internal/service"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	value, err := h.settingsService.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": c.Param("name"), "value": value})
}

// Set updates one setting and invalidates its cached copy.
func (h *SettingsHandler) Set(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
		return
	}

	if err := h.settingsService.Set(c.Request.Context(), actor, c.Param("name"), req.Value); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": c.Param("name"), "value": req.Value})
}
