// backend-go/internal/api/handlers/upload_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radiocast/backend-go/internal/api/middleware"
	"github.com/radiocast/backend-go/internal/service"
)

type UploadHandler struct {
	storageService *service.StorageService
}

func NewUploadHandler(storageService *service.StorageService) *UploadHandler {
	return &UploadHandler{storageService: storageService}
}

// RequestURL derives an object path from the programme fields and returns a
// one-hour signed upload URL for it.
func (h *UploadHandler) RequestURL(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req service.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_name, subcategory_name and broadcasted_date are required"})
		return
	}

	ticket, err := h.storageService.RequestUpload(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// Delete removes one object from the store.
func (h *UploadHandler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	if err := h.storageService.DeleteObject(c.Request.Context(), actor, path); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
