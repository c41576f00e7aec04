// backend-go/internal/api/handlers/programme_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/radiocast/backend-go/internal/api/middleware"
	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/service"
)

type ProgrammeHandler struct {
	programmeService *service.ProgrammeService
}

func NewProgrammeHandler(programmeService *service.ProgrammeService) *ProgrammeHandler {
	return &ProgrammeHandler{programmeService: programmeService}
}

type programmeRequest struct {
	Title           string `json:"title" binding:"required"`
	BroadcastedDate string `json:"broadcasted_date" binding:"required"`
	CategoryID      int64  `json:"category_id" binding:"required"`
	SubcategoryID   *int64 `json:"subcategory_id"`
	StoragePath     string `json:"storage_path"`
}

func (h *ProgrammeHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req programmeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, broadcasted_date and category_id are required"})
		return
	}

	programme := domain.Programme{
		Title:           req.Title,
		BroadcastedDate: req.BroadcastedDate,
		CategoryID:      req.CategoryID,
		SubcategoryID:   req.SubcategoryID,
		StoragePath:     req.StoragePath,
	}
	if err := h.programmeService.Create(c.Request.Context(), actor, &programme); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, programme)
}

func (h *ProgrammeHandler) Update(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid programme id"})
		return
	}

	var req programmeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, broadcasted_date and category_id are required"})
		return
	}

	programme := domain.Programme{
		ID:              id,
		Title:           req.Title,
		BroadcastedDate: req.BroadcastedDate,
		CategoryID:      req.CategoryID,
		SubcategoryID:   req.SubcategoryID,
		StoragePath:     req.StoragePath,
	}
	if err := h.programmeService.Update(c.Request.Context(), actor, &programme); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, programme)
}

func (h *ProgrammeHandler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid programme id"})
		return
	}

	if err := h.programmeService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
