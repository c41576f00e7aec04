// backend-go/internal/api/handlers/storage_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/radiocast/backend-go/internal/service"
	"github.com/radiocast/backend-go/internal/storage"
)

type StorageHandler struct {
	storageService  *service.StorageService
	settingsService *service.SettingsService
}

func NewStorageHandler(storageService *service.StorageService, settingsService *service.SettingsService) *StorageHandler {
	return &StorageHandler{
		storageService:  storageService,
		settingsService: settingsService,
	}
}

// List returns one reconciled page of the storage listing.
func (h *StorageHandler) List(c *gin.Context) {
	if !h.browserEnabled(c) {
		return
	}

	limit := storage.DefaultPageSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	page, err := h.storageService.Browse(c.Request.Context(), limit, c.Query("pageToken"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Search streams NDJSON progress/done/error lines over one 200 response.
// Failures after the first byte are reported as a terminal error line, not
// an HTTP status; the stream has already started.
func (h *StorageHandler) Search(c *gin.Context) {
	if !h.browserEnabled(c) {
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	c.Writer.Header().Set("Content-Type", "application/x-ndjson")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.WriteHeader(http.StatusOK)

	flusher, canFlush := c.Writer.(http.Flusher)
	enc := json.NewEncoder(c.Writer)

	// The request context is cancelled when the consumer disconnects; the
	// engine checks it at each batch boundary and stops the drain.
	for event := range h.storageService.Search(c.Request.Context(), query) {
		if err := enc.Encode(event); err != nil {
			log.Debug().Err(err).Msg("search stream consumer gone")
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}
}

// Stats reports total/published/remaining for the whole corpus.
func (h *StorageHandler) Stats(c *gin.Context) {
	if !h.browserEnabled(c) {
		return
	}

	stats, err := h.storageService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *StorageHandler) browserEnabled(c *gin.Context) bool {
	enabled, err := h.settingsService.StorageBrowserEnabled(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return false
	}
	if !enabled {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":  "disabled",
			"error": "the storage browser is disabled; enable the storage_browser_enabled setting",
		})
		return false
	}
	return true
}
