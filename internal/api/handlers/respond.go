// backend-go/internal/api/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/radiocast/backend-go/internal/repository"
	"github.com/radiocast/backend-go/internal/service"
	"github.com/radiocast/backend-go/internal/storage"
)

// respondError maps core errors onto HTTP statuses. The message strings for
// not-configured and upstream failures are operator-facing diagnostics and
// are surfaced verbatim, so a misconfiguration is debuggable from the admin
// UI instead of showing up as an empty listing.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":  "not_configured",
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"code":  "forbidden",
			"error": err.Error(),
		})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":  "not_found",
			"error": "the requested resource does not exist",
		})
	case errors.Is(err, service.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "invalid_request",
			"error": err.Error(),
		})
	case errors.Is(err, storage.ErrCursorInvalid):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "invalid_page_token",
			"error": err.Error(),
		})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"code":  "upstream_failure",
			"error": err.Error(),
		})
	}
}
