// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/radiocast/backend-go/internal/api/handlers"
	"github.com/radiocast/backend-go/internal/api/middleware"
	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/service"
)

type Services struct {
	StorageService   *service.StorageService
	ProgrammeService *service.ProgrammeService
	SettingsService  *service.SettingsService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Actor-ID", "X-Actor-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.Actor())

	if services != nil {
		if services.StorageService != nil && services.SettingsService != nil {
			storageHandler := handlers.NewStorageHandler(services.StorageService, services.SettingsService)
			storageGroup := apiGroup.Group("/storage")
			storageGroup.Use(middleware.RequireRoles(domain.RoleAdmin, domain.RoleProgrammeManager))
			{
				storageGroup.GET("/list", storageHandler.List)
				storageGroup.GET("/search", storageHandler.Search)
				storageGroup.GET("/stats", storageHandler.Stats)
			}

			uploadHandler := handlers.NewUploadHandler(services.StorageService)
			uploadGroup := apiGroup.Group("/upload")
			{
				uploadGroup.POST("/request-url", uploadHandler.RequestURL)
				uploadGroup.DELETE("", uploadHandler.Delete)
			}
		}

		if services.ProgrammeService != nil {
			programmeHandler := handlers.NewProgrammeHandler(services.ProgrammeService)
			programmeGroup := apiGroup.Group("/programmes")
			{
				programmeGroup.POST("", programmeHandler.Create)
				programmeGroup.PUT("/:id", programmeHandler.Update)
				programmeGroup.DELETE("/:id", programmeHandler.Delete)
			}
		}

		if services.SettingsService != nil {
			settingsHandler := handlers.NewSettingsHandler(services.SettingsService)
			settingsGroup := apiGroup.Group("/settings")
			{
				settingsGroup.GET("/:name", settingsHandler.Get)
				settingsGroup.PUT("/:name", middleware.RequireRoles(domain.RoleAdmin), settingsHandler.Set)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
