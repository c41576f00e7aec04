// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/radiocast/backend-go/internal/api"
	"github.com/radiocast/backend-go/internal/audit"
	"github.com/radiocast/backend-go/internal/auth"
	"github.com/radiocast/backend-go/internal/cache"
	"github.com/radiocast/backend-go/internal/config"
	"github.com/radiocast/backend-go/internal/reconcile"
	"github.com/radiocast/backend-go/internal/repository/postgres"
	"github.com/radiocast/backend-go/internal/search"
	"github.com/radiocast/backend-go/internal/service"
	"github.com/radiocast/backend-go/internal/storage"
	"github.com/radiocast/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.Server.Mode, "info")
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	settingsCache, err := cache.NewSettingsCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("settings cache unavailable, continuing without it")
		settingsCache = cache.NewNoopSettingsCache()
	}

	// Repositories
	programmeRepo := postgres.NewProgrammeRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	settingRepo := postgres.NewSettingRepository(db)

	// Storage core
	selector := storage.NewSelector(cfg.Storage)
	signer := storage.NewSigner(selector)
	paginator := storage.NewPaginator(selector)
	builder := reconcile.NewBuilder(programmeRepo, signer)
	engine := search.NewEngine(paginator, builder, programmeRepo, cfg.Storage.Prefix)

	authorizer := auth.NewAuthorizer(assignmentRepo)
	recorder := audit.NewRecorder(auditRepo)

	services := &api.Services{
		StorageService: service.NewStorageService(
			selector, paginator, signer, builder, engine,
			programmeRepo, authorizer, recorder,
			cfg.Storage.Prefix, cfg.Storage.AudioExt,
		),
		ProgrammeService: service.NewProgrammeService(programmeRepo, authorizer, recorder, signer),
		SettingsService:  service.NewSettingsService(settingRepo, settingsCache, recorder),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		// WriteTimeout stays unset by default: the search endpoint streams
		// results for as long as the drain runs.
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
