// backend-go/internal/service/settings_service.go
package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/radiocast/backend-go/internal/audit"
	"github.com/radiocast/backend-go/internal/cache"
	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/repository"
)

// SettingStorageBrowserEnabled toggles the whole storage browser subsystem.
const SettingStorageBrowserEnabled = "storage_browser_enabled"

// SettingsService is a read-through cache over the settings table: reads hit
// redis first and fall back to the database, admin writes update the row and
// invalidate the cached value. Cache failures degrade to database reads.
type SettingsService struct {
	repo     repository.SettingRepository
	cache    cache.SettingsCache
	recorder *audit.Recorder
}

func NewSettingsService(repo repository.SettingRepository, c cache.SettingsCache, recorder *audit.Recorder) *SettingsService {
	return &SettingsService{repo: repo, cache: c, recorder: recorder}
}

// Get returns the setting value, or "" when it was never set.
func (s *SettingsService) Get(ctx context.Context, name string) (string, error) {
	if value, ok, err := s.cache.Get(ctx, name); err == nil && ok {
		return value, nil
	} else if err != nil {
		log.Warn().Err(err).Str("setting", name).Msg("settings cache read failed, falling back to database")
	}

	value, err := s.repo.Get(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, name, value); err != nil {
		log.Warn().Err(err).Str("setting", name).Msg("settings cache write failed")
	}
	return value, nil
}

// IsEnabled reads a boolean setting; unset means disabled.
func (s *SettingsService) IsEnabled(ctx context.Context, name string) (bool, error) {
	value, err := s.Get(ctx, name)
	if err != nil {
		return false, err
	}
	return value == "true" || value == "1", nil
}

// StorageBrowserEnabled reports whether the storage browser subsystem is
// switched on. The toggle defaults to enabled when it was never set.
func (s *SettingsService) StorageBrowserEnabled(ctx context.Context) (bool, error) {
	value, err := s.Get(ctx, SettingStorageBrowserEnabled)
	if err != nil {
		return false, err
	}
	return value != "false" && value != "0", nil
}

// Set writes a setting (admin only, enforced by the handler) and invalidates
// the cached copy before the next read.
func (s *SettingsService) Set(ctx context.Context, actor domain.Actor, name, value string) error {
	if actor.Role != domain.RoleAdmin {
		return ErrForbidden
	}

	if err := s.repo.Set(ctx, name, value); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, name); err != nil {
		log.Warn().Err(err).Str("setting", name).Msg("settings cache invalidation failed")
	}

	s.recorder.Record(ctx, domain.AuditEvent{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "setting.update",
		EntityType: "setting",
		EntityID:   name,
		Details:    value,
	})
	return nil
}
