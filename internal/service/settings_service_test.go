package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiocast/backend-go/internal/audit"
	"github.com/radiocast/backend-go/internal/domain"
)

func newSettingsServiceEnv() (*SettingsService, *fakeSettingRepo, *fakeSettingsCache, *fakeAuditRepo) {
	repo := &fakeSettingRepo{values: map[string]string{}}
	c := &fakeSettingsCache{}
	auditRepo := &fakeAuditRepo{}
	return NewSettingsService(repo, c, audit.NewRecorder(auditRepo)), repo, c, auditRepo
}

func TestSettingsGetReadThrough(t *testing.T) {
	svc, repo, c, _ := newSettingsServiceEnv()
	repo.values["theme"] = "dark"

	// First read misses the cache and populates it.
	value, err := svc.Get(context.Background(), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)
	assert.Equal(t, []string{"theme"}, c.writes)

	// Second read is served from the cache even if the row changes.
	repo.values["theme"] = "light"
	value, err = svc.Get(context.Background(), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)
}

func TestSettingsGetUnset(t *testing.T) {
	svc, _, _, _ := newSettingsServiceEnv()

	value, err := svc.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestSettingsGetCacheFailureFallsBack(t *testing.T) {
	svc, repo, c, _ := newSettingsServiceEnv()
	repo.values["theme"] = "dark"
	c.getErr = assert.AnError

	value, err := svc.Get(context.Background(), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)
}

func TestStorageBrowserEnabledDefaultsOn(t *testing.T) {
	svc, repo, _, _ := newSettingsServiceEnv()

	enabled, err := svc.StorageBrowserEnabled(context.Background())
	require.NoError(t, err)
	assert.True(t, enabled, "unset toggle means enabled")

	for value, want := range map[string]bool{"false": false, "0": false, "true": true, "anything": true} {
		repo.values[SettingStorageBrowserEnabled] = value
		svcFresh := NewSettingsService(repo, &fakeSettingsCache{}, audit.NewRecorder(&fakeAuditRepo{}))
		enabled, err := svcFresh.StorageBrowserEnabled(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, enabled, "value %q", value)
	}
}

func TestIsEnabled(t *testing.T) {
	_, repo, _, _ := newSettingsServiceEnv()

	for value, want := range map[string]bool{"true": true, "1": true, "false": false, "yes": false} {
		repo.values["flag"] = value
		svcFresh := NewSettingsService(repo, &fakeSettingsCache{}, audit.NewRecorder(&fakeAuditRepo{}))
		enabled, err := svcFresh.IsEnabled(context.Background(), "flag")
		require.NoError(t, err)
		assert.Equal(t, want, enabled, "value %q", value)
	}
}

func TestSettingsSetAdminOnly(t *testing.T) {
	svc, repo, _, _ := newSettingsServiceEnv()

	err := svc.Set(context.Background(), domain.Actor{ID: 7, Role: domain.RoleProgrammeManager}, "theme", "dark")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, repo.sets)
}

func TestSettingsSetInvalidatesCacheAndAudits(t *testing.T) {
	svc, repo, c, auditRepo := newSettingsServiceEnv()
	c.values = map[string]string{SettingStorageBrowserEnabled: "true"}

	admin := domain.Actor{ID: 1, Role: domain.RoleAdmin}
	err := svc.Set(context.Background(), admin, SettingStorageBrowserEnabled, "false")
	require.NoError(t, err)

	assert.Equal(t, "false", repo.values[SettingStorageBrowserEnabled])
	assert.Equal(t, []string{SettingStorageBrowserEnabled}, c.invalidated)

	require.Len(t, auditRepo.events, 1)
	assert.Equal(t, "setting.update", auditRepo.events[0].Action)
	assert.Equal(t, SettingStorageBrowserEnabled, auditRepo.events[0].EntityID)
	assert.Equal(t, "false", auditRepo.events[0].Details)

	// The next read goes back to the database and sees the new value.
	enabled, err := svc.StorageBrowserEnabled(context.Background())
	require.NoError(t, err)
	assert.False(t, enabled)
}
