package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timmy/brunca/internal/config"
	"github.com/timmy/brunca/internal/domain"
	"github.com/timmy/brunca/internal/logger"
)

func newTestRepo(t *testing.T) *PreferencesRepository {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Driver:       "sqlite",
		DSNValue:     fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		MaxOpenConns: 1,
		AutoMigrate:  true,
	}
	db, err := InitDB(cfg, logger.NewDefault())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewPreferencesRepository(db)
}

func TestPreferencesRepository_GetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), domain.PreferencesKey)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPreferencesRepository_SaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	prefs := domain.DefaultPreferences("en")
	require.NoError(t, repo.Save(ctx, prefs))

	got, err := repo.Get(ctx, domain.PreferencesKey)
	require.NoError(t, err)
	require.Equal(t, "en", got.Language)
	require.Equal(t, prefs.Notifications, got.Notifications)
}

func TestPreferencesRepository_SaveOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.DefaultPreferences("es")))

	updated := domain.DefaultPreferences("en")
	updated.DistanceFormat = "miles"
	updated.Notifications.AppUpdates = true
	require.NoError(t, repo.Save(ctx, updated))

	got, err := repo.Get(ctx, domain.PreferencesKey)
	require.NoError(t, err)
	require.Equal(t, "en", got.Language)
	require.Equal(t, "miles", got.DistanceFormat)
	require.True(t, got.Notifications.AppUpdates)
}

func TestPreferencesRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.DefaultPreferences("es")))
	require.NoError(t, repo.Delete(ctx, domain.PreferencesKey))
	require.NoError(t, repo.Delete(ctx, domain.PreferencesKey))

	_, err := repo.Get(ctx, domain.PreferencesKey)
	require.ErrorIs(t, err, ErrNotFound)
}
