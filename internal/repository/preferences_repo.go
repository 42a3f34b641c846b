package repository

import (
	"context"
	"errors"

	"github.com/timmy/brunca/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no record exists for a key.
var ErrNotFound = errors.New("record not found")

// PreferencesRepository persists the app configuration record.
type PreferencesRepository struct {
	db *gorm.DB
}

// NewPreferencesRepository creates a new PreferencesRepository.
func NewPreferencesRepository(db *gorm.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Get returns the record stored under key, or ErrNotFound.
func (r *PreferencesRepository) Get(ctx context.Context, key string) (*domain.Preferences, error) {
	var prefs domain.Preferences
	err := r.db.WithContext(ctx).First(&prefs, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// Save creates or replaces the record keyed by prefs.Key.
func (r *PreferencesRepository) Save(ctx context.Context, prefs *domain.Preferences) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(prefs).Error
}

// Delete removes the record stored under key. Missing records are not an error.
func (r *PreferencesRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&domain.Preferences{}, "key = ?", key).Error
}
