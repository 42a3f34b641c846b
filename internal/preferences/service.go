package preferences

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/timmy/brunca/internal/domain"
	"github.com/timmy/brunca/internal/logger"
	"github.com/timmy/brunca/internal/repository"
)

var (
	// ErrUnsupportedLanguage is returned when an update names a language
	// the app does not offer.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrInvalidPreferences wraps validation failures of an update.
	ErrInvalidPreferences = errors.New("invalid preferences")
)

// Repository is the persistence the service needs.
type Repository interface {
	Get(ctx context.Context, key string) (*domain.Preferences, error)
	Save(ctx context.Context, prefs *domain.Preferences) error
}

// Config holds the language settings of the service.
type Config struct {
	DefaultLanguage    string
	AvailableLanguages []string
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Language       *string             `json:"language"`
	DateFormat     *string             `json:"date_format"`
	DistanceFormat *string             `json:"distance_format"`
	TimeFormat     *string             `json:"time_format"`
	Notifications  *NotificationsPatch `json:"notifications"`
}

// NotificationsPatch is a partial update of the notification toggles.
type NotificationsPatch struct {
	AppUpdates      *bool `json:"app_updates"`
	NewsUpdates     *bool `json:"news_updates"`
	ContentUpdates  *bool `json:"content_updates"`
	Recommendations *bool `json:"recommendations"`
}

// LanguageListener is called after a saved update changed the language.
type LanguageListener func(ctx context.Context, language string) error

// Service reads and updates the app configuration.
type Service struct {
	repo     Repository
	cfg      Config
	validate *validator.Validate
	logger   *logger.Logger

	// mu serializes read-modify-write updates.
	mu        sync.Mutex
	listeners []LanguageListener
}

// NewService creates a preferences service.
func NewService(repo Repository, cfg Config, log *logger.Logger) *Service {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "es"
	}
	if len(cfg.AvailableLanguages) == 0 {
		cfg.AvailableLanguages = []string{"es", "en"}
	}
	return &Service{
		repo:     repo,
		cfg:      cfg,
		validate: validator.New(),
		logger:   log.WithField(logger.FieldComponent, "preferences"),
	}
}

// OnLanguageChange registers fn to be called after the language changes.
func (s *Service) OnLanguageChange(fn LanguageListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// AvailableLanguages returns the languages the app offers.
func (s *Service) AvailableLanguages() []string {
	return append([]string(nil), s.cfg.AvailableLanguages...)
}

// Load returns the stored configuration, or the defaults when nothing has
// been saved yet.
func (s *Service) Load(ctx context.Context) (*domain.Preferences, error) {
	prefs, err := s.repo.Get(ctx, domain.PreferencesKey)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.DefaultPreferences(s.cfg.DefaultLanguage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}

// Language returns the stored language, falling back to the default on
// any error.
func (s *Service) Language(ctx context.Context) string {
	prefs, err := s.Load(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Falling back to default language")
		return s.cfg.DefaultLanguage
	}
	return prefs.Language
}

// Update merges patch into the stored configuration and saves it.
// Language listeners run after the save when the language changed; their
// failures are logged and do not fail the update.
func (s *Service) Update(ctx context.Context, patch Patch) (*domain.Preferences, error) {
	s.mu.Lock()
	current, err := s.Load(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	previous := current.Language

	next := *current
	apply(&next, patch)
	if err := s.check(&next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.repo.Save(ctx, &next); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	listeners := append([]LanguageListener(nil), s.listeners...)
	s.mu.Unlock()

	if next.Language != previous {
		s.logger.WithFields(logger.Fields{
			"from": previous,
			"to":   next.Language,
		}).Info("Language changed")
		for _, fn := range listeners {
			if err := fn(ctx, next.Language); err != nil {
				s.logger.WithError(err).Warn("Language listener failed")
			}
		}
	}
	return &next, nil
}

// ChangeLanguage is Update with only the language set.
func (s *Service) ChangeLanguage(ctx context.Context, language string) (*domain.Preferences, error) {
	return s.Update(ctx, Patch{Language: &language})
}

func (s *Service) check(prefs *domain.Preferences) error {
	if err := s.validate.Struct(prefs); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	for _, lang := range s.cfg.AvailableLanguages {
		if lang == prefs.Language {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, prefs.Language)
}

func apply(prefs *domain.Preferences, patch Patch) {
	if patch.Language != nil {
		prefs.Language = *patch.Language
	}
	if patch.DateFormat != nil {
		prefs.DateFormat = *patch.DateFormat
	}
	if patch.DistanceFormat != nil {
		prefs.DistanceFormat = *patch.DistanceFormat
	}
	if patch.TimeFormat != nil {
		prefs.TimeFormat = *patch.TimeFormat
	}
	if n := patch.Notifications; n != nil {
		if n.AppUpdates != nil {
			prefs.Notifications.AppUpdates = *n.AppUpdates
		}
		if n.NewsUpdates != nil {
			prefs.Notifications.NewsUpdates = *n.NewsUpdates
		}
		if n.ContentUpdates != nil {
			prefs.Notifications.ContentUpdates = *n.ContentUpdates
		}
		if n.Recommendations != nil {
			prefs.Notifications.Recommendations = *n.Recommendations
		}
	}
}
