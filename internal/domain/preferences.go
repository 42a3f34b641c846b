package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// PreferencesKey is the storage key of the application configuration.
const PreferencesKey = "app-configuration"

// Notifications holds the notification toggles of the app.
type Notifications struct {
	AppUpdates      bool `json:"app_updates"`
	NewsUpdates     bool `json:"news_updates"`
	ContentUpdates  bool `json:"content_updates"`
	Recommendations bool `json:"recommendations"`
}

// Value implements the driver.Valuer interface for database serialization.
func (n Notifications) Value() (driver.Value, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (n *Notifications) Scan(value interface{}) error {
	if value == nil {
		*n = Notifications{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan Notifications")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, n)
}

// Preferences is the persisted user configuration.
type Preferences struct {
	Key            string        `gorm:"type:text;primaryKey" json:"-"`
	Language       string        `gorm:"type:text;not null" json:"language" validate:"required,bcp47_language_tag"`
	DateFormat     string        `gorm:"type:text" json:"date_format" validate:"oneof=month-day day-month"`
	DistanceFormat string        `gorm:"type:text" json:"distance_format" validate:"oneof=kilometers miles"`
	TimeFormat     string        `gorm:"type:text" json:"time_format" validate:"oneof=12h 24h"`
	Notifications  Notifications `gorm:"type:text" json:"notifications"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName returns the database table name for Preferences.
func (Preferences) TableName() string {
	return "preferences"
}

// DefaultPreferences returns the configuration used before anything has
// been saved.
func DefaultPreferences(language string) *Preferences {
	if language == "" {
		language = "es"
	}
	return &Preferences{
		Key:            PreferencesKey,
		Language:       language,
		DateFormat:     "month-day",
		DistanceFormat: "kilometers",
		TimeFormat:     "24h",
		Notifications: Notifications{
			AppUpdates:      false,
			NewsUpdates:     true,
			ContentUpdates:  true,
			Recommendations: true,
		},
	}
}
