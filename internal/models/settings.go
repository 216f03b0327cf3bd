package models

import "time"

// CurrentSchemaVersion is the settings schema this build writes.
const CurrentSchemaVersion = 4

// DefaultAppVersion is written into fresh settings.
const DefaultAppVersion = "1.0.0"

// AppSettings is the persisted settings blob. SchemaVersion only ever
// increases and MigrationHistory is append-only.
type AppSettings struct {
	UserPreferences  UserPreferences   `json:"userPreferences"`
	CartConfig       CartConfig        `json:"cartConfig"`
	Version          string            `json:"version"`
	SchemaVersion    *int              `json:"schemaVersion,omitempty"`
	MigrationHistory []MigrationRecord `json:"migrationHistory,omitempty"`
}

// UserPreferences holds per-device preferences
type UserPreferences struct {
	Theme          string        `json:"theme"`
	Accessibility  Accessibility `json:"accessibility"`
	IsAdminSession bool          `json:"isAdminSession"`
}

// Accessibility holds the accessibility toggles
type Accessibility struct {
	ReduceMotion   bool `json:"reduceMotion"`
	HighContrast   bool `json:"highContrast"`
	LargeText      bool `json:"largeText"`
	HapticsEnabled bool `json:"hapticsEnabled"`
}

// CartConfig holds cart limits and behaviour
type CartConfig struct {
	MaxItems           int  `json:"maxItems"`
	MaxQuantityPerItem int  `json:"maxQuantityPerItem"`
	PersistCart        bool `json:"persistCart"`
}

// MigrationRecord is a write-once audit entry for one migration step.
type MigrationRecord struct {
	FromVersion int       `json:"fromVersion"`
	ToVersion   int       `json:"toVersion"`
	Timestamp   time.Time `json:"timestamp"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
}

// DefaultSettings returns settings for a fresh install at the current schema.
func DefaultSettings() AppSettings {
	version := CurrentSchemaVersion
	return AppSettings{
		UserPreferences: UserPreferences{
			Theme:         "light",
			Accessibility: Accessibility{HapticsEnabled: true},
		},
		CartConfig: CartConfig{
			MaxItems:           20,
			MaxQuantityPerItem: 10,
			PersistCart:        true,
		},
		Version:       DefaultAppVersion,
		SchemaVersion: &version,
	}
}

// Schema returns the schema version, treating an absent version as 1.
func (s AppSettings) Schema() int {
	if s.SchemaVersion == nil {
		return 1
	}
	return *s.SchemaVersion
}
