package storage

import (
	"context"
	"encoding/json"

	"github.com/juju/errors"

	"brewcart/internal/migration"
	"brewcart/internal/models"
	"brewcart/internal/validation"
)

// Settings returns the app settings brought up to the current schema. The
// migrated blob is written back when its version advanced or a new failure
// was recorded, so a step that keeps failing is recorded once.
func (s *Service) Settings(ctx context.Context) models.AppSettings {
	doc, ok := s.storedSettings(ctx)
	if !ok {
		settings := models.DefaultSettings()
		s.monitor.RecordSchemaVersion(settings.Schema())
		return settings
	}

	stored := migration.DecodeHistory(doc[migration.KeyMigrationHistory])
	res := s.engine.Migrate(doc)
	if res.Version > res.From || (res.Err != nil && newFailure(stored, res.Records)) {
		if data, err := json.Marshal(res.Document); err != nil {
			logger.Errorf("encoding migrated settings: %v", err)
		} else if err := s.writeRaw(ctx, collectionSettings, KeySettings, string(data)); err != nil {
			logger.Warningf("migrated settings not persisted: %v", err)
		}
	}

	var settings models.AppSettings
	data, err := json.Marshal(res.Document)
	if err == nil {
		err = json.Unmarshal(data, &settings)
	}
	if err != nil {
		logger.Errorf("decoding settings: %v", err)
		settings = models.DefaultSettings()
	}
	s.monitor.RecordSchemaVersion(settings.Schema())
	return settings
}

// storedSettings reads the raw settings document, rejecting anything that
// is not a settings blob at some schema version.
func (s *Service) storedSettings(ctx context.Context) (map[string]any, bool) {
	raw, ok := s.readRaw(ctx, collectionSettings, KeySettings)
	if !ok {
		return nil, false
	}
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		logger.Errorf("decoding settings: %v", err)
		return nil, false
	}
	if !validation.IsAppSettings(doc) {
		logger.Warningf("ignoring malformed settings")
		s.monitor.RecordDropped(collectionSettings, 1)
		return nil, false
	}
	return doc.(map[string]any), true
}

func newFailure(stored, appended []models.MigrationRecord) bool {
	if len(appended) == 0 {
		return false
	}
	failed := appended[len(appended)-1]
	for i := len(stored) - 1; i >= 0; i-- {
		if stored[i].Success {
			continue
		}
		last := stored[i]
		return last.FromVersion != failed.FromVersion || last.ToVersion != failed.ToVersion || last.Error != failed.Error
	}
	return true
}

// SaveSettings persists settings. The schema version may not go backwards,
// and a history shorter than the stored one is replaced by the stored one.
func (s *Service) SaveSettings(ctx context.Context, settings models.AppSettings) error {
	if err := validation.ValidateAppVersion(settings.Version); err != nil {
		return errors.Trace(err)
	}
	if settings.SchemaVersion == nil {
		version := models.CurrentSchemaVersion
		settings.SchemaVersion = &version
	}
	if *settings.SchemaVersion < 1 {
		return errors.NotValidf("schema version %d", *settings.SchemaVersion)
	}

	if doc, ok := s.storedSettings(ctx); ok {
		if current := migration.SchemaVersion(doc); *settings.SchemaVersion < current {
			return errors.NotValidf("schema version %d below stored version %d", *settings.SchemaVersion, current)
		}
		if stored := migration.DecodeHistory(doc[migration.KeyMigrationHistory]); len(settings.MigrationHistory) < len(stored) {
			settings.MigrationHistory = stored
		}
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return errors.Annotate(err, "encoding settings")
	}
	return s.writeRaw(ctx, collectionSettings, KeySettings, string(data))
}

// Setting returns a free-form string setting such as the printer address.
func (s *Service) Setting(ctx context.Context, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	raw, ok := s.readRaw(ctx, collectionSetting, settingPrefix+key)
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		logger.Errorf("decoding setting %q: %v", key, err)
		return "", false
	}
	return value, true
}

// SaveSetting stores a free-form string setting.
func (s *Service) SaveSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.NotValidf("empty setting key")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Annotatef(err, "encoding setting %q", key)
	}
	return s.writeRaw(ctx, collectionSetting, settingPrefix+key, string(data))
}
