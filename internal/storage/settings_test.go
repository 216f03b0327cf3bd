package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewcart/internal/migration"
	"brewcart/internal/models"
)

const legacySettings = `{
	"userPreferences": {"theme": "dark", "highContrast": true, "isAdminSession": false},
	"cartConfig": {"maxQuantity": 3},
	"version": "1.1"
}`

func storedDoc(t *testing.T, f fixture) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.raw(t, KeySettings)), &doc))
	return doc
}

func TestSettingsMigrateOnRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, KeySettings, legacySettings))

	settings := f.svc.Settings(ctx)
	assert.Equal(t, models.CurrentSchemaVersion, settings.Schema())
	assert.True(t, settings.UserPreferences.Accessibility.HighContrast)
	assert.Equal(t, 3, settings.CartConfig.MaxQuantityPerItem)
	assert.Equal(t, "1.1.0", settings.Version)
	require.Len(t, settings.MigrationHistory, 3)
	for i, rec := range settings.MigrationHistory {
		assert.Equal(t, i+1, rec.FromVersion)
		assert.True(t, rec.Success)
		assert.Equal(t, epoch, rec.Timestamp)
	}

	// the upgraded blob is persisted, so a second read changes nothing
	doc := storedDoc(t, f)
	assert.Equal(t, models.CurrentSchemaVersion, migration.SchemaVersion(doc))
	again := f.svc.Settings(ctx)
	assert.Equal(t, settings, again)
	assert.Len(t, migration.DecodeHistory(storedDoc(t, f)[migration.KeyMigrationHistory]), 3)
}

func TestSettingsFailedMigrationRecordedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, KeySettings,
		`{"userPreferences": {"accessibility": "on"}, "cartConfig": {}, "version": "1.0.0"}`))

	f.svc.Settings(ctx)
	f.svc.Settings(ctx)

	doc := storedDoc(t, f)
	assert.Equal(t, 1, migration.SchemaVersion(doc))
	history := migration.DecodeHistory(doc[migration.KeyMigrationHistory])
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
	assert.Equal(t, 1, history[0].FromVersion)
	assert.Equal(t, 2, history[0].ToVersion)
	assert.NotEmpty(t, history[0].Error)
}

func TestSettingsIgnoresMalformedBlob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, KeySettings, `{"version": 7}`))

	assert.Equal(t, models.DefaultSettings(), f.svc.Settings(ctx))
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	settings := models.DefaultSettings()
	settings.UserPreferences.Theme = "dark"
	settings.UserPreferences.IsAdminSession = true
	settings.CartConfig.MaxItems = 8
	require.NoError(t, f.svc.SaveSettings(ctx, settings))

	assert.Equal(t, settings, f.svc.Settings(ctx))
}

func TestSaveSettingsFillsSchemaVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	settings := models.DefaultSettings()
	settings.SchemaVersion = nil
	require.NoError(t, f.svc.SaveSettings(ctx, settings))

	assert.Equal(t, models.CurrentSchemaVersion, f.svc.Settings(ctx).Schema())
}

func TestSaveSettingsGuardsLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, KeySettings, legacySettings))
	migrated := f.svc.Settings(ctx)
	require.Len(t, migrated.MigrationHistory, 3)

	older := migrated
	version := 2
	older.SchemaVersion = &version
	err := f.svc.SaveSettings(ctx, older)
	assert.True(t, errors.Is(err, errors.NotValid), "got %v", err)

	truncated := migrated
	truncated.MigrationHistory = nil
	truncated.UserPreferences.Theme = "light"
	require.NoError(t, f.svc.SaveSettings(ctx, truncated))
	stored := f.svc.Settings(ctx)
	assert.Equal(t, "light", stored.UserPreferences.Theme)
	assert.Equal(t, migrated.MigrationHistory, stored.MigrationHistory)

	badVersion := migrated
	badVersion.Version = "one"
	err = f.svc.SaveSettings(ctx, badVersion)
	assert.True(t, errors.Is(err, errors.NotValid), "got %v", err)
}

func TestFreeFormSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SaveSetting(ctx, "printerAddress", "tcp:192.168.1.40"))
	value, ok := f.svc.Setting(ctx, "printerAddress")
	assert.True(t, ok)
	assert.Equal(t, "tcp:192.168.1.40", value)
	assert.Equal(t, `"tcp:192.168.1.40"`, f.raw(t, "@app:setting:printerAddress"))

	require.NoError(t, f.svc.SaveSetting(ctx, "printerAddress", ""))
	value, ok = f.svc.Setting(ctx, "printerAddress")
	assert.True(t, ok)
	assert.Empty(t, value)

	assert.True(t, errors.Is(f.svc.SaveSetting(ctx, "", "x"), errors.NotValid))

	keys, err := f.store.Keys(ctx, "@app:setting:")
	require.NoError(t, err)
	assert.Equal(t, []string{"@app:setting:printerAddress"}, keys)
}
