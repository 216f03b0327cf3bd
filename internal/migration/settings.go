package migration

import (
	"github.com/Masterminds/semver/v3"
	"github.com/juju/clock"
	"github.com/juju/errors"

	"brewcart/internal/models"
	"brewcart/internal/monitoring"
)

// SettingsSteps is the migration chain for the persisted AppSettings blob.
func SettingsSteps() []Step {
	return []Step{
		{From: 1, To: 2, Description: "group accessibility preferences", Apply: accessibilityBlock},
		{From: 2, To: 3, Description: "cart config defaults", Apply: cartConfigDefaults},
		{From: 3, To: 4, Description: "semantic app version", Apply: semanticVersion},
	}
}

// NewSettingsEngine returns the engine for AppSettings documents.
func NewSettingsEngine(clk clock.Clock, monitor *monitoring.Monitor) (*Engine, error) {
	engine, err := NewEngine(SettingsSteps(), clk, monitor)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if engine.Target() != models.CurrentSchemaVersion {
		return nil, errors.NotValidf("settings chain ends at %d, current schema is %d", engine.Target(), models.CurrentSchemaVersion)
	}
	return engine, nil
}

// object returns doc[key] as an object, creating it when absent.
func object(doc map[string]any, key string) (map[string]any, error) {
	switch v := doc[key].(type) {
	case nil:
		m := make(map[string]any)
		doc[key] = m
		return m, nil
	case map[string]any:
		return v, nil
	default:
		return nil, errors.NotValidf("%s of type %T", key, v)
	}
}

var legacyAccessibilityKeys = map[string]string{
	"reduceMotion":   "reduceMotion",
	"highContrast":   "highContrast",
	"largeText":      "largeText",
	"hapticFeedback": "hapticsEnabled",
}

// accessibilityBlock moves the flat v1 accessibility flags on
// userPreferences into a nested accessibility object.
func accessibilityBlock(doc map[string]any) (map[string]any, error) {
	prefs, err := object(doc, "userPreferences")
	if err != nil {
		return nil, errors.Trace(err)
	}
	access, err := object(prefs, "accessibility")
	if err != nil {
		return nil, errors.Trace(err)
	}
	for legacy, key := range legacyAccessibilityKeys {
		if v, ok := prefs[legacy]; ok {
			if _, set := access[key]; !set {
				access[key] = v
			}
			delete(prefs, legacy)
		}
	}
	defaults := models.DefaultSettings().UserPreferences.Accessibility
	setDefault(access, "reduceMotion", defaults.ReduceMotion)
	setDefault(access, "highContrast", defaults.HighContrast)
	setDefault(access, "largeText", defaults.LargeText)
	setDefault(access, "hapticsEnabled", defaults.HapticsEnabled)
	if _, ok := prefs["theme"]; !ok {
		prefs["theme"] = models.DefaultSettings().UserPreferences.Theme
	}
	return doc, nil
}

// cartConfigDefaults fills in cart limits and renames the v2 maxQuantity key.
func cartConfigDefaults(doc map[string]any) (map[string]any, error) {
	cart, err := object(doc, "cartConfig")
	if err != nil {
		return nil, errors.Trace(err)
	}
	if v, ok := cart["maxQuantity"]; ok {
		if _, set := cart["maxQuantityPerItem"]; !set {
			cart["maxQuantityPerItem"] = v
		}
		delete(cart, "maxQuantity")
	}
	defaults := models.DefaultSettings().CartConfig
	setDefault(cart, "maxItems", defaults.MaxItems)
	setDefault(cart, "maxQuantityPerItem", defaults.MaxQuantityPerItem)
	setDefault(cart, "persistCart", defaults.PersistCart)
	return doc, nil
}

// semanticVersion rewrites the app version as a full semantic version,
// e.g. "1.2" becomes "1.2.0". Unparseable versions reset to the default.
func semanticVersion(doc map[string]any) (map[string]any, error) {
	raw, _ := doc["version"].(string)
	v, err := semver.NewVersion(raw)
	if err != nil {
		logger.Warningf("resetting unparseable app version %q to %s", raw, models.DefaultAppVersion)
		doc["version"] = models.DefaultAppVersion
		return doc, nil
	}
	doc["version"] = v.String()
	return doc, nil
}

func setDefault(m map[string]any, key string, value any) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}
