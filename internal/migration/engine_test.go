package migration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewcart/internal/models"
	"brewcart/internal/monitoring"
)

var epoch = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

// tracingSteps returns a chain 1->2->...->target whose steps append their
// own name to doc["trace"], and fail at failAt when failAt > 0.
func tracingSteps(target, failAt int) []Step {
	var steps []Step
	for from := 1; from < target; from++ {
		from := from
		steps = append(steps, Step{
			From: from,
			To:   from + 1,
			Apply: func(doc map[string]any) (map[string]any, error) {
				trace, _ := doc["trace"].([]any)
				doc["trace"] = append(trace, from)
				if from == failAt {
					return nil, errors.New("forced failure")
				}
				return doc, nil
			},
		})
	}
	return steps
}

func newTestEngine(t *testing.T, steps []Step) *Engine {
	t.Helper()
	engine, err := NewEngine(steps, testclock.NewClock(epoch), monitoring.NewMonitor())
	require.NoError(t, err)
	return engine
}

func TestMigrateAppliesStepsInOrder(t *testing.T) {
	engine := newTestEngine(t, tracingSteps(4, 0))
	require.Equal(t, 4, engine.Target())

	res := engine.Migrate(map[string]any{"version": "1.0.0"})

	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.From)
	assert.Equal(t, 4, res.Version)
	assert.Equal(t, []any{1, 2, 3}, res.Document["trace"])
	assert.Equal(t, 4, res.Document[KeySchemaVersion])

	history := DecodeHistory(res.Document[KeyMigrationHistory])
	require.Len(t, history, 3)
	for i, rec := range history {
		assert.Equal(t, i+1, rec.FromVersion)
		assert.Equal(t, i+2, rec.ToVersion)
		assert.True(t, rec.Success)
		assert.Equal(t, epoch, rec.Timestamp)
	}
}

func TestMigrateStopsAtFailedStep(t *testing.T) {
	engine := newTestEngine(t, tracingSteps(4, 2))

	res := engine.Migrate(map[string]any{"version": "1.0.0"})

	require.Error(t, res.Err)
	assert.Equal(t, 2, res.Version)
	assert.Equal(t, 2, res.Document[KeySchemaVersion])
	// the failing step's partial change to its copy is not kept
	assert.Equal(t, []any{1}, res.Document["trace"])

	history := DecodeHistory(res.Document[KeyMigrationHistory])
	require.Len(t, history, 2)
	assert.True(t, history[0].Success)
	assert.Equal(t, 1, history[0].FromVersion)
	assert.False(t, history[1].Success)
	assert.Equal(t, 2, history[1].FromVersion)
	assert.Equal(t, 3, history[1].ToVersion)
	assert.Contains(t, history[1].Error, "forced failure")
}

func TestMigrateIsIdempotent(t *testing.T) {
	engine := newTestEngine(t, tracingSteps(4, 0))

	first := engine.Migrate(map[string]any{"version": "1.0.0"})
	require.NoError(t, first.Err)

	second := engine.Migrate(first.Document)
	assert.False(t, second.Changed())
	assert.Equal(t, first.Document, second.Document)
	assert.Len(t, DecodeHistory(second.Document[KeyMigrationHistory]), 3)
}

func TestMigrateRecoversPanics(t *testing.T) {
	steps := []Step{{
		From: 1, To: 2,
		Apply: func(doc map[string]any) (map[string]any, error) {
			var m map[string]any
			m["boom"] = true
			return doc, nil
		},
	}}
	engine := newTestEngine(t, steps)

	res := engine.Migrate(map[string]any{})
	require.Error(t, res.Err)
	assert.Equal(t, 1, res.Version)
	require.Len(t, res.Records, 1)
	assert.Contains(t, res.Records[0].Error, "panic")
}

func TestMigrateDoesNotModifyInput(t *testing.T) {
	engine := newTestEngine(t, tracingSteps(3, 0))
	doc := map[string]any{"nested": map[string]any{"a": 1}}

	res := engine.Migrate(doc)
	res.Document["nested"].(map[string]any)["a"] = 2

	assert.Equal(t, map[string]any{"nested": map[string]any{"a": 1}}, doc)
}

func TestMigrateFromJSONDocument(t *testing.T) {
	engine := newTestEngine(t, tracingSteps(4, 0))
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"schemaVersion": 3,
		"migrationHistory": [
			{"fromVersion": 1, "toVersion": 2, "timestamp": "2024-01-01T00:00:00Z", "success": true},
			{"fromVersion": 2, "toVersion": 3, "timestamp": "2024-01-01T00:00:00Z", "success": true}
		]
	}`), &doc))

	res := engine.Migrate(doc)
	require.NoError(t, res.Err)
	assert.Equal(t, []any{3}, res.Document["trace"])
	assert.Len(t, DecodeHistory(res.Document[KeyMigrationHistory]), 3)
}

func TestMigrateNewerDocumentIsLeftAlone(t *testing.T) {
	engine := newTestEngine(t, tracingSteps(3, 0))
	res := engine.Migrate(map[string]any{KeySchemaVersion: 7})
	assert.False(t, res.Changed())
	assert.Equal(t, 7, res.Version)
}

func TestNewEngineRejectsBrokenChains(t *testing.T) {
	noop := func(doc map[string]any) (map[string]any, error) { return doc, nil }

	_, err := NewEngine([]Step{{From: 1, To: 2, Apply: noop}, {From: 3, To: 4, Apply: noop}}, nil, nil)
	assert.True(t, errors.Is(err, errors.NotValid))

	_, err = NewEngine([]Step{{From: 1, To: 3, Apply: noop}}, nil, nil)
	assert.Error(t, err)

	_, err = NewEngine([]Step{{From: 2, To: 3, Apply: noop}}, nil, nil)
	assert.Error(t, err)

	_, err = NewEngine([]Step{{From: 1, To: 2}}, nil, nil)
	assert.Error(t, err)

	// steps may be registered out of order
	engine, err := NewEngine([]Step{{From: 2, To: 3, Apply: noop}, {From: 1, To: 2, Apply: noop}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, engine.Target())
}

func TestSchemaVersion(t *testing.T) {
	assert.Equal(t, 1, SchemaVersion(map[string]any{}))
	assert.Equal(t, 1, SchemaVersion(map[string]any{KeySchemaVersion: nil}))
	assert.Equal(t, 1, SchemaVersion(map[string]any{KeySchemaVersion: "3"}))
	assert.Equal(t, 1, SchemaVersion(map[string]any{KeySchemaVersion: 2.5}))
	assert.Equal(t, 3, SchemaVersion(map[string]any{KeySchemaVersion: float64(3)}))
	assert.Equal(t, 3, SchemaVersion(map[string]any{KeySchemaVersion: json.Number("3")}))
}

func TestDecodeHistoryTyped(t *testing.T) {
	in := []models.MigrationRecord{{FromVersion: 1, ToVersion: 2, Success: true}}
	out := DecodeHistory(in)
	out[0].Success = false
	assert.True(t, in[0].Success)

	assert.Nil(t, DecodeHistory("garbage"))
}
