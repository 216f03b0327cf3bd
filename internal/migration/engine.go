// Package migration upgrades persisted settings documents one schema version
// at a time and keeps an append-only audit trail of every step attempted.
package migration

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/mohae/deepcopy"

	"brewcart/internal/logging"
	"brewcart/internal/models"
	"brewcart/internal/monitoring"
)

var logger = logging.GetLogger("migration")

// Document keys owned by the engine.
const (
	KeySchemaVersion    = "schemaVersion"
	KeyMigrationHistory = "migrationHistory"
)

// Step upgrades a document from one schema version to the next. Apply gets
// a private copy of the document and returns the upgraded shape; it must not
// depend on any later step.
type Step struct {
	From        int
	To          int
	Description string
	Apply       func(doc map[string]any) (map[string]any, error)
}

// Engine applies an ordered, contiguous chain of steps.
type Engine struct {
	steps   []Step
	target  int
	clock   clock.Clock
	monitor *monitoring.Monitor
}

// NewEngine checks that steps form a contiguous chain starting at version 1
// and returns an engine targeting the last step's version. An engine with
// no steps targets version 1.
func NewEngine(steps []Step, clk clock.Clock, monitor *monitoring.Monitor) (*Engine, error) {
	if clk == nil {
		clk = clock.WallClock
	}
	ordered := append([]Step(nil), steps...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].From < ordered[j].From })

	expect := 1
	for _, step := range ordered {
		if step.Apply == nil {
			return nil, errors.NotValidf("step %d->%d without apply func", step.From, step.To)
		}
		if step.From != expect {
			return nil, errors.NotValidf("migration chain: expected a step from version %d, got %d->%d", expect, step.From, step.To)
		}
		if step.To != step.From+1 {
			return nil, errors.NotValidf("step %d->%d skips versions", step.From, step.To)
		}
		expect = step.To
	}
	return &Engine{
		steps:   ordered,
		target:  expect,
		clock:   clk,
		monitor: monitor,
	}, nil
}

// Target returns the schema version documents are migrated to.
func (e *Engine) Target() int {
	return e.target
}

// Result is the outcome of a migration run.
type Result struct {
	// Document is the migrated document, or the last good state when a step failed.
	Document map[string]any
	// From is the schema version the document started at.
	From int
	// Version is the schema version Document is at.
	Version int
	// Records are the history entries appended by this run.
	Records []models.MigrationRecord
	// Err is the failure that stopped the chain, if any.
	Err error
}

// Changed reports whether the run appended anything to the history.
func (r Result) Changed() bool {
	return len(r.Records) > 0
}

// Plan returns the steps needed to take a document at version to the target.
func (e *Engine) Plan(version int) []Step {
	var plan []Step
	for _, step := range e.steps {
		if step.From >= version {
			plan = append(plan, step)
		}
	}
	return plan
}

// Migrate brings doc up to the target version. doc itself is never modified.
// A failing step is recorded and stops the chain; the returned document is
// then the output of the last step that succeeded.
func (e *Engine) Migrate(doc map[string]any) Result {
	body := make(map[string]any, len(doc))
	for k, v := range doc {
		if k != KeyMigrationHistory {
			body[k] = v
		}
	}
	body = deepcopy.Copy(body).(map[string]any)
	history := DecodeHistory(doc[KeyMigrationHistory])

	version := SchemaVersion(doc)
	res := Result{From: version, Version: version}

	if version > e.target {
		logger.Warningf("settings schema version %d is newer than supported version %d, leaving as is", version, e.target)
	}

	for _, step := range e.Plan(version) {
		input := deepcopy.Copy(body).(map[string]any)
		out, err := apply(step, input)

		record := models.MigrationRecord{
			FromVersion: step.From,
			ToVersion:   step.To,
			Timestamp:   e.clock.Now().UTC(),
			Success:     err == nil,
		}
		e.monitor.RecordMigrationStep(step.From, step.To, err == nil)

		if err != nil {
			record.Error = err.Error()
			history = append(history, record)
			res.Records = append(res.Records, record)
			res.Err = errors.Annotatef(err, "migrating settings %d->%d", step.From, step.To)
			logger.Errorf("settings migration %d->%d failed, staying on version %d: %v", step.From, step.To, res.Version, err)
			break
		}

		body = out
		body[KeySchemaVersion] = step.To
		res.Version = step.To
		history = append(history, record)
		res.Records = append(res.Records, record)
		logger.Infof("migrated settings %d->%d (%s)", step.From, step.To, step.Description)
	}

	if len(history) > 0 {
		body[KeyMigrationHistory] = history
	}
	res.Document = body
	return res
}

func apply(step Step, doc map[string]any) (out map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, errors.Errorf("panic: %v", r)
		}
	}()
	out, err = step.Apply(doc)
	if err == nil && out == nil {
		err = errors.New("step returned no document")
	}
	return out, err
}

// SchemaVersion reads the schema version of a document. A missing or
// malformed version means version 1.
func SchemaVersion(doc map[string]any) int {
	switch v := doc[KeySchemaVersion].(type) {
	case int:
		if v >= 1 {
			return v
		}
	case int64:
		if v >= 1 {
			return int(v)
		}
	case float64:
		if v >= 1 && v == math.Trunc(v) {
			return int(v)
		}
	case json.Number:
		if n, err := v.Int64(); err == nil && n >= 1 {
			return int(n)
		}
	}
	return 1
}

// DecodeHistory reads a migration history in either its typed or its
// JSON-decoded form. Unreadable history decodes as empty.
func DecodeHistory(v any) []models.MigrationRecord {
	switch h := v.(type) {
	case nil:
		return nil
	case []models.MigrationRecord:
		return append([]models.MigrationRecord(nil), h...)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var history []models.MigrationRecord
	if err := json.Unmarshal(data, &history); err != nil {
		logger.Warningf("discarding unreadable migration history: %v", err)
		return nil
	}
	return history
}
