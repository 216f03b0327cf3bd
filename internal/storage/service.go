// Package storage is the persistence service: typed collections over a
// key-value store, each kept as one JSON document under a fixed key.
//
// Reads never fail. A missing, unreadable or unreachable collection reads as
// its default and the problem is logged. Writes return an error for
// serialization or store failures, or when the data would break a record
// invariant. Mutations read strictly: a collection that cannot be loaded is
// an error, and stored records that fail validation are written back as is.
package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"brewcart/internal/kvstore"
	"brewcart/internal/logging"
	"brewcart/internal/migration"
	"brewcart/internal/monitoring"
)

var logger = logging.GetLogger("storage")

// Keys of the persisted collections.
const (
	KeyDrinks     = "@app:drinks"
	KeyOrders     = "@app:orders"
	KeySettings   = "@app:settings"
	KeySyrups     = "@app:syrups"
	settingPrefix = "@app:setting:"
)

// Collection names used in logs and metrics.
const (
	collectionDrinks   = "drinks"
	collectionOrders   = "orders"
	collectionSettings = "settings"
	collectionSyrups   = "syrups"
	collectionSetting  = "setting"
)

// Config holds the collaborators of a Service.
type Config struct {
	Store   kvstore.Store
	Clock   clock.Clock
	Monitor *monitoring.Monitor
}

// Service is the persistence service.
type Service struct {
	store   kvstore.Store
	engine  *migration.Engine
	clock   clock.Clock
	monitor *monitoring.Monitor
}

// NewService returns a Service over cfg.Store. The settings migration engine
// is built here so every settings read goes through it.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.NotValidf("nil store")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	engine, err := migration.NewSettingsEngine(cfg.Clock, cfg.Monitor)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Service{
		store:   cfg.Store,
		engine:  engine,
		clock:   cfg.Clock,
		monitor: cfg.Monitor,
	}, nil
}

// Clock returns the clock the service stamps records with.
func (s *Service) Clock() clock.Clock {
	return s.clock
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

// readRaw fetches a stored document. Store failures are logged and read as
// missing.
func (s *Service) readRaw(ctx context.Context, collection, key string) (string, bool) {
	started := time.Now()
	raw, ok, err := s.store.Get(ctx, key)
	s.monitor.RecordStoreOp(collection, "get", started, err)
	if err != nil {
		logger.Errorf("reading %s: %v", collection, err)
		return "", false
	}
	return raw, ok
}

func (s *Service) writeRaw(ctx context.Context, collection, key, value string) error {
	started := time.Now()
	err := s.store.Set(ctx, key, value)
	s.monitor.RecordStoreOp(collection, "set", started, err)
	if err != nil {
		logger.Errorf("writing %s: %v", collection, err)
		return errors.Annotatef(err, "saving %s", collection)
	}
	return nil
}

// readCollection decodes a stored JSON array, keeping only the elements
// accepted by guard.
func readCollection[T any](ctx context.Context, s *Service, collection, key string, guard func(any) bool) []T {
	items := []T{}
	raw, ok := s.readRaw(ctx, collection, key)
	if !ok {
		return items
	}

	var elems []any
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		logger.Errorf("decoding %s: %v", collection, err)
		return items
	}

	kept := elems[:0]
	for _, elem := range elems {
		if guard(elem) {
			kept = append(kept, elem)
		}
	}
	if dropped := len(elems) - len(kept); dropped > 0 {
		logger.Warningf("skipped %d invalid %s record(s)", dropped, collection)
		s.monitor.RecordDropped(collection, dropped)
	}

	data, err := json.Marshal(kept)
	if err == nil {
		err = json.Unmarshal(data, &items)
	}
	if err != nil {
		logger.Errorf("decoding %s: %v", collection, err)
		return []T{}
	}
	return items
}

// record is one element of a stored collection as seen by a mutation.
// Elements that fail their guard stay opaque and are written back as read.
type record[T any] struct {
	id    string
	value T
	valid bool
	raw   json.RawMessage
}

func newRecord[T any](id string, value T) record[T] {
	return record[T]{id: id, value: value, valid: true}
}

// loadCollection is the read used by mutations. Unlike readCollection it
// fails on store and decode errors and keeps every stored element, so a
// write-back can never lose records a read could not see.
func loadCollection[T any](ctx context.Context, s *Service, collection, key string, guard func(any) bool) ([]record[T], error) {
	started := time.Now()
	raw, ok, err := s.store.Get(ctx, key)
	s.monitor.RecordStoreOp(collection, "get", started, err)
	if err != nil {
		return nil, errors.Annotatef(err, "loading %s", collection)
	}
	if !ok {
		return nil, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, errors.Annotatef(err, "decoding %s", collection)
	}
	records := make([]record[T], 0, len(elems))
	for _, elem := range elems {
		rec := record[T]{raw: elem}
		var head struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(elem, &head)
		rec.id = head.ID

		var generic any
		if json.Unmarshal(elem, &generic) == nil && guard(generic) {
			rec.valid = json.Unmarshal(elem, &rec.value) == nil
		}
		if !rec.valid {
			logger.Warningf("keeping unreadable %s record %q as stored", collection, rec.id)
		}
		records = append(records, rec)
	}
	return records, nil
}

// storeCollection writes records back, re-encoding the valid ones.
func storeCollection[T any](ctx context.Context, s *Service, collection, key string, records []record[T]) error {
	elems := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		if !rec.valid {
			elems = append(elems, rec.raw)
			continue
		}
		data, err := json.Marshal(rec.value)
		if err != nil {
			return errors.Annotatef(err, "encoding %s record %q", collection, rec.id)
		}
		elems = append(elems, data)
	}
	data, err := json.Marshal(elems)
	if err != nil {
		return errors.Annotatef(err, "encoding %s", collection)
	}
	return s.writeRaw(ctx, collection, key, string(data))
}

func writeCollection[T any](ctx context.Context, s *Service, collection, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Annotatef(err, "encoding %s", collection)
	}
	return s.writeRaw(ctx, collection, key, string(data))
}
