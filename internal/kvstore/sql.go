package kvstore

import (
	"context"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/juju/errors"
)

// Entry is a single stored key-value pair
type Entry struct {
	Key       string `gorm:"column:entry_key;primary_key"`
	Value     string `gorm:"column:entry_value;type:text"`
	UpdatedAt time.Time
}

// TableName sets the table name for Entry
func (Entry) TableName() string {
	return "kv_entries"
}

// SQLStore keeps entries in a single gorm-managed table.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore migrates the entry table and returns a store over db.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&Entry{}).Error; err != nil {
		return nil, errors.Annotate(err, "migrating kv_entries")
	}
	return &SQLStore{db: db}, nil
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry Entry
	err := s.db.Where("entry_key = ?", key).First(&entry).Error
	if gorm.IsRecordNotFoundError(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Annotatef(err, "reading %q", key)
	}
	return entry.Value, true, nil
}

// Set implements Store.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	var entry Entry
	err := s.db.Where(Entry{Key: key}).
		Assign(map[string]interface{}{"entry_value": value}).
		FirstOrCreate(&entry).Error
	return errors.Annotatef(err, "writing %q", key)
}

// Delete implements Store.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	err := s.db.Where("entry_key = ?", key).Delete(&Entry{}).Error
	return errors.Annotatef(err, "deleting %q", key)
}

// Keys implements Store.
func (s *SQLStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var candidates []string
	err := s.db.Model(&Entry{}).
		Where("entry_key LIKE ?", prefix+"%").
		Order("entry_key").
		Pluck("entry_key", &candidates).Error
	if err != nil {
		return nil, errors.Annotatef(err, "listing %q", prefix)
	}
	// LIKE treats _ and % in the prefix as wildcards
	keys := make([]string, 0, len(candidates))
	for _, key := range candidates {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
