package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errMissingDatabase = errors.New("storage: database handle is required")

// CollectionRecord is the row shape for one persisted collection.
type CollectionRecord struct {
	Key              string `gorm:"column:key;primaryKey;size:190;not null"`
	PayloadJSON      string `gorm:"column:payload_json;type:text;not null"`
	UpdatedAtSeconds int64  `gorm:"column:updated_at_s;not null"`
}

// TableName provides the explicit table binding for GORM.
func (CollectionRecord) TableName() string {
	return "collections"
}

// DatabaseStore persists collection payloads in a single SQLite-backed
// table, one row per collection key.
type DatabaseStore struct {
	db    *gorm.DB
	clock func() time.Time
}

// DatabaseStoreConfig describes the dependencies of a DatabaseStore.
type DatabaseStoreConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
}

// NewDatabaseStore constructs a store backed by the provided database.
func NewDatabaseStore(cfg DatabaseStoreConfig) (*DatabaseStore, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &DatabaseStore{db: cfg.Database, clock: clock}, nil
}

// Get returns the payload stored under key, reporting absence as a
// false second result rather than an error.
func (s *DatabaseStore) Get(key string) (string, bool, error) {
	var record CollectionRecord
	err := s.db.Where("key = ?", key).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return record.PayloadJSON, true, nil
}

// Set overwrites the whole payload stored under key.
func (s *DatabaseStore) Set(key, payload string) error {
	record := CollectionRecord{
		Key:              key,
		PayloadJSON:      payload,
		UpdatedAtSeconds: s.clock().UTC().Unix(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload_json", "updated_at_s"}),
	}).Create(&record).Error
}
