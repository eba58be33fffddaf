package storage

import (
	"encoding/json"

	"go.uber.org/zap"
)

var noOpLogger = zap.NewNop()

// Collection binds one store key to a typed slice of records. Loads
// treat a missing or unparseable payload as an empty collection: corrupt
// data is replaced on the next save, never repaired, and the caller is
// never told anything was lost. Timestamps round-trip through their
// RFC 3339 textual form.
type Collection[T any] struct {
	store  Store
	key    string
	logger *zap.Logger
}

// NewCollection binds key to the provided store.
func NewCollection[T any](store Store, key string, logger *zap.Logger) *Collection[T] {
	if logger == nil {
		logger = noOpLogger
	}
	return &Collection[T]{store: store, key: key, logger: logger}
}

// Key returns the store key this collection is bound to.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load reads the whole collection. Absent keys yield an empty slice.
func (c *Collection[T]) Load() []T {
	payload, ok, err := c.store.Get(c.key)
	if err != nil {
		c.logger.Warn("collection read failed",
			zap.String("key", c.key), zap.Error(err))
		return []T{}
	}
	if !ok {
		return []T{}
	}
	var records []T
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		c.logger.Warn("collection payload unparseable, treating as empty",
			zap.String("key", c.key), zap.Error(err))
		return []T{}
	}
	if records == nil {
		records = []T{}
	}
	return records
}

// Save serializes the whole collection and overwrites the stored payload.
func (c *Collection[T]) Save(records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.store.Set(c.key, string(payload))
}

// LoadOne reads a singleton object stored under the key. The second
// result is false when the key is absent or the payload unparseable.
func (c *Collection[T]) LoadOne() (T, bool) {
	var record T
	payload, ok, err := c.store.Get(c.key)
	if err != nil {
		c.logger.Warn("collection read failed",
			zap.String("key", c.key), zap.Error(err))
		return record, false
	}
	if !ok {
		return record, false
	}
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		c.logger.Warn("collection payload unparseable, treating as empty",
			zap.String("key", c.key), zap.Error(err))
		var zero T
		return zero, false
	}
	return record, true
}

// SaveOne serializes a singleton object and overwrites the stored payload.
func (c *Collection[T]) SaveOne(record T) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.store.Set(c.key, string(payload))
}
