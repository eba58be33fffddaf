package journals

import (
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lumenlabs/lumen/backend/internal/faults"
	"github.com/lumenlabs/lumen/backend/internal/identity"
	"github.com/lumenlabs/lumen/backend/internal/storage"
)

var (
	errMissingStore      = errors.New("collection store is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

const (
	opServiceNew    = "journals.service.new"
	opSaveJournal   = "journals.save_journal"
	opDeleteJournal = "journals.delete_journal"
)

// ServiceConfig describes the dependencies of the journal repository.
type ServiceConfig struct {
	Store      storage.Store
	Clock      func() time.Time
	IDProvider identity.IDProvider
	Logger     *zap.Logger
}

// Service owns the journal collection.
type Service struct {
	collection *storage.Collection[Journal]
	clock      func() time.Time
	ids        identity.IDProvider
	logger     *zap.Logger
}

// NewService constructs the journal repository.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, faults.New(opServiceNew, "missing_store", errMissingStore)
	}
	if cfg.IDProvider == nil {
		return nil, faults.New(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		collection: storage.NewCollection[Journal](cfg.Store, CollectionKey, logger),
		clock:      clock,
		ids:        cfg.IDProvider,
		logger:     logger,
	}, nil
}

// SaveJournal upserts by exact title match. When a journal with the
// title exists its content is overwritten and UpdatedAt bumped, keeping
// the same id; otherwise a new journal is created.
func (s *Service) SaveJournal(title, content string) (Journal, error) {
	collection := s.collection.Load()
	for index := range collection {
		if collection[index].Title != title {
			continue
		}
		collection[index].Content = content
		collection[index].UpdatedAt = s.clock().UTC()
		if err := s.collection.Save(collection); err != nil {
			s.logError(opSaveJournal, "collection_write_failed", err, zap.String("journal_id", collection[index].ID))
			return Journal{}, faults.New(opSaveJournal, "collection_write_failed", err)
		}
		return collection[index], nil
	}

	id, err := s.ids.NewID()
	if err != nil {
		s.logError(opSaveJournal, "id_generation_failed", err)
		return Journal{}, faults.New(opSaveJournal, "id_generation_failed", err)
	}
	now := s.clock().UTC()
	journal := Journal{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	collection = append(collection, journal)
	if err := s.collection.Save(collection); err != nil {
		s.logError(opSaveJournal, "collection_write_failed", err)
		return Journal{}, faults.New(opSaveJournal, "collection_write_failed", err)
	}
	return journal, nil
}

// ListJournals returns the collection sorted descending by UpdatedAt.
// Relative order of journals sharing an UpdatedAt follows the stored
// collection order.
func (s *Service) ListJournals() []Journal {
	collection := s.collection.Load()
	sort.SliceStable(collection, func(i, j int) bool {
		return collection[i].UpdatedAt.After(collection[j].UpdatedAt)
	})
	return collection
}

// GetJournal returns the journal with the given id, reporting absence
// as a false second result.
func (s *Service) GetJournal(id string) (Journal, bool) {
	for _, journal := range s.collection.Load() {
		if journal.ID == id {
			return journal, true
		}
	}
	return Journal{}, false
}

// DeleteJournal removes the journal with the given id. The first result
// is false when the id is absent; no write happens in that case.
func (s *Service) DeleteJournal(id string) (bool, error) {
	collection := s.collection.Load()
	remaining := make([]Journal, 0, len(collection))
	for _, journal := range collection {
		if journal.ID != id {
			remaining = append(remaining, journal)
		}
	}
	if len(remaining) == len(collection) {
		return false, nil
	}
	if err := s.collection.Save(remaining); err != nil {
		s.logError(opDeleteJournal, "collection_write_failed", err, zap.String("journal_id", id))
		return false, faults.New(opDeleteJournal, "collection_write_failed", err)
	}
	return true, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("journals service error", attrs...)
}
