package spaces

import (
	"errors"
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
	opServiceNew  = "spaces.service.new"
	opCreateSpace = "spaces.create_space"
	opRenameSpace = "spaces.rename_space"
	opAddMessage  = "spaces.add_message"
	opDeleteSpace = "spaces.delete_space"
)

// ServiceConfig describes the dependencies of the space repository.
type ServiceConfig struct {
	Store      storage.Store
	Clock      func() time.Time
	IDProvider identity.IDProvider
	Logger     *zap.Logger
}

// Service owns the chat space collection. Every operation loads the
// whole collection, transforms it in memory, and writes it back.
type Service struct {
	collection *storage.Collection[ChatSpace]
	clock      func() time.Time
	ids        identity.IDProvider
	logger     *zap.Logger
}

// NewService constructs the space repository.
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
		collection: storage.NewCollection[ChatSpace](cfg.Store, CollectionKey, logger),
		clock:      clock,
		ids:        cfg.IDProvider,
		logger:     logger,
	}, nil
}

// CreateSpace appends a new empty space to the collection and persists
// it. A blank name falls back to DefaultSpaceName.
func (s *Service) CreateSpace(name string) (ChatSpace, error) {
	if name == "" {
		name = DefaultSpaceName
	}
	id, err := s.ids.NewID()
	if err != nil {
		s.logError(opCreateSpace, "id_generation_failed", err)
		return ChatSpace{}, faults.New(opCreateSpace, "id_generation_failed", err)
	}
	now := s.clock().UTC()
	space := ChatSpace{
		ID:        id,
		Name:      name,
		Messages:  []ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	collection := append(s.collection.Load(), space)
	if err := s.collection.Save(collection); err != nil {
		s.logError(opCreateSpace, "collection_write_failed", err)
		return ChatSpace{}, faults.New(opCreateSpace, "collection_write_failed", err)
	}
	return space, nil
}

// ListSpaces returns the whole collection in insertion order. Callers
// sort by recency themselves; see MostRecent.
func (s *Service) ListSpaces() []ChatSpace {
	return s.collection.Load()
}

// GetSpace returns the space with the given id, reporting absence as a
// false second result.
func (s *Service) GetSpace(id string) (ChatSpace, bool) {
	for _, space := range s.collection.Load() {
		if space.ID == id {
			return space, true
		}
	}
	return ChatSpace{}, false
}

// RenameSpace renames the space with the given id and bumps its
// UpdatedAt. The first result is false when the id is absent.
func (s *Service) RenameSpace(id, name string) (bool, error) {
	collection := s.collection.Load()
	for index := range collection {
		if collection[index].ID != id {
			continue
		}
		collection[index].Name = name
		collection[index].UpdatedAt = s.clock().UTC()
		if err := s.collection.Save(collection); err != nil {
			s.logError(opRenameSpace, "collection_write_failed", err, zap.String("space_id", id))
			return false, faults.New(opRenameSpace, "collection_write_failed", err)
		}
		return true, nil
	}
	return false, nil
}

// AddMessage appends a message to the identified space and bumps the
// space's UpdatedAt. The second result is false when the space is
// absent; the collection is left unchanged in that case.
func (s *Service) AddMessage(spaceID, content string, isAI bool) (ChatMessage, bool, error) {
	collection := s.collection.Load()
	for index := range collection {
		if collection[index].ID != spaceID {
			continue
		}
		id, err := s.ids.NewID()
		if err != nil {
			s.logError(opAddMessage, "id_generation_failed", err, zap.String("space_id", spaceID))
			return ChatMessage{}, false, faults.New(opAddMessage, "id_generation_failed", err)
		}
		now := s.clock().UTC()
		message := ChatMessage{
			ID:        id,
			Content:   content,
			IsAI:      isAI,
			Timestamp: now,
		}
		collection[index].Messages = append(collection[index].Messages, message)
		collection[index].UpdatedAt = now
		if err := s.collection.Save(collection); err != nil {
			s.logError(opAddMessage, "collection_write_failed", err, zap.String("space_id", spaceID))
			return ChatMessage{}, false, faults.New(opAddMessage, "collection_write_failed", err)
		}
		return message, true, nil
	}
	return ChatMessage{}, false, nil
}

// DeleteSpace removes the space with the given id. The first result is
// false when the id is absent; no write happens in that case. Canvases
// referencing the space are left dangling on purpose.
func (s *Service) DeleteSpace(id string) (bool, error) {
	collection := s.collection.Load()
	remaining := make([]ChatSpace, 0, len(collection))
	for _, space := range collection {
		if space.ID != id {
			remaining = append(remaining, space)
		}
	}
	if len(remaining) == len(collection) {
		return false, nil
	}
	if err := s.collection.Save(remaining); err != nil {
		s.logError(opDeleteSpace, "collection_write_failed", err, zap.String("space_id", id))
		return false, faults.New(opDeleteSpace, "collection_write_failed", err)
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
	s.logger.Error("spaces service error", attrs...)
}
