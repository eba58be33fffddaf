package canvases

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
	opServiceNew   = "canvases.service.new"
	opSaveCanvas   = "canvases.save_canvas"
	opDeleteCanvas = "canvases.delete_canvas"
)

// ServiceConfig describes the dependencies of the canvas repository.
type ServiceConfig struct {
	Store      storage.Store
	Clock      func() time.Time
	IDProvider identity.IDProvider
	Logger     *zap.Logger
}

// Service owns the canvas collection.
type Service struct {
	collection *storage.Collection[Canvas]
	clock      func() time.Time
	ids        identity.IDProvider
	logger     *zap.Logger
}

// NewService constructs the canvas repository.
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
		collection: storage.NewCollection[Canvas](cfg.Store, CollectionKey, logger),
		clock:      clock,
		ids:        cfg.IDProvider,
		logger:     logger,
	}, nil
}

// SaveCanvas always inserts a new record; there is no upsert by name.
// spaceID may be empty for a canvas not tied to any space.
func (s *Service) SaveCanvas(name, imageData, spaceID string) (Canvas, error) {
	id, err := s.ids.NewID()
	if err != nil {
		s.logError(opSaveCanvas, "id_generation_failed", err)
		return Canvas{}, faults.New(opSaveCanvas, "id_generation_failed", err)
	}
	now := s.clock().UTC()
	canvas := Canvas{
		ID:        id,
		Name:      name,
		ImageData: imageData,
		SpaceID:   spaceID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	collection := append(s.collection.Load(), canvas)
	if err := s.collection.Save(collection); err != nil {
		s.logError(opSaveCanvas, "collection_write_failed", err)
		return Canvas{}, faults.New(opSaveCanvas, "collection_write_failed", err)
	}
	return canvas, nil
}

// ListCanvases returns the collection in insertion order. A non-empty
// spaceID filters to canvases referencing that space; the reference is
// not checked against the live space collection.
func (s *Service) ListCanvases(spaceID string) []Canvas {
	collection := s.collection.Load()
	if spaceID == "" {
		return collection
	}
	filtered := make([]Canvas, 0, len(collection))
	for _, canvas := range collection {
		if canvas.SpaceID == spaceID {
			filtered = append(filtered, canvas)
		}
	}
	return filtered
}

// DeleteCanvas removes the canvas with the given id. The first result
// is false when the id is absent; no write happens in that case.
func (s *Service) DeleteCanvas(id string) (bool, error) {
	collection := s.collection.Load()
	remaining := make([]Canvas, 0, len(collection))
	for _, canvas := range collection {
		if canvas.ID != id {
			remaining = append(remaining, canvas)
		}
	}
	if len(remaining) == len(collection) {
		return false, nil
	}
	if err := s.collection.Save(remaining); err != nil {
		s.logError(opDeleteCanvas, "collection_write_failed", err, zap.String("canvas_id", id))
		return false, faults.New(opDeleteCanvas, "collection_write_failed", err)
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
	s.logger.Error("canvases service error", attrs...)
}
