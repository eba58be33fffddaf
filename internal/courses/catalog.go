package courses

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lumenlabs/lumen/backend/internal/faults"
	"github.com/lumenlabs/lumen/backend/internal/storage"
)

var (
	errMissingStore = errors.New("collection store is required")
	noOpLogger      = zap.NewNop()
)

const (
	opCatalogNew  = "courses.catalog.new"
	opEnsureSeed  = "courses.ensure_seeded"
	opListCourses = "courses.list_courses"
	opGetCourse   = "courses.get_course"
)

// CatalogConfig describes the dependencies of the course catalog.
type CatalogConfig struct {
	Store  storage.Store
	Clock  func() time.Time
	Logger *zap.Logger
}

// Catalog owns the read-mostly course collection. The first access
// against an empty store seeds the default catalog; later accesses
// return the persisted catalog, never a re-seed.
type Catalog struct {
	collection *storage.Collection[Course]
	clock      func() time.Time
	logger     *zap.Logger
}

// NewCatalog constructs the course catalog.
func NewCatalog(cfg CatalogConfig) (*Catalog, error) {
	if cfg.Store == nil {
		return nil, faults.New(opCatalogNew, "missing_store", errMissingStore)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Catalog{
		collection: storage.NewCollection[Course](cfg.Store, CatalogKey, logger),
		clock:      clock,
		logger:     logger,
	}, nil
}

// ensureSeeded persists the default catalog when no catalog is stored.
// Idempotent: presence of any stored course skips the seed.
func (c *Catalog) ensureSeeded() ([]Course, error) {
	collection := c.collection.Load()
	if len(collection) > 0 {
		return collection, nil
	}
	collection = defaultCatalog(c.clock().UTC())
	if err := c.collection.Save(collection); err != nil {
		c.logError(opEnsureSeed, "collection_write_failed", err)
		return nil, faults.New(opEnsureSeed, "collection_write_failed", err)
	}
	c.logger.Info("course catalog seeded", zap.Int("courses", len(collection)))
	return collection, nil
}

// ListCourses returns the catalog, seeding it on first access.
func (c *Catalog) ListCourses() ([]Course, error) {
	return c.ensureSeeded()
}

// GetCourse returns the course with the given id, reporting absence as
// a false second result.
func (c *Catalog) GetCourse(id string) (Course, bool, error) {
	collection, err := c.ensureSeeded()
	if err != nil {
		return Course{}, false, faults.New(opGetCourse, "seed_failed", err)
	}
	for _, course := range collection {
		if course.ID == id {
			return course, true, nil
		}
	}
	return Course{}, false, nil
}

func (c *Catalog) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	c.logger.Error("courses catalog error", attrs...)
}
