package courses

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lumenlabs/lumen/backend/internal/faults"
	"github.com/lumenlabs/lumen/backend/internal/storage"
)

var errMissingCatalog = errors.New("course catalog is required")

const (
	opEnrollmentsNew = "enrollments.service.new"
	opEnroll         = "enrollments.enroll"
	opUpdateProgress = "enrollments.update_progress"
)

// EnrollmentsConfig describes the dependencies of the enrollment
// repository.
type EnrollmentsConfig struct {
	Store   storage.Store
	Clock   func() time.Time
	Catalog *Catalog
	Logger  *zap.Logger
}

// Enrollments owns the enrollment collection, keyed by the
// (CourseID, UserID) pair. Course references are weak: enrolling does
// not require the course to resolve in the catalog, but progress
// updates do.
type Enrollments struct {
	collection *storage.Collection[UserCourse]
	clock      func() time.Time
	catalog    *Catalog
	logger     *zap.Logger
}

// NewEnrollments constructs the enrollment repository.
func NewEnrollments(cfg EnrollmentsConfig) (*Enrollments, error) {
	if cfg.Store == nil {
		return nil, faults.New(opEnrollmentsNew, "missing_store", errMissingStore)
	}
	if cfg.Catalog == nil {
		return nil, faults.New(opEnrollmentsNew, "missing_catalog", errMissingCatalog)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Enrollments{
		collection: storage.NewCollection[UserCourse](cfg.Store, EnrollmentsKey, logger),
		clock:      clock,
		catalog:    cfg.Catalog,
		logger:     logger,
	}, nil
}

// ListUserCourses returns the enrollments belonging to the given user,
// in collection order.
func (e *Enrollments) ListUserCourses(userID string) []UserCourse {
	collection := e.collection.Load()
	filtered := make([]UserCourse, 0, len(collection))
	for _, enrollment := range collection {
		if enrollment.UserID == userID {
			filtered = append(filtered, enrollment)
		}
	}
	return filtered
}

// Enroll records an enrollment for the (courseID, userID) pair.
// Idempotent: an existing enrollment is returned unchanged, keeping its
// original EnrolledAt.
func (e *Enrollments) Enroll(courseID, userID string) (UserCourse, error) {
	collection := e.collection.Load()
	for _, enrollment := range collection {
		if enrollment.CourseID == courseID && enrollment.UserID == userID {
			return enrollment, nil
		}
	}
	now := e.clock().UTC()
	enrollment := UserCourse{
		CourseID:         courseID,
		UserID:           userID,
		Progress:         0,
		EnrolledAt:       now,
		LastAccessedAt:   now,
		CompletedModules: []string{},
	}
	collection = append(collection, enrollment)
	if err := e.collection.Save(collection); err != nil {
		e.logError(opEnroll, "collection_write_failed", err,
			zap.String("course_id", courseID), zap.String("user_id", userID))
		return UserCourse{}, faults.New(opEnroll, "collection_write_failed", err)
	}
	return enrollment, nil
}

// UpdateProgress adds or removes moduleID from the enrollment's
// completed set and recomputes the progress percentage against the
// course's module list. The first result is false when no enrollment
// matches or the course does not resolve in the catalog. Membership
// no-ops (completing a module twice, unmarking an absent one) still
// recompute progress and bump LastAccessedAt. moduleID is deliberately
// not validated against the course's module list.
func (e *Enrollments) UpdateProgress(courseID, userID, moduleID string, completed bool) (bool, error) {
	course, found, err := e.catalog.GetCourse(courseID)
	if err != nil {
		return false, faults.New(opUpdateProgress, "catalog_read_failed", err)
	}
	if !found {
		return false, nil
	}

	collection := e.collection.Load()
	for index := range collection {
		if collection[index].CourseID != courseID || collection[index].UserID != userID {
			continue
		}
		modules := collection[index].CompletedModules
		if completed {
			if !containsModule(modules, moduleID) {
				modules = append(modules, moduleID)
			}
		} else {
			modules = removeModule(modules, moduleID)
		}
		collection[index].CompletedModules = modules
		collection[index].Progress = computeProgress(course, modules)
		collection[index].LastAccessedAt = e.clock().UTC()
		if err := e.collection.Save(collection); err != nil {
			e.logError(opUpdateProgress, "collection_write_failed", err,
				zap.String("course_id", courseID), zap.String("user_id", userID))
			return false, faults.New(opUpdateProgress, "collection_write_failed", err)
		}
		return true, nil
	}
	return false, nil
}

func containsModule(modules []string, moduleID string) bool {
	for _, existing := range modules {
		if existing == moduleID {
			return true
		}
	}
	return false
}

func removeModule(modules []string, moduleID string) []string {
	remaining := make([]string, 0, len(modules))
	for _, existing := range modules {
		if existing != moduleID {
			remaining = append(remaining, existing)
		}
	}
	return remaining
}

func (e *Enrollments) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	e.logger.Error("enrollments service error", attrs...)
}
