package profile

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lumenlabs/lumen/backend/internal/courses"
	"github.com/lumenlabs/lumen/backend/internal/faults"
	"github.com/lumenlabs/lumen/backend/internal/identity"
	"github.com/lumenlabs/lumen/backend/internal/journals"
	"github.com/lumenlabs/lumen/backend/internal/spaces"
	"github.com/lumenlabs/lumen/backend/internal/storage"
)

var (
	errMissingStore       = errors.New("collection store is required")
	errMissingIDProvider  = errors.New("id provider is required")
	errMissingSpaces      = errors.New("space directory is required")
	errMissingJournals    = errors.New("journal shelf is required")
	errMissingEnrollments = errors.New("enrollment book is required")
	noOpLogger            = zap.NewNop()
)

const (
	opServiceNew  = "profile.service.new"
	opGetProfile  = "profile.get_profile"
	opSaveProfile = "profile.save_profile"
)

// SpaceDirectory is the public read surface of the space repository the
// profile projection consumes.
type SpaceDirectory interface {
	ListSpaces() []spaces.ChatSpace
}

// JournalShelf is the public read surface of the journal repository the
// profile projection consumes.
type JournalShelf interface {
	ListJournals() []journals.Journal
}

// EnrollmentBook is the public read surface of the enrollment
// repository the profile projection consumes.
type EnrollmentBook interface {
	ListUserCourses(userID string) []courses.UserCourse
}

// ServiceConfig describes the dependencies of the profile repository.
// Cross-entity counts are read through the other repositories' public
// APIs, never their storage keys.
type ServiceConfig struct {
	Store       storage.Store
	Clock       func() time.Time
	IDProvider  identity.IDProvider
	Spaces      SpaceDirectory
	Journals    JournalShelf
	Enrollments EnrollmentBook
	Logger      *zap.Logger
}

// Service owns the user profile singleton.
type Service struct {
	collection  *storage.Collection[UserProfile]
	clock       func() time.Time
	ids         identity.IDProvider
	spaces      SpaceDirectory
	journals    JournalShelf
	enrollments EnrollmentBook
	logger      *zap.Logger
}

// NewService constructs the profile repository.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, faults.New(opServiceNew, "missing_store", errMissingStore)
	}
	if cfg.IDProvider == nil {
		return nil, faults.New(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}
	if cfg.Spaces == nil {
		return nil, faults.New(opServiceNew, "missing_spaces", errMissingSpaces)
	}
	if cfg.Journals == nil {
		return nil, faults.New(opServiceNew, "missing_journals", errMissingJournals)
	}
	if cfg.Enrollments == nil {
		return nil, faults.New(opServiceNew, "missing_enrollments", errMissingEnrollments)
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
		collection:  storage.NewCollection[UserProfile](cfg.Store, CollectionKey, logger),
		clock:       clock,
		ids:         cfg.IDProvider,
		spaces:      cfg.Spaces,
		journals:    cfg.Journals,
		enrollments: cfg.Enrollments,
		logger:      logger,
	}, nil
}

// GetProfile returns the stored profile with freshly derived counts.
// When no profile exists one is synthesized with defaults and persisted
// before returning. The derived counts always overwrite whatever was
// stored for them.
func (s *Service) GetProfile() (UserProfile, error) {
	record, ok := s.collection.LoadOne()
	if !ok {
		id, err := s.ids.NewID()
		if err != nil {
			s.logError(opGetProfile, "id_generation_failed", err)
			return UserProfile{}, faults.New(opGetProfile, "id_generation_failed", err)
		}
		now := s.clock().UTC()
		record = UserProfile{
			ID:        id,
			Name:      DefaultName,
			Interests: []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	s.deriveCounts(record.ID).apply(&record)
	if !ok {
		if err := s.collection.SaveOne(record); err != nil {
			s.logError(opGetProfile, "collection_write_failed", err)
			return UserProfile{}, faults.New(opGetProfile, "collection_write_failed", err)
		}
	}
	return record, nil
}

// SaveProfile persists the full profile with UpdatedAt forced to now.
// CreatedAt is taken from the caller as supplied.
func (s *Service) SaveProfile(record UserProfile) (UserProfile, error) {
	record.UpdatedAt = s.clock().UTC()
	if record.Interests == nil {
		record.Interests = []string{}
	}
	if err := s.collection.SaveOne(record); err != nil {
		s.logError(opSaveProfile, "collection_write_failed", err)
		return UserProfile{}, faults.New(opSaveProfile, "collection_write_failed", err)
	}
	return record, nil
}

// deriveCounts is the pure projection behind the derived profile
// fields; it reads only the other repositories' public APIs.
func (s *Service) deriveCounts(userID string) Counts {
	return Counts{
		Chat:    len(s.spaces.ListSpaces()),
		Journal: len(s.journals.ListJournals()),
		Course:  len(s.enrollments.ListUserCourses(userID)),
	}
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
	s.logger.Error("profile service error", attrs...)
}
