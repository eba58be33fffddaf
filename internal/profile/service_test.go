package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/lumenlabs/lumen/backend/internal/courses"
	"github.com/lumenlabs/lumen/backend/internal/journals"
	"github.com/lumenlabs/lumen/backend/internal/spaces"
	"github.com/lumenlabs/lumen/backend/internal/storage"
)

type staticIDGenerator struct {
	ids   []string
	index int
}

func (g *staticIDGenerator) NewID() (string, error) {
	if g.index >= len(g.ids) {
		return "", errors.New("exhausted ids")
	}
	id := g.ids[g.index]
	g.index++
	return id, nil
}

func advancingClock(start int64) func() time.Time {
	current := start
	return func() time.Time {
		current++
		return time.Unix(current, 0).UTC()
	}
}

type testWorkspace struct {
	store       *storage.MemoryStore
	spaces      *spaces.Service
	journals    *journals.Service
	enrollments *courses.Enrollments
	profile     *Service
}

func newTestWorkspace(t *testing.T) *testWorkspace {
	t.Helper()

	store := storage.NewMemoryStore()
	clock := advancingClock(1700000000)

	spacesService, err := spaces.NewService(spaces.ServiceConfig{
		Store:      store,
		Clock:      clock,
		IDProvider: &staticIDGenerator{ids: []string{"space-1", "space-2"}},
	})
	if err != nil {
		t.Fatalf("failed to construct spaces service: %v", err)
	}

	journalService, err := journals.NewService(journals.ServiceConfig{
		Store:      store,
		Clock:      clock,
		IDProvider: &staticIDGenerator{ids: []string{"journal-1", "journal-2"}},
	})
	if err != nil {
		t.Fatalf("failed to construct journal service: %v", err)
	}

	catalog, err := courses.NewCatalog(courses.CatalogConfig{Store: store, Clock: clock})
	if err != nil {
		t.Fatalf("failed to construct catalog: %v", err)
	}
	enrollments, err := courses.NewEnrollments(courses.EnrollmentsConfig{
		Store:   store,
		Clock:   clock,
		Catalog: catalog,
	})
	if err != nil {
		t.Fatalf("failed to construct enrollments: %v", err)
	}

	profileService, err := NewService(ServiceConfig{
		Store:       store,
		Clock:       clock,
		IDProvider:  &staticIDGenerator{ids: []string{"user-1"}},
		Spaces:      spacesService,
		Journals:    journalService,
		Enrollments: enrollments,
	})
	if err != nil {
		t.Fatalf("failed to construct profile service: %v", err)
	}

	return &testWorkspace{
		store:       store,
		spaces:      spacesService,
		journals:    journalService,
		enrollments: enrollments,
		profile:     profileService,
	}
}

func TestGetProfileSynthesizesDefaultWithZeroCounts(t *testing.T) {
	workspace := newTestWorkspace(t)

	record, err := workspace.profile.GetProfile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != "user-1" {
		t.Fatalf("unexpected id %s", record.ID)
	}
	if record.Name != DefaultName {
		t.Fatalf("expected default name, got %q", record.Name)
	}
	if record.ChatCount != 0 || record.JournalCount != 0 || record.CourseCount != 0 {
		t.Fatalf("fresh store should report zero counts: %#v", record)
	}

	// The synthesized profile is persisted; a second read keeps the id.
	again, err := workspace.profile.GetProfile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != record.ID {
		t.Fatalf("expected the persisted profile to be reused")
	}
}

func TestGetProfileDerivesCountsFromOtherRepositories(t *testing.T) {
	workspace := newTestWorkspace(t)

	record, err := workspace.profile.GetProfile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := workspace.spaces.CreateSpace("A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := workspace.journals.SaveJournal("J", "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := workspace.enrollments.Enroll("course-web-dev", record.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refreshed, err := workspace.profile.GetProfile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.ChatCount != 1 || refreshed.JournalCount != 1 || refreshed.CourseCount != 1 {
		t.Fatalf("expected counts 1/1/1, got %d/%d/%d",
			refreshed.ChatCount, refreshed.JournalCount, refreshed.CourseCount)
	}
}

func TestGetProfileOverwritesStaleStoredCounts(t *testing.T) {
	workspace := newTestWorkspace(t)

	record, err := workspace.profile.GetProfile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Counts persisted through SaveProfile are never trusted on read.
	record.ChatCount = 99
	record.JournalCount = 99
	record.CourseCount = 99
	if _, err := workspace.profile.SaveProfile(record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refreshed, err := workspace.profile.GetProfile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.ChatCount != 0 || refreshed.JournalCount != 0 || refreshed.CourseCount != 0 {
		t.Fatalf("stored counts should be overwritten by the projection: %#v", refreshed)
	}
}

func TestSaveProfileForcesUpdatedAtAndKeepsCreatedAt(t *testing.T) {
	workspace := newTestWorkspace(t)

	record, err := workspace.profile.GetProfile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record.Name = "Ada"
	record.Bio = "curious"
	record.Interests = []string{"math", "music", "math"}
	saved, err := workspace.profile.SaveProfile(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !saved.UpdatedAt.After(record.UpdatedAt) {
		t.Fatalf("expected updatedAt to be forced forward")
	}
	if !saved.CreatedAt.Equal(record.CreatedAt) {
		t.Fatalf("createdAt should be taken from the caller")
	}

	refreshed, err := workspace.profile.GetProfile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.Name != "Ada" || refreshed.Bio != "curious" {
		t.Fatalf("profile fields should persist: %#v", refreshed)
	}
	// Duplicate interests are allowed; the sequence is not a strict set.
	if len(refreshed.Interests) != 3 {
		t.Fatalf("interests should round-trip with duplicates, got %#v", refreshed.Interests)
	}
}
