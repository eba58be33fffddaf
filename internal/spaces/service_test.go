package spaces

import (
	"errors"
	"testing"
	"time"

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

// advancingClock returns a clock that moves forward one second per call.
func advancingClock(start int64) func() time.Time {
	current := start
	return func() time.Time {
		current++
		return time.Unix(current, 0).UTC()
	}
}

func newTestService(t *testing.T, ids []string) (*Service, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	service, err := NewService(ServiceConfig{
		Store:      store,
		Clock:      advancingClock(1700000000),
		IDProvider: &staticIDGenerator{ids: ids},
	})
	if err != nil {
		t.Fatalf("failed to construct spaces service: %v", err)
	}
	return service, store
}

func TestCreateSpaceDefaultsNameAndPersists(t *testing.T) {
	service, _ := newTestService(t, []string{"space-1"})

	space, err := service.CreateSpace("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if space.Name != DefaultSpaceName {
		t.Fatalf("expected default name, got %q", space.Name)
	}
	if !space.CreatedAt.Equal(space.UpdatedAt) {
		t.Fatalf("expected createdAt to equal updatedAt on creation")
	}
	if len(space.Messages) != 0 {
		t.Fatalf("expected empty message sequence")
	}

	listed := service.ListSpaces()
	if len(listed) != 1 || listed[0].ID != "space-1" {
		t.Fatalf("expected persisted space, got %#v", listed)
	}
}

func TestAddMessagePreservesCallOrderAndBumpsUpdatedAt(t *testing.T) {
	service, _ := newTestService(t, []string{"space-1", "m1", "m2", "m3"})

	space, err := service.CreateSpace("Research")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contents := []string{"first", "second", "third"}
	previousUpdatedAt := space.UpdatedAt
	for index, content := range contents {
		message, found, err := service.AddMessage(space.ID, content, index%2 == 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !found {
			t.Fatalf("expected space to be found")
		}
		if message.Content != content {
			t.Fatalf("unexpected message content %q", message.Content)
		}
		reloaded, found := service.GetSpace(space.ID)
		if !found {
			t.Fatalf("expected space to reload")
		}
		if reloaded.UpdatedAt.Before(previousUpdatedAt) {
			t.Fatalf("updatedAt regressed: %v < %v", reloaded.UpdatedAt, previousUpdatedAt)
		}
		previousUpdatedAt = reloaded.UpdatedAt
	}

	reloaded, _ := service.GetSpace(space.ID)
	if len(reloaded.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(reloaded.Messages))
	}
	for index, content := range contents {
		if reloaded.Messages[index].Content != content {
			t.Fatalf("message order violated at %d: %q", index, reloaded.Messages[index].Content)
		}
	}
}

func TestAddMessageReportsAbsentSpace(t *testing.T) {
	service, _ := newTestService(t, []string{"space-1", "m1"})

	if _, err := service.CreateSpace("A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, found, err := service.AddMessage("missing", "hello", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("expected absent space to report false")
	}

	space, _ := service.GetSpace("space-1")
	if len(space.Messages) != 0 {
		t.Fatalf("collection should be unchanged")
	}
}

func TestRenameSpaceBumpsUpdatedAt(t *testing.T) {
	service, _ := newTestService(t, []string{"space-1"})

	space, err := service.CreateSpace("Before")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	renamed, err := service.RenameSpace(space.ID, "After")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !renamed {
		t.Fatalf("expected rename to succeed")
	}

	reloaded, _ := service.GetSpace(space.ID)
	if reloaded.Name != "After" {
		t.Fatalf("expected renamed space, got %q", reloaded.Name)
	}
	if !reloaded.UpdatedAt.After(space.UpdatedAt) {
		t.Fatalf("expected updatedAt to advance on rename")
	}

	renamed, err = service.RenameSpace("missing", "X")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renamed {
		t.Fatalf("expected rename of absent space to report false")
	}
}

func TestDeleteSpaceShrinksCollectionByExactlyOne(t *testing.T) {
	service, _ := newTestService(t, []string{"space-1", "space-2"})

	if _, err := service.CreateSpace("A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.CreateSpace("B"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted, err := service.DeleteSpace("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Fatalf("expected delete of absent id to report false")
	}
	if len(service.ListSpaces()) != 2 {
		t.Fatalf("collection should be unchanged after failed delete")
	}

	deleted, err = service.DeleteSpace("space-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatalf("expected delete to succeed")
	}
	remaining := service.ListSpaces()
	if len(remaining) != 1 || remaining[0].ID != "space-2" {
		t.Fatalf("unexpected remaining collection: %#v", remaining)
	}
}

func TestSpacesRoundTripThroughStore(t *testing.T) {
	service, store := newTestService(t, []string{"space-1", "m1"})

	space, err := service.CreateSpace("Round Trip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := service.AddMessage(space.ID, "payload", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh service over the same store replays the persisted state.
	fresh, err := NewService(ServiceConfig{
		Store:      store,
		IDProvider: &staticIDGenerator{},
	})
	if err != nil {
		t.Fatalf("failed to construct fresh service: %v", err)
	}
	reloaded, found := fresh.GetSpace(space.ID)
	if !found {
		t.Fatalf("expected space to survive reload")
	}
	if len(reloaded.Messages) != 1 || reloaded.Messages[0].ID != "m1" {
		t.Fatalf("unexpected reloaded messages: %#v", reloaded.Messages)
	}
	if !reloaded.Messages[0].IsAI {
		t.Fatalf("expected isAi flag to round-trip")
	}
	if !reloaded.CreatedAt.Equal(space.CreatedAt) {
		t.Fatalf("createdAt did not round-trip: %v vs %v", reloaded.CreatedAt, space.CreatedAt)
	}
}
