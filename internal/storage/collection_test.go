package storage

import (
	"testing"
	"time"
)

type testRecord struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

func TestCollectionLoadReturnsEmptyForAbsentKey(t *testing.T) {
	store := NewMemoryStore()
	collection := NewCollection[testRecord](store, "records", nil)

	records := collection.Load()
	if len(records) != 0 {
		t.Fatalf("expected empty collection, got %d records", len(records))
	}
}

func TestCollectionRoundTripsRecords(t *testing.T) {
	store := NewMemoryStore()
	collection := NewCollection[testRecord](store, "records", nil)

	created := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)
	records := []testRecord{
		{ID: "a", Label: "first", CreatedAt: created},
		{ID: "b", Label: "second", CreatedAt: created.Add(time.Hour)},
	}
	if err := collection.Save(records); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	reloaded := NewCollection[testRecord](store, "records", nil).Load()
	if len(reloaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(reloaded))
	}
	if reloaded[0].ID != "a" || reloaded[1].ID != "b" {
		t.Fatalf("unexpected record order: %#v", reloaded)
	}
	if !reloaded[0].CreatedAt.Equal(created) {
		t.Fatalf("timestamp did not round-trip: %v", reloaded[0].CreatedAt)
	}
}

func TestCollectionTreatsCorruptPayloadAsEmpty(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Set("records", "{not json"); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	collection := NewCollection[testRecord](store, "records", nil)

	records := collection.Load()
	if len(records) != 0 {
		t.Fatalf("expected corrupt payload to load as empty, got %d records", len(records))
	}

	// The next save replaces the corrupt payload wholesale.
	if err := collection.Save([]testRecord{{ID: "a"}}); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	records = collection.Load()
	if len(records) != 1 || records[0].ID != "a" {
		t.Fatalf("expected corrupt payload to be replaced, got %#v", records)
	}
}

func TestCollectionLoadOneReportsAbsence(t *testing.T) {
	store := NewMemoryStore()
	collection := NewCollection[testRecord](store, "record", nil)

	if _, ok := collection.LoadOne(); ok {
		t.Fatalf("expected absent singleton")
	}

	saved := testRecord{ID: "solo", Label: "only", CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	if err := collection.SaveOne(saved); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, ok := collection.LoadOne()
	if !ok {
		t.Fatalf("expected singleton to load")
	}
	if loaded.ID != "solo" || !loaded.CreatedAt.Equal(saved.CreatedAt) {
		t.Fatalf("singleton did not round-trip: %#v", loaded)
	}
}

func TestCollectionLoadOneTreatsCorruptPayloadAsAbsent(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Set("record", "???"); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	collection := NewCollection[testRecord](store, "record", nil)

	if _, ok := collection.LoadOne(); ok {
		t.Fatalf("expected corrupt singleton to read as absent")
	}
}
