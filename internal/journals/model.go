// Package journals owns the freeform journal collection. Journals are
// upserted by exact title match.
package journals

import "time"

// CollectionKey names the store key holding the journal collection.
const CollectionKey = "journals"

// Journal is a titled freeform text document. The title acts as the
// de-facto dedup key for SaveJournal: exact string match, no case
// folding, no trimming.
type Journal struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
