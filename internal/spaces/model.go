// Package spaces owns the chat space collection: named conversations
// holding an append-only message sequence.
package spaces

import "time"

// CollectionKey names the store key holding the chat space collection.
const CollectionKey = "chat-spaces"

// DefaultSpaceName is assigned when a space is created with a blank name.
const DefaultSpaceName = "New Space"

// ChatMessage is a single message inside a space. Messages are
// immutable once created and belong to exactly one space.
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsAI      bool      `json:"isAi"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSpace is a named conversation. Messages are kept in insertion
// order, which is also chronological order; UpdatedAt advances on every
// append and rename.
type ChatSpace struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// MostRecent selects the space with the maximum UpdatedAt. When several
// spaces share the maximum, the first encountered in collection order
// wins. The second result is false for an empty slice.
func MostRecent(collection []ChatSpace) (ChatSpace, bool) {
	if len(collection) == 0 {
		return ChatSpace{}, false
	}
	winner := collection[0]
	for _, candidate := range collection[1:] {
		if candidate.UpdatedAt.After(winner.UpdatedAt) {
			winner = candidate
		}
	}
	return winner, true
}
