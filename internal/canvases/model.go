// Package canvases owns the saved drawing collection.
package canvases

import "time"

// CollectionKey names the store key holding the canvas collection.
const CollectionKey = "canvases"

// Canvas is a saved drawing. SpaceID is a weak reference: it may point
// at a space that has since been deleted and is never cleaned up.
type Canvas struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageData string    `json:"imageData"`
	SpaceID   string    `json:"spaceId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
