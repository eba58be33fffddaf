// Package profile owns the singleton user profile record and the
// derived activity counts projected from the other repositories.
package profile

import "time"

// CollectionKey names the store key holding the user profile singleton.
const CollectionKey = "user-profile"

// DefaultName is assigned when a profile is synthesized for a store
// that has never held one.
const DefaultName = "Learner"

// UserProfile is the single per-store user record. ChatCount,
// JournalCount, and CourseCount are projections: whatever was persisted
// for them is overwritten on every read.
type UserProfile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio"`
	Interests    []string  `json:"interests"`
	AvatarURL    string    `json:"avatarUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ChatCount    int       `json:"chatCount"`
	JournalCount int       `json:"journalCount"`
	CourseCount  int       `json:"courseCount"`
}

// Counts is the derived projection applied to a profile on read.
type Counts struct {
	Chat    int
	Journal int
	Course  int
}

// apply overwrites the derived fields on the profile.
func (c Counts) apply(record *UserProfile) {
	record.ChatCount = c.Chat
	record.JournalCount = c.Journal
	record.CourseCount = c.Course
}
