// Package tasks owns the task collection.
package tasks

import "time"

// CollectionKey names the store key holding the task collection.
const CollectionKey = "user-tasks"

// Task is a single to-do item. DueDate is optional and carries no
// relationship to Completed.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskUpdate carries the fields merged into an existing task by
// UpdateTask. Nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}
