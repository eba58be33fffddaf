// Package courses owns the course catalog and the per-user enrollment
// records tracking module completion.
package courses

import (
	"math"
	"time"
)

// CatalogKey names the store key holding the course catalog.
const CatalogKey = "available-courses"

// EnrollmentsKey names the store key holding enrollment records.
const EnrollmentsKey = "user-courses"

// CourseModule is one unit of a course. Completed here is a catalog
// default; per-user completion lives on the enrollment record.
type CourseModule struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Completed   bool   `json:"completed"`
}

// Course is a catalog entry. The catalog is effectively read-only after
// seeding; Duration is in minutes.
type Course struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Domain      string         `json:"domain"`
	ImageURL    string         `json:"imageUrl"`
	Modules     []CourseModule `json:"modules"`
	Duration    int            `json:"duration"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// UserCourse is the enrollment and progress record between a user and a
// course, unique per (CourseID, UserID). CompletedModules holds module
// ids with set semantics.
type UserCourse struct {
	CourseID         string    `json:"courseId"`
	UserID           string    `json:"userId"`
	Progress         int       `json:"progress"`
	EnrolledAt       time.Time `json:"enrolledAt"`
	LastAccessedAt   time.Time `json:"lastAccessedAt"`
	CompletedModules []string  `json:"completedModules"`
}

// computeProgress returns round(100 * k / N) where k counts completed
// module ids that belong to the course and N is the course's module
// count. A course without modules reports zero.
func computeProgress(course Course, completedModules []string) int {
	if len(course.Modules) == 0 {
		return 0
	}
	catalog := make(map[string]struct{}, len(course.Modules))
	for _, module := range course.Modules {
		catalog[module.ID] = struct{}{}
	}
	completed := 0
	for _, moduleID := range completedModules {
		if _, ok := catalog[moduleID]; ok {
			completed++
		}
	}
	percent := 100 * float64(completed) / float64(len(course.Modules))
	return int(math.Round(percent))
}
