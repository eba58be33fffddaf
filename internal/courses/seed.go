package courses

import "time"

// defaultCatalog returns the courses seeded on first access. Ids are
// fixed so repeated seeds of fresh stores produce identical catalogs.
func defaultCatalog(now time.Time) []Course {
	return []Course{
		{
			ID:          "course-web-dev",
			Title:       "Modern Web Development",
			Description: "Build responsive web applications from first principles.",
			Domain:      "Technology",
			ImageURL:    "https://images.lumen.app/courses/web-dev.jpg",
			Duration:    90,
			CreatedAt:   now,
			UpdatedAt:   now,
			Modules: []CourseModule{
				{
					ID:          "module-web-dev-1",
					Title:       "HTML and CSS Foundations",
					Description: "Structure and style pages that work on any screen.",
					Duration:    45,
				},
				{
					ID:          "module-web-dev-2",
					Title:       "Interactive JavaScript",
					Description: "Add behavior, fetch data, and react to user input.",
					Duration:    45,
				},
			},
		},
		{
			ID:          "course-data-science",
			Title:       "Data Science Essentials",
			Description: "Turn raw data into decisions with practical analysis.",
			Domain:      "Data",
			ImageURL:    "https://images.lumen.app/courses/data-science.jpg",
			Duration:    120,
			CreatedAt:   now,
			UpdatedAt:   now,
			Modules: []CourseModule{
				{
					ID:          "module-data-science-1",
					Title:       "Exploring Data",
					Description: "Load, clean, and summarize real datasets.",
					Duration:    60,
				},
				{
					ID:          "module-data-science-2",
					Title:       "Visualization and Storytelling",
					Description: "Communicate findings with charts that persuade.",
					Duration:    60,
				},
			},
		},
		{
			ID:          "course-digital-marketing",
			Title:       "Digital Marketing Fundamentals",
			Description: "Reach an audience and measure what actually works.",
			Domain:      "Marketing",
			ImageURL:    "https://images.lumen.app/courses/digital-marketing.jpg",
			Duration:    60,
			CreatedAt:   now,
			UpdatedAt:   now,
			Modules: []CourseModule{
				{
					ID:          "module-digital-marketing-1",
					Title:       "Channels and Funnels",
					Description: "Map how customers find and choose a product.",
					Duration:    30,
				},
				{
					ID:          "module-digital-marketing-2",
					Title:       "Campaign Analytics",
					Description: "Track conversions and iterate on the numbers.",
					Duration:    30,
				},
			},
		},
	}
}
