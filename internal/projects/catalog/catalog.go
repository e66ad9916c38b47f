// Package catalog ships the built-in reference projects. They are read-only
// at runtime and take precedence over every other source on id collisions.
package catalog

import (
	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
)

var records = []domain.ProjectRecord{
	{
		ID:          "1",
		Title:       "Jira Digital Twin",
		Category:    "Computer Science",
		Owner:       "Internal",
		Goal:        "A flagship twin of our Jira workflows, showcasing how project management systems can be modeled as digital twins for portfolio visibility.",
		Status:      domain.StatusInProgress,
		ProjectType: domain.ProjectTypeFlagship,
	},
	{
		ID:                  "2",
		Title:               "USGBC Engagement Twin",
		Category:            "Computer Science",
		Owner:               "Mario",
		TeamMemberFirstName: "Mario",
		TeamMemberRole:      "Software Engineer",
		RepoURL:             "https://siromidahmadi.github.io/USGBC-/",
		Goal:                "A reference twin for USGBC-style engagement data, visualizing projects, certifications, and performance insights in one hub.",
		Status:              domain.StatusIdea,
		ProjectType:         domain.ProjectTypeFlagship,
	},
	{
		ID:          "3",
		Title:       "Alpha Earth Sandbox",
		Category:    "Architecture",
		Owner:       "Lab",
		Goal:        "An experimental sandbox twin where new structures, modules, and data types can be prototyped before going live.",
		Status:      domain.StatusIdea,
		ProjectType: domain.ProjectTypeFlagship,
	},
	{
		ID:                  "4",
		Title:               "Baldwin Hills 6-Mile Corridor Digital Twin",
		Category:            "Architecture",
		Owner:               "Omid Ahmadi",
		TeamMemberFirstName: "Omid",
		TeamMemberLastName:  "Ahmadi",
		TeamMemberRole:      "Software Engineer",
		RepoURL:             "https://digitaltwinshub.github.io/Baldwin/",
		Goal: "The goal of the Baldwin Hills 6-Mile Corridor Digital Twin is to provide an accessible, data-driven platform that visualizes environmental, infrastructure, and community conditions along the corridor. " +
			"The project aims to bridge the gap between technical urban data and public understanding, enabling planners, students, and community members to explore risks, opportunities, and impacts in a clear, interactive way that supports informed decision-making and equitable planning.",
		Status:      domain.StatusInProgress,
		ProjectType: domain.ProjectTypeFlagship,
	},
	{
		ID:          "1001",
		Title:       "User Project",
		Category:    "Architecture",
		Owner:       "You",
		Goal:        "A starter user project that demonstrates how to describe goals, structure, and modules for your own digital twin.",
		Status:      domain.StatusIdea,
		ProjectType: domain.ProjectTypeUser,
	},
}

// All returns a copy of the catalog in declared order.
func All() []domain.ProjectRecord {
	out := make([]domain.ProjectRecord, len(records))
	copy(out, records)
	return out
}

// Find looks a record up by exact id.
func Find(id domain.ID) (domain.ProjectRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.ProjectRecord{}, false
}

// Contains reports whether id belongs to the catalog.
func Contains(id domain.ID) bool {
	_, ok := Find(id)
	return ok
}
