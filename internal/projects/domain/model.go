package domain

import (
	"strings"
)

// TimestampLayout is the millisecond ISO-8601 form of CreatedAt and UpdatedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ProjectRecord is a single hub project. Every descriptive field is optional
// in storage; display defaults live in the preview package.
type ProjectRecord struct {
	ID          ID          `json:"id,omitempty"`
	Title       string      `json:"title,omitempty"`
	Category    string      `json:"category,omitempty"`
	Owner       string      `json:"owner,omitempty"`
	RepoURL     string      `json:"repoUrl,omitempty"`
	Goal        string      `json:"goal,omitempty"`
	Image       string      `json:"image,omitempty"`
	VideoURL    string      `json:"videoUrl,omitempty"`
	Status      Status      `json:"status,omitempty"`
	ProjectType ProjectType `json:"projectType,omitempty"`

	StructureCapabilities string `json:"structureCapabilities,omitempty"`
	KeyFeatures           string `json:"keyFeatures,omitempty"`
	FileStructure         string `json:"fileStructure,omitempty"`
	Modules               string `json:"modules,omitempty"`
	ModuleFunctions       string `json:"moduleFunctions,omitempty"`
	ImpactData            string `json:"impactData,omitempty"`
	Problem               string `json:"problem,omitempty"`
	DataTypes             string `json:"dataTypes,omitempty"`
	Conclusion            string `json:"conclusion,omitempty"`

	TeamMemberFirstName   string `json:"teamMemberFirstName,omitempty"`
	TeamMemberLastName    string `json:"teamMemberLastName,omitempty"`
	TeamMemberRole        string `json:"teamMemberRole,omitempty"`
	TeamMemberDescription string `json:"teamMemberDescription,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Validate checks the fields the add-project flow requires.
func (r ProjectRecord) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(r.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(r.Goal) == "" {
		missing = append(missing, "goal")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// HasTeamMember reports whether the record names a team member.
func (r ProjectRecord) HasTeamMember() bool {
	return strings.TrimSpace(r.TeamMemberFirstName) != ""
}

// TeamMemberName joins the team member's first and last names.
func (r ProjectRecord) TeamMemberName() string {
	return joinNonEmpty(" ", r.TeamMemberFirstName, r.TeamMemberLastName)
}

// IsFlagship reports whether the record belongs to the flagship group.
func (r ProjectRecord) IsFlagship() bool {
	return r.ProjectType.Normalize() == ProjectTypeFlagship
}

// Status is the board column of a project.
type Status string

const (
	StatusIdea       Status = "Idea"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

var Statuses = []Status{StatusIdea, StatusInProgress, StatusCompleted}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// Normalize returns the canonical status, or "" when unset or unknown.
func (s Status) Normalize() Status {
	st, _ := ParseStatus(string(s))
	return st
}

// ProjectType separates built-in flagship projects from user projects.
type ProjectType string

const (
	ProjectTypeFlagship ProjectType = "flagship"
	ProjectTypeUser     ProjectType = "user"
)

// Normalize treats anything but "flagship" as a user project.
func (t ProjectType) Normalize() ProjectType {
	if strings.EqualFold(strings.TrimSpace(string(t)), string(ProjectTypeFlagship)) {
		return ProjectTypeFlagship
	}
	return ProjectTypeUser
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

// ProjectDraft is the add-project form state. ImageDataURL and ImageLink are
// alternative image inputs resolved into Image on submit.
type ProjectDraft struct {
	ProjectRecord
	ImageDataURL string `json:"imageDataUrl,omitempty"`
	ImageLink    string `json:"imageLink,omitempty"`
}

// Record resolves the draft into a record: an uploaded image wins over a
// link, which wins over an image already on the record.
func (d ProjectDraft) Record() ProjectRecord {
	r := d.ProjectRecord
	switch {
	case strings.TrimSpace(d.ImageDataURL) != "":
		r.Image = strings.TrimSpace(d.ImageDataURL)
	case strings.TrimSpace(d.ImageLink) != "":
		r.Image = strings.TrimSpace(d.ImageLink)
	}
	return r
}
