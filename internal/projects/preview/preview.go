// Package preview derives the display projection of a project. List cards,
// the detail page, the modal and the PDF export all render from it, so every
// missing-field default lives here.
package preview

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
)

const (
	UntitledProject = "Untitled Project"
	NoProjectsYet   = "No projects yet."
	Placeholder     = "-"
	SummaryMaxRunes = 200
	Ellipsis        = "..."
)

// Section labels in their fixed render order.
const (
	LabelGoal                  = "Goal"
	LabelStructureCapabilities = "Structure & Capabilities"
	LabelKeyFeatures           = "Key Features"
	LabelFileStructure         = "File Structure"
	LabelModules               = "Modules"
	LabelModuleFunctions       = "Module Functions"
	LabelImpactData            = "Impact & Data"
	LabelProblem               = "Problem it Solves"
	LabelDataTypes             = "Data Types"
	LabelConclusion            = "Conclusion"
)

type Section struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Monospace bool   `json:"monospace"`
}

// Projection is never stored; it is recomputed for every render.
type Projection struct {
	ID                    domain.ID          `json:"id"`
	Title                 string             `json:"title"`
	Category              string             `json:"category"`
	Owner                 string             `json:"owner"`
	Status                domain.Status      `json:"status"`
	ProjectType           domain.ProjectType `json:"projectType"`
	Image                 string             `json:"image"`
	Summary               string             `json:"summary"`
	TeamMemberLine        string             `json:"teamMemberLine"`
	TeamMemberDescription string             `json:"teamMemberDescription"`
	RepoURL               string             `json:"repoUrl"`
	VideoURL              string             `json:"videoUrl"`
	Sections              []Section          `json:"sections"`
}

// Project computes the projection of r.
func Project(r domain.ProjectRecord) Projection {
	p := Projection{
		ID:          r.ID,
		Title:       strings.TrimSpace(r.Title),
		Category:    strings.TrimSpace(r.Category),
		Owner:       strings.TrimSpace(r.Owner),
		Status:      r.Status.Normalize(),
		ProjectType: r.ProjectType.Normalize(),
		Image:       Image(r),
		Summary:     Summary(r.Goal),
		RepoURL:     strings.TrimSpace(r.RepoURL),
		VideoURL:    strings.TrimSpace(r.VideoURL),
		Sections:    Sections(r),
	}
	if p.Title == "" {
		p.Title = UntitledProject
	}
	if r.HasTeamMember() {
		p.TeamMemberLine = TeamMemberLine(r)
		p.TeamMemberDescription = strings.TrimSpace(r.TeamMemberDescription)
	}
	return p
}

// Summary returns the first line of goal, cut to 200 runes plus "..." when longer.
func Summary(goal string) string {
	line, _, _ := strings.Cut(goal, "\n")
	line = strings.TrimSuffix(line, "\r")
	if utf8.RuneCountInString(line) <= SummaryMaxRunes {
		return line
	}
	return string([]rune(line)[:SummaryMaxRunes]) + Ellipsis
}

// TeamMemberLine formats "First Last • Role". It is empty without a first name.
func TeamMemberLine(r domain.ProjectRecord) string {
	if !r.HasTeamMember() {
		return ""
	}
	parts := lo.Compact([]string{r.TeamMemberName(), strings.TrimSpace(r.TeamMemberRole)})
	return strings.Join(parts, " • ")
}

// MetaLine joins category, owner and status, skipping empty parts.
func (p Projection) MetaLine() string {
	return strings.Join(lo.Compact([]string{p.Category, p.Owner, string(p.Status)}), " • ")
}

// Sections lists the ten narrative fields in fixed order; absent or blank
// values become a single dash.
func Sections(r domain.ProjectRecord) []Section {
	fields := []struct {
		label string
		value string
	}{
		{LabelGoal, r.Goal},
		{LabelStructureCapabilities, r.StructureCapabilities},
		{LabelKeyFeatures, r.KeyFeatures},
		{LabelFileStructure, r.FileStructure},
		{LabelModules, r.Modules},
		{LabelModuleFunctions, r.ModuleFunctions},
		{LabelImpactData, r.ImpactData},
		{LabelProblem, r.Problem},
		{LabelDataTypes, r.DataTypes},
		{LabelConclusion, r.Conclusion},
	}

	out := make([]Section, 0, len(fields))
	for _, f := range fields {
		v := f.value
		if strings.TrimSpace(v) == "" {
			v = Placeholder
		}
		out = append(out, Section{Label: f.label, Value: v, Monospace: f.label == LabelFileStructure})
	}
	return out
}

// Image picks the record's data URI or URL, else a preview derived from its
// repository link, else "".
func Image(r domain.ProjectRecord) string {
	if img := strings.TrimSpace(r.Image); img != "" {
		return img
	}
	return RepoPreviewImage(r.RepoURL)
}

// RepoPreviewImage maps github.com/<owner>/<repo> and <owner>.github.io/<repo>
// links to the GitHub open-graph image of the repository.
func RepoPreviewImage(repoURL string) string {
	raw := strings.TrimSpace(repoURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	segments := lo.Compact(strings.Split(u.Path, "/"))

	var owner, repo string
	switch {
	case host == "github.com" || host == "www.github.com":
		if len(segments) < 2 {
			return ""
		}
		owner, repo = segments[0], strings.TrimSuffix(segments[1], ".git")
	case strings.HasSuffix(host, ".github.io"):
		if len(segments) < 1 {
			return ""
		}
		owner, repo = strings.TrimSuffix(host, ".github.io"), segments[0]
	default:
		return ""
	}
	if owner == "" || repo == "" {
		return ""
	}
	return "https://opengraph.githubassets.com/1/" + owner + "/" + repo
}

// ListSummaries returns the summary of each record, or the single
// NoProjectsYet line for an empty list.
func ListSummaries(records []domain.ProjectRecord) []string {
	if len(records) == 0 {
		return []string{NoProjectsYet}
	}
	return lo.Map(records, func(r domain.ProjectRecord, _ int) string { return Summary(r.Goal) })
}

// Search keeps the records whose title or goal contains query, ignoring case.
func Search(records []domain.ProjectRecord, query string) []domain.ProjectRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	return lo.Filter(records, func(r domain.ProjectRecord, _ int) bool {
		return strings.Contains(strings.ToLower(r.Title), q) || strings.Contains(strings.ToLower(r.Goal), q)
	})
}
