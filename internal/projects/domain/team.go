package domain

import (
	"strings"
	"unicode"
)

// TeamMember is a profile keyed by a slug derived from the member's name.
// It is not linked to the projects that created it.
type TeamMember struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

// Slug lowercases first and last name and joins them with hyphens.
// Inner whitespace also becomes a hyphen: "Mary Ann", "Lee" -> "mary-ann-lee".
func Slug(first, last string) string {
	name := strings.ToLower(joinNonEmpty(" ", first, last))
	return strings.Join(strings.FieldsFunc(name, unicode.IsSpace), "-")
}

// TeamMemberFromRecord builds the member a project submission describes.
// ok is false when the record has no team member first name.
func TeamMemberFromRecord(r ProjectRecord) (TeamMember, bool) {
	if !r.HasTeamMember() {
		return TeamMember{}, false
	}
	return TeamMember{
		Slug: Slug(r.TeamMemberFirstName, r.TeamMemberLastName),
		Name: r.TeamMemberName(),
		Role: strings.TrimSpace(r.TeamMemberRole),
		Bio:  strings.TrimSpace(r.TeamMemberDescription),
	}, true
}

// Merge overlays the non-empty fields of in onto m.
func (m TeamMember) Merge(in TeamMember) TeamMember {
	if in.Name != "" {
		m.Name = in.Name
	}
	if in.Role != "" {
		m.Role = in.Role
	}
	if in.Bio != "" {
		m.Bio = in.Bio
	}
	if in.Avatar != "" {
		m.Avatar = in.Avatar
	}
	return m
}
