package repository

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/digitaltwinshub/projects-hub/internal/projects/catalog"
	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
	"github.com/digitaltwinshub/projects-hub/internal/storage"
)

const DefaultAvatarURL = "https://placehold.co/254x240"

// fallbackMembers are shown on the team page before anyone has been stored.
var fallbackMembers = []domain.TeamMember{
	{Slug: "meri-sargsian", Name: "Meri Sargsian", Role: "ShadeLA ProjectHUB"},
	{Slug: "omid-ahmadi", Name: "Omid Ahmadi", Role: "Software Engineer"},
	{Slug: "priya-n", Name: "Priya N", Role: "Systems"},
	{Slug: "john-appleseed", Name: "John Appleseed", Role: "Architecture"},
}

// StoredTeamMembers returns the members created through project submissions.
func (r *ProjectRepository) StoredTeamMembers(ctx context.Context) []domain.TeamMember {
	return storage.ReadList[domain.TeamMember](ctx, r.kv, storage.KeyTeamMembers)
}

// UpsertTeamMember appends a new slug or merges into the existing entry,
// keeping fields the incoming member leaves empty.
func (r *ProjectRepository) UpsertTeamMember(ctx context.Context, member domain.TeamMember) error {
	members := r.StoredTeamMembers(ctx)
	if _, idx, ok := lo.FindIndexOf(members, func(m domain.TeamMember) bool { return m.Slug == member.Slug }); ok {
		members[idx] = members[idx].Merge(member)
	} else {
		members = append(members, member)
	}
	return storage.WriteJSON(ctx, r.kv, storage.KeyTeamMembers, members)
}

// TeamMembers merges the fallback roster with stored members by slug.
// Stored members win; members only found in storage follow the fallback ones.
func (r *ProjectRepository) TeamMembers(ctx context.Context) []domain.TeamMember {
	storedList := r.StoredTeamMembers(ctx)
	stored := lo.KeyBy(storedList, func(m domain.TeamMember) string { return m.Slug })

	out := make([]domain.TeamMember, 0, len(fallbackMembers)+len(stored))
	for _, m := range fallbackMembers {
		if s, ok := stored[m.Slug]; ok {
			m = m.Merge(s)
		}
		out = append(out, withAvatar(m))
	}
	for _, m := range storedList {
		if lo.ContainsBy(fallbackMembers, func(f domain.TeamMember) bool { return f.Slug == m.Slug }) {
			continue
		}
		out = append(out, withAvatar(m))
	}
	return out
}

// TeamMember finds a member by slug.
func (r *ProjectRepository) TeamMember(ctx context.Context, slug string) (domain.TeamMember, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if m, ok := lo.Find(r.TeamMembers(ctx), func(m domain.TeamMember) bool { return m.Slug == slug }); ok {
		return m, nil
	}
	return domain.TeamMember{}, domain.ErrTeamMemberNotFound
}

// MemberProjects returns the catalog and stored projects owned by or
// attributed to the member, matched case-insensitively on the full name.
func (r *ProjectRepository) MemberProjects(ctx context.Context, member domain.TeamMember) []domain.ProjectRecord {
	name := strings.TrimSpace(member.Name)
	if name == "" {
		return []domain.ProjectRecord{}
	}

	matches := func(p domain.ProjectRecord) bool {
		return strings.EqualFold(strings.TrimSpace(p.Owner), name) || strings.EqualFold(p.TeamMemberName(), name)
	}

	out := lo.Filter(catalog.All(), func(p domain.ProjectRecord, _ int) bool { return matches(p) })
	for _, p := range r.ListStored(ctx) {
		if catalog.Contains(p.ID) || !matches(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func withAvatar(m domain.TeamMember) domain.TeamMember {
	if strings.TrimSpace(m.Avatar) == "" {
		m.Avatar = DefaultAvatarURL
	}
	return m
}
