package service

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/digitaltwinshub/projects-hub/internal/events"
	"github.com/digitaltwinshub/projects-hub/internal/logx"
	"github.com/digitaltwinshub/projects-hub/internal/notifications"
	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
	"github.com/digitaltwinshub/projects-hub/internal/projects/export"
	"github.com/digitaltwinshub/projects-hub/internal/projects/preview"
	"github.com/digitaltwinshub/projects-hub/internal/projects/repository"
)

// Notifier records user-facing notices. Implementations never fail the caller.
type Notifier interface {
	NotifyProjectAdded(ctx context.Context, projectName string)
	NotifyProjectUpdated(ctx context.Context, projectName, changes string)
	NotifyTeamUpdate(ctx context.Context, message string)
	NotifySystem(ctx context.Context, title, message string, t notifications.Type)
}

type Exporter interface {
	Render(p preview.Projection) (export.Document, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo     *repository.ProjectRepository
	exporter Exporter
	notifier Notifier
	events   events.Publisher
}

// NewProjectService creates a new project service. notifier and publisher may be nil.
func NewProjectService(repo *repository.ProjectRepository, exporter Exporter, notifier Notifier, publisher events.Publisher) *ProjectService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &ProjectService{repo: repo, exporter: exporter, notifier: notifier, events: publisher}
}

// ListingView is the projects page: both groups rendered as previews.
type ListingView struct {
	Flagship  []preview.Projection `json:"flagship"`
	UserAdded []preview.Projection `json:"userAdded"`
}

// Profile is a team member and the projects linked to them.
type Profile struct {
	Member   domain.TeamMember    `json:"member"`
	Projects []preview.Projection `json:"projects"`
}

// Create validates a submission and saves it. The stored list is untouched
// when validation fails or storage is full.
func (s *ProjectService) Create(ctx context.Context, draft domain.ProjectDraft) (domain.ProjectRecord, error) {
	record := draft.Record()
	record.ID = ""
	record.Title = strings.TrimSpace(record.Title)
	record.Category = strings.TrimSpace(record.Category)

	if err := record.Validate(); err != nil {
		s.notifySystem(ctx, "Validation Error", "Please fill required fields: Project Title, Category, and Goal.", notifications.TypeError)
		return domain.ProjectRecord{}, err
	}

	record.Status = record.Status.Normalize()
	if record.Status == "" {
		record.Status = domain.StatusIdea
	}
	record.ProjectType = domain.ProjectTypeUser

	saved, err := s.repo.Save(ctx, record)
	if err != nil {
		if errors.Is(err, domain.ErrStorageFull) {
			s.notifySystem(ctx, "Storage Full", "Could not save project because browser storage is full. Try deleting some projects or clearing site data.", notifications.TypeError)
		}
		return domain.ProjectRecord{}, err
	}

	if err := s.repo.ClearDraft(ctx); err != nil {
		s.log(ctx).Warn("draft cleanup failed", zap.Error(err))
	}
	if s.notifier != nil {
		s.notifier.NotifyProjectAdded(ctx, saved.Title)
		if saved.HasTeamMember() {
			s.notifier.NotifyTeamUpdate(ctx, saved.TeamMemberName()+" now has a card on the team page.")
		}
	}
	events.Emit(ctx, s.events, events.ProjectCreated, saved)

	s.log(ctx).Info("project created", zap.String("id", saved.ID.String()), zap.String("title", saved.Title))
	return saved, nil
}

func (s *ProjectService) Get(ctx context.Context, id domain.ID) (domain.ProjectRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectService) Preview(ctx context.Context, id domain.ID) (preview.Projection, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return preview.Projection{}, err
	}
	return preview.Project(r), nil
}

// Listing returns both project groups, filtered by query when it is not blank.
func (s *ProjectService) Listing(ctx context.Context, query string) ListingView {
	l := s.repo.Listing(ctx)
	return ListingView{
		Flagship:  project(preview.Search(l.Flagship, query)),
		UserAdded: project(preview.Search(l.UserAdded, query)),
	}
}

func (s *ProjectService) UpdateStatus(ctx context.Context, id domain.ID, status string) (domain.ProjectRecord, error) {
	updated, err := s.repo.UpdateStatus(ctx, id, domain.Status(status))
	switch {
	case errors.Is(err, domain.ErrCatalogReadOnly):
		s.notifySystem(ctx, "Not Editable", "This project is part of the main catalog and must be changed in the repository.", notifications.TypeInfo)
		return domain.ProjectRecord{}, err
	case errors.Is(err, domain.ErrStorageFull):
		s.notifySystem(ctx, "Storage Full", "Could not update project status because browser storage is full. Try deleting some projects or clearing site data.", notifications.TypeError)
		return domain.ProjectRecord{}, err
	case err != nil:
		return domain.ProjectRecord{}, err
	}

	if s.notifier != nil {
		s.notifier.NotifyProjectUpdated(ctx, updated.Title, "Status changed to "+string(updated.Status)+".")
	}
	events.Emit(ctx, s.events, events.ProjectUpdated, updated)
	return updated, nil
}

func (s *ProjectService) Delete(ctx context.Context, id domain.ID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCatalogReadOnly) {
			s.notifySystem(ctx, "Not Editable", "This site uses a repo-backed catalog. To delete a project, edit the catalog and redeploy.", notifications.TypeInfo)
		}
		return err
	}
	events.Emit(ctx, s.events, events.ProjectDeleted, map[string]domain.ID{"id": id})
	return nil
}

// Export renders the project as a PDF. Failures are recorded as a notice and
// reported as domain.ErrExportFailed.
func (s *ProjectService) Export(ctx context.Context, id domain.ID) (export.Document, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return export.Document{}, err
	}

	p := preview.Project(r)
	doc, err := s.exporter.Render(p)
	if err != nil {
		s.log(ctx).Error("pdf export failed", zap.String("id", id.String()), zap.Error(err))
		s.notifySystem(ctx, "Export Failed", "There was a problem generating the PDF. Please check the console for details.", notifications.TypeError)
		if !errors.Is(err, domain.ErrExportFailed) {
			err = errors.Join(domain.ErrExportFailed, err)
		}
		return export.Document{}, err
	}

	s.notifySystem(ctx, "PDF Downloaded", "Proposal for \""+p.Title+"\" has been downloaded as a PDF.", notifications.TypeSuccess)
	return doc, nil
}

// TeamMembers lists members whose name or role contains query.
func (s *ProjectService) TeamMembers(ctx context.Context, query string) []domain.TeamMember {
	members := s.repo.TeamMembers(ctx)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return members
	}
	return lo.Filter(members, func(m domain.TeamMember, _ int) bool {
		return strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.Role), q)
	})
}

func (s *ProjectService) TeamProfile(ctx context.Context, slug string) (Profile, error) {
	m, err := s.repo.TeamMember(ctx, slug)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Member: m, Projects: project(s.repo.MemberProjects(ctx, m))}, nil
}

func (s *ProjectService) Draft(ctx context.Context) (domain.ProjectDraft, bool) {
	return s.repo.Draft(ctx)
}

func (s *ProjectService) SaveDraft(ctx context.Context, d domain.ProjectDraft) error {
	return s.repo.SaveDraft(ctx, d)
}

func (s *ProjectService) ClearDraft(ctx context.Context) error {
	return s.repo.ClearDraft(ctx)
}

func (s *ProjectService) ScrollPosition(ctx context.Context, id domain.ID) float64 {
	return s.repo.ScrollPosition(ctx, id)
}

func (s *ProjectService) SaveScrollPosition(ctx context.Context, id domain.ID, pos float64) error {
	return s.repo.SaveScrollPosition(ctx, id, pos)
}

// StoredProjects returns the locally stored projects, used as chat context.
func (s *ProjectService) StoredProjects(ctx context.Context) []domain.ProjectRecord {
	return s.repo.ListStored(ctx)
}

func (s *ProjectService) notifySystem(ctx context.Context, title, message string, t notifications.Type) {
	if s.notifier != nil {
		s.notifier.NotifySystem(ctx, title, message, t)
	}
}

func (s *ProjectService) log(ctx context.Context) *zap.Logger {
	return logx.FromContext(ctx, "projects.service")
}

func project(records []domain.ProjectRecord) []preview.Projection {
	return lo.Map(records, func(r domain.ProjectRecord, _ int) preview.Projection { return preview.Project(r) })
}
