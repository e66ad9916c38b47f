package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/digitaltwinshub/projects-hub/internal/logx"
	"github.com/digitaltwinshub/projects-hub/internal/projects/catalog"
	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
	"github.com/digitaltwinshub/projects-hub/internal/storage"
)

// RemoteSource is the optional shared projects table.
type RemoteSource interface {
	Configured() bool
	List(ctx context.Context) ([]domain.ProjectRecord, error)
	Get(ctx context.Context, id domain.ID) (domain.ProjectRecord, bool, error)
	Upsert(ctx context.Context, record domain.ProjectRecord) (domain.ProjectRecord, error)
}

// ProjectRepository reconciles the catalog, the remote source and the
// locally stored projects. Lookups check the catalog first, then remote,
// then local storage.
type ProjectRepository struct {
	kv     storage.KV
	remote RemoteSource
	ids    *domain.IDGenerator
	now    func() time.Time
}

type Option func(*ProjectRepository)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *ProjectRepository) { r.now = now }
}

// NewProjectRepository builds a repository; remote may be nil.
func NewProjectRepository(kv storage.KV, remote RemoteSource, opts ...Option) *ProjectRepository {
	r := &ProjectRepository{kv: kv, remote: remote, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	r.ids = domain.NewIDGenerator(r.now)
	return r
}

// Listing is the grouped view rendered by the projects page.
type Listing struct {
	Flagship  []domain.ProjectRecord `json:"flagship"`
	UserAdded []domain.ProjectRecord `json:"userAdded"`
}

// ListAll returns the catalog in declared order.
func (r *ProjectRepository) ListAll(ctx context.Context) []domain.ProjectRecord {
	return catalog.All()
}

// ListStored returns the locally stored projects, most recent first.
func (r *ProjectRepository) ListStored(ctx context.Context) []domain.ProjectRecord {
	return storage.ReadList[domain.ProjectRecord](ctx, r.kv, storage.KeyProjects)
}

// Listing groups flagship catalog records apart from everything users added.
// A record id appears once, taken from the highest-precedence source.
func (r *ProjectRepository) Listing(ctx context.Context) Listing {
	all := catalog.All()
	seen := make(map[domain.ID]struct{}, len(all))
	for _, p := range all {
		seen[p.ID] = struct{}{}
	}

	out := Listing{
		Flagship:  lo.Filter(all, func(p domain.ProjectRecord, _ int) bool { return p.IsFlagship() }),
		UserAdded: lo.Filter(all, func(p domain.ProjectRecord, _ int) bool { return !p.IsFlagship() }),
	}

	add := func(records []domain.ProjectRecord) {
		for _, p := range records {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			if p.ID != "" {
				seen[p.ID] = struct{}{}
			}
			out.UserAdded = append(out.UserAdded, p)
		}
	}

	if r.remoteConfigured() {
		remote, err := r.remote.List(ctx)
		if err != nil {
			r.log(ctx).Warn("remote list failed, skipping remote projects", zap.Error(err))
		} else {
			add(remote)
		}
	}
	add(r.ListStored(ctx))

	return out
}

// GetByID resolves id against catalog, remote, then local storage.
// Remote failures are logged and treated as a miss.
func (r *ProjectRepository) GetByID(ctx context.Context, id domain.ID) (domain.ProjectRecord, error) {
	if p, ok := catalog.Find(id); ok {
		return p, nil
	}

	if r.remoteConfigured() {
		p, ok, err := r.remote.Get(ctx, id)
		switch {
		case err != nil:
			r.log(ctx).Warn("remote lookup failed, falling back to local storage",
				zap.String("id", id.String()), zap.Error(err))
		case ok:
			return p, nil
		}
	}

	if p, ok := lo.Find(r.ListStored(ctx), func(p domain.ProjectRecord) bool { return p.ID == id }); ok {
		return p, nil
	}

	return domain.ProjectRecord{}, domain.ErrNotFound
}

// Save assigns an id when absent, stamps timestamps and prepends the record
// to the stored list, replacing any earlier copy with the same id. The team
// member upsert and remote push only run once the local write succeeded.
func (r *ProjectRepository) Save(ctx context.Context, record domain.ProjectRecord) (domain.ProjectRecord, error) {
	if record.ID != "" && catalog.Contains(record.ID) {
		return domain.ProjectRecord{}, domain.ErrCatalogReadOnly
	}

	now := r.timestamp()
	if record.ID == "" {
		record.ID = r.ids.Next()
	}
	if record.CreatedAt == "" {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	stored := r.ListStored(ctx)
	next := make([]domain.ProjectRecord, 0, len(stored)+1)
	next = append(next, record)
	next = append(next, lo.Reject(stored, func(p domain.ProjectRecord, _ int) bool { return p.ID == record.ID })...)

	if err := r.writeProjects(ctx, next); err != nil {
		return domain.ProjectRecord{}, err
	}

	if member, ok := domain.TeamMemberFromRecord(record); ok {
		if err := r.UpsertTeamMember(ctx, member); err != nil {
			r.log(ctx).Warn("team member upsert failed", zap.String("slug", member.Slug), zap.Error(err))
		}
	}

	r.pushRemote(ctx, record)
	return record, nil
}

// UpdateStatus moves a stored project to another board column.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id domain.ID, status domain.Status) (domain.ProjectRecord, error) {
	st, ok := domain.ParseStatus(string(status))
	if !ok {
		return domain.ProjectRecord{}, domain.ErrInvalidStatus
	}
	if catalog.Contains(id) {
		return domain.ProjectRecord{}, domain.ErrCatalogReadOnly
	}

	stored := r.ListStored(ctx)
	_, idx, found := lo.FindIndexOf(stored, func(p domain.ProjectRecord) bool { return p.ID == id })
	if !found {
		return domain.ProjectRecord{}, domain.ErrNotFound
	}

	stored[idx].Status = st
	stored[idx].UpdatedAt = r.timestamp()
	if err := r.writeProjects(ctx, stored); err != nil {
		return domain.ProjectRecord{}, err
	}

	r.pushRemote(ctx, stored[idx])
	return stored[idx], nil
}

// Delete removes a stored project. Catalog records cannot be removed.
func (r *ProjectRepository) Delete(ctx context.Context, id domain.ID) error {
	if catalog.Contains(id) {
		return domain.ErrCatalogReadOnly
	}

	stored := r.ListStored(ctx)
	next := lo.Reject(stored, func(p domain.ProjectRecord, _ int) bool { return p.ID == id })
	if len(next) == len(stored) {
		return domain.ErrNotFound
	}
	if err := r.writeProjects(ctx, next); err != nil {
		return err
	}

	if err := r.kv.Remove(ctx, storage.ScrollKey(id.String())); err != nil {
		r.log(ctx).Warn("scroll position cleanup failed", zap.String("id", id.String()), zap.Error(err))
	}
	return nil
}

func (r *ProjectRepository) writeProjects(ctx context.Context, list []domain.ProjectRecord) error {
	err := storage.WriteJSON(ctx, r.kv, storage.KeyProjects, list)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrQuotaExceeded):
		return fmt.Errorf("%w: %w", domain.ErrStorageFull, err)
	default:
		return fmt.Errorf("write projects: %w", err)
	}
}

func (r *ProjectRepository) pushRemote(ctx context.Context, record domain.ProjectRecord) {
	if !r.remoteConfigured() {
		return
	}
	if _, err := r.remote.Upsert(ctx, record); err != nil {
		r.log(ctx).Warn("remote upsert failed, record kept locally",
			zap.String("id", record.ID.String()), zap.Error(err))
	}
}

func (r *ProjectRepository) remoteConfigured() bool {
	return r.remote != nil && r.remote.Configured()
}

func (r *ProjectRepository) timestamp() string {
	return r.now().UTC().Format(domain.TimestampLayout)
}

func (r *ProjectRepository) log(ctx context.Context) *zap.Logger {
	return logx.FromContext(ctx, "projects.repository")
}
