package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
	"github.com/digitaltwinshub/projects-hub/internal/storage"
)

// Draft returns the in-progress add-project form, if any.
func (r *ProjectRepository) Draft(ctx context.Context) (domain.ProjectDraft, bool) {
	d := storage.ReadObject(ctx, r.kv, storage.KeyProjectDraft, domain.ProjectDraft{})
	return d, d != (domain.ProjectDraft{})
}

// SaveDraft autosaves form state. Uploaded image data is never kept and a
// full store only skips the autosave.
func (r *ProjectRepository) SaveDraft(ctx context.Context, d domain.ProjectDraft) error {
	d.ImageDataURL = ""
	if err := storage.WriteJSON(ctx, r.kv, storage.KeyProjectDraft, d); err != nil {
		if errors.Is(err, storage.ErrQuotaExceeded) {
			r.log(ctx).Warn("draft autosave skipped", zap.Error(err))
			return nil
		}
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *ProjectRepository) ClearDraft(ctx context.Context) error {
	return r.kv.Remove(ctx, storage.KeyProjectDraft)
}

// ScrollPosition returns the last preview scroll offset of a project, 0 when unknown.
func (r *ProjectRepository) ScrollPosition(ctx context.Context, id domain.ID) float64 {
	return storage.ReadObject(ctx, r.kv, storage.ScrollKey(id.String()), float64(0))
}

func (r *ProjectRepository) SaveScrollPosition(ctx context.Context, id domain.ID, pos float64) error {
	if pos < 0 {
		pos = 0
	}
	return storage.WriteJSON(ctx, r.kv, storage.ScrollKey(id.String()), pos)
}
