// Package storage holds the key-value state of the hub: stored projects,
// team members, notifications, drafts and per-project view state.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrQuotaExceeded is returned when a write does not fit in the backend.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Well-known keys. All values are JSON documents.
const (
	KeyProjects             = "dt_projects"
	KeyTeamMembers          = "dt_team_members"
	KeyNotifications        = "notifications"
	KeyNotificationSettings = "notificationSettings"
	KeyProjectDraft         = "dt_project_draft"
	scrollKeyPrefix         = "dt_preview_scroll_"
)

// ScrollKey is the key holding the last preview scroll offset of a project.
func ScrollKey(projectID string) string {
	return scrollKeyPrefix + projectID
}

// KV is a string-keyed byte store. Get reports found=false for absent keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

func checkSize(key string, value []byte, maxBytes int) error {
	if maxBytes > 0 && len(value) > maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrQuotaExceeded, key, len(value), maxBytes)
	}
	return nil
}
