package notifications

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/digitaltwinshub/projects-hub/internal/logx"
	"github.com/digitaltwinshub/projects-hub/internal/storage"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Service owns the notifications and notificationSettings keys. The mutex
// serialises read-modify-write cycles within one process.
type Service struct {
	mu    sync.Mutex
	kv    storage.KV
	now   func() time.Time
	newID func() string
}

func NewService(kv storage.KV) *Service {
	return &Service{kv: kv, now: time.Now, newID: uuid.NewString}
}

// List returns the feed, most recent first.
func (s *Service) List(ctx context.Context) Feed {
	items := s.items(ctx)
	unread := lo.CountBy(items, func(n Notification) bool { return !n.Read })
	return Feed{Items: items, Unread: unread}
}

// Add stamps and prepends n, trimming the feed to the configured maximum.
// It returns ErrSuppressed when the settings disable n's category.
func (s *Service) Add(ctx context.Context, n Notification) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.Settings(ctx)
	if !settings.Allows(n) {
		return Notification{}, ErrSuppressed
	}

	if n.ID == "" {
		n.ID = s.newID()
	}
	if n.Type == "" {
		n.Type = TypeInfo
	}
	n.Timestamp = s.now().UTC().Format(timestampLayout)
	n.Read = settings.AutoMarkAsRead

	items := append([]Notification{n}, s.items(ctx)...)
	if len(items) > settings.limit() {
		items = items[:settings.limit()]
	}
	if err := s.write(ctx, items); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.update(ctx, func(items []Notification) ([]Notification, bool) {
		next := lo.Reject(items, func(n Notification, _ int) bool { return n.ID == id })
		return next, len(next) != len(items)
	})
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.update(ctx, func(items []Notification) ([]Notification, bool) {
		_, idx, ok := lo.FindIndexOf(items, func(n Notification) bool { return n.ID == id })
		if ok {
			items[idx].Read = true
		}
		return items, ok
	})
}

func (s *Service) MarkAllRead(ctx context.Context) error {
	return s.update(ctx, func(items []Notification) ([]Notification, bool) {
		for i := range items {
			items[i].Read = true
		}
		return items, true
	})
}

// Clear drops the whole feed.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Remove(ctx, storage.KeyNotifications)
}

// Settings returns the stored preferences, or the defaults when none are saved.
func (s *Service) Settings(ctx context.Context) Settings {
	return storage.ReadObject(ctx, s.kv, storage.KeyNotificationSettings, DefaultSettings())
}

func (s *Service) SaveSettings(ctx context.Context, settings Settings) (Settings, error) {
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	if err := storage.WriteJSON(ctx, s.kv, storage.KeyNotificationSettings, settings); err != nil {
		return Settings{}, err
	}
	s.NotifySystem(ctx, "Settings Saved", "Your notification preferences have been updated.", TypeSuccess)
	return settings, nil
}

func (s *Service) ResetSettings(ctx context.Context) (Settings, error) {
	def := DefaultSettings()
	if err := storage.WriteJSON(ctx, s.kv, storage.KeyNotificationSettings, def); err != nil {
		return Settings{}, err
	}
	s.NotifySystem(ctx, "Settings Reset", "Notification settings have been reset to defaults.", TypeInfo)
	return def, nil
}

func (s *Service) NotifyProjectAdded(ctx context.Context, projectName string) {
	s.notify(ctx, Notification{
		Type:     TypeSuccess,
		Title:    "New Project Added",
		Message:  "Project \"" + projectName + "\" has been successfully added.",
		Category: CategoryProject,
		Icon:     "📁",
	})
}

func (s *Service) NotifyProjectUpdated(ctx context.Context, projectName, changes string) {
	s.notify(ctx, Notification{
		Type:     TypeInfo,
		Title:    "Project Updated",
		Message:  strings.TrimSpace("Project \"" + projectName + "\" has been updated. " + changes),
		Category: CategoryProject,
		Icon:     "✏️",
	})
}

func (s *Service) NotifyTeamUpdate(ctx context.Context, message string) {
	s.notify(ctx, Notification{
		Type:     TypeInfo,
		Title:    "Team Update",
		Message:  message,
		Category: CategoryTeam,
		Icon:     "👥",
	})
}

func (s *Service) NotifySystem(ctx context.Context, title, message string, t Type) {
	if t == "" {
		t = TypeInfo
	}
	s.notify(ctx, Notification{
		Type:     t,
		Title:    title,
		Message:  message,
		Category: CategorySystem,
		Icon:     systemIcon(t),
	})
}

// notify is the best-effort path used by other services.
func (s *Service) notify(ctx context.Context, n Notification) {
	_, err := s.Add(ctx, n)
	switch {
	case err == nil:
	case errors.Is(err, ErrSuppressed):
		s.log(ctx).Debug("notification suppressed by settings", zap.String("category", string(n.Category)))
	default:
		s.log(ctx).Warn("notification not recorded", zap.String("title", n.Title), zap.Error(err))
	}
}

func (s *Service) update(ctx context.Context, fn func([]Notification) ([]Notification, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := fn(s.items(ctx))
	if !ok {
		return ErrNotFound
	}
	return s.write(ctx, next)
}

func (s *Service) items(ctx context.Context) []Notification {
	return storage.ReadList[Notification](ctx, s.kv, storage.KeyNotifications)
}

func (s *Service) write(ctx context.Context, items []Notification) error {
	return storage.WriteJSON(ctx, s.kv, storage.KeyNotifications, items)
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	return logx.FromContext(ctx, "notifications")
}
