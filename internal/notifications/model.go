// Package notifications keeps the in-app notification feed and the user's
// notification preferences in the key-value store.
package notifications

import "errors"

var (
	ErrNotFound        = errors.New("notification not found")
	ErrSuppressed      = errors.New("notification category disabled")
	ErrInvalidSettings = errors.New("invalid notification settings")
)

type Type string

const (
	TypeSuccess Type = "success"
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
	TypeToast   Type = "toast"
)

type Category string

const (
	CategoryProject Category = "project"
	CategoryTeam    Category = "team"
	CategorySystem  Category = "system"
)

type Notification struct {
	ID        string   `json:"id"`
	Type      Type     `json:"type"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Category  Category `json:"category,omitempty"`
	Icon      string   `json:"icon,omitempty"`
	Timestamp string   `json:"timestamp"`
	Read      bool     `json:"read"`
}

// Feed is the stored list plus its unread count.
type Feed struct {
	Items  []Notification `json:"items"`
	Unread int            `json:"unread"`
}

type Settings struct {
	EnableProjectNotifications bool `json:"enableProjectNotifications"`
	EnableTeamNotifications    bool `json:"enableTeamNotifications"`
	EnableSystemNotifications  bool `json:"enableSystemNotifications"`
	EnableToastNotifications   bool `json:"enableToastNotifications"`
	EnableSoundNotifications   bool `json:"enableSoundNotifications"`
	AutoMarkAsRead             bool `json:"autoMarkAsRead"`
	NotificationDuration       int  `json:"notificationDuration"`
	MaxNotifications           int  `json:"maxNotifications"`
}

const (
	DefaultDuration = 5000
	DefaultMax      = 50
	MaxDuration     = 60000
	MaxFeedSize     = 500
)

func DefaultSettings() Settings {
	return Settings{
		EnableProjectNotifications: true,
		EnableTeamNotifications:    true,
		EnableSystemNotifications:  true,
		EnableToastNotifications:   true,
		EnableSoundNotifications:   false,
		AutoMarkAsRead:             false,
		NotificationDuration:       DefaultDuration,
		MaxNotifications:           DefaultMax,
	}
}

func (s Settings) Validate() error {
	if s.NotificationDuration < 0 || s.NotificationDuration > MaxDuration {
		return ErrInvalidSettings
	}
	if s.MaxNotifications < 1 || s.MaxNotifications > MaxFeedSize {
		return ErrInvalidSettings
	}
	return nil
}

// Allows reports whether a notification of this kind should be recorded.
func (s Settings) Allows(n Notification) bool {
	if n.Type == TypeToast && !s.EnableToastNotifications {
		return false
	}
	switch n.Category {
	case CategoryProject:
		return s.EnableProjectNotifications
	case CategoryTeam:
		return s.EnableTeamNotifications
	case CategorySystem:
		return s.EnableSystemNotifications
	}
	return true
}

func (s Settings) limit() int {
	if s.MaxNotifications < 1 {
		return DefaultMax
	}
	return s.MaxNotifications
}

func systemIcon(t Type) string {
	switch t {
	case TypeSuccess:
		return "✅"
	case TypeError:
		return "❌"
	default:
		return "ℹ️"
	}
}
