package bootstrap

import (
	"time"

	"github.com/digitaltwinshub/projects-hub/config"
	"github.com/digitaltwinshub/projects-hub/internal/chat"
	"github.com/digitaltwinshub/projects-hub/internal/events"
	"github.com/digitaltwinshub/projects-hub/internal/notifications"
	"github.com/digitaltwinshub/projects-hub/internal/projects/export"
	"github.com/digitaltwinshub/projects-hub/internal/projects/remote"
	"github.com/digitaltwinshub/projects-hub/internal/projects/repository"
	"github.com/digitaltwinshub/projects-hub/internal/projects/service"
	"github.com/digitaltwinshub/projects-hub/internal/storage"
)

const chatTimeout = 60 * time.Second

type Services struct {
	Store         storage.KV
	Projects      *service.ProjectService
	Notifications *notifications.Service
	Chat          *chat.Service
}

// BuildServices wires every service on top of an opened store.
func BuildServices(cfg *config.Config, kv storage.KV, publisher events.Publisher) *Services {
	var src repository.RemoteSource
	if cfg.Remote.Configured() {
		src = remote.New(cfg.Remote.BaseURL, cfg.Remote.APIKey, cfg.Remote.Timeout)
	}

	repo := repository.NewProjectRepository(kv, src)
	notes := notifications.NewService(kv)
	projects := service.NewProjectService(repo, export.New(), notes, publisher)

	opts := []chat.Option{chat.WithProjects(projects)}
	if cfg.Chat.OpenAIAPIKey != "" {
		opts = append(opts,
			chat.WithCompleter(chat.NewOpenAICompleter(cfg.Chat.OpenAIAPIKey, cfg.Chat.BaseURL, cfg.Chat.Model, chatTimeout)),
			chat.WithRateLimit(cfg.Chat.RatePerMinute, cfg.Chat.Burst),
		)
	}

	return &Services{
		Store:         kv,
		Projects:      projects,
		Notifications: notes,
		Chat:          chat.NewService(opts...),
	}
}
