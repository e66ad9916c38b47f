package bootstrap

import (
	"go.uber.org/zap"

	"github.com/digitaltwinshub/projects-hub/config"
	"github.com/digitaltwinshub/projects-hub/internal/events"
	"github.com/digitaltwinshub/projects-hub/internal/logx"
)

// OpenPublisher connects to RabbitMQ when a URL is configured. An unreachable
// broker is logged and replaced by a no-op publisher so the API still starts.
func OpenPublisher(cfg config.MQConfig) events.Publisher {
	if cfg.URL == "" {
		return events.Noop{}
	}
	pub, err := events.NewRabbitPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		logx.GetScope("bootstrap").Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		return events.Noop{}
	}
	return pub
}
