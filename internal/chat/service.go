package chat

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/digitaltwinshub/projects-hub/internal/logx"
	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
)

// ProjectLister supplies the stored projects used when a request carries no context.
type ProjectLister interface {
	StoredProjects(ctx context.Context) []domain.ProjectRecord
}

type Service struct {
	completer Completer
	limiter   *rate.Limiter
	projects  ProjectLister
	metrics   *Metrics
}

type Option func(*Service)

// WithCompleter enables the hosted model. Without it every answer is local.
func WithCompleter(c Completer) Option {
	return func(s *Service) { s.completer = c }
}

// WithRateLimit caps model calls at perMinute with the given burst.
// Requests over budget get the local answer.
func WithRateLimit(perMinute, burst int) Option {
	return func(s *Service) {
		if perMinute > 0 {
			s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), max(burst, 1))
		}
	}
}

// WithProjects sets the fallback context source.
func WithProjects(p ProjectLister) Option {
	return func(s *Service) { s.projects = p }
}

func NewService(opts ...Option) *Service {
	s := &Service{metrics: &Metrics{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Stats() Stats {
	return s.metrics.Snapshot()
}

// Ask answers question. It never returns an error: model failures become an
// explanatory answer with Meta.Error set. A nil projects slice means the
// caller sent no context, so the stored projects are used instead.
func (s *Service) Ask(ctx context.Context, question string, projects []ProjectSummary) Answer {
	s.metrics.recordRequest()
	log := logx.FromContext(ctx, "chat")

	if s.completer == nil {
		return s.local(question)
	}
	if s.limiter != nil && !s.limiter.Allow() {
		s.metrics.recordRateLimited()
		log.Warn("model call budget exhausted, answering locally")
		return s.local(question)
	}

	if projects == nil && s.projects != nil {
		projects = Summarize(s.projects.StoredProjects(ctx))
	}

	start := time.Now()
	text, err := s.completer.Complete(ctx, BuildPrompt(question, projects))
	s.metrics.recordModelCall(time.Since(start), err)
	if err != nil {
		log.Error("chat model call failed", zap.Error(err))
		return Answer{
			Answer: modelErrorPrefix + err.Error(),
			Meta:   Meta{Error: true, ExternalModelUsed: false, Provider: ProviderOpenAI},
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = emptyModelAnswer
	}
	return Answer{
		Answer: text,
		Meta:   Meta{UsedFallback: false, ExternalModelUsed: true, Provider: ProviderOpenAI},
	}
}

func (s *Service) local(question string) Answer {
	s.metrics.recordFallback()
	return Answer{
		Answer: FallbackAnswer(question),
		Meta:   Meta{UsedFallback: true, ExternalModelUsed: false, Provider: ProviderLocal},
	}
}
