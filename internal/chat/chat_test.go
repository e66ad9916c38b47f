package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
)

type stubCompleter struct {
	answer  string
	err     error
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.answer, s.err
}

type storedProjects []domain.ProjectRecord

func (p storedProjects) StoredProjects(context.Context) []domain.ProjectRecord { return p }

func TestFallbackAnswer(t *testing.T) {
	cases := map[string]string{
		"hi":                         "Hi! Everything is going well on my side.",
		"HELLO":                      "Hi! Everything is going well on my side.",
		"Hey, how are you?":          "Hi! Everything is going well on my side.",
		"what is digital twin":       "A digital twin is a virtual model",
		"What is this website?":      "This website is a Digital Twins Projects Hub",
		"what is this thing about":   "This website is a Digital Twins Projects Hub",
		"any project ideas?":         "You can use this hub to get ideas",
		"Tell me about your project": "You can use this hub to get ideas",
		"weather tomorrow":           "Hi! I am in local mode right now",
		"hi there":                   "Hi! I am in local mode right now",
	}
	for q, prefix := range cases {
		assert.True(t, strings.HasPrefix(FallbackAnswer(q), prefix), "%q -> %q", q, FallbackAnswer(q))
	}
}

func TestBuildContext(t *testing.T) {
	assert.Equal(t, "No projects yet.", BuildContext(nil))

	got := BuildContext([]ProjectSummary{
		{Title: "Campus Twin", Category: "Architecture", Goal: "Model HVAC load.\nSecond line."},
		{},
	})
	assert.Equal(t, "- [1] Campus Twin (Architecture)\n  • Goal: Model HVAC load.\n- [2] Untitled Project (General)", got)
}

func TestBuildContext_TruncatesGoal(t *testing.T) {
	got := BuildContext([]ProjectSummary{{Title: "T", Category: "C", Goal: strings.Repeat("x", 250)}})
	assert.Equal(t, "- [1] T (C)\n  • Goal: "+strings.Repeat("x", 197)+"...", got)

	exact := BuildContext([]ProjectSummary{{Title: "T", Category: "C", Goal: strings.Repeat("y", 200)}})
	assert.True(t, strings.HasSuffix(exact, strings.Repeat("y", 200)))
}

func TestBuildContext_CapsAtTwenty(t *testing.T) {
	projects := make([]ProjectSummary, 50)
	for i := range projects {
		projects[i] = ProjectSummary{Title: fmt.Sprintf("P%d", i+1), Category: "C"}
	}

	got := BuildContext(projects)
	assert.Equal(t, MaxContextProjects, strings.Count(got, "\n")+1)
	assert.Contains(t, got, "- [20] P20 (C)")
	assert.NotContains(t, got, "P21")
}

func TestAsk_LocalMode(t *testing.T) {
	svc := NewService()

	got := svc.Ask(context.Background(), "hi", nil)
	assert.Equal(t, FallbackAnswer("hi"), got.Answer)
	assert.Equal(t, Meta{UsedFallback: true, Provider: ProviderLocal}, got.Meta)

	got = svc.Ask(context.Background(), "what is digital twin", nil)
	assert.True(t, strings.HasPrefix(got.Answer, "A digital twin is"))

	stats := svc.Stats()
	assert.Equal(t, int64(2), stats.Requests)
	assert.Equal(t, int64(2), stats.Fallbacks)
	assert.Zero(t, stats.ModelCalls)
}

func TestAsk_Model(t *testing.T) {
	stub := &stubCompleter{answer: "  Hi! Happy to help.  "}
	svc := NewService(WithCompleter(stub))

	got := svc.Ask(context.Background(), "Suggest a twin", []ProjectSummary{{Title: "Campus Twin", Category: "Architecture"}})
	assert.Equal(t, "Hi! Happy to help.", got.Answer)
	assert.Equal(t, Meta{ExternalModelUsed: true, Provider: ProviderOpenAI}, got.Meta)

	require.Len(t, stub.prompts, 1)
	prompt := stub.prompts[0]
	assert.True(t, strings.HasPrefix(prompt, "You are a friendly, concise assistant for a Digital Twins Projects Hub."))
	assert.Contains(t, prompt, "Context projects and tutorials (may be truncated):\n- [1] Campus Twin (Architecture)\n\nUser question:\nSuggest a twin")
}

func TestAsk_EmptyModelAnswer(t *testing.T) {
	svc := NewService(WithCompleter(&stubCompleter{answer: "   "}))
	got := svc.Ask(context.Background(), "hello", []ProjectSummary{})
	assert.Equal(t, emptyModelAnswer, got.Answer)
}

func TestAsk_ModelErrorIsAnAnswer(t *testing.T) {
	svc := NewService(WithCompleter(&stubCompleter{err: errors.New("401 invalid api key")}))

	got := svc.Ask(context.Background(), "hello", []ProjectSummary{})
	assert.True(t, got.Meta.Error)
	assert.False(t, got.Meta.ExternalModelUsed)
	assert.Equal(t, ProviderOpenAI, got.Meta.Provider)
	assert.True(t, strings.HasSuffix(got.Answer, "Raw error: 401 invalid api key"))

	stats := svc.Stats()
	assert.Equal(t, int64(1), stats.ModelErrors)
	assert.Equal(t, 100.0, stats.ErrorRatePct)
}

func TestAsk_UsesStoredProjectsWithoutContext(t *testing.T) {
	stub := &stubCompleter{answer: "ok"}
	svc := NewService(WithCompleter(stub), WithProjects(storedProjects{{Title: "Harbor Twin", Category: "Urban"}}))

	svc.Ask(context.Background(), "q", nil)
	svc.Ask(context.Background(), "q", []ProjectSummary{})

	require.Len(t, stub.prompts, 2)
	assert.Contains(t, stub.prompts[0], "- [1] Harbor Twin (Urban)")
	assert.Contains(t, stub.prompts[1], "No projects yet.")
}

func TestAsk_RateLimitFallsBackLocally(t *testing.T) {
	stub := &stubCompleter{answer: "model"}
	svc := NewService(WithCompleter(stub), WithRateLimit(1, 1))

	first := svc.Ask(context.Background(), "hi", nil)
	second := svc.Ask(context.Background(), "hi", nil)

	assert.Equal(t, "model", first.Answer)
	assert.Equal(t, FallbackAnswer("hi"), second.Answer)
	assert.True(t, second.Meta.UsedFallback)
	assert.Equal(t, int64(1), svc.Stats().RateLimited)
	assert.Len(t, stub.prompts, 1)
}
