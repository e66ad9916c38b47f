// Package chat answers visitor questions about the hub, either from a hosted
// completion model or from a small set of canned replies.
package chat

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
)

const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"

	MaxContextProjects = 20
	goalMaxRunes       = 200
	goalKeepRunes      = 197

	untitled        = "Untitled Project"
	defaultCategory = "General"
	noProjects      = "No projects yet."
)

const promptPreamble = "You are a friendly, concise assistant for a Digital Twins Projects Hub. Answer in a short, conversational way, as if chatting with the user (for example: \"Hi! Everything is going well. How can I help you?\"). Use the project context only to inspire your answer, but do not dump long lists or raw data.\n\n"

const (
	emptyModelAnswer = "I could not generate a detailed answer right now. Try rephrasing your question or narrowing the topic."
	modelErrorPrefix = "The Digital Twins assistant encountered an unexpected error while contacting the OpenAI model. " +
		"Please verify your OPENAI_API_KEY and network connection, then try again.\n\nRaw error: "
)

// ProjectSummary is the only project data sent to the model.
type ProjectSummary struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Goal     string `json:"goal"`
}

type Request struct {
	Question string           `json:"question"`
	Projects []ProjectSummary `json:"projects"`
}

type Meta struct {
	UsedFallback      bool   `json:"usedFallback"`
	ExternalModelUsed bool   `json:"externalModelUsed"`
	Provider          string `json:"provider"`
	Error             bool   `json:"error,omitempty"`
}

type Answer struct {
	Answer string `json:"answer"`
	Meta   Meta   `json:"meta"`
}

// Summarize reduces records to the fields the model may see.
func Summarize(records []domain.ProjectRecord) []ProjectSummary {
	return lo.Map(records, func(r domain.ProjectRecord, _ int) ProjectSummary {
		return ProjectSummary{Title: r.Title, Category: r.Category, Goal: r.Goal}
	})
}

// BuildContext serialises at most MaxContextProjects entries, one bullet each
// with an optional goal line.
func BuildContext(projects []ProjectSummary) string {
	if len(projects) > MaxContextProjects {
		projects = projects[:MaxContextProjects]
	}

	lines := make([]string, 0, len(projects))
	for i, p := range projects {
		title := lo.Ternary(p.Title != "", p.Title, untitled)
		category := lo.Ternary(p.Category != "", p.Category, defaultCategory)

		entry := fmt.Sprintf("- [%d] %s (%s)\n", i+1, title, category)
		if g := goalSummary(p.Goal); g != "" {
			entry += "  • Goal: " + g
		}
		lines = append(lines, strings.TrimRightFunc(entry, unicode.IsSpace))
	}

	if out := strings.Join(lines, "\n"); out != "" {
		return out
	}
	return noProjects
}

// BuildPrompt assembles the single user message sent to the model.
func BuildPrompt(question string, projects []ProjectSummary) string {
	return promptPreamble +
		"Context projects and tutorials (may be truncated):\n" +
		BuildContext(projects) +
		"\n\nUser question:\n" +
		question
}

func goalSummary(goal string) string {
	line, _, _ := strings.Cut(goal, "\n")
	if utf8.RuneCountInString(line) > goalMaxRunes {
		return string([]rune(line)[:goalKeepRunes]) + "..."
	}
	return line
}

// FallbackAnswer picks a canned reply by keyword. It never fails.
func FallbackAnswer(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "what is this website"),
		strings.Contains(q, "what this website"),
		strings.Contains(q, "what is this about"),
		strings.Contains(q, "what is this") && strings.Contains(q, "about"):
		return "This website is a Digital Twins Projects Hub where you can explore student and research projects, tutorials, and example twins, and get ideas for building your own digital twins."
	case strings.Contains(q, "digital twin"):
		return "A digital twin is a virtual model of a real-world system (like a building, campus, or city) that stays linked to real data so you can monitor, simulate, and test ideas safely before changing the physical system."
	case strings.Contains(q, "idea"), strings.Contains(q, "project"):
		return "You can use this hub to get ideas for digital twin projects, like energy-efficient buildings, campus mobility twins, or environmental monitoring twins that use real sensor and GIS data."
	case q == "hi", q == "hello", strings.Contains(q, "how is it going"), strings.Contains(q, "how are you"):
		return "Hi! Everything is going well on my side. How can I help you with Digital Twins or this website?"
	default:
		return "Hi! I am in local mode right now, but I can still help with simple questions about digital twins or this website. What would you like to know or build?"
	}
}
