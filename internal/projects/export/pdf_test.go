package export

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitaltwinshub/projects-hub/internal/projects/catalog"
	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
	"github.com/digitaltwinshub/projects-hub/internal/projects/preview"
)

const a4Height = 841.89

func testExporter() *Exporter {
	return &Exporter{
		Now:      func() time.Time { return time.Date(2025, 3, 1, 15, 4, 5, 0, time.UTC) },
		Location: time.UTC,
	}
}

func campusTwin() preview.Projection {
	return preview.Project(domain.ProjectRecord{
		Title:    "Campus Twin",
		Category: "Architecture",
		Goal:     "Model HVAC load.\nSecond line ignored for summary.",
	})
}

func labels(plan Plan) []string {
	var out []string
	for _, p := range plan.Pages {
		for _, l := range p.Lines {
			if l.Label {
				out = append(out, l.Text)
			}
		}
	}
	return out
}

func TestFilename(t *testing.T) {
	valid := regexp.MustCompile(`^[a-zA-Z0-9-]+\.pdf$`)

	cases := map[string]string{
		"Campus Twin":                   "Campus-Twin.pdf",
		"Baldwin Hills 6-Mile Corridor": "Baldwin-Hills-6-Mile-Corridor.pdf",
		"  ***  ":                       "project.pdf",
		"":                              "project.pdf",
		"Café / Twin #2!":               "Caf-Twin-2.pdf",
		"../../etc/passwd":              "etc-passwd.pdf",
	}
	for title, want := range cases {
		got := Filename(title)
		assert.Equal(t, want, got, title)
		assert.Regexp(t, valid, got)
	}
}

func TestLayout_FirstLineIsTitle(t *testing.T) {
	plan, err := testExporter().Layout(campusTwin())
	require.NoError(t, err)

	require.NotEmpty(t, plan.Pages)
	first := plan.Pages[0].Lines[0]
	assert.Equal(t, "Campus Twin", first.Text)
	assert.Equal(t, "B", first.Style)
	assert.Equal(t, 18.0, first.Size)
	assert.Equal(t, MarginX, first.X)
	assert.Equal(t, MarginTop, first.Y)
}

func TestLayout_TextOutsideCodePage(t *testing.T) {
	cases := map[string]string{
		"Café Twin":         "Caf\xe9 Twin",
		"Dvořák Twin":       "Dvor\xe1k Twin",
		"ﬁeld 3.5 Twin":     "field 3.5 Twin",
		"数字孪生 Twin":         "???? Twin",
		"Łódź • Smart City": "?\xf3dz \x95 Smart City",
	}
	for title, want := range cases {
		p := campusTwin()
		p.Title = title

		plan, err := testExporter().Layout(p)
		require.NoError(t, err, title)
		assert.Equal(t, want, plan.Pages[0].Lines[0].Text, title)
	}
}

func TestLayout_SectionOrder(t *testing.T) {
	want := []string{
		"GOAL", "STRUCTURE & CAPABILITIES", "KEY FEATURES", "FILE STRUCTURE", "MODULES",
		"MODULE FUNCTIONS", "IMPACT & DATA", "PROBLEM IT SOLVES", "DATA TYPES", "CONCLUSION",
	}

	for _, r := range append(catalog.All(), domain.ProjectRecord{}) {
		plan, err := testExporter().Layout(preview.Project(r))
		require.NoError(t, err)
		assert.Equal(t, want, labels(plan))
	}
}

func TestLayout_FileStructureMonospace(t *testing.T) {
	p := preview.Project(domain.ProjectRecord{
		Title:         "Mono",
		FileStructure: "cmd/\n  api/main.go",
		Modules:       "api",
	})
	plan, err := testExporter().Layout(p)
	require.NoError(t, err)

	var lines []Line
	for _, page := range plan.Pages {
		lines = append(lines, page.Lines...)
	}
	for i, l := range lines {
		if l.Label && l.Text == "FILE STRUCTURE" {
			assert.Equal(t, "Courier", lines[i+1].Font)
			assert.Equal(t, "cmd/", lines[i+1].Text)
			assert.Equal(t, "Courier", lines[i+2].Font)
		}
		if l.Label && l.Text == "MODULES" {
			assert.Equal(t, "Helvetica", lines[i+1].Font)
		}
	}
}

func TestLayout_PlaceholdersAndTeamLine(t *testing.T) {
	p := preview.Project(domain.ProjectRecord{
		Title:                 "Corridor",
		Category:              "Architecture",
		Owner:                 "Omid Ahmadi",
		TeamMemberFirstName:   "Omid",
		TeamMemberLastName:    "Ahmadi",
		TeamMemberRole:        "Software Engineer",
		TeamMemberDescription: "Builds twins.",
	})
	plan, err := testExporter().Layout(p)
	require.NoError(t, err)

	lines := plan.Pages[0].Lines
	tr := func(s string) string { return strings.ReplaceAll(s, "•", "\x95") }
	assert.Equal(t, tr("Architecture • Omid Ahmadi"), lines[1].Text)
	assert.Equal(t, tr("Team Member: Omid Ahmadi • Software Engineer"), lines[2].Text)
	assert.Equal(t, "Builds twins.", lines[3].Text)

	var bodies []string
	for i, l := range lines {
		if l.Label {
			bodies = append(bodies, lines[i+1].Text)
		}
	}
	assert.Equal(t, []string{"-", "-", "-", "-", "-", "-", "-", "-", "-", "-"}, bodies)
}

func TestLayout_PaginationKeepsLabelWithBody(t *testing.T) {
	para := strings.Repeat("The corridor twin streams sensor readings into a shared model. ", 12)
	long := strings.Repeat(para+"\n", 6)

	p := preview.Project(domain.ProjectRecord{
		Title:                 "Long Twin",
		Goal:                  long,
		StructureCapabilities: long,
		KeyFeatures:           long,
		FileStructure:         long,
		Modules:               long,
		ModuleFunctions:       long,
		ImpactData:            long,
		Problem:               long,
		DataTypes:             long,
		Conclusion:            long,
	})
	plan, err := testExporter().Layout(p)
	require.NoError(t, err)
	require.Greater(t, len(plan.Pages), 2)

	bottom := a4Height - FooterOffset - LineHeight
	for pi, page := range plan.Pages {
		require.NotEmpty(t, page.Lines, "page %d", pi)
		assert.Equal(t, MarginTop, page.Lines[0].Y, "content restarts at the top margin")

		for i, l := range page.Lines {
			assert.LessOrEqual(t, l.Y, bottom+0.001, "line stays above the footer band")
			if l.Label {
				require.Less(t, i+1, len(page.Lines), "label %q is last on page %d", l.Text, pi)
			}
		}
	}

	assert.InDelta(t, a4Height-FooterOffset, plan.Footer.Y, 0.01)
	assert.Equal(t, "Generated 3/1/2025, 3:04:05 PM", plan.Footer.Text)
}

func TestRender_ProducesPDF(t *testing.T) {
	doc, err := testExporter().Render(campusTwin())
	require.NoError(t, err)

	assert.Equal(t, "Campus-Twin.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, 1, doc.Pages)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))
}

func TestRender_UntitledFallback(t *testing.T) {
	doc, err := testExporter().Render(preview.Project(domain.ProjectRecord{}))
	require.NoError(t, err)
	assert.Equal(t, "Untitled-Project.pdf", doc.Filename)
}

func TestRender_FailureIsReported(t *testing.T) {
	e := &Exporter{Now: func() time.Time { panic("clock exploded") }}

	_, err := e.Render(campusTwin())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExportFailed)
	assert.Contains(t, err.Error(), "clock exploded")
}
