// Package export renders a project projection into a downloadable PDF.
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/unicode/norm"

	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
	"github.com/digitaltwinshub/projects-hub/internal/projects/preview"
)

// Page geometry in points (A4 portrait).
const (
	MarginX      = 40.0
	MarginTop    = 40.0
	LineHeight   = 16.0
	FooterOffset = 40.0

	titleSize    = 18.0
	titleLeading = 22.0
	metaSize     = 11.0
	labelSize    = 11.0
	bodySize     = 10.0
	footerSize   = 9.0
	headerGap    = 4.0
	sectionGap   = 10.0

	fontSans = "Helvetica"
	fontMono = "Courier"

	ContentType = "application/pdf"
)

// FooterTimeLayout mirrors the en-US locale date/time format.
const FooterTimeLayout = "1/2/2006, 3:04:05 PM"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9-]+`)

// Filename derives "<title>.pdf" keeping only [A-Za-z0-9-].
func Filename(title string) string {
	base := strings.Trim(unsafeFilenameChars.ReplaceAllString(title, "-"), "-")
	if base == "" {
		base = "project"
	}
	return base + ".pdf"
}

// Line is one positioned text run. Text is already in the PDF code page.
type Line struct {
	Text  string
	Font  string
	Style string
	Size  float64
	X     float64
	Y     float64
	Label bool
}

type Page struct {
	Lines []Line
}

// Plan is the full layout: content pages plus the footer drawn on the last page.
type Plan struct {
	Pages  []Page
	Footer Line
}

type Document struct {
	Filename    string
	ContentType string
	Content     []byte
	Pages       int
}

type Exporter struct {
	Now      func() time.Time
	Location *time.Location
}

func New() *Exporter {
	return &Exporter{Now: time.Now, Location: time.Local}
}

// Render lays out and encodes p. Any failure, including a panic inside the
// PDF library, is reported as domain.ErrExportFailed.
func (e *Exporter) Render(p preview.Projection) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = Document{}, fmt.Errorf("%w: %v", domain.ErrExportFailed, r)
		}
	}()

	pdf, plan := e.layout(p)
	for i, page := range plan.Pages {
		pdf.AddPage()
		for _, l := range page.Lines {
			drawLine(pdf, l)
		}
		if i == len(plan.Pages)-1 {
			drawLine(pdf, plan.Footer)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Document{}, fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}

	return Document{
		Filename:    Filename(p.Title),
		ContentType: ContentType,
		Content:     buf.Bytes(),
		Pages:       len(plan.Pages),
	}, nil
}

// Layout returns the page plan Render would draw.
func (e *Exporter) Layout(p preview.Projection) (plan Plan, err error) {
	defer func() {
		if r := recover(); r != nil {
			plan, err = Plan{}, fmt.Errorf("%w: %v", domain.ErrExportFailed, r)
		}
	}()
	_, plan = e.layout(p)
	return plan, nil
}

func (e *Exporter) layout(p preview.Projection) (*fpdf.Fpdf, Plan) {
	generatedAt := e.now()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(MarginX, MarginTop, MarginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(p.Title, true)
	pdf.SetCreator("Digital Twins Projects Hub", false)
	pdf.SetCreationDate(generatedAt)

	pageW, pageH := pdf.GetPageSize()
	l := &layouter{
		pdf:    pdf,
		tr:     codePage(pdf.UnicodeTranslatorFromDescriptor("")),
		width:  pageW - 2*MarginX,
		bottom: pageH - FooterOffset - LineHeight,
		y:      MarginTop,
	}
	l.pages = []Page{{}}

	title := p.Title
	if strings.TrimSpace(title) == "" {
		title = preview.UntitledProject
	}
	l.paragraph(title, fontSans, "B", titleSize, titleLeading)

	if meta := p.MetaLine(); meta != "" {
		l.paragraph(meta, fontSans, "", metaSize, LineHeight)
	}
	if p.TeamMemberLine != "" {
		l.paragraph("Team Member: "+p.TeamMemberLine, fontSans, "", metaSize, LineHeight)
		if p.TeamMemberDescription != "" {
			l.paragraph(p.TeamMemberDescription, fontSans, "", bodySize, LineHeight)
		}
	}
	l.y += headerGap

	for _, s := range p.Sections {
		l.section(s)
	}

	plan := Plan{
		Pages: l.pages,
		Footer: Line{
			Text: l.tr("Generated " + generatedAt.In(e.location()).Format(FooterTimeLayout)),
			Font: fontSans,
			Size: footerSize,
			X:    MarginX,
			Y:    pageH - FooterOffset,
		},
	}
	return pdf, plan
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Exporter) location() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

type layouter struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	width  float64
	bottom float64
	y      float64
	pages  []Page
}

func (l *layouter) newPage() {
	l.pages = append(l.pages, Page{})
	l.y = MarginTop
}

// ensure starts a new page unless n more lines fit above the footer band.
func (l *layouter) ensure(n int) {
	if l.y+float64(n-1)*LineHeight > l.bottom {
		l.newPage()
	}
}

func (l *layouter) emit(line Line) {
	line.X, line.Y = MarginX, l.y
	cur := &l.pages[len(l.pages)-1]
	cur.Lines = append(cur.Lines, line)
}

// wrap splits text into lines that fit the content width in the given font.
// Embedded line breaks are kept; blank lines survive as empty lines.
func (l *layouter) wrap(text, font, style string, size float64) []string {
	l.pdf.SetFont(font, style, size)
	var out []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		encoded := l.tr(para)
		if strings.TrimSpace(encoded) == "" {
			out = append(out, "")
			continue
		}
		for _, b := range l.pdf.SplitLines([]byte(encoded), l.width) {
			out = append(out, string(b))
		}
	}
	return out
}

// paragraph emits wrapped text, breaking pages line by line.
func (l *layouter) paragraph(text, font, style string, size, leading float64) {
	for _, s := range l.wrap(text, font, style, size) {
		l.ensure(1)
		l.emit(Line{Text: s, Font: font, Style: style, Size: size})
		l.y += leading
	}
}

// section keeps the label on the same page as the first body line.
func (l *layouter) section(s preview.Section) {
	font := fontSans
	if s.Monospace {
		font = fontMono
	}
	body := l.wrap(s.Value, font, "", bodySize)

	l.ensure(2)
	l.emit(Line{Text: l.tr(strings.ToUpper(s.Label)), Font: fontSans, Style: "B", Size: labelSize, Label: true})
	l.y += LineHeight

	for _, text := range body {
		l.ensure(1)
		l.emit(Line{Text: text, Font: font, Size: bodySize})
		l.y += LineHeight
	}
	l.y += sectionGap
}

// codePage wraps the cp1252 translator. Runes outside the code page fall back
// to their decomposed base letters ("ř" -> "r"), then to "?".
func codePage(tr func(string) string) func(string) string {
	return func(s string) string {
		var b strings.Builder
		for _, r := range s {
			b.WriteString(encodeRune(tr, r))
		}
		return b.String()
	}
}

func encodeRune(tr func(string) string, r rune) string {
	if r < utf8.RuneSelf {
		return string(r)
	}
	if enc := tr(string(r)); enc != "." {
		return enc
	}

	var base strings.Builder
	for _, d := range norm.NFKD.String(string(r)) {
		if unicode.Is(unicode.Mn, d) {
			continue
		}
		enc := tr(string(d))
		if d >= utf8.RuneSelf && enc == "." {
			return "?"
		}
		base.WriteString(enc)
	}
	if base.Len() == 0 {
		return "?"
	}
	return base.String()
}

func drawLine(pdf *fpdf.Fpdf, l Line) {
	if l.Text == "" {
		return
	}
	pdf.SetFont(l.Font, l.Style, l.Size)
	pdf.Text(l.X, l.Y, l.Text)
}
