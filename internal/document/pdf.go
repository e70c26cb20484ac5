// Package document renders generated texts into downloadable PDF files.
package document

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// FileName is the name offered to the browser for downloads.
const FileName = "atelier_creatif.pdf"

// DefaultTitle is printed on every cover page.
const DefaultTitle = "Atelier Créatif — EDU"

// Document is the content of one PDF.
type Document struct {
	Title    string // defaults to DefaultTitle
	Subtitle string // activity label
	Author   string
	Date     time.Time
	Body     string
}

// Renderer lays documents out on A4 pages: a cover page, then the body
// wrapped and flowed across as many pages as needed.
type Renderer struct {
	Layout Layout
	Now    func() time.Time
}

// NewRenderer returns a renderer using the A4 layout.
func NewRenderer() *Renderer {
	return &Renderer{Layout: A4(), Now: time.Now}
}

// Render writes the PDF to w and returns the number of pages.
func (r *Renderer) Render(ctx context.Context, doc Document, w io.Writer) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	layout := r.Layout
	if layout.PageWidth == 0 {
		layout = A4()
	}
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}
	if doc.Date.IsZero() {
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		doc.Date = now()
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("atelier", true)
	if doc.Author != "" {
		pdf.SetAuthor(doc.Author, true)
	}
	pdf.SetCreationDate(doc.Date)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(stripUnsupported(s)) }

	// Cover
	pdf.AddPage()
	centred := func(y float64, family, style string, size float64, s string) {
		pdf.SetFont(family, style, size)
		s = text(s)
		pdf.Text((layout.PageWidth-pdf.GetStringWidth(s))/2, y, s)
	}
	centred(4*cm, "Helvetica", "B", 22, doc.Title)
	if doc.Subtitle != "" {
		centred(5*cm, "Helvetica", "", 14, doc.Subtitle)
	}
	centred(6*cm, "Helvetica", "I", 10, doc.Date.Format("02/01/2006"))
	if doc.Author != "" {
		centred(6.7*cm, "Helvetica", "I", 10, doc.Author)
	}

	// Body
	lines := Wrap(doc.Body, layout.Width)
	for _, page := range Paginate(lines, layout.LinesPerPage()) {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 12)
		for i, line := range page {
			if line == "" {
				continue
			}
			pdf.Text(layout.MarginLeft, layout.Baseline(i), text(line))
		}
	}

	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("write pdf: %w", err)
	}
	return pdf.PageNo(), nil
}

// stripUnsupported drops pictographs and joiners the core PDF fonts cannot
// draw. Typographic punctuation (dashes, quotes, ellipsis, euro) is kept.
func stripUnsupported(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case r == '\u200d' || r == '\ufe0f':
			return -1
		case r >= 0x2190:
			return -1
		}
		return r
	}, s))
}
