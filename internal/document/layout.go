package document

import (
	"math"
	"strings"
)

// cm is one centimetre in PDF points.
const cm = 72 / 2.54

// Layout describes page geometry in points, origin at the top-left corner.
type Layout struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginTop    float64 // baseline of the first body line
	MarginBottom float64 // no baseline may go below this distance from the bottom
	Leading      float64
	Width        int // characters per line
}

// A4 returns the portrait A4 layout used for every document.
func A4() Layout {
	return Layout{
		PageWidth:    595.28,
		PageHeight:   841.89,
		MarginLeft:   2 * cm,
		MarginTop:    3 * cm,
		MarginBottom: 2 * cm,
		Leading:      15,
		Width:        DefaultWidth,
	}
}

// LinesPerPage returns how many body lines fit between the top and bottom
// margins. It is never less than one.
func (l Layout) LinesPerPage() int {
	if l.Leading <= 0 {
		return 1
	}
	usable := l.PageHeight - l.MarginTop - l.MarginBottom
	if usable < 0 {
		return 1
	}
	return int(math.Floor(usable/l.Leading)) + 1
}

// Baseline returns the vertical position of the n-th (0-based) line of a page.
func (l Layout) Baseline(n int) float64 {
	return l.MarginTop + float64(n)*l.Leading
}

// Paginate flows lines across pages of perPage lines. Trailing blank lines
// are dropped, so no empty trailing page is produced. An empty document
// still gets one (blank) body page.
func Paginate(lines []string, perPage int) [][]string {
	if perPage < 1 {
		perPage = 1
	}
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	lines = lines[:end]

	if len(lines) == 0 {
		return [][]string{{}}
	}

	pages := make([][]string, 0, (len(lines)+perPage-1)/perPage)
	for start := 0; start < len(lines); start += perPage {
		stop := min(start+perPage, len(lines))
		pages = append(pages, lines[start:stop])
	}
	return pages
}
