package report

import (
	"fmt"
	"time"

	"github.com/demandhub/backend/internal/demand"
)

// Widths of the displayed report and of the capture layout, in pixels.
const (
	DisplayWidth = 1280
	CaptureWidth = 2400
)

// Input colors used once editable fields become plain text.
const (
	ColorPositive = "#059669"
	ColorMuted    = "#cbd5e1"
	ColorText     = "#1e293b"
)

// CellKind is what a table cell is rendered as.
type CellKind int

const (
	CellText CellKind = iota
	CellInput
	CellPill
)

// Cell is one table cell of the report surface.
type Cell struct {
	Kind  CellKind
	Text  string
	Value float64 // inputs only
	Color string
	Bold  bool
}

// Header is the top block of the report.
type Header struct {
	Interactive bool
	Title       string
	Subtitle    string
}

// Surface models the report as it is displayed: an interactive header,
// filter controls, an export menu and a table whose editable column is an
// input and whose status column is a pill.
type Surface struct {
	Width    int
	Header   Header
	Controls []string
	Menus    []string
	Columns  []string
	Rows     [][]Cell
	Prepared bool
}

// NewSurface lays out rows the way the report screen shows them. The
// requested column is editable in input mode and the approved column in
// admin mode.
func NewSurface(rows []Row, loc Locale, mode demand.Mode) *Surface {
	s := &Surface{
		Width:    DisplayWidth,
		Header:   Header{Interactive: true, Title: loc.Title},
		Controls: []string{"search", "category", "period"},
		Menus:    []string{"export"},
		Columns:  loc.Headers[:],
		Rows:     make([][]Cell, len(rows)),
	}
	for i, r := range rows {
		cells := r.Cells()
		line := make([]Cell, len(cells))
		for j, text := range cells {
			line[j] = Cell{Kind: CellText, Text: text, Color: ColorText}
		}
		requested, approved := &line[5], &line[6]
		if mode == demand.ModeAdmin {
			*approved = Cell{Kind: CellInput, Text: approved.Text, Value: r.Approved}
		} else {
			*requested = Cell{Kind: CellInput, Text: requested.Text, Value: r.Requested}
		}
		line[7] = Cell{Kind: CellPill, Text: r.StatusText, Color: pillColor(r.Status)}
		s.Rows[i] = line
	}
	return s
}

// PrepareForCapture turns the displayed surface into its static capture
// form. Calling it again only refreshes the title block.
func (s *Surface) PrepareForCapture(loc Locale, scope string, issuedAt time.Time) {
	if scope == "" {
		scope = loc.Fallback
	}
	s.Width = CaptureWidth
	s.Controls = nil
	s.Menus = nil
	s.Header = Header{
		Title:    fmt.Sprintf("%s: %s", loc.Title, scope),
		Subtitle: fmt.Sprintf("%s %s", loc.IssuedLabel, issuedAt.Format(loc.DateLayout)),
	}
	for _, line := range s.Rows {
		for j := range line {
			c := &line[j]
			switch c.Kind {
			case CellInput:
				c.Kind = CellText
				c.Text = FormatNumber(c.Value)
				c.Color = ColorMuted
				if c.Value > 0 {
					c.Color = ColorPositive
				}
			case CellPill:
				c.Kind = CellText
				c.Bold = true
			}
		}
	}
	s.Prepared = true
}

func pillColor(c demand.Category) string {
	switch c {
	case demand.CategoryValidated, demand.CategoryFilled:
		return ColorPositive
	case demand.CategoryAwaiting:
		return "#d97706"
	default:
		return "#64748b"
	}
}
