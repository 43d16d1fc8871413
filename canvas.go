package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"frameboard/internal/canvas"
)

type cellClass uint8

const (
	clsNone cellClass = iota
	clsGrid
	clsFrame
	clsFrameActive
	clsFrameSelected
	clsComponent
	clsComponentSelected
	clsCursor
)

var classStyles = map[cellClass]lipgloss.Style{
	clsGrid:              lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	clsFrame:             lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	clsFrameActive:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	clsFrameSelected:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	clsComponentSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	clsCursor:            lipgloss.NewStyle().Reverse(true),
}

// screen is a character grid with a style class per cell.
type screen struct {
	runes [][]rune
	class [][]cellClass
}

func newScreen(width, height int) *screen {
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}
	s := &screen{runes: make([][]rune, height), class: make([][]cellClass, height)}
	for i := range s.runes {
		s.runes[i] = make([]rune, width)
		s.class[i] = make([]cellClass, width)
		for j := range s.runes[i] {
			s.runes[i][j] = ' '
		}
	}
	return s
}

func (s *screen) isValidPos(x, y int) bool {
	return y >= 0 && y < len(s.runes) && x >= 0 && x < len(s.runes[y])
}

func (s *screen) set(x, y int, r rune, cls cellClass) {
	if s.isValidPos(x, y) {
		s.runes[y][x] = r
		s.class[y][x] = cls
	}
}

func (s *screen) at(x, y int) rune {
	if !s.isValidPos(x, y) {
		return 0
	}
	return s.runes[y][x]
}

// text writes str starting at (x, y), clipped at maxX (exclusive).
func (s *screen) text(x, y int, str string, maxX int, cls cellClass) {
	i := 0
	for _, r := range str {
		if x+i >= maxX {
			return
		}
		s.set(x+i, y, r, cls)
		i++
	}
}

type borderChars struct {
	corner, horizontal, vertical rune
}

var (
	frameBorder     = borderChars{'+', '=', '|'}
	componentBorder = borderChars{'+', '-', '|'}
	selectedBorder  = borderChars{'#', '#', '#'}
)

// box draws the outline of the cell rectangle [x0,x1]x[y0,y1].
func (s *screen) box(x0, y0, x1, y1 int, b borderChars, cls cellClass) {
	for x := x0 + 1; x < x1; x++ {
		s.set(x, y0, b.horizontal, cls)
		s.set(x, y1, b.horizontal, cls)
	}
	for y := y0 + 1; y < y1; y++ {
		s.set(x0, y, b.vertical, cls)
		s.set(x1, y, b.vertical, cls)
	}
	s.set(x0, y0, b.corner, cls)
	s.set(x1, y0, b.corner, cls)
	s.set(x0, y1, b.corner, cls)
	s.set(x1, y1, b.corner, cls)
}

// fill blanks the interior of a cell rectangle so overlapping shapes drawn
// earlier do not bleed through.
func (s *screen) fill(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.set(x, y, ' ', clsNone)
		}
	}
}

// lines renders the grid with styles applied to runs of equal class.
func (s *screen) lines() []string {
	out := make([]string, len(s.runes))
	for y, row := range s.runes {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && s.class[y][x] == s.class[y][start] {
				continue
			}
			run := string(row[start:x])
			if style, ok := classStyles[s.class[y][start]]; ok {
				b.WriteString(style.Render(run))
			} else {
				b.WriteString(run)
			}
			start = x
		}
		out[y] = b.String()
	}
	return out
}

// cellRect maps a canvas rectangle to inclusive screen cell bounds.
func cellRect(v canvas.Viewport, r canvas.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = screenAt(v, r.X, r.Y)
	cx, cy := v.ToClient(r.Right(), r.Bottom())
	x1 = int(math.Ceil(cx/cellWidth)) - 1
	y1 = int(math.Ceil(cy/cellHeight)) - 1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return x0, y0, x1, y1
}

// renderState draws the canvas as it appears through v.
func renderState(st canvas.State, v canvas.Viewport, width, height int) *screen {
	scr := newScreen(width, height)

	if st.StructureGrid.Visible {
		drawStructureGrid(scr, st.StructureGrid, v)
	}
	for _, f := range st.Frames {
		drawFrame(scr, f, st, v)
	}
	for _, c := range st.Components {
		drawComponent(scr, c, c.ID == st.SelectedComponentID, v)
	}
	return scr
}

func drawStructureGrid(scr *screen, g canvas.StructureGrid, v canvas.Viewport) {
	if g.Columns <= 0 || g.Rows <= 0 || g.CellWidth <= 0 || g.CellHeight <= 0 {
		return
	}
	for row := 0; row <= g.Rows; row++ {
		for col := 0; col <= g.Columns; col++ {
			x, y := screenAt(v, float64(col)*g.CellWidth, float64(row)*g.CellHeight)
			scr.set(x, y, '.', clsGrid)
		}
	}
}

func drawFrame(scr *screen, f canvas.Frame, st canvas.State, v canvas.Viewport) {
	x0, y0, x1, y1 := cellRect(v, f.Rect())

	cls := clsFrame
	border := frameBorder
	switch f.ID {
	case st.SelectedFrameID:
		cls, border = clsFrameSelected, selectedBorder
	case st.ActiveFrameID:
		cls = clsFrameActive
	}

	scr.fill(x0, y0, x1, y1)
	grid := st.MasterGrid
	if f.Grid != nil {
		grid = *f.Grid
	}
	if grid.Enabled && grid.Columns > 1 {
		pitch := (f.Width + grid.Gap) / float64(grid.Columns)
		for i := 1; i < grid.Columns; i++ {
			gx, _ := screenAt(v, f.X+float64(i)*pitch-grid.Gap/2, f.Y)
			for y := y0 + 1; y < y1; y++ {
				scr.set(gx, y, ':', clsGrid)
			}
		}
	}
	scr.box(x0, y0, x1, y1, border, cls)
	if f.Name != "" && x1-x0 > 4 {
		scr.text(x0+2, y0, " "+f.Name+" ", x1-1, cls)
	}
}

func drawComponent(scr *screen, c canvas.Component, selected bool, v canvas.Viewport) {
	x0, y0, x1, y1 := cellRect(v, c.Rect())
	cls := clsComponent
	if selected {
		cls = clsComponentSelected
	}

	if y1-y0 >= 2 && x1-x0 >= 2 {
		border := componentBorder
		if selected {
			border = selectedBorder
		}
		scr.fill(x0, y0, x1, y1)
		scr.box(x0, y0, x1, y1, border, cls)
		for i, line := range strings.Split(componentLabel(c), "\n") {
			if y0+1+i >= y1 {
				break
			}
			scr.text(x0+1, y0+1+i, line, x1, cls)
		}
		return
	}

	// Too small for a border: one row of glyphs.
	scr.fill(x0, y0, x1, y0)
	scr.text(x0, y0, inlineGlyph(c, x1-x0+1), x1+1, cls)
}

func componentLabel(c canvas.Component) string {
	switch c.Type {
	case canvas.TypeInput:
		if c.Content == "" {
			return c.Properties.Text("placeholder")
		}
	case canvas.TypeSelect:
		v := c.Properties.Text("value")
		if v == "" {
			if opts := c.Properties.Strings("options"); len(opts) > 0 {
				v = opts[0]
			}
		}
		return v + " v"
	case canvas.TypeImage:
		return "[image] " + c.Properties.Text("alt")
	case canvas.TypeTable:
		return strings.Join(c.Properties.Strings("headers"), " | ")
	}
	return c.Content
}

// inlineGlyph renders a component that is a single cell row tall.
func inlineGlyph(c canvas.Component, width int) string {
	label := strings.ReplaceAll(componentLabel(c), "\n", " ")
	var s string
	switch c.Type {
	case canvas.TypeButton:
		s = "[" + center(label, width-2) + "]"
	case canvas.TypeInput, canvas.TypeSelect:
		s = "[" + pad(label, width-2, '_') + "]"
	case canvas.TypeCheckbox:
		mark := "[ ] "
		if c.Properties.Bool("checked") {
			mark = "[x] "
		}
		s = mark + label
	case canvas.TypeRadio:
		mark := "( ) "
		if c.Properties.Bool("checked") {
			mark = "(*) "
		}
		s = mark + label
	case canvas.TypeDivider:
		s = strings.Repeat("-", max(width, 1))
	case canvas.TypeText, canvas.TypeHeading, canvas.TypeParagraph:
		s = label
	default:
		s = "<" + string(c.Type) + "> " + label
	}
	if s == "" {
		s = strings.Repeat(".", max(width, 1))
	}
	return s
}

func center(s string, width int) string {
	n := len([]rune(s))
	if width <= n {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

func pad(s string, width int, r rune) string {
	n := len([]rune(s))
	if width <= n {
		return s
	}
	return s + strings.Repeat(string(r), width-n)
}
