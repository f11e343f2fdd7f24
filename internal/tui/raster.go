package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tinytelemetry/streamgraph/internal/draw"
	"github.com/tinytelemetry/streamgraph/internal/geometry"
)

// inkColor is the color draw commands use for axes and labels. On a
// terminal it maps to the default foreground so it stays readable on dark
// and light backgrounds.
const inkColor = "#000000"

type cell struct {
	ch rune
	fg string
	bg string
	// tag records which command last filled the cell background.
	tag string
}

// raster is a terminal cell grid that implements draw.Surface.
type raster struct {
	cols, rows int
	steps      int
	cells      [][]cell
}

var _ draw.Surface = (*raster)(nil)

func newRaster(cols, rows, steps int) *raster {
	r := &raster{cols: cols, rows: rows, steps: steps, cells: make([][]cell, rows)}
	for i := range r.cells {
		r.cells[i] = make([]cell, cols)
		for j := range r.cells[i] {
			r.cells[i][j].ch = ' '
		}
	}
	return r
}

func (r *raster) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= r.cols || row >= r.rows {
		return nil
	}
	return &r.cells[row][col]
}

// FillPath paints every cell whose center lies inside the flattened path.
func (r *raster) FillPath(p geometry.Path, fill, tag string) {
	poly := p.Flatten(r.steps)
	if len(poly) < 3 {
		return
	}
	b := poly.Bounds()
	c0, r0 := canvasCell(geometry.Point{X: b.X, Y: b.Y})
	c1, r1 := canvasCell(geometry.Point{X: b.X + b.W, Y: b.Y + b.H})
	for row := max(r0, 0); row <= min(r1, r.rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, r.cols-1); col++ {
			if poly.Contains(cellCenter(col, row)) {
				c := r.at(col, row)
				c.bg, c.tag, c.ch = fill, tag, ' '
			}
		}
	}
}

// FillRect paints the cells whose centers lie inside rect, and at least
// the cell holding the rectangle's origin.
func (r *raster) FillRect(rect geometry.Rect, fill, tag string) {
	c0, r0 := canvasCell(geometry.Point{X: rect.X, Y: rect.Y})
	c1, r1 := canvasCell(geometry.Point{X: rect.X + rect.W, Y: rect.Y + rect.H})
	painted := false
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if !rect.Contains(cellCenter(col, row)) {
				continue
			}
			if c := r.at(col, row); c != nil {
				c.bg, c.tag = fill, tag
				painted = true
			}
		}
	}
	if !painted && rect.W > 0 && rect.H > 0 {
		if c := r.at(c0, r0); c != nil {
			c.bg, c.tag = fill, tag
		}
	}
}

// Line draws box-drawing glyphs along the segment, keeping the background.
func (r *raster) Line(from, to geometry.Point, stroke string) {
	c0, r0 := canvasCell(from)
	c1, r1 := canvasCell(to)
	glyph := '─'
	if c0 == c1 {
		glyph = '│'
	}
	steps := max(abs(c1-c0), abs(r1-r0))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		col := c0 + int(math.Round(t*float64(c1-c0)))
		row := r0 + int(math.Round(t*float64(r1-r0)))
		if c := r.at(col, row); c != nil {
			c.ch, c.fg = glyph, stroke
		}
	}
}

// Text writes the string on the row holding its baseline.
func (r *raster) Text(at geometry.Point, text string, _ float64, anchor draw.Anchor, fill string) {
	w := runewidth.StringWidth(text)
	col, row := canvasCell(geometry.Point{X: at.X, Y: at.Y - 1})
	switch anchor {
	case draw.AnchorMiddle:
		col -= w / 2
	case draw.AnchorEnd:
		col -= w
	}
	for _, ch := range text {
		if c := r.at(col, row); c != nil {
			c.ch, c.fg = ch, fill
		}
		col += max(runewidth.RuneWidth(ch), 1)
	}
}

// tagAt returns the tag of the command that last filled (col, row).
func (r *raster) tagAt(col, row int) string {
	if c := r.at(col, row); c != nil {
		return c.tag
	}
	return ""
}

// line renders cells [from, to) of row as styled text.
func (r *raster) line(row, from, to int) string {
	if row < 0 || row >= r.rows {
		return ""
	}
	from, to = max(from, 0), min(to, r.cols)
	var b strings.Builder
	var run []rune
	var runFG, runBG string
	flush := func() {
		if len(run) == 0 {
			return
		}
		b.WriteString(cellStyle(runFG, runBG).Render(string(run)))
		run = run[:0]
	}
	for col := from; col < to; col++ {
		c := r.cells[row][col]
		if len(run) > 0 && (c.fg != runFG || c.bg != runBG) {
			flush()
		}
		runFG, runBG = c.fg, c.bg
		run = append(run, c.ch)
	}
	flush()
	return b.String()
}

// String renders the whole grid.
func (r *raster) String() string {
	lines := make([]string, r.rows)
	for row := range lines {
		lines[row] = r.line(row, 0, r.cols)
	}
	return strings.Join(lines, "\n")
}

func cellStyle(fg, bg string) lipgloss.Style {
	s := lipgloss.NewStyle()
	if fg != "" && fg != inkColor {
		s = s.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
