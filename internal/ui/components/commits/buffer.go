package commits

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Style is the per-cell attribute set the renderer emits.
type Style struct {
	Fg   lipgloss.Color
	Bold bool
}

// Cell is one terminal cell: a glyph plus its style. Wide glyphs
// (CJK, emoji) occupy their display width; the following column is
// left empty by the writer.
type Cell struct {
	Glyph rune
	Style Style
}

// CellBuffer is the minimal render target: terminal backends, test
// harnesses and screenshot writers all satisfy it.
type CellBuffer interface {
	SetCell(row, col int, glyph rune, style Style)
	Size() (width, height int)
}

// ColorReporter is optionally implemented by buffers that know
// whether the output target supports color. When the target reports
// none, the renderer emits cells without a foreground color; bold is
// kept.
type ColorReporter interface {
	ColorSupport() bool
}

// Grid is the in-memory CellBuffer used by the TUI and by tests.
type Grid struct {
	width  int
	height int
	cells  [][]Cell
	colors bool
}

// NewGrid returns a color-capable grid of the given size, filled with
// spaces.
func NewGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height, colors: true}
	g.cells = make([][]Cell, height)
	for i := range g.cells {
		g.cells[i] = make([]Cell, width)
		for j := range g.cells[i] {
			g.cells[i][j].Glyph = ' '
		}
	}
	return g
}

// NewMonoGrid returns a grid that reports no color support.
func NewMonoGrid(width, height int) *Grid {
	g := NewGrid(width, height)
	g.colors = false
	return g
}

// SetCell writes a glyph at (row, col). Writes outside the grid are
// dropped.
func (g *Grid) SetCell(row, col int, glyph rune, style Style) {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return
	}
	g.cells[row][col] = Cell{Glyph: glyph, Style: style}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (int, int) { return g.width, g.height }

// ColorSupport reports whether styled output is meaningful.
func (g *Grid) ColorSupport() bool { return g.colors }

// Cell returns the cell at (row, col).
func (g *Grid) Cell(row, col int) Cell { return g.cells[row][col] }

// Line returns row i as a plain string, wide glyphs collapsing the
// column they spill into. Trailing spaces are trimmed.
func (g *Grid) Line(i int) string {
	var b strings.Builder
	col := 0
	for col < g.width {
		ch := g.cells[i][col].Glyph
		if ch == 0 {
			ch = ' '
		}
		b.WriteRune(ch)
		w := runewidth.RuneWidth(ch)
		if w < 1 {
			w = 1
		}
		col += w
	}
	return strings.TrimRight(b.String(), " ")
}

// String renders the whole grid as plain text, one line per row.
func (g *Grid) String() string {
	lines := make([]string, g.height)
	for i := range lines {
		lines[i] = g.Line(i)
	}
	return strings.Join(lines, "\n")
}

// StyledLine renders row i with lipgloss styling against bg, merging
// runs of identically styled cells into single render calls.
func (g *Grid) StyledLine(i int, bg lipgloss.Color) string {
	var b strings.Builder
	col := 0
	for col < g.width {
		style := g.cells[i][col].Style
		var run strings.Builder
		for col < g.width && g.cells[i][col].Style == style {
			ch := g.cells[i][col].Glyph
			if ch == 0 {
				ch = ' '
			}
			run.WriteRune(ch)
			w := runewidth.RuneWidth(ch)
			if w < 1 {
				w = 1
			}
			col += w
		}
		ls := lipgloss.NewStyle().Background(bg)
		if g.colors && style.Fg != "" {
			ls = ls.Foreground(style.Fg)
		}
		if style.Bold {
			ls = ls.Bold(true)
		}
		b.WriteString(ls.Render(run.String()))
	}
	return b.String()
}
