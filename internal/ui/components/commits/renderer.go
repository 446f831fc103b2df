package commits

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yourusername/gitup/internal/graph"
	"github.com/yourusername/gitup/internal/ui/styles"
)

// RendererConfig tunes the cell renderer.
type RendererConfig struct {
	Profile   Profile
	LaneWidth int  // display cells per lane, default 2
	CJKAware  bool // display-width message truncation
	ShowTime  bool // right-aligned relative timestamp
}

// Renderer maps layout rows to styled cells in a CellBuffer. It emits
// a single fused terminal line per commit row: fork and merge runs are
// drawn in the lane padding columns of the commit's own line, which
// keeps every frame exactly viewport-height lines tall.
type Renderer struct {
	theme    styles.Theme
	charset  Charset
	palette  []lipgloss.Color
	laneW    int
	cjkAware bool
	showTime bool
	now      func() time.Time
}

// RowResult reports per-row render outcome. Clipped is advisory: the
// row was emitted as far as the buffer allowed.
type RowResult struct {
	Clipped bool
}

// NewRenderer builds a renderer over a theme and config.
func NewRenderer(theme styles.Theme, cfg RendererConfig) *Renderer {
	laneW := cfg.LaneWidth
	if laneW < 1 {
		laneW = 2
	}
	return &Renderer{
		theme:    theme,
		charset:  CharsetFor(cfg.Profile),
		palette:  theme.GraphPalette(),
		laneW:    laneW,
		cjkAware: cfg.CJKAware,
		showTime: cfg.ShowTime,
		now:      time.Now,
	}
}

func (r *Renderer) laneColor(idx int) lipgloss.Color {
	if idx < 0 {
		idx = 0
	}
	return r.palette[idx%len(r.palette)]
}

// RenderRow paints one commit row onto buf at the given line.
// graphLanes is the frame-wide lane count so every row aligns.
func (r *Renderer) RenderRow(buf CellBuffer, line int, row graph.Row, node *graph.CommitNode, graphLanes int) RowResult {
	width, _ := buf.Size()
	colored := true
	if cr, ok := buf.(ColorReporter); ok {
		colored = cr.ColorSupport()
	}

	graphCols := graphLanes * r.laneW
	res := RowResult{}
	if graphCols+8 > width {
		// Not even the minimum lane layout plus a short id fits.
		res.Clipped = true
	}

	forkMin, forkMax, mergeMin, mergeMax := spans(row)

	style := func(c lipgloss.Color, bold bool) Style {
		if !colored {
			return Style{Bold: bold}
		}
		return Style{Fg: c, Bold: bold}
	}

	for k := 0; k < graphLanes; k++ {
		col := k * r.laneW
		if col >= width {
			res.Clipped = true
			break
		}
		var slot graph.LaneSlot
		if k < len(row.Lanes) {
			slot = row.Lanes[k]
		}

		inFork := forkMax >= 0 && k >= forkMin && k < forkMax
		inMerge := mergeMax >= 0 && k >= mergeMin && k < mergeMax
		bridgeColor := r.bridgeColor(row, k, forkMin, forkMax, mergeMin, mergeMax)

		glyph := ' '
		gstyle := style(r.theme.Subtext, false)

		switch slot.Kind {
		case graph.SlotCommit, graph.SlotEnd:
			glyph = r.commitGlyph(row, node)
			gstyle = style(r.laneColor(row.CommitColor), row.Decorated && row.Decoration.IsHead)
		case graph.SlotFork:
			if k > row.PrimaryLane {
				glyph = r.charset.ForkRight
			} else {
				glyph = r.charset.ForkLeft
			}
			gstyle = style(r.laneColor(slot.Color), false)
		case graph.SlotMerge:
			if k > row.PrimaryLane {
				glyph = r.charset.MergeRight
			} else {
				glyph = r.charset.MergeLeft
			}
			gstyle = style(r.laneColor(slot.Color), false)
		case graph.SlotPass:
			if inFork || inMerge {
				// A horizontal run crosses this carried edge. The edge
				// with the smaller source lane is drawn continuously;
				// the cell itself degrades to the crossing glyph.
				glyph = r.charset.Cross
				if row.PrimaryLane < k {
					gstyle = style(bridgeColor, false)
				} else {
					gstyle = style(r.laneColor(slot.Color), false)
				}
			} else {
				glyph = r.charset.Vertical
				gstyle = style(r.laneColor(slot.Color), false)
			}
		default:
			if inFork || inMerge {
				glyph = r.charset.Horizontal
				gstyle = style(bridgeColor, false)
			}
		}

		buf.SetCell(line, col, glyph, gstyle)
		for pad := 1; pad < r.laneW && col+pad < width; pad++ {
			if inFork || inMerge {
				buf.SetCell(line, col+pad, r.charset.Horizontal, style(bridgeColor, false))
			} else {
				buf.SetCell(line, col+pad, ' ', Style{})
			}
		}
	}

	col := graphCols + 1
	col = r.writeString(buf, line, col, shortID(row.ID), style(r.theme.CommitHash, false))
	col = r.writeString(buf, line, col, " ", Style{})

	if row.Decorated {
		col = r.writeDecorations(buf, line, col, row.Decoration, colored)
	}

	timeStr := ""
	if r.showTime && node != nil {
		timeStr = relativeTime(r.now(), node.Timestamp)
	}

	msgAvail := width - col - len(timeStr) - 2
	if msgAvail > 4 && node != nil {
		col = r.writeString(buf, line, col, r.truncate(node.Message, msgAvail), style(r.theme.Foreground, false))
	} else if node != nil {
		res.Clipped = true
	}

	if timeStr != "" && width-len(timeStr) > col+1 {
		r.writeString(buf, line, width-len(timeStr), timeStr, style(r.theme.Subtext, false))
	}

	return res
}

// RenderFallback paints the degraded single-line form used when a row
// cannot be rendered: the short id and a ? marker.
func (r *Renderer) RenderFallback(buf CellBuffer, line int, id string) {
	r.writeString(buf, line, 0, shortID(id)+" ?", Style{Fg: r.theme.Subtext})
}

func (r *Renderer) commitGlyph(row graph.Row, node *graph.CommitNode) rune {
	if row.Decorated && row.Decoration.IsHead {
		return r.charset.CommitHead
	}
	if row.IsMerge || (node != nil && node.IsMerge()) {
		return r.charset.CommitMerge
	}
	return r.charset.Commit
}

// spans returns the inclusive lane ranges bridged by this row's forks
// and merges; max is -1 when the row has none.
func spans(row graph.Row) (forkMin, forkMax, mergeMin, mergeMax int) {
	forkMin, forkMax = row.PrimaryLane, -1
	mergeMin, mergeMax = row.PrimaryLane, -1
	for k, slot := range row.Lanes {
		switch slot.Kind {
		case graph.SlotFork:
			if forkMax < 0 {
				forkMax = row.PrimaryLane
			}
			if k < forkMin {
				forkMin = k
			}
			if k > forkMax {
				forkMax = k
			}
		case graph.SlotMerge:
			if mergeMax < 0 {
				mergeMax = row.PrimaryLane
			}
			if k < mergeMin {
				mergeMin = k
			}
			if k > mergeMax {
				mergeMax = k
			}
		}
	}
	return
}

// bridgeColor picks the hue for horizontal run segments: the color of
// the span endpoint on the side of the commit the cell sits on.
func (r *Renderer) bridgeColor(row graph.Row, k, forkMin, forkMax, mergeMin, mergeMax int) lipgloss.Color {
	pick := func(lane int) lipgloss.Color {
		if lane >= 0 && lane < len(row.Lanes) {
			return r.laneColor(row.Lanes[lane].Color)
		}
		return r.laneColor(row.CommitColor)
	}
	if forkMax >= 0 && k >= forkMin && k < forkMax {
		if k >= row.PrimaryLane {
			return pick(forkMax)
		}
		return pick(forkMin)
	}
	if mergeMax >= 0 && k >= mergeMin && k < mergeMax {
		if k >= row.PrimaryLane {
			return pick(mergeMax)
		}
		return pick(mergeMin)
	}
	return r.laneColor(row.CommitColor)
}

func (r *Renderer) writeDecorations(buf CellBuffer, line, col int, dec graph.Decoration, colored bool) int {
	style := func(c lipgloss.Color, bold bool) Style {
		if !colored {
			return Style{Bold: bold}
		}
		return Style{Fg: c, Bold: bold}
	}
	for i, b := range dec.Branches {
		if dec.IsHead && i == 0 {
			col = r.writeString(buf, line, col, "HEAD→"+b, style(r.theme.Head, true))
		} else {
			col = r.writeString(buf, line, col, "["+b+"]", style(r.theme.BranchMain, false))
		}
		col = r.writeString(buf, line, col, " ", Style{})
	}
	if dec.IsHead && len(dec.Branches) == 0 {
		col = r.writeString(buf, line, col, "HEAD", style(r.theme.Head, true))
		col = r.writeString(buf, line, col, " ", Style{})
	}
	for _, t := range dec.Tags {
		col = r.writeString(buf, line, col, "("+t+")", style(r.theme.Tag, false))
		col = r.writeString(buf, line, col, " ", Style{})
	}
	return col
}

// writeString paints s starting at col, honoring display widths, and
// returns the column after the last written cell.
func (r *Renderer) writeString(buf CellBuffer, line, col int, s string, st Style) int {
	width, _ := buf.Size()
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w < 1 {
			w = 1
		}
		if col+w > width {
			break
		}
		buf.SetCell(line, col, ch, st)
		col += w
	}
	return col
}

// truncate shortens s to max display columns. With CJK awareness off,
// truncation counts runes instead.
func (r *Renderer) truncate(s string, max int) string {
	if r.cjkAware {
		if runewidth.StringWidth(s) <= max {
			return s
		}
		return runewidth.Truncate(s, max, "…")
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}

func relativeTime(now, t time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "min")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/24/7), "week")
	case diff < 365*24*time.Hour:
		return plural(int(diff.Hours()/24/30), "month")
	default:
		return plural(int(diff.Hours()/24/365), "year")
	}
}

func plural(n int, unit string) string {
	if n <= 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
