package commits

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/gitup/internal/graph"
	"github.com/yourusername/gitup/internal/ui/keys"
	"github.com/yourusername/gitup/internal/ui/styles"
)

// Options wires the panel to the engine configuration.
type Options struct {
	Profile            Profile
	LaneWidth          int
	LaneColors         int
	CJKAware           bool
	ShowTime           bool
	PrivilegedTips     []string
	CheckpointInterval int
}

// Model is the commit-graph panel: a viewport over the DAG plus the
// cell renderer, driven by the outer TUI's key events.
type Model struct {
	dag      *graph.Dag
	vp       *graph.Viewport
	renderer *Renderer
	styles   *styles.Styles
	keyMap   keys.KeyMap
	width    int
	height   int
}

// SelectionChangedMsg is emitted when the cursor moves to another commit.
type SelectionChangedMsg struct {
	ID string
}

func New(dag *graph.Dag, decor graph.Decorations, opts Options, st *styles.Styles, keyMap keys.KeyMap, width, height int) Model {
	vp := graph.NewViewport(dag, decor,
		graph.AllocOptions{
			LaneColors:     opts.LaneColors,
			PrivilegedTips: opts.PrivilegedTips,
		},
		graph.ViewportOptions{
			Height:             height,
			CheckpointInterval: opts.CheckpointInterval,
		})

	renderer := NewRenderer(st.Theme, RendererConfig{
		Profile:   opts.Profile,
		LaneWidth: opts.LaneWidth,
		CJKAware:  opts.CJKAware,
		ShowTime:  opts.ShowTime,
	})

	return Model{
		dag:      dag,
		vp:       vp,
		renderer: renderer,
		styles:   st,
		keyMap:   keyMap,
		width:    width,
		height:   height,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	before := m.vp.Cursor()
	switch {
	case keys.MatchesKey(key, m.keyMap.Up):
		m.vp.MoveCursor(-1)
	case keys.MatchesKey(key, m.keyMap.Down):
		m.vp.MoveCursor(1)
	case keys.MatchesKey(key, m.keyMap.Top):
		m.vp.JumpToTop()
	case keys.MatchesKey(key, m.keyMap.Bottom):
		m.vp.JumpToBottom()
	case keys.MatchesKey(key, m.keyMap.PageUp):
		m.vp.PageUp()
	case keys.MatchesKey(key, m.keyMap.PageDown):
		m.vp.PageDown()
	case keys.MatchesKey(key, m.keyMap.HalfPageUp):
		m.vp.HalfPageUp()
	case keys.MatchesKey(key, m.keyMap.HalfPageDown):
		m.vp.HalfPageDown()
	case keys.MatchesKey(key, m.keyMap.Recenter):
		m.vp.Recenter()
	default:
		return m, nil
	}

	if cur := m.vp.Cursor(); cur != before {
		id := m.dag.Topo()[cur]
		return m, func() tea.Msg { return SelectionChangedMsg{ID: id} }
	}
	return m, nil
}

// Jump seeks the cursor to a topo index. The *graph.OutOfBoundsError
// from a bad index is returned for the action bar to report; viewport
// state is unchanged in that case.
func (m *Model) Jump(index int) error {
	return m.vp.JumpTo(index)
}

// View renders the visible window, one fused line per commit row, with
// the cursor row highlighted.
func (m Model) View() string {
	rows := m.vp.Rows()
	if len(rows) == 0 {
		return m.styles.Help.Render("No commits")
	}

	lanes := len(m.vp.CarryIn().Active)
	for _, row := range rows {
		if row.Width() > lanes {
			lanes = row.Width()
		}
	}
	if lanes < 1 {
		lanes = 1
	}

	grid := NewGrid(m.width, len(rows))
	for i, row := range rows {
		res := m.renderer.RenderRow(grid, i, row, m.dag.Node(row.ID), lanes)
		if res.Clipped && m.width < 10 {
			// Too narrow for even the degraded layout; fall back to
			// the short id so the loop still makes progress.
			m.renderer.RenderFallback(grid, i, row.ID)
		}
	}

	lines := make([]string, 0, m.height)
	for i, row := range rows {
		bg := m.styles.Theme.Background
		if row.Index == m.vp.Cursor() {
			bg = m.styles.Theme.Selection
		}
		lines = append(lines, grid.StyledLine(i, bg))
	}
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// SelectedCommit returns the commit under the cursor.
func (m Model) SelectedCommit() *graph.CommitNode {
	if m.dag.Len() == 0 {
		return nil
	}
	return m.dag.NodeAt(m.vp.Cursor())
}

// Position reports cursor index and total rows for the action bar.
func (m Model) Position() (cursor, total int) {
	return m.vp.Cursor(), m.vp.Total()
}

// Progress returns the cursor position as a percentage.
func (m Model) Progress() float64 {
	return m.vp.Progress() * 100
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.SetHeight(height)
}
