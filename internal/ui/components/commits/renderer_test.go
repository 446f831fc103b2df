package commits

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gitup/internal/graph"
	"github.com/yourusername/gitup/internal/ui/styles"
)

type sliceSource struct {
	nodes []*graph.CommitNode
	pos   int
}

func (s *sliceSource) Next() (*graph.CommitNode, error) {
	if s.pos >= len(s.nodes) {
		return nil, io.EOF
	}
	n := s.nodes[s.pos]
	s.pos++
	return n, nil
}

func commitNode(id, message string, parents ...string) *graph.CommitNode {
	return &graph.CommitNode{
		ID:        id + strings.Repeat("0", 40-len(id)),
		Parents:   padIDs(parents),
		Author:    "Alice",
		Message:   message,
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func padIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id + strings.Repeat("0", 40-len(id))
	}
	return out
}

func buildRows(t *testing.T, decor graph.Decorations, nodes ...*graph.CommitNode) (*graph.Dag, []graph.Row) {
	t.Helper()
	dag, err := graph.Build(context.Background(), &sliceSource{nodes: nodes}, graph.BuildOptions{})
	require.NoError(t, err)
	alloc := graph.NewAllocator(dag, graph.AllocOptions{})
	builder := graph.NewRowBuilder(dag, alloc, decor)
	rows := make([]graph.Row, 0, dag.Len())
	for i := 0; i < dag.Len(); i++ {
		rows = append(rows, builder.Next())
	}
	return dag, rows
}

func testRenderer(profile Profile) *Renderer {
	return NewRenderer(styles.CatppuccinMocha(), RendererConfig{
		Profile:  profile,
		CJKAware: true,
	})
}

func renderAll(r *Renderer, dag *graph.Dag, rows []graph.Row, width int) *Grid {
	lanes := 1
	for _, row := range rows {
		if row.Width() > lanes {
			lanes = row.Width()
		}
	}
	grid := NewGrid(width, len(rows))
	for i, row := range rows {
		r.RenderRow(grid, i, row, dag.Node(row.ID), lanes)
	}
	return grid
}

func TestLinearHistoryGlyphs(t *testing.T) {
	dag, rows := buildRows(t, nil,
		commitNode("d", "fourth", "c"),
		commitNode("c", "third", "b"),
		commitNode("b", "second", "a"),
		commitNode("a", "first"),
	)

	grid := renderAll(testRenderer(ProfileUnicode), dag, rows, 60)

	for i := 0; i < 4; i++ {
		assert.True(t, strings.HasPrefix(grid.Line(i), "●"),
			"line %d: %q", i, grid.Line(i))
	}
}

func TestForkAndMergeGlyphs(t *testing.T) {
	dag, rows := buildRows(t, nil,
		commitNode("f", "merge branch", "b", "c"),
		commitNode("b", "on main", "a"),
		commitNode("c", "on side", "a"),
		commitNode("a", "base"),
	)

	grid := renderAll(testRenderer(ProfileUnicode), dag, rows, 60)

	assert.True(t, strings.HasPrefix(grid.Line(0), "◉─╮"), "merge row: %q", grid.Line(0))
	assert.True(t, strings.HasPrefix(grid.Line(1), "● │"), "main row: %q", grid.Line(1))
	assert.True(t, strings.HasPrefix(grid.Line(2), "│ ●"), "side row: %q", grid.Line(2))
	// Two edges converge into the base, so it takes the merge glyph.
	assert.True(t, strings.HasPrefix(grid.Line(3), "◉─╯"), "base row: %q", grid.Line(3))
}

func TestASCIIProfile(t *testing.T) {
	dag, rows := buildRows(t, nil,
		commitNode("f", "merge", "b", "c"),
		commitNode("b", "main", "a"),
		commitNode("c", "side", "a"),
		commitNode("a", "base"),
	)

	grid := renderAll(testRenderer(ProfileASCII), dag, rows, 60)

	assert.True(t, strings.HasPrefix(grid.Line(0), "*-\\"), "merge row: %q", grid.Line(0))
	assert.True(t, strings.HasPrefix(grid.Line(1), "* |"), "main row: %q", grid.Line(1))
	assert.True(t, strings.HasPrefix(grid.Line(3), "*-/"), "base row: %q", grid.Line(3))
}

func TestASCIIRichProfile(t *testing.T) {
	dag, rows := buildRows(t,
		graph.Decorations{commitNode("b", "", "a").ID: {IsHead: true}},
		commitNode("f", "merge", "b", "c"),
		commitNode("b", "main", "a"),
		commitNode("c", "side", "a"),
		commitNode("a", "base"),
	)

	grid := renderAll(testRenderer(ProfileASCIIRich), dag, rows, 60)

	assert.True(t, strings.HasPrefix(grid.Line(0), "M"), "merge marker: %q", grid.Line(0))
	assert.True(t, strings.HasPrefix(grid.Line(1), "@"), "head marker: %q", grid.Line(1))
	assert.True(t, strings.HasPrefix(grid.Line(2), "| o") || strings.Contains(grid.Line(2), "o"),
		"commit marker: %q", grid.Line(2))
}

func TestHeadCommitBoldAndMarked(t *testing.T) {
	head := commitNode("b", "tip", "a")
	dag, rows := buildRows(t,
		graph.Decorations{head.ID: {IsHead: true, Branches: []string{"main"}}},
		head,
		commitNode("a", "base"),
	)

	grid := renderAll(testRenderer(ProfileUnicode), dag, rows, 60)

	assert.True(t, strings.HasPrefix(grid.Line(0), "◎"), "head row: %q", grid.Line(0))
	assert.True(t, grid.Cell(0, 0).Style.Bold)
	assert.Contains(t, grid.Line(0), "HEAD→main")
}

func TestDecorationLabels(t *testing.T) {
	tip := commitNode("b", "release", "a")
	base := commitNode("a", "start")
	dag, rows := buildRows(t,
		graph.Decorations{
			tip.ID:  {Branches: []string{"develop"}},
			base.ID: {Tags: []string{"v1.0"}},
		},
		tip, base,
	)

	grid := renderAll(testRenderer(ProfileUnicode), dag, rows, 70)

	assert.Contains(t, grid.Line(0), "[develop]")
	assert.Contains(t, grid.Line(1), "(v1.0)")
}

func TestCrossingGlyph(t *testing.T) {
	// A fork run from lane 0 to lane 2 crosses a carried edge on
	// lane 1: the pass degrades to the crossing glyph.
	row := graph.Row{
		ID:          strings.Repeat("e", 40),
		PrimaryLane: 0,
		Lanes: []graph.LaneSlot{
			{Kind: graph.SlotCommit},
			{Kind: graph.SlotPass, Link: 1, Color: 1},
			{Kind: graph.SlotFork, Link: 0, Color: 2},
		},
	}
	node := commitNode("e", "crossing", "x", "y")

	grid := NewGrid(60, 1)
	testRenderer(ProfileUnicode).RenderRow(grid, 0, row, node, 3)

	assert.True(t, strings.HasPrefix(grid.Line(0), "◉─┼─╮"), "crossing row: %q", grid.Line(0))
}

func TestCJKMessageTruncationByDisplayWidth(t *testing.T) {
	dag, rows := buildRows(t, nil,
		commitNode("a", "修复渲染器中的宽度计算错误并添加测试用例"),
	)

	const width = 30
	grid := renderAll(NewRenderer(styles.CatppuccinMocha(), RendererConfig{
		Profile:  ProfileUnicode,
		CJKAware: true,
	}), dag, rows, width)

	line := grid.Line(0)
	assert.LessOrEqual(t, runewidth.StringWidth(line), width,
		"row must not exceed the buffer width: %q", line)
	assert.Contains(t, line, "修")
}

func TestEmojiMessageStaysInsideWidth(t *testing.T) {
	dag, rows := buildRows(t, nil,
		commitNode("a", "🎉🎉🎉 celebrate the release 🎉🎉🎉"),
	)

	const width = 24
	grid := renderAll(testRenderer(ProfileUnicode), dag, rows, width)
	assert.LessOrEqual(t, runewidth.StringWidth(grid.Line(0)), width)
}

func TestRenderCapacityMarksClipped(t *testing.T) {
	dag, rows := buildRows(t, nil,
		commitNode("f", "merge", "b", "c"),
		commitNode("b", "main", "a"),
		commitNode("c", "side", "a"),
		commitNode("a", "base"),
	)

	grid := NewGrid(6, len(rows))
	r := testRenderer(ProfileUnicode)
	clipped := false
	for i, row := range rows {
		if r.RenderRow(grid, i, row, dag.Node(row.ID), 2).Clipped {
			clipped = true
		}
	}
	assert.True(t, clipped)
}

func TestFallbackRow(t *testing.T) {
	grid := NewGrid(20, 1)
	testRenderer(ProfileUnicode).RenderFallback(grid, 0, strings.Repeat("a", 40))
	assert.Equal(t, "aaaaaaa ?", grid.Line(0))
}

func TestMonoBufferDropsColor(t *testing.T) {
	dag, rows := buildRows(t, nil, commitNode("a", "plain"))

	grid := NewMonoGrid(40, 1)
	testRenderer(ProfileASCII).RenderRow(grid, 0, rows[0], dag.Node(rows[0].ID), 1)

	for col := 0; col < 40; col++ {
		assert.Empty(t, grid.Cell(0, col).Style.Fg, "col %d carries color", col)
	}
}

func TestDeterministicRendering(t *testing.T) {
	build := func() string {
		dag, rows := buildRows(t, nil,
			commitNode("f", "merge", "b", "c"),
			commitNode("b", "main", "a"),
			commitNode("c", "side", "a"),
			commitNode("a", "base"),
		)
		return renderAll(testRenderer(ProfileUnicode), dag, rows, 60).String()
	}
	assert.Equal(t, build(), build())
}
