package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViewport(t *testing.T, n, height, interval int) *Viewport {
	t.Helper()
	dag := mustBuild(t, forkChain(n)...)
	return NewViewport(dag, nil, AllocOptions{}, ViewportOptions{
		Height:             height,
		CheckpointInterval: interval,
	})
}

func TestViewportInvariantsHold(t *testing.T) {
	vp := newTestViewport(t, 200, 20, 64)

	check := func() {
		assert.GreaterOrEqual(t, vp.Top(), 0)
		assert.GreaterOrEqual(t, vp.Cursor(), vp.Top())
		assert.Less(t, vp.Cursor(), vp.Top()+vp.Height())
		assert.LessOrEqual(t, vp.Top()+vp.Height(), maxInt(vp.Total(), vp.Height()))
		assert.Equal(t, vp.Top(), vp.CarryIn().Index)
	}

	check()
	vp.MoveCursor(35)
	check()
	vp.PageDown()
	check()
	vp.HalfPageUp()
	check()
	require.NoError(t, vp.JumpTo(150))
	check()
	vp.JumpToBottom()
	check()
	vp.JumpToTop()
	check()
	vp.Recenter()
	check()
}

func TestRowsReturnsWindowOnly(t *testing.T) {
	vp := newTestViewport(t, 100, 15, 32)

	rows := vp.Rows()
	require.Len(t, rows, 15)
	assert.Equal(t, 0, rows[0].Index)

	vp.Scroll(40)
	rows = vp.Rows()
	require.Len(t, rows, 15)
	assert.Equal(t, 40, rows[0].Index)
}

func TestScrollReplayEquivalence(t *testing.T) {
	const n = 500
	for _, target := range []int{0, 19, 64, 100, 479} {
		seq := newTestViewport(t, n, 20, 64)
		for i := 0; i < target; i++ {
			seq.Scroll(1)
		}

		jumped := newTestViewport(t, n, 20, 64)
		// Land far away first so reaching the target exercises the
		// checkpoint rewind path.
		jumped.Scroll(n)
		jumped.Scroll(target - jumped.Top())

		require.Equal(t, target, seq.Top())
		require.Equal(t, target, jumped.Top())

		if diff := cmp.Diff(seq.CarryIn(), jumped.CarryIn()); diff != "" {
			t.Fatalf("carry-in diverged at top=%d (-seq +jumped):\n%s", target, diff)
		}
		if diff := cmp.Diff(seq.Rows(), jumped.Rows()); diff != "" {
			t.Fatalf("rows diverged at top=%d (-seq +jumped):\n%s", target, diff)
		}
	}
}

func TestCarryInMatchesForwardWalk(t *testing.T) {
	vp := newTestViewport(t, 300, 10, 32)
	vp.Scroll(123)

	alloc := NewAllocator(vp.dag, AllocOptions{})
	for i := 0; i < 123; i++ {
		alloc.Step()
	}

	if diff := cmp.Diff(alloc.Snapshot(), vp.CarryIn()); diff != "" {
		t.Fatalf("carry-in is not the true allocator state:\n%s", diff)
	}
}

func TestCarryInEdgesRenderAsPasses(t *testing.T) {
	// Scroll into the middle of a diamond: the edge crossing the top
	// boundary must surface as a Pass (or its terminating merge) in
	// the first visible row.
	vp := newTestViewport(t, 100, 10, 32)
	vp.Scroll(12) // row 10 opened a fork spanning rows 10..15

	carry := vp.CarryIn()
	rows := vp.Rows()
	require.NotEmpty(t, rows)
	for k, res := range carry.Active {
		if res == "" {
			continue
		}
		require.Less(t, k, rows[0].Width())
		kind := rows[0].Lanes[k].Kind
		assert.Contains(t, []LaneKind{SlotPass, SlotCommit, SlotMerge, SlotEnd}, kind,
			"carried edge in lane %d missing from first visible row", k)
	}
}

func TestJumpToOutOfBounds(t *testing.T) {
	vp := newTestViewport(t, 50, 10, 16)
	vp.MoveCursor(7)
	topBefore, cursorBefore := vp.Top(), vp.Cursor()

	err := vp.JumpTo(50)
	require.Error(t, err)
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, 50, oob.Index)

	assert.Equal(t, topBefore, vp.Top())
	assert.Equal(t, cursorBefore, vp.Cursor())

	require.Error(t, vp.JumpTo(-1))
}

func TestMoveCursorScrollsWindow(t *testing.T) {
	vp := newTestViewport(t, 100, 10, 32)

	for i := 0; i < 25; i++ {
		vp.MoveCursor(1)
	}
	assert.Equal(t, 25, vp.Cursor())
	assert.Equal(t, 16, vp.Top())

	vp.MoveCursor(-20)
	assert.Equal(t, 5, vp.Cursor())
	assert.Equal(t, 5, vp.Top())
}

func TestRecenterPlacesCursorMidWindow(t *testing.T) {
	vp := newTestViewport(t, 200, 21, 64)
	require.NoError(t, vp.JumpTo(100))
	assert.Equal(t, 100, vp.Cursor())
	assert.Equal(t, 90, vp.Top())
}

func TestSmallHistoryFitsWindow(t *testing.T) {
	vp := newTestViewport(t, 5, 20, 16)

	rows := vp.Rows()
	assert.Len(t, rows, 5)

	vp.PageDown()
	assert.Equal(t, 0, vp.Top())
	vp.JumpToBottom()
	assert.Equal(t, 0, vp.Top())
	assert.Equal(t, 4, vp.Cursor())
}

func TestSetHeightKeepsCursorVisible(t *testing.T) {
	vp := newTestViewport(t, 100, 30, 32)
	require.NoError(t, vp.JumpTo(60))

	vp.SetHeight(10)
	assert.GreaterOrEqual(t, vp.Cursor(), vp.Top())
	assert.Less(t, vp.Cursor(), vp.Top()+vp.Height())
	assert.Equal(t, vp.Top(), vp.CarryIn().Index)
}
