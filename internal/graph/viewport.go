package graph

import "sort"

// Viewport drives windowed rendering. It owns the carry-over allocator
// state crossing the window's top boundary and a sparse checkpoint
// table used to rewind, so a frame costs O(height x width) regardless
// of history length.
//
// Invariant: 0 <= top <= cursor < top+height <= max(Len, height)
// (a history shorter than the window keeps top at 0), and carryIn is
// the exact allocator state just before topo[top] - never an
// approximation. The allocator is not reversible (lane reuse loses
// information), so scroll-up restores the nearest checkpoint at or
// before the target and replays forward. Frames are byte-identical
// whether a position was reached by sequential scrolling or by
// checkpoint rewind.
type Viewport struct {
	dag       *Dag
	decor     Decorations
	allocOpts AllocOptions

	height   int
	top      int
	cursor   int
	interval int

	carryIn     Snapshot
	checkpoints []Snapshot

	replay *Allocator
}

// ViewportOptions configures a Viewport.
type ViewportOptions struct {
	// Height is the number of commit rows the window displays.
	Height int
	// CheckpointInterval is the row spacing between allocator
	// snapshots. Zero selects the default of 128.
	CheckpointInterval int
}

// DefaultCheckpointInterval bounds rewind cost to O(interval + delta).
const DefaultCheckpointInterval = 128

// NewViewport creates a viewport over dag positioned at the top.
func NewViewport(dag *Dag, decor Decorations, allocOpts AllocOptions, opts ViewportOptions) *Viewport {
	interval := opts.CheckpointInterval
	if interval <= 0 {
		interval = DefaultCheckpointInterval
	}
	height := opts.Height
	if height < 1 {
		height = 1
	}
	v := &Viewport{
		dag:       dag,
		decor:     decor,
		allocOpts: allocOpts,
		height:    height,
		interval:  interval,
		replay:    NewAllocator(dag, allocOpts),
	}
	v.carryIn = v.replay.Snapshot()
	v.checkpoints = []Snapshot{v.carryIn}
	return v
}

// Top returns the topo index of the first visible row.
func (v *Viewport) Top() int { return v.top }

// Cursor returns the topo index of the selected row.
func (v *Viewport) Cursor() int { return v.cursor }

// Height returns the window height in commit rows.
func (v *Viewport) Height() int { return v.height }

// Total returns the number of commit rows in the history.
func (v *Viewport) Total() int { return v.dag.Len() }

// CarryIn returns the allocator state crossing the top boundary.
// Its Active entries are the edges that must render as if a Pass
// existed above the first visible row.
func (v *Viewport) CarryIn() Snapshot { return v.carryIn }

// Progress returns the cursor position as a fraction in [0, 1].
func (v *Viewport) Progress() float64 {
	if v.dag.Len() == 0 {
		return 0
	}
	return float64(v.cursor) / float64(v.dag.Len())
}

// Rows replays the allocator from the carry-in state and returns the
// visible rows, at most Height of them.
func (v *Viewport) Rows() []Row {
	if err := v.replay.Restore(v.carryIn); err != nil {
		// carryIn is produced by Snapshot and never mutated, so a
		// mismatch here means memory corruption; surface nothing.
		return nil
	}
	builder := NewRowBuilder(v.dag, v.replay, v.decor)
	n := v.height
	if rest := v.dag.Len() - v.top; rest < n {
		n = rest
	}
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, builder.Next())
	}
	return rows
}

// MoveCursor shifts the selection, scrolling when it leaves the window.
func (v *Viewport) MoveCursor(delta int) {
	if v.dag.Len() == 0 {
		return
	}
	v.cursor = clamp(v.cursor+delta, 0, v.dag.Len()-1)
	v.followCursor()
}

// Scroll adjusts the window top by delta rows, keeping the cursor
// inside the window. Scrolling down advances the carry-in state by
// running the allocator forward; scrolling up rewinds via checkpoints.
func (v *Viewport) Scroll(delta int) {
	if v.dag.Len() == 0 {
		return
	}
	v.setTop(v.top + delta)
	v.cursor = clamp(v.cursor, v.top, v.top+v.height-1)
	v.cursor = clamp(v.cursor, 0, v.dag.Len()-1)
}

// PageDown scrolls a full window forward.
func (v *Viewport) PageDown() { v.Scroll(v.height) }

// PageUp scrolls a full window back.
func (v *Viewport) PageUp() { v.Scroll(-v.height) }

// HalfPageDown scrolls half a window forward.
func (v *Viewport) HalfPageDown() { v.Scroll(maxInt(v.height/2, 1)) }

// HalfPageUp scrolls half a window back.
func (v *Viewport) HalfPageUp() { v.Scroll(-maxInt(v.height/2, 1)) }

// JumpTo seeks the cursor to an arbitrary topo index and centers the
// window on it. On a bad index it returns *OutOfBoundsError and leaves
// the viewport unchanged.
func (v *Viewport) JumpTo(index int) error {
	if index < 0 || index >= v.dag.Len() {
		return &OutOfBoundsError{Index: index, Total: v.dag.Len()}
	}
	v.cursor = index
	v.Recenter()
	return nil
}

// JumpToTop moves cursor and window to the first row.
func (v *Viewport) JumpToTop() {
	v.cursor = 0
	v.setTop(0)
}

// JumpToBottom moves cursor and window to the last row.
func (v *Viewport) JumpToBottom() {
	if v.dag.Len() == 0 {
		return
	}
	v.cursor = v.dag.Len() - 1
	v.setTop(v.dag.Len() - v.height)
}

// Recenter scrolls so the cursor sits in the middle of the window.
func (v *Viewport) Recenter() {
	v.setTop(v.cursor - v.height/2)
}

// SetHeight resizes the window, preserving the invariants.
func (v *Viewport) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	v.height = height
	v.setTop(v.top)
	v.followCursor()
}

func (v *Viewport) followCursor() {
	if v.cursor < v.top {
		v.setTop(v.cursor)
	} else if v.cursor >= v.top+v.height {
		v.setTop(v.cursor - v.height + 1)
	}
}

// setTop clamps and applies a new top index, updating carryIn.
func (v *Viewport) setTop(top int) {
	top = clamp(top, 0, maxInt(v.dag.Len()-v.height, 0))
	if top == v.top && v.carryIn.Index == top {
		return
	}
	if top >= v.carryIn.Index {
		v.carryIn = v.advance(v.carryIn, top)
	} else {
		v.carryIn = v.advance(v.nearestCheckpoint(top), top)
	}
	v.top = top
}

// advance replays the allocator from snapshot s to the target index,
// recording checkpoints as interval boundaries are crossed.
func (v *Viewport) advance(s Snapshot, target int) Snapshot {
	if s.Index == target {
		return s
	}
	if err := v.replay.Restore(s); err != nil {
		return s
	}
	for v.replay.Index() < target {
		v.replay.Step()
		if idx := v.replay.Index(); idx%v.interval == 0 && idx == len(v.checkpoints)*v.interval {
			v.checkpoints = append(v.checkpoints, v.replay.Snapshot())
		}
	}
	return v.replay.Snapshot()
}

// nearestCheckpoint returns the recorded snapshot with the greatest
// index not beyond target. Index 0 is always recorded.
func (v *Viewport) nearestCheckpoint(target int) Snapshot {
	i := sort.Search(len(v.checkpoints), func(i int) bool {
		return v.checkpoints[i].Index > target
	})
	return v.checkpoints[i-1]
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
