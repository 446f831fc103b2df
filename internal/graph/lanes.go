package graph

import (
	"hash/fnv"
	"sort"
	"strconv"
)

// Allocator assigns lanes to commits and carries in-flight parent
// edges between rows. Between rows its state is the active vector:
// entry k is the parent id reserved to travel down lane k, or "" when
// the lane is free. Lane colors travel with the reservation so an edge
// keeps its hue through lane reuse.
//
// The per-row update follows a fixed order: locate the commit lane,
// collapse merges, place the commit, assign parents (first parent
// inherits the lane), carry untouched reservations through as passes,
// then trim trailing free lanes. All tie-breaks pick the smallest
// index, so layout is deterministic for identical input.
type Allocator struct {
	dag     *Dag
	palette int

	active    []string
	colors    []int
	nextColor int

	// privileged holds branch-tip ids that must land on lane 0.
	// While any is still pending, lane 0 is withheld from ordinary
	// allocation so the tip finds it free when its row arrives.
	privileged  map[string]bool
	pendingPriv int

	index    int
	maxWidth int
}

// AllocOptions configures an Allocator.
type AllocOptions struct {
	// LaneColors is the palette size used to rotate edge colors.
	// Values below 6 are raised to 6.
	LaneColors int
	// PrivilegedTips are commit ids (branch tips resolved by a
	// decoration pre-scan) forced onto lane 0.
	PrivilegedTips []string
}

// NewAllocator returns an allocator positioned before topo[0].
func NewAllocator(dag *Dag, opts AllocOptions) *Allocator {
	palette := opts.LaneColors
	if palette < 6 {
		palette = 6
	}
	priv := make(map[string]bool, len(opts.PrivilegedTips))
	for _, id := range opts.PrivilegedTips {
		if dag.HasNode(id) {
			priv[id] = true
		}
	}
	return &Allocator{
		dag:         dag,
		palette:     palette,
		privileged:  priv,
		pendingPriv: len(priv),
	}
}

// laneUpdate is the outcome of one Step, consumed by the row builder.
type laneUpdate struct {
	index       int
	id          string
	primary     int
	commitColor int
	slots       []LaneSlot
	// parentEdges are the commit's own outgoing edges, in parent
	// order: the primary-lane continuation, then forks and reuses.
	parentEdges []ActiveEdge
	// passEdges carry reservations untouched by this commit.
	passEdges []ActiveEdge
	mergedIn  int
}

// Index returns the topo position the allocator will process next.
func (a *Allocator) Index() int { return a.index }

// Width returns the current active vector length.
func (a *Allocator) Width() int { return len(a.active) }

// MaxWidth returns the widest the active vector has been.
func (a *Allocator) MaxWidth() int { return a.maxWidth }

// Step processes the next commit in topo order and advances the
// allocator by one row.
func (a *Allocator) Step() laneUpdate {
	id := a.dag.topo[a.index]
	up := laneUpdate{index: a.index, id: id, primary: -1}

	// Locate the commit lane: leftmost reservation for this id wins.
	for k, res := range a.active {
		if res == id {
			up.primary = k
			break
		}
	}

	fresh := up.primary < 0
	if fresh {
		if a.privileged[id] && a.laneFree(0) {
			up.primary = 0
		} else {
			up.primary = a.leftmostFree()
		}
		a.extendTo(up.primary)
		a.active[up.primary] = id
		a.colors[up.primary] = a.allocColor()
	}
	if a.privileged[id] {
		delete(a.privileged, id)
		a.pendingPriv--
	}

	width := len(a.active)
	up.slots = make([]LaneSlot, width)
	up.commitColor = a.colors[up.primary]

	// Collapse merges: every other lane reserving this id terminates
	// here and frees.
	for k := 0; k < width; k++ {
		if k != up.primary && a.active[k] == id {
			up.slots[k] = LaneSlot{Kind: SlotMerge, Link: up.primary, Color: a.colors[k]}
			a.active[k] = ""
			a.colors[k] = -1
			up.mergedIn++
		}
	}

	up.slots[up.primary] = LaneSlot{Kind: SlotCommit, Link: up.primary, Color: up.commitColor}

	// Assign parents. Missing parents are virtual leaves: they die on
	// this row and contribute no edge. The first present parent
	// inherits the primary lane so linear history stays in one column.
	parents := a.dag.ParentsOf(id)
	if len(parents) == 0 {
		up.slots[up.primary].Kind = SlotEnd
		a.active[up.primary] = ""
		a.colors[up.primary] = -1
	} else {
		a.active[up.primary] = parents[0]
		up.parentEdges = append(up.parentEdges, ActiveEdge{
			FromLane: up.primary, ToLane: up.primary, ParentID: parents[0],
		})
		for _, p := range parents[1:] {
			if j := a.laneOf(p); j >= 0 {
				// Reservation already carries this parent; the edge
				// joins it and becomes a merge where the parent lives.
				up.parentEdges = append(up.parentEdges, ActiveEdge{
					FromLane: up.primary, ToLane: j, ParentID: p,
				})
				continue
			}
			j := a.leftmostFree()
			a.extendTo(j)
			a.active[j] = p
			a.colors[j] = a.allocColor()
			if j >= len(up.slots) {
				up.slots = append(up.slots, make([]LaneSlot, j+1-len(up.slots))...)
			}
			up.slots[j] = LaneSlot{Kind: SlotFork, Link: up.primary, Color: a.colors[j]}
			up.parentEdges = append(up.parentEdges, ActiveEdge{
				FromLane: up.primary, ToLane: j, ParentID: p,
			})
		}
	}

	// Carry untouched reservations through as vertical passes.
	for k := range a.active {
		if a.active[k] == "" || k == up.primary {
			continue
		}
		if k < len(up.slots) && up.slots[k].Kind == SlotEmpty {
			up.slots[k] = LaneSlot{Kind: SlotPass, Link: k, Color: a.colors[k]}
			up.passEdges = append(up.passEdges, ActiveEdge{
				FromLane: k, ToLane: k, ParentID: a.active[k],
			})
		} else if k >= len(up.slots) {
			up.slots = append(up.slots, make([]LaneSlot, k+1-len(up.slots))...)
			up.slots[k] = LaneSlot{Kind: SlotPass, Link: k, Color: a.colors[k]}
			up.passEdges = append(up.passEdges, ActiveEdge{
				FromLane: k, ToLane: k, ParentID: a.active[k],
			})
		}
	}

	if len(a.active) > a.maxWidth {
		a.maxWidth = len(a.active)
	}
	a.trim()
	a.index++
	return up
}

func (a *Allocator) laneFree(k int) bool {
	return k >= len(a.active) || a.active[k] == ""
}

func (a *Allocator) laneOf(id string) int {
	for k, res := range a.active {
		if res == id {
			return k
		}
	}
	return -1
}

// leftmostFree finds the smallest free index, withholding lane 0 while
// a privileged tip is still pending.
func (a *Allocator) leftmostFree() int {
	start := 0
	if a.pendingPriv > 0 {
		start = 1
	}
	for k := start; k < len(a.active); k++ {
		if a.active[k] == "" {
			return k
		}
	}
	if len(a.active) < start {
		return start
	}
	return len(a.active)
}

func (a *Allocator) extendTo(k int) {
	for len(a.active) <= k {
		a.active = append(a.active, "")
		a.colors = append(a.colors, -1)
	}
}

func (a *Allocator) allocColor() int {
	c := a.nextColor
	a.nextColor = (a.nextColor + 1) % a.palette
	return c
}

// trim drops trailing free lanes. Mid-vector compaction is never done;
// a lane is never renamed while an edge passes through it.
func (a *Allocator) trim() {
	last := -1
	for k := len(a.active) - 1; k >= 0; k-- {
		if a.active[k] != "" {
			last = k
			break
		}
	}
	a.active = a.active[:last+1]
	a.colors = a.colors[:last+1]
}

// Snapshot captures the allocator state before topo[Index] with value
// semantics, suitable for viewport carry-over and checkpoints.
type Snapshot struct {
	Index     int
	Active    []string
	Colors    []int
	NextColor int
	Pending   []string
	MaxWidth  int
	Checksum  uint64
}

// Snapshot returns a copy of the current state.
func (a *Allocator) Snapshot() Snapshot {
	s := Snapshot{
		Index:     a.index,
		Active:    append([]string(nil), a.active...),
		Colors:    append([]int(nil), a.colors...),
		NextColor: a.nextColor,
		MaxWidth:  a.maxWidth,
	}
	for id := range a.privileged {
		s.Pending = append(s.Pending, id)
	}
	sort.Strings(s.Pending)
	s.Checksum = s.checksum()
	return s
}

// Restore rewinds or fast-forwards the allocator to a snapshot. It
// verifies the snapshot checksum and returns ErrChecksumMismatch on
// disagreement, leaving the allocator unchanged.
func (a *Allocator) Restore(s Snapshot) error {
	if s.checksum() != s.Checksum {
		return ErrChecksumMismatch
	}
	a.index = s.Index
	a.active = append([]string(nil), s.Active...)
	a.colors = append([]int(nil), s.Colors...)
	a.nextColor = s.NextColor
	a.maxWidth = s.MaxWidth
	a.privileged = make(map[string]bool, len(s.Pending))
	for _, id := range s.Pending {
		a.privileged[id] = true
	}
	a.pendingPriv = len(s.Pending)
	return nil
}

func (s *Snapshot) checksum() uint64 {
	h := fnv.New64a()
	h.Write([]byte(strconv.Itoa(s.Index)))
	for k, id := range s.Active {
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(k)))
		h.Write([]byte(id))
		h.Write([]byte(strconv.Itoa(s.Colors[k])))
	}
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(s.NextColor)))
	for _, id := range s.Pending {
		h.Write([]byte{0})
		h.Write([]byte(id))
	}
	return h.Sum64()
}
