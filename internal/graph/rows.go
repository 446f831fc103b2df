package graph

// LaneKind enumerates what a lane holds at one row.
type LaneKind uint8

const (
	// SlotEmpty marks a lane with no content at this row.
	SlotEmpty LaneKind = iota
	// SlotPass is a vertical carry: the same edge above and below.
	SlotPass
	// SlotCommit is the row's commit on its primary lane.
	SlotCommit
	// SlotFork opens a new lane for an additional parent; Link is the
	// commit's primary lane the fork originates from.
	SlotFork
	// SlotMerge terminates an incoming edge at this row's commit;
	// Link is the primary lane it merges into.
	SlotMerge
	// SlotEnd is a commit whose lineage dies here: a root, or a commit
	// whose parents are all missing from the source.
	SlotEnd
)

// LaneSlot is one lane's content at one row. Color is the palette
// index carried by the underlying reservation.
type LaneSlot struct {
	Kind  LaneKind
	Link  int
	Color int
}

// ActiveEdge is a parent reservation crossing the bottom of a row.
// FromLane is where the edge sits on this row; ToLane is the lane that
// carries ParentID into future rows.
type ActiveEdge struct {
	FromLane int
	ToLane   int
	ParentID string
}

// Row is the layout of one commit: its lane, the slot vector, the
// edges exiting the bottom, and the decoration looked up for it.
type Row struct {
	ID          string
	Index       int
	PrimaryLane int
	CommitColor int
	IsMerge     bool
	Lanes       []LaneSlot
	Transitions []ActiveEdge
	Decoration  Decoration
	Decorated   bool
}

// Width returns the number of lanes the row spans.
func (r *Row) Width() int { return len(r.Lanes) }

// RowBuilder wraps an Allocator to produce Rows with transitions and
// decorations attached.
type RowBuilder struct {
	dag   *Dag
	alloc *Allocator
	decor Decorations
}

// NewRowBuilder returns a builder walking dag with alloc. decor may be
// nil.
func NewRowBuilder(dag *Dag, alloc *Allocator, decor Decorations) *RowBuilder {
	return &RowBuilder{dag: dag, alloc: alloc, decor: decor}
}

// Next builds the row for the allocator's current topo position.
func (b *RowBuilder) Next() Row {
	up := b.alloc.Step()
	node := b.dag.Node(up.id)

	row := Row{
		ID:          up.id,
		Index:       up.index,
		PrimaryLane: up.primary,
		CommitColor: up.commitColor,
		IsMerge:     node.IsMerge() || up.mergedIn >= 1,
		Lanes:       up.slots,
	}

	// The commit's own edges first, in parent order, then the carried
	// passes by ascending lane.
	row.Transitions = append(row.Transitions, up.parentEdges...)
	row.Transitions = append(row.Transitions, up.passEdges...)

	if dec, ok := b.decor.Lookup(up.id); ok {
		row.Decoration = dec
		row.Decorated = true
	}
	return row
}

// Index reports the next topo position to be built.
func (b *RowBuilder) Index() int { return b.alloc.Index() }
