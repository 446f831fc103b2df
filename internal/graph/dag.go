package graph

import (
	"context"
	"io"
)

// CommitSource yields commits in reverse-chronological order. Next
// returns io.EOF when the walk is exhausted. The engine performs no
// I/O itself; adapters over a repository library implement this.
type CommitSource interface {
	Next() (*CommitNode, error)
}

// BuildOptions controls DAG ingestion.
type BuildOptions struct {
	// IngestLimit caps the number of commits read from the source.
	// Zero means unlimited.
	IngestLimit int
}

// Dag is the immutable in-memory commit graph plus its topological
// display order (tips first, ancestors later).
type Dag struct {
	nodes     map[string]*CommitNode
	topo      []string
	topoIndex map[string]int
	children  map[string][]string

	// Truncated is set when Build stopped early on cancellation.
	Truncated bool

	dangling int
}

// Stats summarizes the DAG shape.
type Stats struct {
	Total      int
	Edges      int
	Merges     int
	Roots      int
	Leaves     int
	HasOrphans bool
}

// Build ingests commits from source, up to opts.IngestLimit, and
// computes the topological order. The context is checked between
// commits; on cancellation a partial Dag is returned with Truncated
// set. A source failure surfaces as *SourceError; a cyclic input as
// ErrCorruptGraph.
func Build(ctx context.Context, source CommitSource, opts BuildOptions) (*Dag, error) {
	d := &Dag{
		nodes:     make(map[string]*CommitNode),
		topoIndex: make(map[string]int),
		children:  make(map[string][]string),
	}

	var order []string
	for {
		if opts.IngestLimit > 0 && len(order) >= opts.IngestLimit {
			break
		}
		select {
		case <-ctx.Done():
			d.Truncated = true
			return d.finish(order)
		default:
		}

		node, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &SourceError{Reason: err}
		}
		if _, dup := d.nodes[node.ID]; dup {
			continue
		}
		d.nodes[node.ID] = node
		order = append(order, node.ID)
	}

	return d.finish(order)
}

func (d *Dag) finish(order []string) (*Dag, error) {
	for _, id := range order {
		for _, p := range d.nodes[id].Parents {
			if _, ok := d.nodes[p]; ok {
				d.children[p] = append(d.children[p], id)
			} else {
				d.dangling++
			}
		}
	}

	if isLinearized(order, d.nodes) {
		d.topo = order
	} else {
		topo, err := kahnSort(order, d.nodes, d.children)
		if err != nil {
			return nil, err
		}
		d.topo = topo
	}

	for i, id := range d.topo {
		d.topoIndex[id] = i
	}
	return d, nil
}

// isLinearized reports whether order already satisfies the topo
// invariant: every present parent appears after its child. Typical for
// a git log walk, in which case the input order is preserved.
func isLinearized(order []string, nodes map[string]*CommitNode) bool {
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for i, id := range order {
		for _, p := range nodes[id].Parents {
			if j, ok := pos[p]; ok && j <= i {
				return false
			}
		}
	}
	return true
}

// kahnSort linearizes with children before parents. The queue is
// seeded and drained in input order so the result is deterministic.
func kahnSort(order []string, nodes map[string]*CommitNode, children map[string][]string) ([]string, error) {
	indeg := make(map[string]int, len(order))
	for _, id := range order {
		indeg[id] = 0
	}
	for _, id := range order {
		for _, p := range nodes[id].Parents {
			if _, ok := nodes[p]; ok {
				indeg[p]++
			}
		}
	}

	var queue []string
	for _, id := range order {
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}

	topo := make([]string, 0, len(order))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		topo = append(topo, id)
		for _, p := range nodes[id].Parents {
			if _, ok := nodes[p]; !ok {
				continue
			}
			indeg[p]--
			if indeg[p] == 0 {
				queue = append(queue, p)
			}
		}
	}

	if len(topo) != len(order) {
		return nil, ErrCorruptGraph
	}
	return topo, nil
}

// Len returns the number of commits in display order.
func (d *Dag) Len() int { return len(d.topo) }

// Topo returns the display order, tips first.
func (d *Dag) Topo() []string { return d.topo }

// Node returns the commit for id, or nil.
func (d *Dag) Node(id string) *CommitNode { return d.nodes[id] }

// NodeAt returns the commit at topo position i.
func (d *Dag) NodeAt(i int) *CommitNode { return d.nodes[d.topo[i]] }

// TopoIndex returns the position of id in the display order.
func (d *Dag) TopoIndex(id string) (int, bool) {
	i, ok := d.topoIndex[id]
	return i, ok
}

// ChildrenOf returns the ids of present commits that list id as a parent.
func (d *Dag) ChildrenOf(id string) []string { return d.children[id] }

// ParentsOf returns the parent ids of id that are present in the DAG.
// Dangling parents are omitted; they are virtual leaves.
func (d *Dag) ParentsOf(id string) []string {
	node := d.nodes[id]
	if node == nil {
		return nil
	}
	present := make([]string, 0, len(node.Parents))
	for _, p := range node.Parents {
		if _, ok := d.nodes[p]; ok {
			present = append(present, p)
		}
	}
	return present
}

// HasNode reports whether id was ingested.
func (d *Dag) HasNode(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// Stats computes summary statistics over the DAG.
func (d *Dag) Stats() Stats {
	s := Stats{Total: len(d.nodes)}
	for id, node := range d.nodes {
		s.Edges += len(node.Parents)
		if node.IsMerge() {
			s.Merges++
		}
		if node.IsRoot() {
			s.Roots++
		}
		if len(d.children[id]) == 0 {
			s.Leaves++
		}
	}
	s.HasOrphans = d.dangling > 0 || s.Roots > 1
	return s
}
