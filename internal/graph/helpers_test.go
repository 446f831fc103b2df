package graph

import (
	"context"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// sliceSource yields a fixed list of commits, newest first.
type sliceSource struct {
	nodes []*CommitNode
	pos   int
	err   error
}

func (s *sliceSource) Next() (*CommitNode, error) {
	if s.pos >= len(s.nodes) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	n := s.nodes[s.pos]
	s.pos++
	return n, nil
}

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func commit(id string, parents ...string) *CommitNode {
	return &CommitNode{
		ID:        id,
		Parents:   parents,
		Author:    "Alice",
		Message:   "commit " + id,
		Timestamp: testEpoch,
	}
}

func mustBuild(t *testing.T, nodes ...*CommitNode) *Dag {
	t.Helper()
	dag, err := Build(context.Background(), &sliceSource{nodes: nodes}, BuildOptions{})
	require.NoError(t, err)
	return dag
}

// walkRows drains the whole DAG through a row builder.
func walkRows(dag *Dag, opts AllocOptions) []Row {
	alloc := NewAllocator(dag, opts)
	builder := NewRowBuilder(dag, alloc, nil)
	rows := make([]Row, 0, dag.Len())
	for i := 0; i < dag.Len(); i++ {
		rows = append(rows, builder.Next())
	}
	return rows
}

// forkChain generates a synthetic history of n commits, newest first,
// with a short diamond opened every 10th row. Commit i's first parent
// is i+1; every 10th commit also merges i+5.
func forkChain(n int) []*CommitNode {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "c" + strconv.Itoa(i)
	}
	nodes := make([]*CommitNode, n)
	for i := 0; i < n; i++ {
		var parents []string
		if i+1 < n {
			parents = append(parents, ids[i+1])
		}
		if i%10 == 0 && i+5 < n {
			parents = append(parents, ids[i+5])
		}
		nodes[i] = &CommitNode{
			ID:        ids[i],
			Parents:   parents,
			Author:    "Bob",
			Message:   "change " + ids[i],
			Timestamp: testEpoch.Add(-time.Duration(i) * time.Minute),
		}
	}
	return nodes
}
