package graph

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrCorruptGraph is returned by Build when the input contains a cycle.
// Cycles are a hard error; no heuristic breaking is attempted.
var ErrCorruptGraph = errors.New("graph: cycle detected in commit parentage")

// ErrChecksumMismatch is returned when a replayed checkpoint disagrees
// with a forward-walked allocator state. The viewport must be rebuilt.
var ErrChecksumMismatch = errors.New("graph: checkpoint checksum mismatch")

// SourceError wraps a commit-source failure surfaced during Build.
type SourceError struct {
	Reason error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("graph: commit source failed: %v", e.Reason)
}

func (e *SourceError) Unwrap() error { return e.Reason }

// OutOfBoundsError reports a JumpTo target beyond the topo order.
// Viewport state is unchanged when it is returned.
type OutOfBoundsError struct {
	Index int
	Total int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("graph: index %d out of bounds (total %d)", e.Index, e.Total)
}
