package graph

import (
	"sync"

	"github.com/katalvlaran/tengraph/tensor"
)

// NodeID uniquely identifies a Node within a Model. IDs are assigned in
// strictly increasing order as nodes are added and are never reused or
// renumbered, even across Patches (spec.md §5, "Ordering guarantees").
type NodeID int

// Outlet addresses one output slot of one node: (node_id, slot_index)
// (spec.md §3).
type Outlet struct {
	Node NodeID
	Slot int
}

// Node is (a unique id, a name, an operator, an input outlet list, an
// output fact list) (spec.md §3).
type Node struct {
	ID      NodeID
	Name    string
	Op      Operator
	Inputs  []Outlet
	Outputs []Fact // one per output slot
}

// EvalValue is the concrete runtime value carried on one outlet during
// evaluation: a tensor plus, for pulsed graphs, the pulse index it
// represents (evaluators that are not pulse-aware ignore PulseIndex).
type EvalValue struct {
	Tensor     *tensor.Tensor
	PulseIndex int64
}

// OpState is per-session mutable storage a stateful Evaluator may populate
// on first use (spec.md §6). It is keyed by node id so state from different
// nodes of the same operator type never collides, and guarded by a mutex
// since a session's OpState may be touched by concurrent housekeeping code
// even though graph evaluation itself runs on one thread (spec.md §5).
type OpState struct {
	mu   sync.Mutex
	data map[NodeID]any
}

// NewOpState returns an empty per-session state store.
func NewOpState() *OpState {
	return &OpState{data: make(map[NodeID]any)}
}

// Get returns the stored state for id and whether it was present.
func (s *OpState) Get(id NodeID) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[id]

	return v, ok
}

// Set stores state for id, overwriting any previous value.
func (s *OpState) Set(id NodeID, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = v
}

// PulseContext carries the information a Pulsifier needs beyond the raw
// source/target models: the designated time axis in the source graph and
// the chosen fixed pulse width (spec.md §4.5).
type PulseContext struct {
	Source      *Model
	Target      *Model
	TimeAxis    int
	PulseWidth  int64
}
