// Package optimize implements the passes that sit between a freshly-built
// graph.Model and its evaluation: typed-fact inference (InferTypes),
// declutter (algebraic simplification to a fixed point), axis-change
// propagation (pushing an AxisOp through neighbouring nodes), pulsification
// (building a streaming copy of the model), and codegen lowering
// (fusing/packing nodes for the evaluation backend) (spec.md §4.2–§4.5).
package optimize

import "errors"

// ErrAxisChangeStalled indicates axis-change propagation could not reach a
// fixed point: its step budget of 10 × (node count + 1) ran out while
// requests were still pending. A refusal is not an error.
var ErrAxisChangeStalled = errors.New("optimize: axis-change propagation stalled")
