package graph

// AxisSide distinguishes an operator's input side from its output side when
// naming which wire an axis change touches.
type AxisSide int

const (
	// AxisInput identifies one of the operator's input outlets.
	AxisInput AxisSide = iota
	// AxisOutput identifies one of the operator's output slots.
	AxisOutput
)

// AxisIO names one specific axis on one specific input or output wire of a
// node: the wire (Side, Index) and the axis position within that wire's
// shape.
type AxisIO struct {
	Side  AxisSide
	Index int // input index (into Node.Inputs) or output slot
	Axis  int
}

// AxisOpKind enumerates the primitive axis-shape edits (spec.md §3,
// "Minimum set: Rm(axis)"). Add/Move/Reshape are admissible extensions; the
// core only requires Rm for correctness, so only Rm is implemented here —
// the others are declared for forward-compatibility of the AxisOp value but
// left unconstructed (no operator in this module emits them).
type AxisOpKind int

const (
	// AxisOpRm removes a length-1 axis.
	AxisOpRm AxisOpKind = iota
	// AxisOpAdd inserts a length-1 axis (extension, admissible but unused).
	AxisOpAdd
	// AxisOpMove relocates an axis (extension, admissible but unused).
	AxisOpMove
	// AxisOpReshape replaces contiguous axes with a reshaped run (extension, admissible but unused).
	AxisOpReshape
)

// AxisOp is a primitive axis-shape edit requested on a wire.
type AxisOp struct {
	Kind AxisOpKind
	Axis int
}

// Rm constructs an AxisOp that removes the length-1 axis at position axis.
func Rm(axis int) AxisOp {
	return AxisOp{Kind: AxisOpRm, Axis: axis}
}

// AxisInfo is evidence that an operator is transparent along a matching
// input/output axis pair: period P means the axis's elements group in
// blocks of P, and Disposable means the axis may be removed entirely if its
// dim evaluates to 1 (spec.md §3).
type AxisInfo struct {
	InputIndex  int
	InputAxis   int
	OutputSlot  int
	OutputAxis  int
	Period      int64
	Disposable  bool
}
