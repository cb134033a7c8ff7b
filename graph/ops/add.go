package ops

import (
	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/solver"
	"github.com/katalvlaran/tengraph/tensor"
)

// Add is the broadcasting elementwise-sum operator.
type Add struct{}

func (Add) Name() string { return "Add" }
func (Add) Info() string { return "elementwise broadcasting sum of two operands" }

func (Add) Declare(s *solver.Solver, inputs, outputs []*graph.FactVars) error {
	if len(inputs) != 2 || len(outputs) != 1 {
		return ErrWrongInputCount
	}

	return solver.Equals(inputs[0].Type, outputs[0].Type)
}

func (Add) InferTyped(inputs []graph.TypedFact) ([]graph.TypedFact, error) {
	if len(inputs) != 2 {
		return nil, ErrWrongInputCount
	}
	shape, err := dim.Broadcast(inputs[0].Shape, inputs[1].Shape)
	if err != nil {
		return nil, err
	}

	return []graph.TypedFact{{Type: inputs[0].Type, Shape: shape}}, nil
}

func (Add) Eval(_ *graph.OpState, inputs []graph.EvalValue) ([]graph.EvalValue, error) {
	if len(inputs) != 2 {
		return nil, ErrWrongInputCount
	}
	a, b := inputs[0].Tensor, inputs[1].Tensor
	shape, err := dim.Broadcast(a.Shape(), b.Shape())
	if err != nil {
		return nil, err
	}
	dims, err := shape.Eval(nil)
	if err != nil {
		return nil, err
	}
	aDims, err := broadcastDimsTo(a.Shape(), len(dims))
	if err != nil {
		return nil, err
	}
	bDims, err := broadcastDimsTo(b.Shape(), len(dims))
	if err != nil {
		return nil, err
	}

	total := 1
	for _, d := range dims {
		total *= int(d)
	}
	out := make([]float64, total)
	idx := make([]int, len(dims))
	for i := 0; i < total; i++ {
		out[i] = a.Data()[flatIndex(idx, aDims)] + b.Data()[flatIndex(idx, bDims)]
		incIndex(idx, dims)
	}

	ts, err := tensor.New(a.DatumType(), shape, out)
	if err != nil {
		return nil, err
	}

	return []graph.EvalValue{{Tensor: ts}}, nil
}

// broadcastDimsTo left-pads shape's evaluated dims with 1s to targetRank.
func broadcastDimsTo(shape dim.Shape, targetRank int) ([]int64, error) {
	dims, err := shape.Eval(nil)
	if err != nil {
		return nil, err
	}
	if len(dims) == targetRank {
		return dims, nil
	}
	out := make([]int64, targetRank)
	for i := 0; i < targetRank-len(dims); i++ {
		out[i] = 1
	}
	copy(out[targetRank-len(dims):], dims)

	return out, nil
}

// flatIndex computes the flat offset into an operand whose own dims are
// operandDims, replicating (index 0) along any axis the operand broadcasts.
func flatIndex(idx []int, operandDims []int64) int {
	offset := 0
	for axis, d := range operandDims {
		use := idx[axis]
		if d == 1 {
			use = 0
		}
		offset = offset*int(d) + use
	}

	return offset
}

func incIndex(idx []int, dims []int64) {
	for axis := len(idx) - 1; axis >= 0; axis-- {
		idx[axis]++
		if idx[axis] < int(dims[axis]) {
			return
		}
		idx[axis] = 0
	}
}
