package ops

import (
	"fmt"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/solver"
	"github.com/katalvlaran/tengraph/tensor"
)

// declareUnaryPassthroughRank registers the common single-input operator
// constraints: the output's element type equals the input's, and the
// output's rank is the input's rank plus delta once the input's rank is
// known (spec.md §4.1's equals/given pattern, applied to the common case of
// an operator whose rank shift is statically known from its parameters).
func declareUnaryPassthroughRank(s *solver.Solver, inputs, outputs []*graph.FactVars, delta int) error {
	if len(inputs) != 1 || len(outputs) != 1 {
		return ErrWrongInputCount
	}
	if err := solver.Equals(inputs[0].Type, outputs[0].Type); err != nil {
		return err
	}
	solver.Given(s, inputs[0].Rank, func(r int) error {
		return outputs[0].Rank.Bind(r + delta)
	})

	return nil
}

// pulsedInputFact fetches the already-installed PulsedFact at outlet in of
// the target graph being built by a Pulsifier. Every Pulsifier call wires
// its node's inputs from the source graph's topological predecessors, which
// (by the driver's own topological walk) have already been pulsified and
// had their target Fact set — so a non-pulsed Fact at in means the caller
// wired the wrong outlet, not a legitimate streaming state.
func pulsedInputFact(target *graph.Model, in graph.Outlet) (graph.PulsedFact, error) {
	f, err := target.Fact(in)
	if err != nil {
		return graph.PulsedFact{}, err
	}
	pf, ok := f.(graph.PulsedFact)
	if !ok {
		return graph.PulsedFact{}, fmt.Errorf("%w: outlet %v is not pulsed", graph.ErrUnboundStreamVar, in)
	}

	return pf, nil
}

// axisSet turns an axis-index slice into a membership set.
func axisSet(axes []int) map[int]bool {
	set := make(map[int]bool, len(axes))
	for _, ax := range axes {
		set[ax] = true
	}

	return set
}

// axesLessThan counts how many entries of axes are strictly below axis —
// used to convert an output-side (AddDims) or outer-side (RmDims) axis
// index into the corresponding index on the narrower side of the shape
// change, per spec.md §4.3's worked AddDims/RmDims examples.
func axesLessThan(axes []int, axis int) int {
	n := 0
	for _, ax := range axes {
		if ax < axis {
			n++
		}
	}

	return n
}

// dropAndShiftAxes removes axis from axes and shifts every remaining entry
// greater than axis down by one, reflecting that the shape on this side
// just lost one axis at position axis (spec.md §4.3's "absorb" case: remove
// the matching axis from the set and shift the rest down by the count of
// removed entries below it).
func dropAndShiftAxes(axes []int, axis int) []int {
	out := make([]int, 0, len(axes))
	for _, ax := range axes {
		switch {
		case ax == axis:
			continue
		case ax > axis:
			out = append(out, ax-1)
		default:
			out = append(out, ax)
		}
	}

	return out
}

// sliceAlongAxis extracts the contiguous [start, start+length) slice of t
// along axis, keeping every other axis whole — used to split a constant
// matmul operand into per-concat-slice chunks (spec.md §4.2's
// Concat/MatMulUnary declutter rule).
func sliceAlongAxis(t *tensor.Tensor, axis, start, length int) (*tensor.Tensor, error) {
	dims, err := t.Shape().Eval(nil)
	if err != nil {
		return nil, err
	}
	outer, inner := 1, 1
	for a := 0; a < axis; a++ {
		outer *= int(dims[a])
	}
	for a := axis + 1; a < len(dims); a++ {
		inner *= int(dims[a])
	}
	axisLen := int(dims[axis])
	src := t.Data()
	out := make([]float64, outer*length*inner)
	for o := 0; o < outer; o++ {
		srcOff := (o*axisLen + start) * inner
		dstOff := o * length * inner
		copy(out[dstOff:dstOff+length*inner], src[srcOff:srcOff+length*inner])
	}
	newDims := make([]dim.Dim, len(dims))
	for a, d := range dims {
		if a == axis {
			newDims[a] = dim.Const(int64(length))
		} else {
			newDims[a] = dim.Const(d)
		}
	}

	return tensor.New(t.DatumType(), dim.NewShape(newDims...), out)
}

// removeTensorAxis drops a length-1 axis from t's shape, leaving its data
// untouched since a length-1 axis contributes no stride — used when an
// absorbed axis change also needs to shrink a constant matmul operand
// (spec.md §4.3's MatMulUnary worked example).
func removeTensorAxis(t *tensor.Tensor, axis int) (*tensor.Tensor, error) {
	return tensor.New(t.DatumType(), dim.RemoveAt(t.Shape(), axis), t.Data())
}

// shiftAxesAbove decrements every entry of axes that sits above axis,
// leaving axis itself (which is not a member of axes in this branch) and
// everything below it untouched — the "propagate" case's bookkeeping.
func shiftAxesAbove(axes []int, axis int) []int {
	out := make([]int, len(axes))
	for i, ax := range axes {
		if ax > axis {
			out[i] = ax - 1
		} else {
			out[i] = ax
		}
	}

	return out
}
