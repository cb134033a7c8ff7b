package ops

import (
	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/solver"
	"github.com/katalvlaran/tengraph/tensor"
)

// Concat joins its inputs along Axis. All inputs must share every other
// axis's dim.
type Concat struct {
	Axis int
}

func (Concat) Name() string { return "Concat" }
func (Concat) Info() string { return "joins inputs along one axis" }

func (c Concat) Declare(s *solver.Solver, inputs, outputs []*graph.FactVars) error {
	if len(inputs) == 0 || len(outputs) != 1 {
		return ErrConcatEmpty
	}
	for i := 1; i < len(inputs); i++ {
		if err := solver.Equals(inputs[0].Type, inputs[i].Type); err != nil {
			return err
		}
	}

	return solver.Equals(inputs[0].Type, outputs[0].Type)
}

func (c Concat) InferTyped(inputs []graph.TypedFact) ([]graph.TypedFact, error) {
	if len(inputs) == 0 {
		return nil, ErrConcatEmpty
	}
	rank := inputs[0].Shape.Rank()
	if c.Axis < 0 || c.Axis >= rank {
		return nil, ErrAxisOutOfRange
	}
	total := inputs[0].Shape.Dim(c.Axis)
	for i := 1; i < len(inputs); i++ {
		sh := inputs[i].Shape
		if sh.Rank() != rank {
			return nil, ErrConcatAxisMismatch
		}
		for axis := 0; axis < rank; axis++ {
			if axis == c.Axis {
				continue
			}
			if !sh.Dim(axis).Equal(inputs[0].Shape.Dim(axis)) {
				return nil, ErrConcatAxisMismatch
			}
		}
		total = dim.Add(total, sh.Dim(c.Axis))
	}
	dims := inputs[0].Shape.Dims()
	dims[c.Axis] = total

	return []graph.TypedFact{{Type: inputs[0].Type, Shape: dim.NewShape(dims...)}}, nil
}

func (c Concat) Eval(_ *graph.OpState, inputs []graph.EvalValue) ([]graph.EvalValue, error) {
	if len(inputs) == 0 {
		return nil, ErrConcatEmpty
	}
	tensors := make([]*tensor.Tensor, len(inputs))
	for i, v := range inputs {
		tensors[i] = v.Tensor
	}
	rank := tensors[0].Shape().Rank()
	if c.Axis < 0 || c.Axis >= rank {
		return nil, ErrAxisOutOfRange
	}

	outer, inner := 1, 1
	dims, err := tensors[0].Shape().Eval(nil)
	if err != nil {
		return nil, err
	}
	for axis := 0; axis < c.Axis; axis++ {
		outer *= int(dims[axis])
	}
	for axis := c.Axis + 1; axis < rank; axis++ {
		inner *= int(dims[axis])
	}

	axisSizes := make([]int, len(tensors))
	totalAxis := 0
	for i, t := range tensors {
		td, err := t.Shape().Eval(nil)
		if err != nil {
			return nil, err
		}
		axisSizes[i] = int(td[c.Axis])
		totalAxis += axisSizes[i]
	}

	out := make([]float64, outer*totalAxis*inner)
	for o := 0; o < outer; o++ {
		writeOffset := o * totalAxis * inner
		for i, t := range tensors {
			chunk := axisSizes[i] * inner
			readOffset := o * chunk
			copy(out[writeOffset:writeOffset+chunk], t.Data()[readOffset:readOffset+chunk])
			writeOffset += chunk
		}
	}

	dims[c.Axis] = int64(totalAxis)
	shapeDims := make([]dim.Dim, len(dims))
	for i, d := range dims {
		shapeDims[i] = dim.Const(d)
	}
	ts, err := tensor.New(tensors[0].DatumType(), dim.NewShape(shapeDims...), out)
	if err != nil {
		return nil, err
	}

	return []graph.EvalValue{{Tensor: ts}}, nil
}
