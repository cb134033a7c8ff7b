package matmul

import "github.com/katalvlaran/tengraph/tensor"

// Packed holds a pre-packed constant operand: its flattened data plus the
// (rows, cols, rowStride) the packing was computed for. MatMulUnary stores
// one next to its constant B; EvalBatched and EvalUnaryVector read B's
// tensor data directly and do not consult Packed.
type Packed struct {
	Data      []float64
	Rows      int
	Cols      int
	RowStride int
}

// PackConstant pre-packs t's data for use as the fixed operand of a
// MatMulUnary node. t must already be known (a graph constant); the packing
// here is the identity layout (straight copy with the trailing two dims as
// rows/cols) since the reference Kernel family packs the same way — callers
// targeting a tiling-aware Kernel family re-pack via that family's own
// APack/BPack before dispatch.
func PackConstant(t *tensor.Tensor) (Packed, error) {
	dims, err := t.Shape().Eval(nil)
	if err != nil {
		return Packed{}, err
	}
	if len(dims) < 2 {
		return Packed{}, ErrRankMismatch
	}
	rows := int(dims[len(dims)-2])
	cols := int(dims[len(dims)-1])

	data := make([]float64, len(t.Data()))
	copy(data, t.Data())

	return Packed{Data: data, Rows: rows, Cols: cols, RowStride: cols}, nil
}
