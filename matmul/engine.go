package matmul

import (
	"fmt"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/matmul/kernel"
	"github.com/katalvlaran/tengraph/tensor"
)

// EvalBatched runs the shape contract and then a plain float64
// multiply-accumulate over every batch slice selected by the broadcast
// prefix (spec.md §4.4's eval_t): each prefix index is mapped back to its
// per-operand slice by replicating any axis the operand broadcasts over.
// This is the reference evaluation path used directly by graph operators;
// it deliberately bypasses the packed Kernel contract (see DESIGN.md) so
// that broadcasting correctness does not depend on any one kernel family.
func EvalBatched(a, b *tensor.Tensor, f Flags) (*tensor.Tensor, error) {
	sr, err := InferShapes(a.Shape(), b.Shape(), f)
	if err != nil {
		return nil, err
	}
	if sr.ImplicitM || sr.ImplicitN {
		return nil, fmt.Errorf("%w: EvalBatched does not evaluate rank<2 operands", ErrRankMismatch)
	}

	mC, ok := sr.M.IsConst()
	if !ok {
		return nil, fmt.Errorf("%w: m is symbolic", ErrBadTileSize)
	}
	kC, ok := sr.K.IsConst()
	if !ok {
		return nil, fmt.Errorf("%w: k is symbolic", ErrBadTileSize)
	}
	nC, ok := sr.N.IsConst()
	if !ok {
		return nil, fmt.Errorf("%w: n is symbolic", ErrBadTileSize)
	}
	m, k, n := int(mC), int(kC), int(nC)
	if m <= 0 || k <= 0 || n <= 0 {
		return nil, ErrBadTileSize
	}

	broadcastDims, err := sr.BroadcastC.Eval(nil)
	if err != nil {
		return nil, err
	}
	prefix := broadcastDims[:len(broadcastDims)-2]
	batches := product(prefix)

	aShapeDims, err := paddedDims(a.Shape(), len(broadcastDims))
	if err != nil {
		return nil, err
	}
	bShapeDims, err := paddedDims(b.Shape(), len(broadcastDims))
	if err != nil {
		return nil, err
	}

	aSliceLen := m * k
	bSliceLen := k * n
	cSliceLen := m * n
	out := make([]float64, batches*cSliceLen)

	idx := make([]int, len(prefix))
	for batch := 0; batch < batches; batch++ {
		aBase := batchOffset(idx, aShapeDims[:len(prefix)]) * aSliceLen
		bBase := batchOffset(idx, bShapeDims[:len(prefix)]) * bSliceLen
		aSlice := a.Data()[aBase : aBase+aSliceLen]
		bSlice := b.Data()[bBase : bBase+bSliceLen]
		cSlice := out[batch*cSliceLen : (batch+1)*cSliceLen]
		multiplySlice(aSlice, bSlice, cSlice, m, k, n, f)
		incrementIndex(idx, prefix)
	}

	broadcastShape := dim.NewShape(constDims(broadcastDims)...)

	return tensor.New(a.DatumType(), broadcastShape, out)
}

// VectorEligible reports whether sr's shape describes the n == 1
// matrix-vector case the packed VectorKernel fast path covers (spec.md
// §4.4 c_vec_from_data_and_stride, §8 scenario 6): no implicit axis was
// inserted and n resolves to the constant 1. Operands that needed an
// implicit axis are evaluated by neither EvalUnaryVector nor EvalBatched.
func (sr ShapeResult) VectorEligible() bool {
	if sr.ImplicitM || sr.ImplicitN {
		return false
	}
	nC, ok := sr.N.IsConst()

	return ok && nC == 1
}

// EvalUnaryVector evaluates a matmul via the packed VectorKernel fast path
// instead of the plain nested-loop reference kernel, for the n == 1 case a
// codegen'd MatMulUnary node is in (spec.md §4.4, §8 scenario 6): each
// batch's A slice is packed through kernel.Float's APack and then reduced
// with CVecFromDataAndStride, skipping B-packing entirely since a length-1
// column needs no tiling. Callers must already know sr.VectorEligible()
// holds; InferShapes is re-run here only to recover sr's derived dims.
func EvalUnaryVector(a, b *tensor.Tensor, f Flags) (*tensor.Tensor, error) {
	sr, err := InferShapes(a.Shape(), b.Shape(), f)
	if err != nil {
		return nil, err
	}
	if !sr.VectorEligible() {
		return nil, fmt.Errorf("%w: EvalUnaryVector requires n == 1 with no implicit axis", ErrVectorModeRequiresN1)
	}

	mC, ok := sr.M.IsConst()
	if !ok {
		return nil, fmt.Errorf("%w: m is symbolic", ErrBadTileSize)
	}
	kC, ok := sr.K.IsConst()
	if !ok {
		return nil, fmt.Errorf("%w: k is symbolic", ErrBadTileSize)
	}
	m, k := int(mC), int(kC)
	if m <= 0 || k <= 0 {
		return nil, ErrBadTileSize
	}

	broadcastDims, err := sr.BroadcastC.Eval(nil)
	if err != nil {
		return nil, err
	}
	prefix := broadcastDims[:len(broadcastDims)-2]
	batches := product(prefix)

	aShapeDims, err := paddedDims(a.Shape(), len(broadcastDims))
	if err != nil {
		return nil, err
	}
	bShapeDims, err := paddedDims(b.Shape(), len(broadcastDims))
	if err != nil {
		return nil, err
	}

	aSliceLen := m * k
	out := make([]float64, batches*m)

	kern := kernel.Float[float64]{}
	idx := make([]int, len(prefix))
	for batch := 0; batch < batches; batch++ {
		aBase := batchOffset(idx, aShapeDims[:len(prefix)]) * aSliceLen
		bBase := batchOffset(idx, bShapeDims[:len(prefix)]) * k
		aSlice := orientRowMajor(a.Data()[aBase:aBase+aSliceLen], m, k, f.ATranspose)
		bSlice := b.Data()[bBase : bBase+k]
		cSlice := out[batch*m : (batch+1)*m]

		packedA := kern.APack(aSlice, m, k, k)
		if err := kern.CVecFromDataAndStride(packedA, bSlice, cSlice, m, k); err != nil {
			return nil, err
		}
		incrementIndex(idx, prefix)
	}

	broadcastShape := dim.NewShape(constDims(broadcastDims)...)

	return tensor.New(a.DatumType(), broadcastShape, out)
}

// orientRowMajor returns data reoriented to untransposed row-major (m,k)
// layout, matching elemAt's transposed-read convention below — the vector
// kernel path needs a materialized row-major A since Kernel.APack only
// understands row stride, not logical transpose.
func orientRowMajor(data []float64, m, k int, transposed bool) []float64 {
	if !transposed {
		return data
	}
	out := make([]float64, m*k)
	for i := 0; i < m; i++ {
		for p := 0; p < k; p++ {
			out[i*k+p] = data[p*m+i]
		}
	}

	return out
}

func multiplySlice(a, b, c []float64, m, k, n int, f Flags) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var acc float64
			for p := 0; p < k; p++ {
				av := elemAt(a, i, p, m, k, f.ATranspose)
				bv := elemAt(b, p, j, k, n, f.BTranspose)
				acc += av * bv
			}
			if f.CTranspose {
				c[j*m+i] = acc
			} else {
				c[i*n+j] = acc
			}
		}
	}
}

// elemAt reads element (row, col) of a rows*cols row-major matrix, honoring
// a logical transpose without materializing the transposed layout.
func elemAt(data []float64, row, col, rows, cols int, transposed bool) float64 {
	if transposed {
		return data[col*rows+row]
	}

	return data[row*cols+col]
}

func product(dims []int64) int {
	p := 1
	for _, d := range dims {
		p *= int(d)
	}

	return p
}

func constDims(dims []int64) []dim.Dim {
	out := make([]dim.Dim, len(dims))
	for i, d := range dims {
		out[i] = dim.Const(d)
	}

	return out
}

// paddedDims evaluates shape's dims and left-pads with 1s to targetRank,
// matching the contract's left-padding of the shorter operand.
func paddedDims(shape dim.Shape, targetRank int) ([]int64, error) {
	dims, err := shape.Eval(nil)
	if err != nil {
		return nil, err
	}
	if len(dims) >= targetRank {
		return dims, nil
	}
	padded := make([]int64, targetRank)
	for i := 0; i < targetRank-len(dims); i++ {
		padded[i] = 1
	}
	copy(padded[targetRank-len(dims):], dims)

	return padded, nil
}

// batchOffset computes the flat batch index into an operand's own prefix,
// replicating (index 0) along any axis where the operand's prefix dim is 1
// but the broadcast prefix dim is larger.
func batchOffset(idx []int, operandPrefix []int64) int {
	offset := 0
	for axis, dSize := range operandPrefix {
		use := idx[axis]
		if dSize == 1 {
			use = 0
		}
		offset = offset*int(dSize) + use
	}

	return offset
}

func incrementIndex(idx []int, prefix []int64) {
	for axis := len(idx) - 1; axis >= 0; axis-- {
		idx[axis]++
		if idx[axis] < int(prefix[axis]) {
			return
		}
		idx[axis] = 0
	}
}
