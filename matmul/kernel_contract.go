package matmul

import "github.com/katalvlaran/tengraph/matmul/quantparams"

// Kernel is the packed tile contract a concrete kernel family implements
// (spec.md §4.4): pack the two operands into whatever micro-tile layout the
// family wants, run the tiled multiply-accumulate, and materialize C from
// the accumulator's backing storage and strides.
//
// TA and TB are the packed-operand element types, TC is the output element
// type, and TI is the internal accumulator type (e.g. int32 for quantized
// kernels, float32/float64 for plain ones).
type Kernel[TA, TB, TC, TI any] interface {
	// APack packs a's m*k elements (row-major, stride rowStrideA) into the
	// kernel's preferred micro-tile layout.
	APack(a []TA, m, k int, rowStrideA int) []TA

	// BPack packs b's k*n elements (row-major, stride rowStrideB) into the
	// kernel's preferred micro-tile layout.
	BPack(b []TB, k, n int, rowStrideB int) []TB

	// CFromDataAndStrides runs the packed multiply-accumulate and writes
	// the m*n result into c, whose backing storage uses rowStrideC between
	// rows.
	CFromDataAndStrides(packedA []TA, packedB []TB, c []TC, m, n, k int, rowStrideC int) error

	// SetQuantParams installs requantization parameters; a no-op for
	// non-quantized kernels.
	SetQuantParams(q quantparams.Params)
}

// VectorKernel is an optional extension a Kernel family implements to offer
// a matrix-vector fast path (n == 1, spec.md §4.4 c_vec_from_data_and_stride).
type VectorKernel[TA, TB, TC, TI any] interface {
	Kernel[TA, TB, TC, TI]

	// CVecFromDataAndStride is CFromDataAndStrides specialized to n == 1;
	// implementations may use this to skip b-packing entirely.
	CVecFromDataAndStride(packedA []TA, b []TB, c []TC, m, k int) error
}
