// Package kernel provides reference implementations of the matmul.Kernel
// contract: a plain float micro-kernel used by the Smmm dispatch family, and
// quantized int8/uint8 micro-kernels with an int32 accumulator used by the
// Qmmm* families (spec.md §4.4).
package kernel

import "github.com/katalvlaran/tengraph/matmul/quantparams"

// Float is the reference plain-float Kernel: no packing beyond a straight
// copy, row-major tiled multiply-accumulate, no quantization.
type Float[T ~float32 | ~float64] struct{}

// APack is a straight copy; the reference kernel does not rearrange tiles.
func (Float[T]) APack(a []T, m, k int, rowStrideA int) []T {
	return copyRows(a, m, k, rowStrideA)
}

// BPack is a straight copy; the reference kernel does not rearrange tiles.
func (Float[T]) BPack(b []T, k, n int, rowStrideB int) []T {
	return copyRows(b, k, n, rowStrideB)
}

// CFromDataAndStrides computes C = A*B with A (m,k) and B (k,n) both
// row-major and tightly packed (as produced by APack/BPack above).
func (Float[T]) CFromDataAndStrides(packedA, packedB []T, c []T, m, n, k int, rowStrideC int) error {
	if m <= 0 || n <= 0 || k <= 0 {
		return ErrBadDims
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var acc T
			for p := 0; p < k; p++ {
				acc += packedA[i*k+p] * packedB[p*n+j]
			}
			c[i*rowStrideC+j] = acc
		}
	}

	return nil
}

// CVecFromDataAndStride is the n==1 fast path: C is a length-m column, so
// the inner loop skips the j index entirely.
func (Float[T]) CVecFromDataAndStride(packedA []T, b []T, c []T, m, k int) error {
	if m <= 0 || k <= 0 {
		return ErrBadDims
	}
	for i := 0; i < m; i++ {
		var acc T
		for p := 0; p < k; p++ {
			acc += packedA[i*k+p] * b[p]
		}
		c[i] = acc
	}

	return nil
}

// SetQuantParams is a no-op: the plain float kernel never requantizes.
func (Float[T]) SetQuantParams(_ quantparams.Params) {}

func copyRows[T any](src []T, rows, cols, rowStride int) []T {
	out := make([]T, rows*cols)
	for r := 0; r < rows; r++ {
		copy(out[r*cols:(r+1)*cols], src[r*rowStride:r*rowStride+cols])
	}

	return out
}
