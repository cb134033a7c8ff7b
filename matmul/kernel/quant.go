package kernel

import "github.com/katalvlaran/tengraph/matmul/quantparams"

// Quant8 is the reference quantized Kernel: 8-bit packed operands (signed
// via TA/TB ~int8 or unsigned via ~uint8), an int32 accumulator, and
// optional per-channel requantization back down to an 8-bit output
// (spec.md §4.4, the Qmmm* dispatch families).
type Quant8[TA, TB ~int8 | ~uint8, TC ~int8 | ~uint8] struct {
	params quantparams.Params
}

// APack is a straight copy; the reference kernel does not rearrange tiles.
func (k *Quant8[TA, TB, TC]) APack(a []TA, m, k2 int, rowStrideA int) []TA {
	return copyRows(a, m, k2, rowStrideA)
}

// BPack is a straight copy; the reference kernel does not rearrange tiles.
func (k *Quant8[TA, TB, TC]) BPack(b []TB, k2, n int, rowStrideB int) []TB {
	return copyRows(b, k2, n, rowStrideB)
}

// SetQuantParams installs the zero-points and requantization multipliers
// applied when writing the int32 accumulator down to the 8-bit output.
func (k *Quant8[TA, TB, TC]) SetQuantParams(q quantparams.Params) {
	k.params = q
}

// CFromDataAndStrides computes the int32-accumulated product of the
// zero-point-adjusted operands, then requantizes each element of C down to
// TC via the installed QuantParams.
func (k *Quant8[TA, TB, TC]) CFromDataAndStrides(packedA []TA, packedB []TB, c []TC, m, n, kdim int, rowStrideC int) error {
	if m <= 0 || n <= 0 || kdim <= 0 {
		return ErrBadDims
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var acc int32
			for p := 0; p < kdim; p++ {
				av := int32(packedA[i*kdim+p]) - k.params.ZeroPointA
				bv := int32(packedB[p*n+j]) - k.params.ZeroPointB
				acc += av * bv
			}
			c[i*rowStrideC+j] = TC(k.params.Requantize(acc, j))
		}
	}

	return nil
}

// CVecFromDataAndStride is the n==1 fast path for the quantized kernel.
func (k *Quant8[TA, TB, TC]) CVecFromDataAndStride(packedA []TA, b []TB, c []TC, m, kdim int) error {
	if m <= 0 || kdim <= 0 {
		return ErrBadDims
	}
	for i := 0; i < m; i++ {
		var acc int32
		for p := 0; p < kdim; p++ {
			av := int32(packedA[i*kdim+p]) - k.params.ZeroPointA
			bv := int32(b[p]) - k.params.ZeroPointB
			acc += av * bv
		}
		c[i] = TC(k.params.Requantize(acc, 0))
	}

	return nil
}
