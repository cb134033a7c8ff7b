package matmul

import (
	"fmt"

	"github.com/katalvlaran/tengraph/matmul/kernel"
	"github.com/katalvlaran/tengraph/tensor"
)

// Smmm is the plain-float dispatch family: f32/f64 operands and output, no
// requantization. It is the kernel used by the default, non-quantized
// evaluation path.
func Smmm(dtype tensor.DatumType) (Kernel[float64, float64, float64, float64], error) {
	switch dtype {
	case tensor.F32, tensor.F64:
		return kernel.Float[float64]{}, nil
	default:
		return nil, fmt.Errorf("%w: Smmm does not cover %s", ErrNoKernel, dtype)
	}
}

// QmmmI8I32 is the quantized dispatch family for signed 8-bit operands with
// a signed 8-bit output, accumulated and requantized through int32.
func QmmmI8I32() Kernel[int8, int8, int8, int32] {
	return &kernel.Quant8[int8, int8, int8]{}
}

// QmmmI8I8 is the quantized dispatch family for signed 8-bit operands and
// output with the accumulator width folded into requantization directly
// (the sibling arm spec.md flagged as a duplicate of QmmmI8I32 collapses
// into this single i8,i8 entry; see DESIGN.md).
func QmmmI8I8() Kernel[int8, int8, int8, int32] {
	return &kernel.Quant8[int8, int8, int8]{}
}

// QmmmU8I32 is the quantized dispatch family for unsigned 8-bit operands
// with a signed 8-bit output, accumulated through int32.
func QmmmU8I32() Kernel[uint8, uint8, int8, int32] {
	return &kernel.Quant8[uint8, uint8, int8]{}
}

// QmmmU8U8 is the quantized dispatch family for unsigned 8-bit operands and
// output, accumulated through int32.
func QmmmU8U8() Kernel[uint8, uint8, uint8, int32] {
	return &kernel.Quant8[uint8, uint8, uint8]{}
}

// Dispatch names the kernel family that covers the given operand/output
// datum types, returning ErrNoKernel if none does (spec.md §7 kind 2).
// Callers use the name to pick which family constructor (Smmm, QmmmI8I8,
// ...) to call, since each returns a differently-instantiated Kernel. The
// accumulator is always int32, so for u8 operands a cType of I8 or I32 both
// name QmmmU8I32; for i8 operands I8 names QmmmI8I8 and I32 names QmmmI8I32,
// which return the same kernel.
func Dispatch(aType, bType, cType tensor.DatumType) (string, error) {
	switch {
	case aType.IsFloat() && bType.IsFloat() && cType.IsFloat():
		return "Smmm", nil
	case aType == tensor.I8 && bType == tensor.I8 && cType == tensor.I8:
		return "QmmmI8I8", nil
	case aType == tensor.I8 && bType == tensor.I8 && cType == tensor.I32:
		return "QmmmI8I32", nil
	case aType == tensor.U8 && bType == tensor.U8 && cType == tensor.I8:
		return "QmmmU8I32", nil
	case aType == tensor.U8 && bType == tensor.U8 && cType == tensor.I32:
		return "QmmmU8I32", nil
	case aType == tensor.U8 && bType == tensor.U8 && cType == tensor.U8:
		return "QmmmU8U8", nil
	default:
		return "", fmt.Errorf("%w: a=%s b=%s c=%s", ErrNoKernel, aType, bType, cType)
	}
}
